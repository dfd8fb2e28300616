package checkout

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	mobilePattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	nonDigit       = regexp.MustCompile(`\D`)
)

// Normalize coerces raw input before validation. Mobile and pincode are
// digit-only with hard length caps; everything else passes through
// untouched. The UI applies this on each keystroke and writes the result
// back into the field.
func Normalize(field, raw string) string {
	switch field {
	case FieldMobile:
		return truncate(nonDigit.ReplaceAllString(raw, ""), 10)
	case FieldPincode:
		return truncate(nonDigit.ReplaceAllString(raw, ""), 6)
	default:
		return raw
	}
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// Validate maps a field and its (normalized) value to an error message,
// empty when the value passes. Unknown fields are treated as valid.
func Validate(field, value string) string {
	switch field {
	case FieldName:
		return validateLabelled(value, "Name")
	case FieldMobile:
		return validateMobile(value)
	case FieldAddress:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return "Address is required"
		}
		if len([]rune(trimmed)) < 10 {
			return "Address must be at least 10 characters"
		}
		return ""
	case FieldCity:
		return validateLabelled(value, "City")
	case FieldPincode:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return "Pincode is required"
		}
		if !pincodePattern.MatchString(trimmed) {
			return "Pincode must be exactly 6 digits"
		}
		return ""
	case FieldState:
		return validateLabelled(value, "State")
	case FieldGender:
		if value == "" {
			return "Please select a gender"
		}
		for _, g := range AllowedGenders {
			if value == g {
				return ""
			}
		}
		return "Please select a gender"
	default:
		return ""
	}
}

// validateLabelled covers the name/city/state shape: required, at least two
// characters after trimming, and no digit characters.
func validateLabelled(value, label string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return label + " is required"
	}
	if len([]rune(trimmed)) < 2 {
		return label + " must be at least 2 characters"
	}
	for _, r := range trimmed {
		if unicode.IsDigit(r) {
			return label + " cannot contain numbers"
		}
	}
	return ""
}

func validateMobile(value string) string {
	if value == "" {
		return "Mobile number is required"
	}
	cleaned := nonDigit.ReplaceAllString(value, "")
	if len(cleaned) != 10 {
		return "Mobile number must be 10 digits"
	}
	if !mobilePattern.MatchString(cleaned) {
		return "Mobile number must start with 6-9"
	}
	return ""
}
