package checkout

// Field names double as JSON keys on the wire and as keys in the error map.
const (
	FieldName    = "name"
	FieldMobile  = "mobile"
	FieldAddress = "address"
	FieldCity    = "city"
	FieldPincode = "pincode"
	FieldState   = "state"
	FieldGender  = "gender"
)

// RequiredFields lists every field a submittable draft must pass, in
// display order.
var RequiredFields = []string{
	FieldName,
	FieldMobile,
	FieldAddress,
	FieldCity,
	FieldPincode,
	FieldState,
	FieldGender,
}

// AllowedGenders is the enumerated set the gender selector offers.
var AllowedGenders = []string{"male", "female", "other"}

// Draft is the in-progress, not-yet-submitted order form. Values hold the
// normalized field inputs; Errors maps field name to the current validation
// message, empty string meaning valid. The draft lives from the moment
// checkout begins until it is cancelled, abandoned, or the order succeeds.
type Draft struct {
	Values map[string]string `json:"values"`
	Errors map[string]string `json:"errors"`
}

func NewDraft() *Draft {
	return &Draft{
		Values: make(map[string]string, len(RequiredFields)),
		Errors: make(map[string]string, len(RequiredFields)),
	}
}

// SetField normalizes the raw input, stores it, and records the field's
// validation result. It returns the normalized value (the UI reflects it
// back into the input) and the error message, empty when valid. This runs
// on every change event, not only at submit time.
func (d *Draft) SetField(field, raw string) (string, string) {
	value := Normalize(field, raw)
	d.Values[field] = value

	msg := Validate(field, value)
	d.Errors[field] = msg
	return value, msg
}

// ValidateAll re-runs validation over every required field and reports
// whether the draft is submittable. Individual messages stay in Errors so
// the form can surface them per field.
func (d *Draft) ValidateAll() bool {
	ok := true
	for _, field := range RequiredFields {
		msg := Validate(field, d.Values[field])
		d.Errors[field] = msg
		if msg != "" {
			ok = false
		}
	}
	return ok
}

// MergeRemoteErrors folds gateway field errors into the draft. Remote
// messages land on their field; the absence of a remote error never clears
// a local one.
func (d *Draft) MergeRemoteErrors(remote map[string]string) {
	for field, msg := range remote {
		if msg == "" {
			continue
		}
		d.Errors[field] = msg
	}
}

// FieldErrors returns the non-empty messages keyed by field.
func (d *Draft) FieldErrors() map[string]string {
	out := make(map[string]string)
	for field, msg := range d.Errors {
		if msg != "" {
			out[field] = msg
		}
	}
	return out
}
