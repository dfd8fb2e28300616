package catalog

// Product is an immutable catalog entry. Prices are integers in the
// smallest currency unit so totals never accumulate rounding drift.
// Discount is the advertised percentage; it is display data and is not
// re-derived from the two prices.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"originalPrice"`
	Discount      int      `json:"discount"`
	Images        []string `json:"images"`
	Color         string   `json:"color"`
}

// Savings is the advertised per-unit saving against the original price.
func (p Product) Savings() int64 {
	return p.OriginalPrice - p.Price
}
