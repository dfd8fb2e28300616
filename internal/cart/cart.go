package cart

import "github.com/arushkumarsingh/mellow/internal/catalog"

// Line ties one product to a quantity. The product is a snapshot taken at
// first add: later catalog edits (or repeated adds) do not refresh it.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart is an ordered collection of lines, at most one per product ID.
// Display order is first-add order and survives quantity edits. All
// mutation goes through the methods below; totals are derived on demand,
// never stored.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add merges on product ID: an existing line gains quantity 1, otherwise a
// new line with quantity 1 is appended. Add never fails.
func (c *Cart) Add(p catalog.Product) {
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

// Remove deletes the line for productID. Removing an absent product is a
// no-op so rapid double-clicks in the UI never surface an error.
func (c *Cart) Remove(productID string) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the quantity of an existing line. A quantity of zero
// or less removes the line. Unknown product IDs are dropped silently; a
// quantity change never creates a line.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Subtotal is the sum of price x quantity over all lines, in the smallest
// currency unit.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, ln := range c.lines {
		total += ln.Product.Price * int64(ln.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, ln := range c.lines {
		count += ln.Quantity
	}
	return count
}

// TotalSavings is the sum of (originalPrice - price) x quantity.
func (c *Cart) TotalSavings() int64 {
	var savings int64
	for _, ln := range c.lines {
		savings += ln.Product.Savings() * int64(ln.Quantity)
	}
	return savings
}

// Lines returns a copy for display; callers cannot mutate cart state.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}
