package domain

import "github.com/shopspring/decimal"

// TaxRatePercent is the fixed sales tax applied to every order.
const TaxRatePercent = 8

// TaxRate is TaxRatePercent as a multiplier (0.08).
var TaxRate = decimal.New(TaxRatePercent, -2)

// CartLine is one menu item with its quantity. Quantity is always >= 1 while the line exists.
type CartLine struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// LineTotal is price × quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps at most one line per item id, in the order items were first added.
// Totals are derived from the lines on every call. A Cart is not safe for
// concurrent use; callers serialise access per page session.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem increments the quantity of an existing line or appends a new line with quantity 1.
func (c *Cart) AddItem(item MenuItem) {
	if idx := c.indexOf(item.ID); idx >= 0 {
		c.lines[idx].Quantity++
		return
	}
	c.lines = append(c.lines, CartLine{Item: item, Quantity: 1})
}

// UpdateQuantity adds delta to the line for itemID, removing the line when the
// result drops to zero or below. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(itemID, delta int) {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return
	}
	next := c.lines[idx].Quantity + delta
	if next <= 0 {
		c.removeAt(idx)
		return
	}
	c.lines[idx].Quantity = next
}

// RemoveItem drops the line for itemID if present.
func (c *Cart) RemoveItem(itemID int) {
	if idx := c.indexOf(itemID); idx >= 0 {
		c.removeAt(idx)
	}
}

// Clone returns an independent cart holding the same lines.
func (c *Cart) Clone() *Cart {
	return &Cart{lines: c.Lines()}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Quantity returns the quantity for itemID, 0 when it is not in the cart.
func (c *Cart) Quantity(itemID int) int {
	if idx := c.indexOf(itemID); idx >= 0 {
		return c.lines[idx].Quantity
	}
	return 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c.lines {
		sum = sum.Add(line.LineTotal())
	}
	return sum
}

func (c *Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(TaxRate)
}

func (c *Cart) Total() decimal.Decimal {
	subtotal := c.Subtotal()
	return subtotal.Add(subtotal.Mul(TaxRate))
}

func (c *Cart) TotalItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Totals is a point-in-time projection of the cart's derived amounts.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

func (c *Cart) Totals() Totals {
	return Totals{
		Subtotal:  c.Subtotal(),
		Tax:       c.Tax(),
		Total:     c.Total(),
		ItemCount: c.TotalItemCount(),
	}
}

func (c *Cart) indexOf(itemID int) int {
	for i, line := range c.lines {
		if line.Item.ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
}
