package models

// Split is the calculated cost breakdown for a room: one total per current
// member plus the receipt's grand total. Output of the calculator package,
// derived on demand and never stored.
type Split struct {
	// MemberTotals maps every current member name to their share of the
	// receipt. Members with no assigned items appear with total 0.
	MemberTotals map[string]float64

	// GrandTotal is the sum of every item's subtotal, independent of
	// assignment state. Items nobody claimed still count here.
	GrandTotal float64

	// Unallocated is the portion of GrandTotal not covered by any member:
	// the summed subtotals of items with an empty assignee set.
	Unallocated float64
}

// MemberItem is one row of the per-member drill-down view: an item assigned
// to the member together with that member's share of it.
type MemberItem struct {
	ItemID         string
	Name           string
	Quantity       int
	UnitPrice      float64
	ShareCount     int
	PerPersonShare float64
}
