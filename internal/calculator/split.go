// Package calculator derives per-member totals from a room's ledger.
// It is pure: no stored state, no side effects, safe to call repeatedly
// or concurrently, and calling it twice on the same input yields
// bit-identical results.
package calculator

import (
	"tabsplit/internal/money"
)

// Item is the calculator's view of a ledger item. The service layer
// converts from models.Item; the price arrives as the raw edit text and is
// re-parsed here so an in-progress edit can never break the arithmetic.
type Item struct {
	ID        string
	Name      string
	Price     string
	Quantity  int
	Assignees []string
}

// Result is the computed split for one room state.
type Result struct {
	// MemberTotals holds one entry per current member, zero included.
	MemberTotals map[string]float64

	// GrandTotal is the sum of all item subtotals, independent of
	// assignment state.
	GrandTotal float64

	// Unallocated sums the subtotals of items with no assignees. It is
	// the exact gap between GrandTotal and the member totals.
	Unallocated float64
}

// MemberItem is one drill-down row: an item assigned to a member together
// with that member's share of its cost.
type MemberItem struct {
	ItemID         string
	Name           string
	Quantity       int
	UnitPrice      float64
	ShareCount     int
	PerPersonShare float64
}

// Subtotal is the item's full cost: parsed unit price times quantity.
// Unparsable prices count as zero.
func (it Item) Subtotal() float64 {
	return money.ParsePrice(it.Price) * float64(money.ClampQuantity(it.Quantity))
}

// CalculateSplit computes every member's share and the grand total.
//
// Each item's subtotal is divided evenly among its assignees (plain
// floating-point division, no remainder redistribution). Items with no
// assignees contribute to the grand total only. Assignee names not in the
// member list (the removal cascade prevents this at rest) are skipped,
// though they still dilute the per-person share like any other assignee.
func CalculateSplit(members []string, items []Item) *Result {
	result := &Result{
		MemberTotals: make(map[string]float64, len(members)),
	}
	for _, m := range members {
		result.MemberTotals[m] = 0
	}

	for _, item := range items {
		subtotal := item.Subtotal()
		result.GrandTotal += subtotal

		if len(item.Assignees) == 0 {
			result.Unallocated += subtotal
			continue
		}

		perPerson := subtotal / float64(len(item.Assignees))
		for _, name := range item.Assignees {
			if _, ok := result.MemberTotals[name]; ok {
				result.MemberTotals[name] += perPerson
			}
		}
	}

	return result
}

// ItemsFor returns the drill-down rows for one member: every item they are
// assigned to, with the per-person share recomputed from the live ledger.
// A read-only projection, never an independent source of truth.
func ItemsFor(member string, items []Item) []MemberItem {
	var rows []MemberItem
	for _, item := range items {
		shares := len(item.Assignees)
		if shares == 0 || !contains(item.Assignees, member) {
			continue
		}
		rows = append(rows, MemberItem{
			ItemID:         item.ID,
			Name:           item.Name,
			Quantity:       money.ClampQuantity(item.Quantity),
			UnitPrice:      money.ParsePrice(item.Price),
			ShareCount:     shares,
			PerPersonShare: item.Subtotal() / float64(shares),
		})
	}
	return rows
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
