package calculator

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestCalculateSplit(t *testing.T) {
	tests := []struct {
		name         string
		members      []string
		items        []Item
		validateFunc func(t *testing.T, result *Result)
	}{
		{
			name:    "even split across two assignees",
			members: []string{"A", "B"},
			items: []Item{
				{ID: "i1", Name: "Wine", Price: "9.89", Quantity: 3, Assignees: []string{"A", "B"}},
			},
			validateFunc: func(t *testing.T, result *Result) {
				// subtotal = 9.89 * 3 = 29.67, each share 14.835
				if math.Abs(result.GrandTotal-29.67) > 0.01 {
					t.Errorf("grand total = %v, want 29.67", result.GrandTotal)
				}
				for _, m := range []string{"A", "B"} {
					if math.Abs(result.MemberTotals[m]-14.835) > 0.01 {
						t.Errorf("%s total = %v, want 14.835", m, result.MemberTotals[m])
					}
				}
			},
		},
		{
			name:    "unassigned item counts toward grand total only",
			members: []string{"A", "B"},
			items: []Item{
				{ID: "i1", Name: "Bread", Price: "5.29", Quantity: 1},
			},
			validateFunc: func(t *testing.T, result *Result) {
				if math.Abs(result.GrandTotal-5.29) > tolerance {
					t.Errorf("grand total = %v, want 5.29", result.GrandTotal)
				}
				if math.Abs(result.Unallocated-5.29) > tolerance {
					t.Errorf("unallocated = %v, want 5.29", result.Unallocated)
				}
				for _, m := range []string{"A", "B"} {
					if result.MemberTotals[m] != 0 {
						t.Errorf("%s total = %v, want 0", m, result.MemberTotals[m])
					}
				}
			},
		},
		{
			name:    "members with no items still appear with zero",
			members: []string{"A", "B", "C"},
			items: []Item{
				{ID: "i1", Name: "Coffee", Price: "4.00", Quantity: 1, Assignees: []string{"A"}},
			},
			validateFunc: func(t *testing.T, result *Result) {
				if len(result.MemberTotals) != 3 {
					t.Fatalf("expected 3 member entries, got %d", len(result.MemberTotals))
				}
				for _, m := range []string{"B", "C"} {
					total, ok := result.MemberTotals[m]
					if !ok {
						t.Errorf("member %s missing from totals", m)
					}
					if total != 0 {
						t.Errorf("%s total = %v, want 0", m, total)
					}
				}
			},
		},
		{
			name:    "unparsable price counts as zero",
			members: []string{"A"},
			items: []Item{
				{ID: "i1", Name: "Mystery", Price: "abc", Quantity: 2, Assignees: []string{"A"}},
				{ID: "i2", Name: "Soup", Price: "3.00", Quantity: 1, Assignees: []string{"A"}},
			},
			validateFunc: func(t *testing.T, result *Result) {
				if math.Abs(result.GrandTotal-3.00) > tolerance {
					t.Errorf("grand total = %v, want 3.00", result.GrandTotal)
				}
				if math.Abs(result.MemberTotals["A"]-3.00) > tolerance {
					t.Errorf("A total = %v, want 3.00", result.MemberTotals["A"])
				}
			},
		},
		{
			name:    "two member scenario",
			members: []string{"Alex", "Sam"},
			items: []Item{
				{ID: "i1", Name: "Noodles", Price: "2.39", Quantity: 2, Assignees: []string{"Alex"}},
				{ID: "i2", Name: "Dumplings", Price: "3.99", Quantity: 1, Assignees: []string{"Alex", "Sam"}},
			},
			validateFunc: func(t *testing.T, result *Result) {
				// Alex: 2.39*2 + 3.99/2 = 4.78 + 1.995 = 6.775
				// Sam: 3.99/2 = 1.995
				// Grand: 8.77
				if math.Abs(result.MemberTotals["Alex"]-6.775) > 0.01 {
					t.Errorf("Alex total = %v, want 6.775", result.MemberTotals["Alex"])
				}
				if math.Abs(result.MemberTotals["Sam"]-1.995) > 0.01 {
					t.Errorf("Sam total = %v, want 1.995", result.MemberTotals["Sam"])
				}
				if math.Abs(result.GrandTotal-8.77) > 0.01 {
					t.Errorf("grand total = %v, want 8.77", result.GrandTotal)
				}
			},
		},
		{
			name:    "empty ledger yields zero everything",
			members: []string{"A", "B"},
			items:   nil,
			validateFunc: func(t *testing.T, result *Result) {
				if result.GrandTotal != 0 || result.Unallocated != 0 {
					t.Errorf("expected zero totals, got grand=%v unallocated=%v",
						result.GrandTotal, result.Unallocated)
				}
				if len(result.MemberTotals) != 2 {
					t.Errorf("expected 2 member entries, got %d", len(result.MemberTotals))
				}
			},
		},
		{
			name:    "stale assignee dilutes the share but receives nothing",
			members: []string{"A"},
			items: []Item{
				{ID: "i1", Name: "Cake", Price: "10.00", Quantity: 1, Assignees: []string{"A", "Ghost"}},
			},
			validateFunc: func(t *testing.T, result *Result) {
				if math.Abs(result.MemberTotals["A"]-5.00) > tolerance {
					t.Errorf("A total = %v, want 5.00", result.MemberTotals["A"])
				}
				if _, ok := result.MemberTotals["Ghost"]; ok {
					t.Error("non-member should not appear in totals")
				}
				if math.Abs(result.GrandTotal-10.00) > tolerance {
					t.Errorf("grand total = %v, want 10.00", result.GrandTotal)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateSplit(tt.members, tt.items)
			tt.validateFunc(t, result)
		})
	}
}

// Conservation: member totals must account for exactly the allocated part
// of the grand total.
func TestCalculateSplit_Conservation(t *testing.T) {
	members := []string{"A", "B", "C"}
	items := []Item{
		{ID: "i1", Price: "9.89", Quantity: 3, Assignees: []string{"A", "B"}},
		{ID: "i2", Price: "5.29", Quantity: 1},
		{ID: "i3", Price: "2.39", Quantity: 2, Assignees: []string{"C"}},
		{ID: "i4", Price: "abc", Quantity: 4, Assignees: []string{"A", "B", "C"}},
		{ID: "i5", Price: "0.01", Quantity: 7, Assignees: []string{"A", "B", "C"}},
	}

	result := CalculateSplit(members, items)

	var grand float64
	for _, it := range items {
		grand += it.Subtotal()
	}
	if math.Abs(result.GrandTotal-grand) > tolerance {
		t.Errorf("grand total = %v, want %v", result.GrandTotal, grand)
	}

	var memberSum float64
	for _, total := range result.MemberTotals {
		memberSum += total
	}
	if math.Abs(memberSum-(result.GrandTotal-result.Unallocated)) > tolerance {
		t.Errorf("member totals sum to %v, want grand - unallocated = %v",
			memberSum, result.GrandTotal-result.Unallocated)
	}
}

// Recomputation on unchanged state must be bit-for-bit identical.
func TestCalculateSplit_Idempotent(t *testing.T) {
	members := []string{"Alex", "Sam"}
	items := []Item{
		{ID: "i1", Price: "2.39", Quantity: 2, Assignees: []string{"Alex"}},
		{ID: "i2", Price: "3.99", Quantity: 1, Assignees: []string{"Alex", "Sam"}},
	}

	first := CalculateSplit(members, items)
	second := CalculateSplit(members, items)

	if first.GrandTotal != second.GrandTotal {
		t.Errorf("grand totals differ: %v vs %v", first.GrandTotal, second.GrandTotal)
	}
	if first.Unallocated != second.Unallocated {
		t.Errorf("unallocated differs: %v vs %v", first.Unallocated, second.Unallocated)
	}
	for name, total := range first.MemberTotals {
		if second.MemberTotals[name] != total {
			t.Errorf("%s total differs: %v vs %v", name, total, second.MemberTotals[name])
		}
	}
}

func TestItemsFor(t *testing.T) {
	items := []Item{
		{ID: "i1", Name: "Noodles", Price: "2.39", Quantity: 2, Assignees: []string{"Alex"}},
		{ID: "i2", Name: "Dumplings", Price: "3.99", Quantity: 1, Assignees: []string{"Alex", "Sam"}},
		{ID: "i3", Name: "Unclaimed", Price: "5.00", Quantity: 1},
	}

	rows := ItemsFor("Alex", items)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for Alex, got %d", len(rows))
	}

	if rows[0].ItemID != "i1" || rows[0].ShareCount != 1 {
		t.Errorf("row 0 = %+v, want item i1 with share count 1", rows[0])
	}
	if math.Abs(rows[0].PerPersonShare-4.78) > 0.01 {
		t.Errorf("row 0 share = %v, want 4.78", rows[0].PerPersonShare)
	}

	if rows[1].ItemID != "i2" || rows[1].ShareCount != 2 {
		t.Errorf("row 1 = %+v, want item i2 with share count 2", rows[1])
	}
	if math.Abs(rows[1].PerPersonShare-1.995) > 0.01 {
		t.Errorf("row 1 share = %v, want 1.995", rows[1].PerPersonShare)
	}

	if rows := ItemsFor("Sam", items); len(rows) != 1 {
		t.Errorf("expected 1 row for Sam, got %d", len(rows))
	}
	if rows := ItemsFor("Nobody", items); len(rows) != 0 {
		t.Errorf("expected 0 rows for non-member, got %d", len(rows))
	}
}
