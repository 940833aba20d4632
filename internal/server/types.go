package server

import (
	"tabsplit/internal/models"
	"tabsplit/internal/money"
)

// JoinRequest is the room-join payload. Room name and PIN formats are
// enforced here at the boundary; the core only displays them.
type JoinRequest struct {
	RoomName string `json:"room_name" validate:"required,min=2,max=30"`
	PIN      string `json:"pin" validate:"required,len=4,number"`
	Member   string `json:"member" validate:"omitempty,max=30"`
}

// AddMemberRequest adds one member to the registry.
type AddMemberRequest struct {
	Name string `json:"name"`
}

// AddItemRequest adds one item. Price and quantity arrive as the raw text
// the user typed; the core coerces them defensively.
type AddItemRequest struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// UpdateItemRequest is a partial item patch; absent fields are untouched.
type UpdateItemRequest struct {
	Name     *string `json:"name"`
	Price    *string `json:"price"`
	Quantity *string `json:"quantity"`
}

// ToggleRequest flips one member's assignment on an item.
type ToggleRequest struct {
	Member string `json:"member"`
}

// SeedRequest carries a recognition batch for direct ledger seeding.
type SeedRequest struct {
	Items []models.ItemRecord `json:"items"`
}

// ItemResponse is one ledger item on the wire. Price is the raw edit text;
// UnitPrice and Subtotal are its parsed reading.
type ItemResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     string   `json:"price"`
	UnitPrice float64  `json:"unit_price"`
	Quantity  int      `json:"quantity"`
	Subtotal  float64  `json:"subtotal"`
	Assignees []string `json:"assignees"`
}

// SplitResponse is the totals snapshot. The *_display fields are the
// two-decimal presentation values; the numeric fields stay unrounded.
type SplitResponse struct {
	MemberTotals        map[string]float64 `json:"member_totals"`
	MemberTotalsDisplay map[string]string  `json:"member_totals_display"`
	GrandTotal          float64            `json:"grand_total"`
	GrandTotalDisplay   string             `json:"grand_total_display"`
	Unallocated         float64            `json:"unallocated"`
}

// RoomResponse is the full room snapshot with derived totals.
type RoomResponse struct {
	RoomID  string         `json:"room_id"`
	Name    string         `json:"name"`
	PIN     string         `json:"pin"`
	Created bool           `json:"created,omitempty"`
	Members []string       `json:"members"`
	Items   []ItemResponse `json:"items"`
	Split   SplitResponse  `json:"split"`
}

// MemberItemResponse is one drill-down row for a member.
type MemberItemResponse struct {
	ItemID         string  `json:"item_id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	ShareCount     int     `json:"share_count"`
	PerPersonShare float64 `json:"per_person_share"`
	ShareDisplay   string  `json:"share_display"`
}

// MemberItemsResponse wraps the drill-down rows for one member.
type MemberItemsResponse struct {
	Member string               `json:"member"`
	Items  []MemberItemResponse `json:"items"`
}

func toSplitResponse(split *models.Split) SplitResponse {
	display := make(map[string]string, len(split.MemberTotals))
	for name, total := range split.MemberTotals {
		display[name] = money.Display(total)
	}
	return SplitResponse{
		MemberTotals:        split.MemberTotals,
		MemberTotalsDisplay: display,
		GrandTotal:          split.GrandTotal,
		GrandTotalDisplay:   money.Display(split.GrandTotal),
		Unallocated:         split.Unallocated,
	}
}

func toRoomResponse(r *models.Room, split *models.Split) RoomResponse {
	items := make([]ItemResponse, len(r.Items))
	for i, it := range r.Items {
		unit := money.ParsePrice(it.RawPrice)
		assignees := it.Assignees
		if assignees == nil {
			assignees = []string{}
		}
		items[i] = ItemResponse{
			ID:        it.ID,
			Name:      it.Name,
			Price:     it.RawPrice,
			UnitPrice: unit,
			Quantity:  it.Quantity,
			Subtotal:  unit * float64(it.Quantity),
			Assignees: assignees,
		}
	}
	return RoomResponse{
		RoomID:  r.ID,
		Name:    r.Name,
		PIN:     r.PIN,
		Members: r.Members,
		Items:   items,
		Split:   toSplitResponse(split),
	}
}

func toMemberItemsResponse(member string, rows []models.MemberItem) MemberItemsResponse {
	items := make([]MemberItemResponse, len(rows))
	for i, row := range rows {
		items[i] = MemberItemResponse{
			ItemID:         row.ItemID,
			Name:           row.Name,
			Quantity:       row.Quantity,
			UnitPrice:      row.UnitPrice,
			ShareCount:     row.ShareCount,
			PerPersonShare: row.PerPersonShare,
			ShareDisplay:   money.Display(row.PerPersonShare),
		}
	}
	return MemberItemsResponse{Member: member, Items: items}
}
