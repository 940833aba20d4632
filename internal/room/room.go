// Package room implements the state transitions for a receipt-splitting room:
// the member registry, the item ledger, and the assignment operations that
// link the two.
//
// All functions operate on a *models.Room passed by reference and either
// apply the change or leave the state untouched and return a precondition
// error. There is no partial mutation: a returned error always means
// "state unchanged". Callers own serialization; see the storage package.
package room

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"tabsplit/internal/models"
	"tabsplit/internal/money"
)

// Registry bounds. A room always retains at least MinMembers and never
// grows past MaxMembers.
const (
	MinMembers = 1
	MaxMembers = 7

	// MaxMemberNameLen bounds a member's display name after trimming.
	MaxMemberNameLen = 30
)

// DefaultMember seeds the registry when a room is created without an
// explicit first member, keeping the size floor intact from birth.
const DefaultMember = "Guest"

// Precondition failures. Each reports a refused operation; the room state
// is unchanged whenever one of these is returned.
var (
	ErrBlankName       = errors.New("name is blank")
	ErrNameTooLong     = errors.New("name exceeds 30 characters")
	ErrRegistryFull    = errors.New("registry already has 7 members")
	ErrRegistryFloor   = errors.New("registry must retain at least one member")
	ErrDuplicateMember = errors.New("member already exists")
	ErrMemberNotFound  = errors.New("member not found")
	ErrBlankPrice      = errors.New("price is blank")
	ErrItemNotFound    = errors.New("item not found")
)

// New creates a room with the given display name and PIN, seeded with the
// provided members (blank and duplicate seeds are dropped, capacity is
// honored). With no usable seed the registry starts with DefaultMember.
func New(name, pin string, seedMembers ...string) *models.Room {
	r := &models.Room{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		PIN:       pin,
		CreatedAt: time.Now().Unix(),
	}
	for _, m := range seedMembers {
		_ = AddMember(r, m)
	}
	if len(r.Members) == 0 {
		r.Members = append(r.Members, DefaultMember)
	}
	return r
}

// AddMember appends a member to the end of the registry. The trimmed name
// must be non-empty, at most 30 characters, and not already present, and
// the registry must have room.
func AddMember(r *models.Room, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankName
	}
	if len([]rune(name)) > MaxMemberNameLen {
		return ErrNameTooLong
	}
	if len(r.Members) >= MaxMembers {
		return ErrRegistryFull
	}
	for _, m := range r.Members {
		if m == name {
			return ErrDuplicateMember
		}
	}
	r.Members = append(r.Members, name)
	return nil
}

// RemoveMember removes a member and cascades: the departing name is dropped
// from every item's assignee set, which is the single mechanism keeping
// assignees referencing current members. Refused at the registry floor.
func RemoveMember(r *models.Room, name string) error {
	if len(r.Members) <= MinMembers {
		return ErrRegistryFloor
	}
	idx := -1
	for i, m := range r.Members {
		if m == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrMemberNotFound
	}
	r.Members = append(r.Members[:idx], r.Members[idx+1:]...)
	for i := range r.Items {
		removeAssignee(&r.Items[i], name)
	}
	return nil
}

// SeedItems replaces the whole ledger with a batch of recognition records.
// Every seeded item gets a fresh id and an empty assignee set. An empty
// batch is valid and yields an empty ledger. Safe to call repeatedly; each
// call produces a fully replaced ledger.
func SeedItems(r *models.Room, records []models.ItemRecord) {
	items := make([]models.Item, 0, len(records))
	for _, rec := range records {
		price := rec.Price
		if price < 0 || price != price { // negative or NaN
			price = 0
		}
		items = append(items, models.Item{
			ID:       uuid.New().String(),
			Name:     strings.TrimSpace(rec.Name),
			RawPrice: money.FormatPrice(price),
			Quantity: money.ClampQuantity(rec.Quantity),
		})
	}
	r.Items = items
}

// AddItem appends a single item to the ledger and returns its id. Name and
// price must be non-blank after trimming; the price text is stored as-is
// and parsed defensively at read time, the quantity is coerced to >= 1.
func AddItem(r *models.Room, name, price, quantity string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrBlankName
	}
	price = strings.TrimSpace(price)
	if price == "" {
		return "", ErrBlankPrice
	}
	item := models.Item{
		ID:       uuid.New().String(),
		Name:     name,
		RawPrice: price,
		Quantity: money.ParseQuantity(quantity),
	}
	r.Items = append(r.Items, item)
	return item.ID, nil
}

// ItemPatch is a partial update for one item. Nil fields are left alone;
// blank name or price text is ignored so a cleared input never wipes a
// committed value.
type ItemPatch struct {
	Name     *string
	Price    *string
	Quantity *string
}

// UpdateItem applies a patch to the item with the given id.
func UpdateItem(r *models.Room, id string, patch ItemPatch) error {
	item := findItem(r, id)
	if item == nil {
		return ErrItemNotFound
	}
	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			item.Name = name
		}
	}
	if patch.Price != nil {
		// Stored raw, even mid-edit text like "3."; readers re-parse.
		if price := strings.TrimSpace(*patch.Price); price != "" {
			item.RawPrice = price
		}
	}
	if patch.Quantity != nil {
		item.Quantity = money.ParseQuantity(*patch.Quantity)
	}
	return nil
}

// RemoveItem deletes the item with the given id.
func RemoveItem(r *models.Room, id string) error {
	for i := range r.Items {
		if r.Items[i].ID == id {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// ToggleAssignment flips a member's presence in an item's assignee set.
// The member name is not cross-checked against the registry here; the
// removal cascade keeps stale names from surviving at rest.
func ToggleAssignment(r *models.Room, itemID, member string) error {
	item := findItem(r, itemID)
	if item == nil {
		return ErrItemNotFound
	}
	for i, a := range item.Assignees {
		if a == member {
			item.Assignees = append(item.Assignees[:i], item.Assignees[i+1:]...)
			return nil
		}
	}
	item.Assignees = append(item.Assignees, member)
	return nil
}

// Clone returns a deep copy, used to hand out read snapshots without
// exposing the live state to callers.
func Clone(r *models.Room) *models.Room {
	cp := *r
	cp.Members = append([]string(nil), r.Members...)
	cp.Items = make([]models.Item, len(r.Items))
	for i, it := range r.Items {
		cp.Items[i] = it
		cp.Items[i].Assignees = append([]string(nil), it.Assignees...)
	}
	return &cp
}

func findItem(r *models.Room, id string) *models.Item {
	for i := range r.Items {
		if r.Items[i].ID == id {
			return &r.Items[i]
		}
	}
	return nil
}

func removeAssignee(item *models.Item, name string) {
	for i, a := range item.Assignees {
		if a == name {
			item.Assignees = append(item.Assignees[:i], item.Assignees[i+1:]...)
			return
		}
	}
}
