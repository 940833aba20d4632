// Package service orchestrates room operations over a storage.Store,
// running core transitions atomically and deriving split results on demand.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"tabsplit/internal/calculator"
	"tabsplit/internal/models"
	"tabsplit/internal/recognition"
	"tabsplit/internal/room"
	"tabsplit/internal/storage"
)

// ErrWrongPIN reports a join attempt with a PIN that does not match the
// existing room's PIN.
var ErrWrongPIN = errors.New("wrong PIN for room")

// RoomService implements the room API on top of a store and a
// recognition provider.
type RoomService struct {
	store      storage.Store
	recognizer recognition.Provider
}

// NewRoomService creates a RoomService with the given backends.
func NewRoomService(store storage.Store, recognizer recognition.Provider) *RoomService {
	return &RoomService{store: store, recognizer: recognizer}
}

// JoinRoom joins (or creates) the room with the given name and PIN. The
// caller has already format-validated name and PIN; here the PIN only has
// to match an existing room. When member is non-empty it is added to the
// registry; rejoining under an existing name is not an error. Returns the
// room snapshot and whether the room was created by this call.
func (s *RoomService) JoinRoom(ctx context.Context, name, pin, member string) (*models.Room, bool, error) {
	existing, err := s.store.GetRoom(ctx, name)
	if errors.Is(err, storage.ErrRoomNotFound) {
		r := room.New(name, pin, member)
		if err := s.store.CreateRoom(ctx, r); err != nil {
			if errors.Is(err, storage.ErrRoomExists) {
				// Lost a create race; fall through to the join path.
				return s.joinExisting(ctx, name, pin, member)
			}
			return nil, false, err
		}
		slog.Info("Room created", "room", name, "members", r.Members)
		return r, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	if existing.PIN != pin {
		return nil, false, ErrWrongPIN
	}
	r, err := s.joinMember(ctx, name, member)
	return r, false, err
}

func (s *RoomService) joinExisting(ctx context.Context, name, pin, member string) (*models.Room, bool, error) {
	existing, err := s.store.GetRoom(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if existing.PIN != pin {
		return nil, false, ErrWrongPIN
	}
	r, err := s.joinMember(ctx, name, member)
	return r, false, err
}

func (s *RoomService) joinMember(ctx context.Context, name, member string) (*models.Room, error) {
	return s.store.UpdateRoom(ctx, name, func(r *models.Room) error {
		if member == "" {
			return nil
		}
		err := room.AddMember(r, member)
		if errors.Is(err, room.ErrDuplicateMember) {
			return nil // already in the room, rejoin is fine
		}
		return err
	})
}

// GetRoom returns a snapshot of the room state.
func (s *RoomService) GetRoom(ctx context.Context, name string) (*models.Room, error) {
	return s.store.GetRoom(ctx, name)
}

// AddMember appends a member to the room's registry.
func (s *RoomService) AddMember(ctx context.Context, roomName, member string) (*models.Room, error) {
	r, err := s.store.UpdateRoom(ctx, roomName, func(r *models.Room) error {
		return room.AddMember(r, member)
	})
	if err != nil {
		slog.Warn("AddMember refused", "room", roomName, "member", member, "error", err)
		return nil, err
	}
	slog.Info("Member added", "room", roomName, "member", member)
	return r, nil
}

// RemoveMember removes a member, cascading assignee cleanup across items.
func (s *RoomService) RemoveMember(ctx context.Context, roomName, member string) (*models.Room, error) {
	r, err := s.store.UpdateRoom(ctx, roomName, func(r *models.Room) error {
		return room.RemoveMember(r, member)
	})
	if err != nil {
		slog.Warn("RemoveMember refused", "room", roomName, "member", member, "error", err)
		return nil, err
	}
	slog.Info("Member removed", "room", roomName, "member", member)
	return r, nil
}

// SeedItems replaces the room's ledger with a batch of recognition records.
func (s *RoomService) SeedItems(ctx context.Context, roomName string, records []models.ItemRecord) (*models.Room, error) {
	r, err := s.store.UpdateRoom(ctx, roomName, func(r *models.Room) error {
		room.SeedItems(r, records)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Ledger seeded", "room", roomName, "items_count", len(records))
	return r, nil
}

// ScanReceipt sends the image to the recognition provider and, once the
// whole batch has arrived, seeds the ledger with it. The recognition call
// runs outside the room lock.
func (s *RoomService) ScanReceipt(ctx context.Context, roomName string, image io.Reader) (*models.Room, error) {
	// Make sure the room exists before paying for recognition.
	if _, err := s.store.GetRoom(ctx, roomName); err != nil {
		return nil, err
	}

	records, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		slog.Error("Recognition failed", "room", roomName, "error", err)
		return nil, fmt.Errorf("recognize receipt: %w", err)
	}
	slog.Info("Receipt recognized", "room", roomName, "items_count", len(records))

	return s.SeedItems(ctx, roomName, records)
}

// AddItem appends a single item and returns the updated room snapshot and
// the new item's id.
func (s *RoomService) AddItem(ctx context.Context, roomName, name, price, quantity string) (*models.Room, string, error) {
	var itemID string
	r, err := s.store.UpdateRoom(ctx, roomName, func(r *models.Room) error {
		id, err := room.AddItem(r, name, price, quantity)
		itemID = id
		return err
	})
	if err != nil {
		slog.Warn("AddItem refused", "room", roomName, "error", err)
		return nil, "", err
	}
	return r, itemID, nil
}

// UpdateItem applies a partial patch to one item.
func (s *RoomService) UpdateItem(ctx context.Context, roomName, itemID string, patch room.ItemPatch) (*models.Room, error) {
	r, err := s.store.UpdateRoom(ctx, roomName, func(r *models.Room) error {
		return room.UpdateItem(r, itemID, patch)
	})
	if err != nil {
		slog.Warn("UpdateItem refused", "room", roomName, "item_id", itemID, "error", err)
		return nil, err
	}
	return r, nil
}

// RemoveItem deletes one item from the ledger.
func (s *RoomService) RemoveItem(ctx context.Context, roomName, itemID string) (*models.Room, error) {
	r, err := s.store.UpdateRoom(ctx, roomName, func(r *models.Room) error {
		return room.RemoveItem(r, itemID)
	})
	if err != nil {
		slog.Warn("RemoveItem refused", "room", roomName, "item_id", itemID, "error", err)
		return nil, err
	}
	return r, nil
}

// ToggleAssignment flips a member's assignment on one item.
func (s *RoomService) ToggleAssignment(ctx context.Context, roomName, itemID, member string) (*models.Room, error) {
	r, err := s.store.UpdateRoom(ctx, roomName, func(r *models.Room) error {
		return room.ToggleAssignment(r, itemID, member)
	})
	if err != nil {
		slog.Warn("ToggleAssignment refused", "room", roomName, "item_id", itemID, "member", member, "error", err)
		return nil, err
	}
	return r, nil
}

// Split computes the current per-member totals and grand total for a room.
func (s *RoomService) Split(ctx context.Context, roomName string) (*models.Split, error) {
	r, err := s.store.GetRoom(ctx, roomName)
	if err != nil {
		return nil, err
	}
	return SplitOf(r), nil
}

// MemberItems returns the drill-down rows for one member of a room.
func (s *RoomService) MemberItems(ctx context.Context, roomName, member string) ([]models.MemberItem, error) {
	r, err := s.store.GetRoom(ctx, roomName)
	if err != nil {
		return nil, err
	}
	rows := calculator.ItemsFor(member, toCalcItems(r.Items))
	out := make([]models.MemberItem, len(rows))
	for i, row := range rows {
		out[i] = models.MemberItem(row)
	}
	return out, nil
}

// SplitOf derives the split for an already-fetched room snapshot.
func SplitOf(r *models.Room) *models.Split {
	result := calculator.CalculateSplit(r.Members, toCalcItems(r.Items))
	return &models.Split{
		MemberTotals: result.MemberTotals,
		GrandTotal:   result.GrandTotal,
		Unallocated:  result.Unallocated,
	}
}

// toCalcItems converts ledger items to the calculator's input type.
func toCalcItems(items []models.Item) []calculator.Item {
	out := make([]calculator.Item, len(items))
	for i, it := range items {
		out[i] = calculator.Item{
			ID:        it.ID,
			Name:      it.Name,
			Price:     it.RawPrice,
			Quantity:  it.Quantity,
			Assignees: it.Assignees,
		}
	}
	return out
}
