package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"tabsplit/internal/models"
	"tabsplit/internal/recognition"
	"tabsplit/internal/room"
	"tabsplit/internal/storage/memory"
)

func newTestService() *RoomService {
	return NewRoomService(memory.New(), &recognition.Stub{
		Records: []models.ItemRecord{
			{Name: "Pad Thai", Price: 12.50, Quantity: 1},
			{Name: "Spring Rolls", Price: 6.25, Quantity: 2},
		},
	})
}

func TestJoinRoom(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("first join creates the room", func(t *testing.T) {
		snapshot, created, err := svc.JoinRoom(ctx, "Dinner", "1234", "Alex")
		if err != nil {
			t.Fatalf("JoinRoom failed: %v", err)
		}
		if !created {
			t.Error("expected created=true on first join")
		}
		if len(snapshot.Members) != 1 || snapshot.Members[0] != "Alex" {
			t.Errorf("members = %v, want [Alex]", snapshot.Members)
		}
	})

	t.Run("second join adds the member", func(t *testing.T) {
		snapshot, created, err := svc.JoinRoom(ctx, "Dinner", "1234", "Sam")
		if err != nil {
			t.Fatalf("JoinRoom failed: %v", err)
		}
		if created {
			t.Error("expected created=false on rejoin")
		}
		if len(snapshot.Members) != 2 {
			t.Errorf("members = %v, want [Alex Sam]", snapshot.Members)
		}
	})

	t.Run("rejoin under an existing name is fine", func(t *testing.T) {
		snapshot, _, err := svc.JoinRoom(ctx, "Dinner", "1234", "Alex")
		if err != nil {
			t.Fatalf("JoinRoom failed: %v", err)
		}
		if len(snapshot.Members) != 2 {
			t.Errorf("members = %v, want unchanged pair", snapshot.Members)
		}
	})

	t.Run("wrong PIN refused", func(t *testing.T) {
		if _, _, err := svc.JoinRoom(ctx, "Dinner", "9999", "Eve"); !errors.Is(err, ErrWrongPIN) {
			t.Errorf("error = %v, want ErrWrongPIN", err)
		}
	})

	t.Run("join without member name", func(t *testing.T) {
		snapshot, created, err := svc.JoinRoom(ctx, "Lunch", "4321", "")
		if err != nil {
			t.Fatalf("JoinRoom failed: %v", err)
		}
		if !created {
			t.Error("expected created=true")
		}
		if len(snapshot.Members) != 1 || snapshot.Members[0] != room.DefaultMember {
			t.Errorf("members = %v, want default seed", snapshot.Members)
		}
	})
}

func TestScanReceipt(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, _, err := svc.JoinRoom(ctx, "Dinner", "1234", "Alex"); err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}

	snapshot, err := svc.ScanReceipt(ctx, "Dinner", strings.NewReader("image"))
	if err != nil {
		t.Fatalf("ScanReceipt failed: %v", err)
	}
	if len(snapshot.Items) != 2 {
		t.Fatalf("expected 2 seeded items, got %d", len(snapshot.Items))
	}
	if snapshot.Items[0].Name != "Pad Thai" {
		t.Errorf("item 0 = %+v", snapshot.Items[0])
	}

	// Scanning again replaces the ledger, not appends.
	again, err := svc.ScanReceipt(ctx, "Dinner", strings.NewReader("image"))
	if err != nil {
		t.Fatalf("ScanReceipt failed: %v", err)
	}
	if len(again.Items) != 2 {
		t.Errorf("expected replaced ledger of 2 items, got %d", len(again.Items))
	}

	t.Run("unknown room refused before recognition", func(t *testing.T) {
		if _, err := svc.ScanReceipt(ctx, "nope", strings.NewReader("image")); err == nil {
			t.Error("expected error for unknown room")
		}
	})
}

func TestSplitFlow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, _, err := svc.JoinRoom(ctx, "Dinner", "1234", "Alex"); err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}
	if _, _, err := svc.JoinRoom(ctx, "Dinner", "1234", "Sam"); err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}

	_, noodlesID, err := svc.AddItem(ctx, "Dinner", "Noodles", "2.39", "2")
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	_, dumplingsID, err := svc.AddItem(ctx, "Dinner", "Dumplings", "3.99", "1")
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	for _, assign := range []struct{ item, member string }{
		{noodlesID, "Alex"},
		{dumplingsID, "Alex"},
		{dumplingsID, "Sam"},
	} {
		if _, err := svc.ToggleAssignment(ctx, "Dinner", assign.item, assign.member); err != nil {
			t.Fatalf("ToggleAssignment failed: %v", err)
		}
	}

	split, err := svc.Split(ctx, "Dinner")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if math.Abs(split.MemberTotals["Alex"]-6.775) > 0.01 {
		t.Errorf("Alex total = %v, want 6.775", split.MemberTotals["Alex"])
	}
	if math.Abs(split.MemberTotals["Sam"]-1.995) > 0.01 {
		t.Errorf("Sam total = %v, want 1.995", split.MemberTotals["Sam"])
	}
	if math.Abs(split.GrandTotal-8.77) > 0.01 {
		t.Errorf("grand total = %v, want 8.77", split.GrandTotal)
	}

	rows, err := svc.MemberItems(ctx, "Dinner", "Sam")
	if err != nil {
		t.Fatalf("MemberItems failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row for Sam, got %d", len(rows))
	}
	if rows[0].ItemID != dumplingsID || rows[0].ShareCount != 2 {
		t.Errorf("row = %+v, want dumplings shared by 2", rows[0])
	}
	if math.Abs(rows[0].PerPersonShare-1.995) > 0.01 {
		t.Errorf("share = %v, want 1.995", rows[0].PerPersonShare)
	}

	// Removing Sam cascades; their share flows back to the other assignee.
	if _, err := svc.RemoveMember(ctx, "Dinner", "Sam"); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	split, err = svc.Split(ctx, "Dinner")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if math.Abs(split.MemberTotals["Alex"]-8.77) > 0.01 {
		t.Errorf("Alex total after cascade = %v, want 8.77", split.MemberTotals["Alex"])
	}
	if math.Abs(split.GrandTotal-8.77) > 0.01 {
		t.Errorf("grand total after cascade = %v, want 8.77", split.GrandTotal)
	}
}

func TestUpdateItemCoercion(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, _, err := svc.JoinRoom(ctx, "Dinner", "1234", "Alex"); err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}
	_, id, err := svc.AddItem(ctx, "Dinner", "Pizza", "9.89", "1")
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := svc.ToggleAssignment(ctx, "Dinner", id, "Alex"); err != nil {
		t.Fatalf("ToggleAssignment failed: %v", err)
	}

	// An unparsable price edit reads as zero, never as an error.
	bad := "abc"
	if _, err := svc.UpdateItem(ctx, "Dinner", id, room.ItemPatch{Price: &bad}); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	split, err := svc.Split(ctx, "Dinner")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if split.GrandTotal != 0 {
		t.Errorf("grand total = %v, want 0 for unparsable price", split.GrandTotal)
	}
	if split.MemberTotals["Alex"] != 0 {
		t.Errorf("Alex total = %v, want 0", split.MemberTotals["Alex"])
	}
}
