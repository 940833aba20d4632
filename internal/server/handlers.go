package server

import (
	"fmt"
	"net/http"
	"strings"

	"tabsplit/internal/room"
	"tabsplit/internal/service"
)

const maxScanBytes = 10 << 20 // receipt image upload cap

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	req.RoomName = strings.TrimSpace(req.RoomName)
	req.PIN = strings.TrimSpace(req.PIN)
	req.Member = strings.TrimSpace(req.Member)

	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("invalid join request: %v", err),
		})
		return
	}

	snapshot, created, err := s.svc.JoinRoom(r.Context(), req.RoomName, req.PIN, req.Member)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := toRoomResponse(snapshot, service.SplitOf(snapshot))
	resp.Created = created
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.svc.GetRoom(r.Context(), pathParam(r, "room"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(snapshot, service.SplitOf(snapshot)))
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	split, err := s.svc.Split(r.Context(), pathParam(r, "room"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSplitResponse(split))
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	snapshot, err := s.svc.AddMember(r.Context(), pathParam(r, "room"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(snapshot, service.SplitOf(snapshot)))
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.svc.RemoveMember(r.Context(), pathParam(r, "room"), pathParam(r, "member"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(snapshot, service.SplitOf(snapshot)))
}

func (s *Server) handleMemberItems(w http.ResponseWriter, r *http.Request) {
	member := pathParam(r, "member")
	rows, err := s.svc.MemberItems(r.Context(), pathParam(r, "room"), member)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberItemsResponse(member, rows))
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	snapshot, itemID, err := s.svc.AddItem(r.Context(), pathParam(r, "room"), req.Name, req.Price, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := toRoomResponse(snapshot, service.SplitOf(snapshot))
	writeJSON(w, http.StatusCreated, struct {
		ItemID string `json:"item_id"`
		RoomResponse
	}{ItemID: itemID, RoomResponse: resp})
}

func (s *Server) handleSeedItems(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	snapshot, err := s.svc.SeedItems(r.Context(), pathParam(r, "room"), req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(snapshot, service.SplitOf(snapshot)))
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxScanBytes)
	snapshot, err := s.svc.ScanReceipt(r.Context(), pathParam(r, "room"), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(snapshot, service.SplitOf(snapshot)))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	patch := room.ItemPatch{Name: req.Name, Price: req.Price, Quantity: req.Quantity}
	snapshot, err := s.svc.UpdateItem(r.Context(), pathParam(r, "room"), pathParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(snapshot, service.SplitOf(snapshot)))
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.svc.RemoveItem(r.Context(), pathParam(r, "room"), pathParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(snapshot, service.SplitOf(snapshot)))
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Member) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "member is required"})
		return
	}
	snapshot, err := s.svc.ToggleAssignment(r.Context(), pathParam(r, "room"), pathParam(r, "id"), req.Member)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(snapshot, service.SplitOf(snapshot)))
}
