// Package storage provides abstractions for room state storage.
package storage

import (
	"context"
	"errors"

	"tabsplit/internal/models"
)

// Store errors shared by all implementations.
var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room already exists")
)

// Store defines the interface for room storage operations. Rooms are keyed
// by their display name, which is what the join collaborator supplies.
//
// Implementations must serialize UpdateRoom calls per room so every core
// transition is atomic: no caller may observe a room mid-update.
type Store interface {
	// CreateRoom registers a new room. Returns ErrRoomExists if a room
	// with the same name is already present.
	CreateRoom(ctx context.Context, room *models.Room) error

	// GetRoom returns a deep copy of the room's current state.
	GetRoom(ctx context.Context, name string) (*models.Room, error)

	// UpdateRoom runs fn against the live room state under the room's
	// lock. If fn returns an error the state is left as fn left it;
	// core transitions guarantee "error means unchanged" themselves.
	// On success a deep copy of the resulting state is returned.
	UpdateRoom(ctx context.Context, name string, fn func(*models.Room) error) (*models.Room, error)

	// DeleteRoom removes a room entirely.
	DeleteRoom(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	Close() error
}
