// Package memory provides the in-memory implementation of storage.Store.
// Room state lives for the process lifetime only; sessions are not
// persisted across restarts.
package memory

import (
	"context"
	"sync"

	"tabsplit/internal/models"
	"tabsplit/internal/room"
	"tabsplit/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore holds rooms in a map guarded by a read-write lock, with a
// per-room mutex serializing mutations so each transition is atomic.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	room *models.Room
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*entry)}
}

// CreateRoom registers a new room keyed by its name.
func (s *MemoryStore) CreateRoom(ctx context.Context, r *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[r.Name]; ok {
		return storage.ErrRoomExists
	}
	s.rooms[r.Name] = &entry{room: room.Clone(r)}
	return nil
}

// GetRoom returns a deep copy of the room's current state.
func (s *MemoryStore) GetRoom(ctx context.Context, name string) (*models.Room, error) {
	e, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return room.Clone(e.room), nil
}

// UpdateRoom runs fn under the room's lock and returns a snapshot of the
// resulting state.
func (s *MemoryStore) UpdateRoom(ctx context.Context, name string, fn func(*models.Room) error) (*models.Room, error) {
	e, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.room); err != nil {
		return nil, err
	}
	return room.Clone(e.room), nil
}

// DeleteRoom removes a room entirely.
func (s *MemoryStore) DeleteRoom(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[name]; !ok {
		return storage.ErrRoomNotFound
	}
	delete(s.rooms, name)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) lookup(name string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.rooms[name]
	if !ok {
		return nil, storage.ErrRoomNotFound
	}
	return e, nil
}
