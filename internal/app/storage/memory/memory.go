// Package memory provides the in-memory implementation of the storage
// interfaces. It is the default backend: the catalog snapshot is ephemeral
// by design and sessions live only as long as the process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kiddarkness/itemshop/internal/app/domain/selection"
	"github.com/kiddarkness/itemshop/internal/app/domain/shop"
	"github.com/kiddarkness/itemshop/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. Safe for
// concurrent use.
type Store struct {
	mu          sync.RWMutex
	snapshot    shop.Snapshot
	hasSnapshot bool
	sessions    map[string]selection.State
}

var _ storage.SnapshotStore = (*Store)(nil)
var _ storage.SessionStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		sessions: make(map[string]selection.State),
	}
}

// SnapshotStore implementation ------------------------------------------------

func (s *Store) PutSnapshot(_ context.Context, snap shop.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = cloneSnapshot(snap)
	s.hasSnapshot = true
	return nil
}

func (s *Store) GetSnapshot(_ context.Context) (shop.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasSnapshot {
		return shop.Snapshot{}, fmt.Errorf("catalog snapshot not found")
	}
	return cloneSnapshot(s.snapshot), nil
}

// SessionStore implementation -------------------------------------------------

func (s *Store) CreateSession(_ context.Context, st selection.State) (selection.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.ID == "" {
		return selection.State{}, fmt.Errorf("session id is required")
	}
	if _, exists := s.sessions[st.ID]; exists {
		return selection.State{}, fmt.Errorf("session %s already exists", st.ID)
	}
	s.sessions[st.ID] = cloneSession(st)
	return st, nil
}

func (s *Store) UpdateSession(_ context.Context, st selection.State) (selection.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[st.ID]; !ok {
		return selection.State{}, fmt.Errorf("session %s not found", st.ID)
	}
	s.sessions[st.ID] = cloneSession(st)
	return st, nil
}

func (s *Store) GetSession(_ context.Context, id string) (selection.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok {
		return selection.State{}, fmt.Errorf("session %s not found", id)
	}
	return cloneSession(st), nil
}

func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("session %s not found", id)
	}
	delete(s.sessions, id)
	return nil
}

func cloneSnapshot(snap shop.Snapshot) shop.Snapshot {
	out := snap
	out.Categories = make([]shop.Category, len(snap.Categories))
	for i, cat := range snap.Categories {
		items := make([]shop.DisplayItem, len(cat.Items))
		copy(items, cat.Items)
		out.Categories[i] = shop.Category{Name: cat.Name, Items: items}
	}
	return out
}

func cloneSession(st selection.State) selection.State {
	out := st
	if st.Item != nil {
		item := *st.Item
		out.Item = &item
	}
	return out
}
