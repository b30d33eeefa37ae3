// Package memory is a process-local Directory used by tests and demos.
// Records are copied on the way in and out so callers never share state with
// the store.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/epicevents/crm/internal/core/ports"
)

// table is an insertion-ordered map of records keyed by id.
type table[T any] struct {
	order []string
	rows  map[string]*T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) get(id string) (*T, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	clone := *row
	return &clone, true
}

func (t *table[T]) put(id string, row *T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	clone := *row
	t.rows[id] = &clone
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) each(fn func(*T) bool) {
	for _, id := range t.order {
		if !fn(t.rows[id]) {
			return
		}
	}
}

func (t *table[T]) list(keep func(*T) bool) []*T {
	out := make([]*T, 0, len(t.order))
	t.each(func(row *T) bool {
		if keep == nil || keep(row) {
			clone := *row
			out = append(out, &clone)
		}
		return true
	})
	return out
}

// Store holds every table behind a single lock.
type Store struct {
	mu        sync.RWMutex
	roles     *table[roleRow]
	users     *table[userRow]
	clients   *table[clientRow]
	contracts *table[contractRow]
	events    *table[eventRow]
}

// New returns an empty store.
func New() *Store {
	return &Store{
		roles:     newTable[roleRow](),
		users:     newTable[userRow](),
		clients:   newTable[clientRow](),
		contracts: newTable[contractRow](),
		events:    newTable[eventRow](),
	}
}

// Directory exposes the store through the repository ports.
func (s *Store) Directory() ports.Directory {
	return ports.Directory{
		Roles:     &RoleRepository{s: s},
		Users:     &UserRepository{s: s},
		Clients:   &ClientRepository{s: s},
		Contracts: &ContractRepository{s: s},
		Events:    &EventRepository{s: s},
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
