// Package store keeps owner-scoped projections of remote collections in sync
// with the database: the ordered history lists behind diagnostics, soil
// reports, forum content and market listings, plus the chat conversation log.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"farmhub-server/internal/domain"
)

// Entity is any record owned by the remote store: opaque server-assigned id,
// owning user, creation timestamp.
type Entity interface {
	EntityID() string
	OwnerID() string
	CreatedTime() time.Time
}

// Remote is the persistence surface an EntityStore synchronizes against.
// Implementations return domain.ErrNotFound for absent ids and wrap transport
// failures in *domain.NetworkError.
type Remote[T Entity] interface {
	Insert(ctx context.Context, entity T) error
	ListByOwner(ctx context.Context, ownerID string) ([]T, error)
	Delete(ctx context.Context, id string) error
}

// EntityStore keeps a newest-first projection of one owner's rows in a remote
// collection. The remote database stays the source of truth; the projection
// mirrors it so history views never need a re-list after a create or delete.
//
// All methods are safe for concurrent use; operations from one session are
// applied in issuance order under the store's lock. Nothing is retried here;
// the caller decides whether a failure warrants a retry affordance.
type EntityStore[T Entity] struct {
	mu       sync.Mutex
	remote   Remote[T]
	validate func(T) error
	items    []T // descending by CreatedTime
	owner    string
}

// NewEntityStore builds a store over remote. validate, when non-nil, runs
// before Create touches the network so a missing required field never costs
// a round trip.
func NewEntityStore[T Entity](remote Remote[T], validate func(T) error) *EntityStore[T] {
	return &EntityStore[T]{remote: remote, validate: validate}
}

// List fetches the owner's rows, replaces the local projection and returns it
// sorted by creation time descending. History views always show newest first.
func (s *EntityStore[T]) List(ctx context.Context, ownerID string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.remote.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedTime().After(items[j].CreatedTime())
	})

	s.items = items
	s.owner = ownerID
	return append([]T(nil), items...), nil
}

// Create validates, persists, then prepends the new entity to the projection.
// The prepend keeps the descending-order invariant without a full re-list.
func (s *EntityStore[T]) Create(ctx context.Context, entity T) error {
	if s.validate != nil {
		if err := s.validate(entity); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.remote.Insert(ctx, entity); err != nil {
		return err
	}

	if s.owner == "" || s.owner == entity.OwnerID() {
		s.items = append([]T{entity}, s.items...)
	}
	return nil
}

// Delete removes the row remotely, then drops it from the projection.
// Deleting an id that no longer exists reports domain.ErrNotFound and leaves
// the projection exactly as it was.
func (s *EntityStore[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.remote.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	for i := range s.items {
		if s.items[i].EntityID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return nil
}

// SelectOne looks the id up in the already-fetched projection. It never
// performs I/O; callers must List first.
func (s *EntityStore[T]) SelectOne(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
