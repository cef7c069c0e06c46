package service

import (
	"context"

	"farmhub-server/internal/store"
)

// EntityRepo is the slice of the CouchDB repository the services use for
// row-level ownership checks, in-place updates and community-wide views.
// *repository.EntityRepository satisfies it; tests substitute in-memory
// fakes.
type EntityRepo[T store.Entity] interface {
	Find(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, entity T) error
	ListAll(ctx context.Context) ([]T, error)
	ListBy(ctx context.Context, field string, value interface{}) ([]T, error)
}
