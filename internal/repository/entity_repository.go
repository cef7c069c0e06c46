package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"farmhub-server/internal/domain"
	"farmhub-server/internal/store"

	"github.com/go-kivik/kivik/v4"
)

// EntityRepository is the shared CouchDB persistence for owner-scoped
// collections. Each collection gets its own doc-id prefix
// ("diagnosis:<uuid>", "listing:<uuid>", ...) inside the one database, and
// Mango selectors combine an _id range over that prefix with an owner-field
// equality, the kivik translation of the row-level scoping the hosted store
// enforced.
type EntityRepository[T store.Entity] struct {
	client     *kivik.Client
	dbName     string
	prefix     string
	ownerField string
}

func NewEntityRepository[T store.Entity](client *kivik.Client, dbName, prefix, ownerField string) *EntityRepository[T] {
	return &EntityRepository[T]{
		client:     client,
		dbName:     dbName,
		prefix:     prefix,
		ownerField: ownerField,
	}
}

func (r *EntityRepository[T]) docID(id string) string {
	return r.prefix + ":" + id
}

func (r *EntityRepository[T]) idRange() map[string]interface{} {
	return map[string]interface{}{
		"$gt": r.prefix + ":",
		"$lt": r.prefix + ":\ufff0",
	}
}

func (r *EntityRepository[T]) Insert(ctx context.Context, entity T) error {
	db := r.client.DB(r.dbName)

	if _, err := db.Put(ctx, r.docID(entity.EntityID()), entity); err != nil {
		return wrapKivik("insert "+r.prefix, err)
	}
	return nil
}

func (r *EntityRepository[T]) Find(ctx context.Context, id string) (T, error) {
	db := r.client.DB(r.dbName)

	var entity T
	row := db.Get(ctx, r.docID(id))
	if err := row.ScanDoc(&entity); err != nil {
		return entity, wrapKivik("find "+r.prefix, err)
	}
	return entity, nil
}

func (r *EntityRepository[T]) ListByOwner(ctx context.Context, ownerID string) ([]T, error) {
	return r.find(ctx, map[string]interface{}{
		"_id":        r.idRange(),
		r.ownerField: ownerID,
	})
}

// ListAll returns every row in the collection regardless of owner; community
// views (forum, outbreaks, marketplace) read through this.
func (r *EntityRepository[T]) ListAll(ctx context.Context) ([]T, error) {
	return r.find(ctx, map[string]interface{}{
		"_id": r.idRange(),
	})
}

// ListBy filters the collection on one document field, e.g. forum comments by
// post_id.
func (r *EntityRepository[T]) ListBy(ctx context.Context, field string, value interface{}) ([]T, error) {
	return r.find(ctx, map[string]interface{}{
		"_id": r.idRange(),
		field: value,
	})
}

func (r *EntityRepository[T]) find(ctx context.Context, selector map[string]interface{}) ([]T, error) {
	db := r.client.DB(r.dbName)

	rows := db.Find(ctx, map[string]interface{}{"selector": selector})
	if err := rows.Err(); err != nil {
		return nil, wrapKivik("list "+r.prefix, err)
	}
	defer rows.Close()

	var entities []T
	for rows.Next() {
		var entity T
		if err := rows.ScanDoc(&entity); err != nil {
			continue
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// Delete hard-deletes the row. There is no tombstone: a deleted id is gone
// from every subsequent list, and deleting it again reports
// domain.ErrNotFound.
func (r *EntityRepository[T]) Delete(ctx context.Context, id string) error {
	db := r.client.DB(r.dbName)
	docID := r.docID(id)

	var doc map[string]interface{}
	row := db.Get(ctx, docID)
	if err := row.ScanDoc(&doc); err != nil {
		return wrapKivik("delete "+r.prefix, err)
	}

	rev, _ := doc["_rev"].(string)
	if _, err := db.Delete(ctx, docID, rev); err != nil {
		return wrapKivik("delete "+r.prefix, err)
	}
	return nil
}

// Update overwrites the row in place, preserving the CouchDB revision.
func (r *EntityRepository[T]) Update(ctx context.Context, entity T) error {
	db := r.client.DB(r.dbName)
	docID := r.docID(entity.EntityID())

	var existing map[string]interface{}
	row := db.Get(ctx, docID)
	if err := row.ScanDoc(&existing); err != nil {
		return wrapKivik("update "+r.prefix, err)
	}

	if _, err := db.Put(ctx, docID, withRev(entity, existing["_rev"])); err != nil {
		return wrapKivik("update "+r.prefix, err)
	}
	return nil
}

// withRev re-encodes the entity as a document carrying the current revision.
func withRev(entity any, rev any) map[string]interface{} {
	data, err := json.Marshal(entity)
	if err != nil {
		return map[string]interface{}{"_rev": rev}
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return map[string]interface{}{"_rev": rev}
	}
	doc["_rev"] = rev
	return doc
}

// wrapKivik maps provider errors into the shared taxonomy: 404s become
// domain.ErrNotFound, auth failures domain.ErrUnauthorized, anything else a
// NetworkError.
func wrapKivik(op string, err error) error {
	switch kivik.HTTPStatus(err) {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
	default:
		return &domain.NetworkError{Op: op, Cause: err}
	}
}
