package repository

import (
	"context"

	"farmhub-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

// ProfileRepository stores one profile doc per user, keyed "profile:<user-id>"
// so lookups never need a query.
type ProfileRepository struct {
	client *kivik.Client
	dbName string
}

func NewProfileRepository(client *kivik.Client, dbName string) *ProfileRepository {
	return &ProfileRepository{
		client: client,
		dbName: dbName,
	}
}

func (r *ProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	db := r.client.DB(r.dbName)
	docID := "profile:" + profile.ID

	var existing map[string]interface{}
	row := db.Get(ctx, docID)
	if err := row.ScanDoc(&existing); err == nil {
		if _, err := db.Put(ctx, docID, withRev(profile, existing["_rev"])); err != nil {
			return wrapKivik("save profile", err)
		}
		return nil
	}

	if _, err := db.Put(ctx, docID, profile); err != nil {
		return wrapKivik("save profile", err)
	}
	return nil
}

func (r *ProfileRepository) Find(ctx context.Context, userID string) (*domain.Profile, error) {
	db := r.client.DB(r.dbName)

	var profile domain.Profile
	row := db.Get(ctx, "profile:"+userID)
	if err := row.ScanDoc(&profile); err != nil {
		return nil, wrapKivik("find profile", err)
	}
	return &profile, nil
}
