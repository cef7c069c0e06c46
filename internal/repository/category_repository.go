package repository

import (
	"context"
	"sort"
	"time"

	"farmhub-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
	"github.com/google/uuid"
)

// Default forum categories seeded on first boot.
var defaultCategories = []struct {
	name, description string
}{
	{"Crop Management", "Planting, growing and harvesting discussion"},
	{"Pest & Disease Control", "Identifying and treating crop problems"},
	{"Soil & Fertilizers", "Soil health, composting and fertilization"},
	{"Equipment & Tools", "Farm machinery and tool recommendations"},
	{"Market & Prices", "Selling produce and market trends"},
	{"General Discussion", "Everything else farming"},
}

type CategoryRepository struct {
	client *kivik.Client
	dbName string
}

func NewCategoryRepository(client *kivik.Client, dbName string) *CategoryRepository {
	return &CategoryRepository{
		client: client,
		dbName: dbName,
	}
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.ForumCategory, error) {
	db := r.client.DB(r.dbName)

	rows := db.Find(ctx, map[string]interface{}{
		"selector": map[string]interface{}{
			"_id": map[string]interface{}{
				"$gt": "category:",
				"$lt": "category:\ufff0",
			},
		},
	})
	if err := rows.Err(); err != nil {
		return nil, wrapKivik("list categories", err)
	}
	defer rows.Close()

	var categories []*domain.ForumCategory
	for rows.Next() {
		var category domain.ForumCategory
		if err := rows.ScanDoc(&category); err != nil {
			continue
		}
		categories = append(categories, &category)
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// Seed inserts the default categories when none exist yet. Safe to call on
// every boot.
func (r *CategoryRepository) Seed(ctx context.Context) error {
	existing, err := r.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	db := r.client.DB(r.dbName)
	for _, c := range defaultCategories {
		category := &domain.ForumCategory{
			ID:          uuid.New().String(),
			Name:        c.name,
			Description: c.description,
			CreatedAt:   time.Now(),
		}
		if _, err := db.Put(ctx, "category:"+category.ID, category); err != nil {
			return wrapKivik("seed categories", err)
		}
	}
	return nil
}
