package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"farmhub-server/internal/domain"
	"farmhub-server/internal/store"

	"github.com/google/uuid"
)

type MarketService struct {
	store *store.EntityStore[*domain.MarketListing]
	repo  EntityRepo[*domain.MarketListing]
}

func NewMarketService(st *store.EntityStore[*domain.MarketListing], repo EntityRepo[*domain.MarketListing]) *MarketService {
	return &MarketService{
		store: st,
		repo:  repo,
	}
}

func (s *MarketService) CreateListing(ctx context.Context, userID string, req *domain.CreateListingRequest) (*domain.MarketListing, error) {
	listing := &domain.MarketListing{
		ID:          uuid.New().String(),
		UserID:      userID,
		CropType:    req.CropType,
		Variety:     req.Variety,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Price:       req.Price,
		Location:    req.Location,
		ContactInfo: req.ContactInfo,
		ImageURL:    req.ImageURL,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.store.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return listing, nil
}

// Browse returns every active listing newest first.
func (s *MarketService) Browse(ctx context.Context) ([]*domain.MarketListing, error) {
	listings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	active := listings[:0]
	for _, l := range listings {
		if l.IsActive {
			active = append(active, l)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	return active, nil
}

// MyListings returns the caller's listings newest first, sold ones included.
func (s *MarketService) MyListings(ctx context.Context, userID string) ([]*domain.MarketListing, error) {
	return s.store.List(ctx, userID)
}

// Deactivate marks a listing as sold or withdrawn without deleting it. Only
// the seller may do so.
func (s *MarketService) Deactivate(ctx context.Context, userID, id string) (*domain.MarketListing, error) {
	listing, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	listing.IsActive = false
	listing.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *MarketService) Delete(ctx context.Context, userID, id string) error {
	listing, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if listing.UserID != userID {
		return domain.ErrUnauthorized
	}
	return s.store.Delete(ctx, id)
}
