package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"farmhub-server/internal/domain"
	"farmhub-server/internal/store"
)

func newTestMarketService(seed ...*domain.MarketListing) (*MarketService, *fakeEntityBackend[*domain.MarketListing]) {
	backend := newFakeEntityBackend(seed...)
	return NewMarketService(store.NewEntityStore[*domain.MarketListing](backend, nil), backend), backend
}

func TestDeactivateRequiresSeller(t *testing.T) {
	listing := &domain.MarketListing{ID: "lst-1", UserID: "alice", CropType: "wheat", IsActive: true, CreatedAt: time.Now()}
	svc, backend := newTestMarketService(listing)

	if _, err := svc.Deactivate(context.Background(), "bob", "lst-1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Deactivate() by a non-seller error = %v, want ErrUnauthorized", err)
	}
	if !backend.rows["lst-1"].IsActive {
		t.Fatal("non-seller deactivate must not touch the listing")
	}

	updated, err := svc.Deactivate(context.Background(), "alice", "lst-1")
	if err != nil {
		t.Fatalf("Deactivate() by the seller error = %v", err)
	}
	if updated.IsActive || backend.rows["lst-1"].IsActive {
		t.Error("seller deactivate must mark the listing inactive")
	}
}

func TestDeleteListingRequiresSeller(t *testing.T) {
	listing := &domain.MarketListing{ID: "lst-1", UserID: "alice", CropType: "wheat", IsActive: true, CreatedAt: time.Now()}
	svc, backend := newTestMarketService(listing)

	if err := svc.Delete(context.Background(), "bob", "lst-1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Delete() by a non-seller error = %v, want ErrUnauthorized", err)
	}
	if _, ok := backend.rows["lst-1"]; !ok {
		t.Fatal("non-seller delete must leave the listing in place")
	}

	if err := svc.Delete(context.Background(), "alice", "lst-1"); err != nil {
		t.Fatalf("Delete() by the seller error = %v", err)
	}
	if _, ok := backend.rows["lst-1"]; ok {
		t.Error("seller delete must remove the listing")
	}
}
