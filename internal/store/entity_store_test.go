package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"farmhub-server/internal/domain"
)

type fakeRemote struct {
	rows      map[string]*domain.CropDiagnosis
	insertErr error
	listErr   error
	deletes   int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: make(map[string]*domain.CropDiagnosis)}
}

func (f *fakeRemote) Insert(ctx context.Context, d *domain.CropDiagnosis) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows[d.ID] = d
	return nil
}

func (f *fakeRemote) ListByOwner(ctx context.Context, ownerID string) ([]*domain.CropDiagnosis, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.CropDiagnosis
	for _, d := range f.rows {
		if d.UserID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	f.deletes++
	if _, ok := f.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func diag(id, owner string, at time.Time) *domain.CropDiagnosis {
	return &domain.CropDiagnosis{ID: id, UserID: owner, Crop: "Tomato", CreatedAt: at}
}

func TestListSortsNewestFirst(t *testing.T) {
	remote := newFakeRemote()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	remote.rows["a"] = diag("a", "u1", base)
	remote.rows["b"] = diag("b", "u1", base.Add(time.Hour))

	s := NewEntityStore[*domain.CropDiagnosis](remote, nil)

	items, err := s.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("List() returned %d items, want 2", len(items))
	}
	if items[0].ID != "b" || items[1].ID != "a" {
		t.Errorf("List() order = [%s, %s], want [b, a]", items[0].ID, items[1].ID)
	}
}

func TestListScopesToOwner(t *testing.T) {
	remote := newFakeRemote()
	now := time.Now()
	remote.rows["mine"] = diag("mine", "u1", now)
	remote.rows["other"] = diag("other", "u2", now)

	s := NewEntityStore[*domain.CropDiagnosis](remote, nil)

	items, err := s.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != "mine" {
		t.Errorf("List() = %v, want only the owner's row", items)
	}
}

func TestCreatePrependsToProjection(t *testing.T) {
	remote := newFakeRemote()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	remote.rows["old"] = diag("old", "u1", base)

	s := NewEntityStore[*domain.CropDiagnosis](remote, nil)
	if _, err := s.List(context.Background(), "u1"); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	fresh := diag("fresh", "u1", base.Add(time.Hour))
	if err := s.Create(context.Background(), fresh); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, ok := s.SelectOne("fresh")
	if !ok {
		t.Fatal("SelectOne() expected created entity in projection")
	}
	if got.ID != "fresh" {
		t.Errorf("SelectOne() = %s, want fresh", got.ID)
	}

	items, _ := s.List(context.Background(), "u1")
	if items[0].ID != "fresh" {
		t.Errorf("List() head = %s, want fresh", items[0].ID)
	}
}

func TestCreateValidationSkipsNetwork(t *testing.T) {
	remote := newFakeRemote()
	validate := func(d *domain.CropDiagnosis) error {
		if d.Crop == "" {
			return &domain.ValidationError{Field: "crop", Reason: "must not be empty"}
		}
		return nil
	}

	s := NewEntityStore[*domain.CropDiagnosis](remote, validate)

	bad := &domain.CropDiagnosis{ID: "x", UserID: "u1"}
	err := s.Create(context.Background(), bad)

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Create() error = %v, want *domain.ValidationError", err)
	}
	if len(remote.rows) != 0 {
		t.Error("Create() must not touch the remote on validation failure")
	}
}

func TestCreateNetworkFailureLeavesProjection(t *testing.T) {
	remote := newFakeRemote()
	remote.insertErr = &domain.NetworkError{Op: "insert", Cause: errors.New("connection refused")}

	s := NewEntityStore[*domain.CropDiagnosis](remote, nil)

	err := s.Create(context.Background(), diag("x", "u1", time.Now()))
	var networkErr *domain.NetworkError
	if !errors.As(err, &networkErr) {
		t.Fatalf("Create() error = %v, want *domain.NetworkError", err)
	}
	if _, ok := s.SelectOne("x"); ok {
		t.Error("projection must not contain an entity whose insert failed")
	}
}

func TestDeleteRemovesFromProjection(t *testing.T) {
	remote := newFakeRemote()
	remote.rows["a"] = diag("a", "u1", time.Now())

	s := NewEntityStore[*domain.CropDiagnosis](remote, nil)
	s.List(context.Background(), "u1")

	if err := s.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := s.SelectOne("a"); ok {
		t.Error("SelectOne() found deleted entity")
	}
}

func TestDeleteMissingIDReportsNotFound(t *testing.T) {
	remote := newFakeRemote()
	remote.rows["a"] = diag("a", "u1", time.Now())

	s := NewEntityStore[*domain.CropDiagnosis](remote, nil)
	s.List(context.Background(), "u1")

	if err := s.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("first Delete() error = %v", err)
	}

	// Second delete of the same id: not found, projection untouched.
	err := s.Delete(context.Background(), "a")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}

	items, _ := s.List(context.Background(), "u1")
	if len(items) != 0 {
		t.Errorf("List() after double delete = %d items, want 0", len(items))
	}
}

func TestSelectOnePerformsNoIO(t *testing.T) {
	remote := newFakeRemote()
	remote.rows["a"] = diag("a", "u1", time.Now())

	s := NewEntityStore[*domain.CropDiagnosis](remote, nil)
	s.List(context.Background(), "u1")

	// Break the remote entirely; SelectOne must still answer.
	remote.listErr = errors.New("remote down")

	if _, ok := s.SelectOne("a"); !ok {
		t.Error("SelectOne() must read from the local projection")
	}
	if _, ok := s.SelectOne("missing"); ok {
		t.Error("SelectOne() found an id that was never listed")
	}
}
