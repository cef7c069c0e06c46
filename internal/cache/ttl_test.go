package cache

import (
	"testing"
	"time"
)

func TestGetReturnsFreshEntry(t *testing.T) {
	c := New[string, string](30 * time.Minute)

	c.Put("visakhapatnam", "sunny")

	got, ok := c.Get("visakhapatnam")
	if !ok {
		t.Fatal("Get() expected fresh entry to be present")
	}
	if got != "sunny" {
		t.Errorf("Get() = %q, want %q", got, "sunny")
	}
}

func TestGetMissingKey(t *testing.T) {
	c := New[string, int](time.Minute)

	if _, ok := c.Get("absent"); ok {
		t.Error("Get() expected miss for unknown key")
	}
}

func TestExpiryBoundary(t *testing.T) {
	ttl := 30 * time.Minute
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"one ms before expiry", ttl - time.Millisecond, true},
		{"exactly at expiry", ttl, false},
		{"one ms after expiry", ttl + time.Millisecond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New[string, string](ttl)
			now := base
			c.SetClock(func() time.Time { return now })

			c.Put("k", "v")
			now = base.Add(tt.elapsed)

			if _, ok := c.Get("k"); ok != tt.want {
				t.Errorf("Get() after %v: present = %v, want %v", tt.elapsed, ok, tt.want)
			}
		})
	}
}

func TestPutOverwritesStaleEntry(t *testing.T) {
	ttl := time.Minute
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base

	c := New[string, string](ttl)
	c.SetClock(func() time.Time { return now })

	c.Put("k", "old")
	now = base.Add(2 * ttl)

	if _, ok := c.Get("k"); ok {
		t.Fatal("Get() expected stale entry to be reported absent")
	}

	c.Put("k", "new")
	got, ok := c.Get("k")
	if !ok || got != "new" {
		t.Errorf("Get() after overwrite = %q, %v; want %q, true", got, ok, "new")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base

	c := New[string, int](time.Hour)
	c.SetClock(func() time.Time { return now })
	c.Put("a", 1)
	c.Put("b", 2)

	restored := New[string, int](time.Hour)
	restored.SetClock(func() time.Time { return now })
	restored.Restore(c.Snapshot())

	for key, want := range map[string]int{"a": 1, "b": 2} {
		got, ok := restored.Get(key)
		if !ok || got != want {
			t.Errorf("restored Get(%q) = %d, %v; want %d, true", key, got, ok, want)
		}
	}
}

func TestRestoreExpiredEntriesStayAbsent(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c := New[string, int](time.Minute)
	c.SetClock(func() time.Time { return base })
	c.Put("old", 1)

	restored := New[string, int](time.Minute)
	restored.SetClock(func() time.Time { return base.Add(time.Hour) })
	restored.Restore(c.Snapshot())

	if _, ok := restored.Get("old"); ok {
		t.Error("Get() expected restored stale entry to be reported absent")
	}
}
