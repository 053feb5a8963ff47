package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newStore(t *testing.T) (*miniredis.Miniredis, *PhashStore) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return s, NewPhashStore(rdb)
}

func TestPhashStore_AddAndMembers(t *testing.T) {
	_, store := newStore(t)
	ctx := context.Background()

	got, err := store.Members(ctx)
	if err != nil {
		t.Fatalf("Members on empty set: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("empty set returned %v", got)
	}

	for _, h := range []string{"aaaa0000", "bbbb1111"} {
		if err := store.Add(ctx, h); err != nil {
			t.Fatalf("Add %s: %v", h, err)
		}
	}

	got, err = store.Members(ctx)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d members, want 2: %v", len(got), got)
	}
}

func TestPhashStore_AddIsIdempotent(t *testing.T) {
	_, store := newStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Add(ctx, "aaaa0000"); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := store.Members(ctx)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("set semantics violated: %v", got)
	}
}

func TestPhashStore_SharedAcrossInstances(t *testing.T) {
	s, store := newStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, "aaaa0000"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	rdb2 := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb2.Close() })
	other := NewPhashStore(rdb2)

	got, err := other.Members(ctx)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(got) != 1 || got[0] != "aaaa0000" {
		t.Fatalf("second instance sees %v, want the shared hash", got)
	}
}
