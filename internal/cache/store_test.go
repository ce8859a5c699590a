package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(0)
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload, ok, err := store.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(payload) != "v" {
		t.Fatalf("unexpected payload: %s", payload)
	}

	if _, ok, _ := store.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(0)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	store.Set(ctx, "k", []byte("v"), 30*time.Second)

	now = now.Add(29 * time.Second)
	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	now = now.Add(2 * time.Second)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestMemoryStoreEvictsExpiredFirst(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(2)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	store.Set(ctx, "short", []byte("a"), time.Second)
	store.Set(ctx, "long", []byte("b"), time.Hour)

	now = now.Add(2 * time.Second)
	store.Set(ctx, "new", []byte("c"), time.Hour)

	if _, ok, _ := store.Get(ctx, "long"); !ok {
		t.Fatal("live entry should survive eviction")
	}
	if _, ok, _ := store.Get(ctx, "new"); !ok {
		t.Fatal("new entry should be stored")
	}
	if _, ok, _ := store.Get(ctx, "short"); ok {
		t.Fatal("expired entry should have been swept")
	}
}

func TestMemoryStoreEvictsEarliestExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(2)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	store.Set(ctx, "soon", []byte("a"), time.Minute)
	store.Set(ctx, "later", []byte("b"), time.Hour)
	store.Set(ctx, "new", []byte("c"), time.Hour)

	if _, ok, _ := store.Get(ctx, "soon"); ok {
		t.Fatal("entry closest to expiry should be the victim")
	}
	if _, ok, _ := store.Get(ctx, "later"); !ok {
		t.Fatal("later entry should survive")
	}
}

func TestMemoryStoreBounded(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(4)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		store.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Hour)
	}

	store.mu.Lock()
	size := len(store.entries)
	store.mu.Unlock()
	if size > 4 {
		t.Fatalf("store exceeded its bound: %d entries", size)
	}
}

func TestMemoryStoreOverwriteDoesNotEvict(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(2)
	ctx := context.Background()

	store.Set(ctx, "a", []byte("1"), time.Hour)
	store.Set(ctx, "b", []byte("2"), time.Hour)
	store.Set(ctx, "a", []byte("3"), time.Hour)

	payload, ok, _ := store.Get(ctx, "a")
	if !ok || string(payload) != "3" {
		t.Fatalf("expected overwrite, got ok=%v payload=%s", ok, payload)
	}
	if _, ok, _ := store.Get(ctx, "b"); !ok {
		t.Fatal("sibling entry should survive overwrite")
	}
}
