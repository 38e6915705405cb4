package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func testStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "v" {
		t.Errorf("expected v, got %q", val)
	}

	ok, err := store.SetNX(ctx, "k", []byte("other"), 0)
	if err != nil {
		t.Fatalf("SetNX failed: %v", err)
	}
	if ok {
		t.Error("SetNX should not overwrite an existing key")
	}

	ok, err = store.SetNX(ctx, "fresh", []byte("x"), time.Minute)
	if err != nil {
		t.Fatalf("SetNX failed: %v", err)
	}
	if !ok {
		t.Error("SetNX should set a fresh key")
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "k"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key should be nil, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Set(ctx, "short", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Get(ctx, "short"); err != ErrNotFound {
		t.Errorf("expired key should be gone, got %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	srv := miniredis.RunT(t)

	store, err := NewRedisStore(RedisConfig{Addr: srv.Addr()})
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	defer store.Close()

	testStoreContract(t, store)
}
