package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	// Miss for unknown key
	_, hit, err := c.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss for unknown key")
	}

	// Round-trip
	if err := c.Set(ctx, "bitmap:abc", []byte("pixels"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "bitmap:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "pixels" {
		t.Errorf("data = %q, want %q", data, "pixels")
	}

	// Delete
	if err := c.Delete(ctx, "bitmap:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "bitmap:abc"); hit {
		t.Error("expected miss after Delete")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "bitmap:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	// Already-expired entry is a miss
	if err := c.Set(ctx, "key", []byte("old"), -time.Second); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should be a miss")
	}

	// Zero TTL never expires
	if err := c.Set(ctx, "forever", []byte("data"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// BitmapKey
	bitmapKey := k.BitmapKey("abc123")
	if bitmapKey != "bitmap:abc123" {
		t.Errorf("BitmapKey unexpected: %s", bitmapKey)
	}

	// SheetKey should include options in hash
	sk1 := k.SheetKey("hash123", SheetKeyOpts{MaxWidth: 768})
	sk2 := k.SheetKey("hash123", SheetKeyOpts{MaxWidth: 512})
	if sk1 == sk2 {
		t.Error("Different SheetKeyOpts should produce different keys")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "css"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	// Determinism
	if k.SheetKey("h", SheetKeyOpts{MaxWidth: 768}) != k.SheetKey("h", SheetKeyOpts{MaxWidth: 768}) {
		t.Error("SheetKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "atlantis:")

	// All keys should be prefixed
	bitmapKey := scoped.BitmapKey("abc")
	if bitmapKey != "atlantis:bitmap:abc" {
		t.Errorf("BitmapKey unexpected: %s", bitmapKey)
	}
	if !strings.HasPrefix(scoped.SheetKey("h", SheetKeyOpts{MaxWidth: 768}), "atlantis:sheet:") {
		t.Error("SheetKey should carry the scope prefix")
	}
	if !strings.HasPrefix(scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "png"}), "atlantis:artifact:") {
		t.Error("ArtifactKey should carry the scope prefix")
	}

	// Nil inner falls back to the default keyer
	fallback := NewScopedKeyer(nil, "p:")
	if fallback.BitmapKey("x") != "p:bitmap:x" {
		t.Error("nil inner should use DefaultKeyer")
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}

	err := Retryable(ErrNotFound)
	if !IsRetryable(err) {
		t.Error("wrapped error should be retryable")
	}
	if IsRetryable(ErrNotFound) {
		t.Error("bare error should not be retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Non-retryable error returns immediately
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("err = %v, want %v", err, ErrNotFound)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	// Success on first try
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}
