package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/otramalaga/civicmap/internal/logger"
)

// memBackend is an in-memory Backend for tests.
type memBackend struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet bool
	failSet bool
}

func newMemBackend() *memBackend {
	return &memBackend{entries: make(map[string][]byte)}
}

func (b *memBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failGet {
		return nil, errors.New("backend unavailable")
	}
	data, ok := b.entries[key]
	if !ok {
		return nil, nil
	}
	return data, nil
}

func (b *memBackend) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failSet {
		return errors.New("quota exceeded")
	}
	b.entries[key] = value
	return nil
}

func (b *memBackend) Del(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		delete(b.entries, k)
	}
	return nil
}

func (b *memBackend) Scan(_ context.Context, prefix string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var keys []string
	for k := range b.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func newTestCache(backend Backend, window time.Duration) (*Cache, *time.Time) {
	c := New(backend, window, logger.New("error", false))
	now := time.Now()
	c.now = func() time.Time { return now }
	return c, &now
}

type fakePayload struct {
	Name string `json:"name"`
}

func TestCacheSetThenGet(t *testing.T) {
	c, _ := newTestCache(newMemBackend(), 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, KeyBookmarks, fakePayload{Name: "huerto"})

	var got fakePayload
	if !c.GetInto(ctx, KeyBookmarks, &got) {
		t.Fatal("GetInto() missed immediately after Set()")
	}
	if got.Name != "huerto" {
		t.Errorf("payload = %+v, want name huerto", got)
	}
}

func TestCacheExpiration(t *testing.T) {
	c, now := newTestCache(newMemBackend(), 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, KeyBookmarks, fakePayload{Name: "huerto"})

	*now = now.Add(5*time.Minute - time.Second)
	if _, ok := c.Get(ctx, KeyBookmarks); !ok {
		t.Error("entry expired before the window elapsed")
	}

	*now = now.Add(2 * time.Second)
	if _, ok := c.Get(ctx, KeyBookmarks); ok {
		t.Error("entry survived past the expiration window")
	}
}

func TestCacheExpiredEntryIsPurged(t *testing.T) {
	backend := newMemBackend()
	c, now := newTestCache(backend, 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, KeyTags, fakePayload{Name: "vivienda"})
	*now = now.Add(10 * time.Minute)
	c.Get(ctx, KeyTags)

	if _, present := backend.entries[Key(KeyTags)]; present {
		t.Error("stale entry was not purged eagerly")
	}
}

func TestCacheInvalidateAll(t *testing.T) {
	c, _ := newTestCache(newMemBackend(), 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, KeyBookmarks, fakePayload{Name: "a"})
	c.Set(ctx, KeyCategories, fakePayload{Name: "b"})
	c.Set(ctx, KeyTags, fakePayload{Name: "c"})

	c.InvalidateAll(ctx)

	for _, key := range []string{KeyBookmarks, KeyCategories, KeyTags} {
		if _, ok := c.Get(ctx, key); ok {
			t.Errorf("key %q still cached after InvalidateAll()", key)
		}
	}
}

func TestCacheCorruptEntryIsAMiss(t *testing.T) {
	backend := newMemBackend()
	c, _ := newTestCache(backend, 5*time.Minute)
	ctx := context.Background()

	backend.entries[Key(KeyBookmarks)] = []byte("{not json")

	if _, ok := c.Get(ctx, KeyBookmarks); ok {
		t.Error("corrupt entry returned as a hit")
	}
	if _, present := backend.entries[Key(KeyBookmarks)]; present {
		t.Error("corrupt entry was not purged")
	}
}

func TestCacheBackendFailuresAreSwallowed(t *testing.T) {
	backend := newMemBackend()
	c, _ := newTestCache(backend, 5*time.Minute)
	ctx := context.Background()

	backend.failGet = true
	if _, ok := c.Get(ctx, KeyBookmarks); ok {
		t.Error("backend read failure surfaced as a hit")
	}

	backend.failSet = true
	// Must not panic or propagate anything.
	c.Set(ctx, KeyBookmarks, fakePayload{Name: "x"})
}

func TestCacheSetOverwrites(t *testing.T) {
	c, _ := newTestCache(newMemBackend(), 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, KeyCategories, fakePayload{Name: "old"})
	c.Set(ctx, KeyCategories, fakePayload{Name: "new"})

	var got fakePayload
	if !c.GetInto(ctx, KeyCategories, &got) {
		t.Fatal("GetInto() missed")
	}
	if got.Name != "new" {
		t.Errorf("payload = %q, want overwritten value %q", got.Name, "new")
	}
}
