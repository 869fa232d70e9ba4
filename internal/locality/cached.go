package locality

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mohammed-shakir/pluscode/internal/core/observability"
)

// Cached is a read-through LRU in front of a Store. Writes go to the
// backing store first and then refresh or drop the cached entry.
type Cached struct {
	next  Store
	cache *lru.Cache[string, Locality]
}

var _ Store = (*Cached)(nil)

func NewCached(next Store, size int) (*Cached, error) {
	if next == nil {
		return nil, errors.New("locality: nil backing store")
	}
	if size <= 0 {
		size = 1024
	}
	c, err := lru.New[string, Locality](size)
	if err != nil {
		return nil, fmt.Errorf("locality lru: %w", err)
	}
	return &Cached{next: next, cache: c}, nil
}

func (c *Cached) Get(ctx context.Context, name string) (Locality, error) {
	key := NormalizeName(name)
	if l, ok := c.cache.Get(key); ok {
		observability.IncLocalityCacheHit()
		return l, nil
	}
	observability.IncLocalityCacheMiss()
	l, err := c.next.Get(ctx, key)
	if err != nil {
		return Locality{}, err
	}
	c.cache.Add(key, l)
	return l, nil
}

func (c *Cached) Put(ctx context.Context, l Locality) error {
	if err := c.next.Put(ctx, l); err != nil {
		return err
	}
	l.Name = NormalizeName(l.Name)
	c.cache.Add(l.Name, l)
	return nil
}

func (c *Cached) Delete(ctx context.Context, name string) error {
	key := NormalizeName(name)
	c.cache.Remove(key)
	return c.next.Delete(ctx, key)
}

// Invalidate drops a cached entry without touching the backing store. The
// change feed calls it after another replica has written the store.
func (c *Cached) Invalidate(name string) {
	c.cache.Remove(NormalizeName(name))
}

func (c *Cached) Len() int { return c.cache.Len() }
