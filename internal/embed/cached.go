package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedProvider wraps a Provider with LRU caching. Visitors repeat
// queries constantly (typing, backspacing, retrying), so the cache absorbs
// most provider round trips.
type CachedProvider struct {
	inner Provider
	cache *lru.Cache[string, []float32]
}

var _ Provider = (*CachedProvider)(nil)

// NewCachedProvider creates a cached provider wrapping inner.
func NewCachedProvider(inner Provider, cacheSize int) *CachedProvider {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, []float32](cacheSize)
	return &CachedProvider{inner: inner, cache: cache}
}

// cacheKey hashes input plus model name so a model switch never serves
// stale vectors.
func (c *CachedProvider) cacheKey(kind string, input []byte) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(c.inner.ModelName()))
	h.Write([]byte{0})
	h.Write(input)
	return hex.EncodeToString(h.Sum(nil))
}

// EmbedText returns a cached embedding if available, otherwise computes
// and caches.
func (c *CachedProvider) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey("text", []byte(text))
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}

	v, err := c.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, v)
	return v, nil
}

// EmbedImage returns a cached embedding if available, otherwise computes
// and caches.
func (c *CachedProvider) EmbedImage(ctx context.Context, data []byte) ([]float32, error) {
	key := c.cacheKey("image", data)
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}

	v, err := c.inner.EmbedImage(ctx, data)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, v)
	return v, nil
}

// Dimensions passes through to the inner provider.
func (c *CachedProvider) Dimensions() int {
	return c.inner.Dimensions()
}

// ModelName passes through to the inner provider.
func (c *CachedProvider) ModelName() string {
	return c.inner.ModelName()
}

// Available passes through to the inner provider.
func (c *CachedProvider) Available(ctx context.Context) bool {
	return c.inner.Available(ctx)
}

// Close closes the inner provider.
func (c *CachedProvider) Close() error {
	return c.inner.Close()
}

// Inner returns the underlying provider.
func (c *CachedProvider) Inner() Provider {
	return c.inner
}
