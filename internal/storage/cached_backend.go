package storage

import (
	"context"
	"statekeeper/internal/providers"
)

// CachedBackend is a write-through blob cache in front of another backend.
type CachedBackend struct {
	inner Backend
	cache providers.CacheProviderInterface
}

func NewCachedBackend(inner Backend, cache providers.CacheProviderInterface) *CachedBackend {
	return &CachedBackend{inner: inner, cache: cache}
}

func cacheKey(key string) string {
	return "blob:" + key
}

func (c *CachedBackend) Save(ctx context.Context, key string, blob []byte) error {
	if err := c.inner.Save(ctx, key, blob); err != nil {
		c.cache.Del(cacheKey(key))
		return err
	}
	c.cache.Set(cacheKey(key), blob)
	return nil
}

func (c *CachedBackend) Load(ctx context.Context, key string) ([]byte, error) {
	if blob, ok := c.cache.Get(cacheKey(key)); ok {
		return blob, nil
	}
	blob, err := c.inner.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	c.cache.Set(cacheKey(key), blob)
	return blob, nil
}

func (c *CachedBackend) Exists(ctx context.Context, key string) bool {
	if _, ok := c.cache.Get(cacheKey(key)); ok {
		return true
	}
	return c.inner.Exists(ctx, key)
}

func (c *CachedBackend) Delete(ctx context.Context, key string) error {
	c.cache.Del(cacheKey(key))
	return c.inner.Delete(ctx, key)
}
