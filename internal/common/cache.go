package common

import (
	"errors"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Cache is the key-value store used for read-through record caching. Values
// are serialized snapshots; expiry and eviction belong to the backend.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Flush()
}

type MemoryCache struct {
	c *cache.Cache
}

func NewMemoryCache(expirationTime, cleanupTime time.Duration) *MemoryCache {
	return &MemoryCache{c: cache.New(expirationTime, cleanupTime)}
}

func (m *MemoryCache) Get(key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}

	b, ok := v.([]byte)
	if !ok {
		return nil, ErrCacheMiss
	}

	return b, nil
}

func (m *MemoryCache) Set(key string, value []byte) error {
	m.c.Set(key, value, cache.DefaultExpiration)
	return nil
}

func (m *MemoryCache) Delete(key string) error {
	m.c.Delete(key)
	return nil
}

func (m *MemoryCache) Flush() {
	m.c.Flush()
}

// GetOrLoad reads key from the cache and falls back to loader on a miss,
// storing whatever the loader returns before handing it back. The second
// return value reports whether the payload came from the cache. A backend
// failure on read counts as a miss and a failure on write is dropped: the
// cache is best-effort and must never fail a request the primary store could
// have served.
func GetOrLoad(c Cache, key string, loader func() ([]byte, error)) ([]byte, bool, error) {
	v, err := c.Get(key)
	if err == nil {
		return v, true, nil
	}

	v, err = loader()
	if err != nil {
		return nil, false, err
	}

	_ = c.Set(key, v)

	return v, false, nil
}

func CacheKeyPostID(id int) string {
	return "post:id:" + strconv.Itoa(id)
}

func CacheKeyPostSlug(slug string) string {
	return "post:slug:" + slug
}

func CacheKeyUserByAccessToken(token []byte) string {
	return "user_by_access_token:" + string(token)
}
