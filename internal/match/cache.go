package match

import (
	"fmt"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache holds lookup results keyed by (normalized name, party, fallback).
// With a non-positive ttl entries live as long as the cache does.
type Cache struct {
	inner *cache.Cache
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return &Cache{inner: cache.New(cache.NoExpiration, 0)}
	}
	return &Cache{inner: cache.New(ttl, 2*ttl)}
}

func cacheKey(name, party string, fallback bool) string {
	return fmt.Sprintf("%s\x00%s\x00%t", name, party, fallback)
}

func (c *Cache) Get(name, party string, fallback bool) ([]Result, bool) {
	value, ok := c.inner.Get(cacheKey(name, party, fallback))
	if !ok {
		return nil, false
	}
	return slices.Clone(value.([]Result)), true
}

func (c *Cache) Set(name, party string, fallback bool, results []Result) {
	c.inner.SetDefault(cacheKey(name, party, fallback), slices.Clone(results))
}

func (c *Cache) Len() int {
	return c.inner.ItemCount()
}

func (c *Cache) Flush() {
	c.inner.Flush()
}

type options struct {
	useCache bool
	fallback bool
}

func defaultOptions() options {
	return options{useCache: true, fallback: true}
}

type Option func(*options)

// WithoutCache bypasses the lookup cache for both reading and writing.
func WithoutCache() Option {
	return func(o *options) {
		o.useCache = false
	}
}

// WithoutFallback disables the online search for committees missing from the roster.
func WithoutFallback() Option {
	return func(o *options) {
		o.fallback = false
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
