package scheduling

import (
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/internal/repo"
)

// ReadCache memoizes resolved weeks. Any slot write purges it whole, since a
// change to the standing template affects every week that falls back to it.
// A nil *ReadCache is a valid, disabled cache.
type ReadCache struct {
	lru *expirable.LRU[string, []repo.Slot]
}

func NewReadCache(size int, ttl time.Duration) *ReadCache {
	if size <= 0 {
		size = 64
	}
	return &ReadCache{lru: expirable.NewLRU[string, []repo.Slot](size, nil, ttl)}
}

// NewReadCacheFromConfig returns nil when caching is disabled.
func NewReadCacheFromConfig(cfg *config.Config) *ReadCache {
	c := cfg.Cache
	if !c.Enabled {
		return nil
	}
	return NewReadCache(c.Size, time.Duration(c.TTLSeconds)*time.Second)
}

func (c *ReadCache) get(key string) ([]repo.Slot, bool) {
	if c == nil {
		return nil, false
	}
	slots, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return slices.Clone(slots), true
}

func (c *ReadCache) put(key string, slots []repo.Slot) {
	if c == nil {
		return
	}
	c.lru.Add(key, slices.Clone(slots))
}

// Purge drops every cached week.
func (c *ReadCache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

func (c *ReadCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
