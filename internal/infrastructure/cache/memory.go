package cache

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/gregjones/httpcache"

	"onghub/internal/domain/nomenclature"
)

// Memory is the in-process cache used when Redis is not configured. Each
// value is stored behind an 8-byte expiry stamp.
type Memory struct {
	store *httpcache.MemoryCache
	ttl   time.Duration
	now   func() time.Time
}

var _ nomenclature.Cache = (*Memory)(nil)

// NewMemory creates an in-process cache. A ttl <= 0 never expires entries.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{store: httpcache.NewMemoryCache(), ttl: ttl, now: time.Now}
}

func (c *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok := c.store.Get(key)
	if !ok || len(b) < 8 {
		return nil, false, nil
	}
	expires := int64(binary.BigEndian.Uint64(b[:8]))
	if expires > 0 && c.now().UnixNano() > expires {
		c.store.Delete(key)
		return nil, false, nil
	}
	return b[8:], true, nil
}

func (c *Memory) Set(ctx context.Context, key string, value []byte) error {
	var expires int64
	if c.ttl > 0 {
		expires = c.now().Add(c.ttl).UnixNano()
	}
	b := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(b[:8], uint64(expires))
	copy(b[8:], value)
	c.store.Set(key, b)
	return nil
}
