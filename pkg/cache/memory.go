package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Memory bounded in-process cache backed by ttlcache.
// Reads never extend an entry's lifetime; expired entries read as misses
// and are dropped by Sweep or the Run janitor. When full, the least
// recently used entry is evicted.
type Memory struct {
	c *ttlcache.Cache[string, []byte]
}

// NewMemory creates an in-process cache holding at most maxEntries keys
func NewMemory(maxEntries int) *Memory {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Memory{
		c: ttlcache.New[string, []byte](
			ttlcache.WithCapacity[string, []byte](uint64(maxEntries)),
			ttlcache.WithTTL[string, []byte](TTLDefault),
			ttlcache.WithDisableTouchOnHit[string, []byte](),
		),
	}
}

func (m *Memory) IsAvailable() bool { return true }

func (m *Memory) Ping(ctx context.Context) error { return nil }

// Get decodes the value at key into dest
func (m *Memory) Get(ctx context.Context, key string, dest interface{}) error {
	it := m.c.Get(key)
	if it == nil {
		cacheRequestsTotal.WithLabelValues("memory", "miss").Inc()
		return ErrCacheMiss
	}
	cacheRequestsTotal.WithLabelValues("memory", "hit").Inc()
	return json.Unmarshal(it.Value(), dest)
}

// Set stores value for ttl; a non-positive ttl uses TTLDefault
func (m *Memory) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = TTLDefault
	}
	m.c.Set(key, data, ttl)
	return nil
}

func (m *Memory) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	return m.c.Get(key) != nil, nil
}

// Len number of stored entries, expired ones included until swept
func (m *Memory) Len() int {
	return m.c.Len()
}

// Sweep removes every expired entry and returns how many were removed
func (m *Memory) Sweep() int {
	before := m.c.Len()
	m.c.DeleteExpired()
	return before - m.c.Len()
}

// Run deletes entries as they expire until ctx is done
func (m *Memory) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		m.c.Stop()
	}()
	m.c.Start()
}
