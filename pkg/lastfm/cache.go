package lastfm

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CacheKeying selects how an entity's response cache keys its entries.
type CacheKeying int

const (
	// CacheKeyByArguments keys entries by operation name and call
	// arguments, so TopTracks("7day") and TopTracks("overall") are cached
	// separately.
	CacheKeyByArguments CacheKeying = iota

	// CacheKeyByName keys entries by operation name alone. The first
	// result for an operation is returned for every later argument set
	// until a forced refresh.
	CacheKeyByName
)

// String returns the configuration name of the keying strategy.
func (k CacheKeying) String() string {
	if k == CacheKeyByName {
		return "name"
	}
	return "arguments"
}

// ParseCacheKeying maps "arguments" (or "") and "name" to a strategy.
func ParseCacheKeying(s string) (CacheKeying, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "arguments", "args":
		return CacheKeyByArguments, nil
	case "name":
		return CacheKeyByName, nil
	default:
		return 0, argumentError("cache keying", "must be arguments or name, got "+s)
	}
}

// responseCache memoizes derived collections for one entity instance.
// Entries never expire; only a forced call replaces them.
type responseCache struct {
	keying CacheKeying

	mu      sync.Mutex
	entries map[string]any
	group   singleflight.Group
}

func newResponseCache(keying CacheKeying) *responseCache {
	return &responseCache{
		keying:  keying,
		entries: make(map[string]any),
	}
}

func (c *responseCache) key(name string, params map[string]string) string {
	if c.keying == CacheKeyByName || len(params) == 0 {
		return name
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		b.WriteByte('\x00')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// get returns the stored result for (name, params) unless force is set or
// nothing is stored, in which case fetch runs and its result is stored.
// Errors are returned and never stored.
//
// Concurrent callers for one key share a fetch. The shared fetch runs
// under a context that ignores cancellation, and each caller stops
// waiting when its own ctx is done. A forced call never joins a fetch
// already in flight.
func (c *responseCache) get(ctx context.Context, name string, params map[string]string, force bool, fetch func(context.Context) (any, error)) (any, error) {
	key := c.key(name, params)

	if force {
		c.group.Forget(key)
	} else {
		c.mu.Lock()
		v, ok := c.entries[key]
		c.mu.Unlock()
		if ok {
			return v, nil
		}
	}

	ch := c.group.DoChan(key, func() (any, error) {
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = v
		c.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// invalidate drops every stored entry.
func (c *responseCache) invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]any)
	c.mu.Unlock()
}

func (c *responseCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
