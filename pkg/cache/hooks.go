package cache

import (
	"context"
	"time"

	"github.com/matzehuels/balleat/pkg/observability"
)

// hooked reports hits, misses and writes to the registered cache hooks.
type hooked struct {
	Cache
}

// WithHooks wraps c so every Get and Set is reported to
// observability.Cache(). The key type is the key's hash prefix.
func WithHooks(c Cache) Cache {
	if _, ok := c.(*NullCache); ok {
		return c
	}
	return &hooked{Cache: c}
}

func (h *hooked) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := h.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (h *hooked) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := h.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// Clear forwards to the wrapped cache when it supports clearing.
func (h *hooked) Clear(ctx context.Context) (int, error) {
	if c, ok := h.Cache.(Clearer); ok {
		return c.Clear(ctx)
	}
	return 0, nil
}
