package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"ezeats/internal/cache"
)

// StorageTTL bounds how long an untouched cart survives in Redis.
const StorageTTL = 30 * 24 * time.Hour

// Key is the storage key of a user's cart.
func Key(userID string) string {
	return "cart:" + userID
}

// RedisPersister stores a cart as JSON under a single key.
type RedisPersister struct {
	cache *cache.Client
	key   string
}

// NewRedisPersister creates a persister for key.
func NewRedisPersister(c *cache.Client, key string) *RedisPersister {
	return &RedisPersister{cache: c, key: key}
}

// Load returns the saved cart. A missing or unreadable value yields an empty cart.
func (p *RedisPersister) Load(ctx context.Context) (Cart, error) {
	data, err := p.cache.Lookup(ctx, p.key)
	if errors.Is(err, cache.ErrMiss) {
		return Cart{}.Clear(), nil
	}
	if err != nil {
		return Cart{}, err
	}
	return decode(data), nil
}

// Save writes c and refreshes the key's TTL.
func (p *RedisPersister) Save(ctx context.Context, c Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return p.cache.Save(ctx, p.key, payload, StorageTTL)
}

// MemoryPersister keeps the serialized cart in memory.
type MemoryPersister struct {
	mu   sync.Mutex
	data []byte
}

// Load returns the saved cart or an empty one.
func (p *MemoryPersister) Load(ctx context.Context) (Cart, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return decode(p.data), nil
}

// Save serializes c.
func (p *MemoryPersister) Save(ctx context.Context, c Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.data = payload
	p.mu.Unlock()
	return nil
}

func decode(data []byte) Cart {
	var c Cart
	if len(data) == 0 || json.Unmarshal(data, &c) != nil {
		return Cart{}.Clear()
	}
	// drop lines that could not have been produced by a transition
	lines := c.Lines[:0]
	seen := make(map[string]bool, len(c.Lines))
	for _, l := range c.Lines {
		id := l.Item.ID.String()
		if l.Quantity < 1 || l.Quantity > MaxQuantity || seen[id] {
			continue
		}
		seen[id] = true
		lines = append(lines, l)
	}
	if lines == nil {
		lines = []Line{}
	}
	return Cart{Lines: lines}
}
