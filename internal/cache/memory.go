package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-evalform/pkg/wizard"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memorySessionCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemorySessionCache keeps snapshots in process memory. Entries expire
// lazily on read.
func NewMemorySessionCache(ttl time.Duration, now func() time.Time) SessionCache {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &memorySessionCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *memorySessionCache) Set(_ context.Context, state wizard.State) error {
	if state.SessionID == "" {
		return errors.New("cache: session id is required")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[state.SessionID] = memoryEntry{data: data, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *memorySessionCache) Get(_ context.Context, id string) (*wizard.State, error) {
	c.mu.Lock()
	entry, ok := c.entries[id]
	if ok && !c.now().Before(entry.expiresAt) {
		delete(c.entries, id)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var state wizard.State
	if err := json.Unmarshal(entry.data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *memorySessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}
