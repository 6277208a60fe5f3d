package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	redisclient "github.com/foodsupplychain/procurement/pkg/redis"
)

// Store persists carts per session. Load returns an empty cart when the
// session has none.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	cart      Cart
	expiresAt time.Time
}

// MemoryStore keeps carts in process memory with an idle TTL.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore builds a store whose carts expire ttl after their last save.
// A non-positive ttl keeps carts until deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return New(sessionID), nil
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, sessionID)
		return New(sessionID), nil
	}
	return cloneCart(entry.cart), nil
}

func (s *MemoryStore) Save(_ context.Context, cart *Cart) error {
	if cart == nil || cart.SessionID == "" {
		return fmt.Errorf("cart session id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{cart: *cloneCart(*cart)}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[cart.SessionID] = entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

type keyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStore keeps each session's cart as a JSON document with a sliding TTL.
type RedisStore struct {
	kv  keyValueStore
	ttl time.Duration
}

// NewRedisStore wraps a redis client.
func NewRedisStore(kv keyValueStore, ttl time.Duration) *RedisStore {
	return &RedisStore{kv: kv, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(sessionID))
	if err != nil {
		if redisclient.IsNotFound(err) {
			return New(sessionID), nil
		}
		return nil, fmt.Errorf("read cart: %w", err)
	}
	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if cart.Lines == nil {
		cart.Lines = []Line{}
	}
	cart.SessionID = sessionID
	return &cart, nil
}

func (s *RedisStore) Save(ctx context.Context, cart *Cart) error {
	if cart == nil || cart.SessionID == "" {
		return fmt.Errorf("cart session id required")
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(cart.SessionID), payload, s.ttl); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(sessionID)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func cloneCart(in Cart) *Cart {
	out := in
	out.Lines = make([]Line, len(in.Lines))
	copy(out.Lines, in.Lines)
	return &out
}
