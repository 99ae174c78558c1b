package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftTTL is how long an untouched draft is kept
const DraftTTL = 7 * 24 * time.Hour

var ErrDraftNotFound = errors.New("wizard: draft not found")

// DraftStore persists wizard drafts between requests
type DraftStore interface {
	Save(ctx context.Context, w *Wizard) error
	Load(ctx context.Context, id string) (*Wizard, error)
	Delete(ctx context.Context, id string) error
}

var draftStoreInstance DraftStore

// GetDraftStore returns the package draft store
func GetDraftStore() DraftStore {
	return draftStoreInstance
}

// SetDraftStore sets the draft store used by the draft endpoints
func SetDraftStore(store DraftStore) {
	draftStoreInstance = store
}

// MemoryStore keeps drafts in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string][]byte)}
}

func (m *MemoryStore) Save(ctx context.Context, w *Wizard) error {
	// stored as json so callers never share the slices of a saved draft
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	m.mu.Lock()
	m.drafts[w.ID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*Wizard, error) {
	m.mu.RLock()
	data, ok := m.drafts[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrDraftNotFound
	}
	var w Wizard
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &w, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.drafts, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored drafts
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.drafts)
}

// RedisStore keeps drafts in Redis with a sliding TTL
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: DraftTTL}
}

func draftKey(id string) string {
	return fmt.Sprintf("draft:%s", id)
}

func (s *RedisStore) Save(ctx context.Context, w *Wizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.rdb.Set(ctx, draftKey(w.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Wizard, error) {
	data, err := s.rdb.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	var w Wizard
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &w, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
