package views

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionFlagTTL bounds how long a counted marker outlives its last touch. Browser
// sessions rarely live longer; an expired flag only risks one extra count.
const sessionFlagTTL = 12 * time.Hour

// RedisSessionFlags stores counted markers in Redis so the at-most-once-per-session
// guarantee holds across server restarts and replicas. Failures degrade to "not
// counted": undercounting is never traded for a hard error.
type RedisSessionFlags struct {
	client *redis.Client
}

// NewRedisSessionFlags wraps an existing Redis client.
func NewRedisSessionFlags(client *redis.Client) *RedisSessionFlags {
	return &RedisSessionFlags{client: client}
}

func flagKey(sessionID, pageURL string) string {
	return "pv:counted:" + sessionID + ":" + pageURL
}

// IsCounted reports whether this session already counted this page.
func (r *RedisSessionFlags) IsCounted(sessionID, pageURL string) bool {
	if r.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := r.client.Exists(ctx, flagKey(sessionID, pageURL)).Result()
	if err != nil {
		logf("session flag read failed: %v", err)
		return false
	}
	return n > 0
}

// MarkCounted persists the counted marker with a TTL.
func (r *RedisSessionFlags) MarkCounted(sessionID, pageURL string) {
	if r.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.client.Set(ctx, flagKey(sessionID, pageURL), "1", sessionFlagTTL).Err(); err != nil {
		logf("session flag write failed: %v", err)
	}
}

// MemorySessionFlags is an in-process SessionFlags, used in tests and as a fallback
// when Redis is not configured.
type MemorySessionFlags struct {
	mu    sync.Mutex
	flags map[string]struct{}
}

// NewMemorySessionFlags creates an empty in-memory flag store.
func NewMemorySessionFlags() *MemorySessionFlags {
	return &MemorySessionFlags{flags: make(map[string]struct{})}
}

// IsCounted reports whether this session already counted this page.
func (m *MemorySessionFlags) IsCounted(sessionID, pageURL string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.flags[flagKey(sessionID, pageURL)]
	return ok
}

// MarkCounted records the counted marker.
func (m *MemorySessionFlags) MarkCounted(sessionID, pageURL string) {
	m.mu.Lock()
	m.flags[flagKey(sessionID, pageURL)] = struct{}{}
	m.mu.Unlock()
}
