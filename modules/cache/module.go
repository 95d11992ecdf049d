package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// Module manages the Redis connection lifecycle for the task cache.
// When addr is empty the module is a no-op and GetCache returns nil,
// which disables caching in the task service.
type Module struct {
	addr   string
	prefix string
	ttl    time.Duration
	cache  *Cache
}

var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new cache module.
func NewModule(addr, prefix string, ttl time.Duration) *Module {
	return &Module{
		addr:   addr,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// Start connects to Redis and verifies the connection.
func (m *Module) Start(ctx context.Context) error {
	if m.addr == "" {
		log.Println("[cache] No Redis address configured, caching disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: m.addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.addr, err)
	}

	m.cache = New(client, m.prefix, m.ttl)
	log.Printf("[cache] Connected to Redis at %s (prefix=%q, ttl=%s)", m.addr, m.prefix, m.ttl)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.cache == nil {
		return nil
	}
	log.Println("[cache] Closing Redis connection...")
	return m.cache.Close()
}

// Health reports the Redis connection state.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.cache == nil {
		return mono.HealthStatus{
			Healthy: true,
			Message: "caching disabled",
		}
	}
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr":  m.addr,
			"stats": m.cache.GetStats(),
		},
	}
}

// GetCache returns the cache instance, or nil when caching is disabled.
func (m *Module) GetCache() *Cache {
	return m.cache
}
