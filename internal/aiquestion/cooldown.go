package aiquestion

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/interviewace-api/internal/config"
)

// DefaultCooldown applies when a rate limit response suggests no delay.
const DefaultCooldown = 60 * time.Second

// Cooldown tracks the window during which provider calls are skipped.
type Cooldown interface {
	// ShouldSkip reports whether now is strictly before the retry deadline.
	ShouldSkip(ctx context.Context) bool
	// SetCooldown moves the deadline to now+delay, or now+DefaultCooldown
	// when delay is not positive.
	SetCooldown(ctx context.Context, delay time.Duration)
}

func effectiveDelay(delay time.Duration) time.Duration {
	if delay > 0 {
		return delay
	}
	return DefaultCooldown
}

type MemoryCooldown struct {
	mu         sync.RWMutex
	retryUntil time.Time
	now        func() time.Time
}

func NewMemoryCooldown() *MemoryCooldown {
	return &MemoryCooldown{now: time.Now}
}

func (c *MemoryCooldown) ShouldSkip(_ context.Context) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now().Before(c.retryUntil)
}

func (c *MemoryCooldown) SetCooldown(_ context.Context, delay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retryUntil = c.now().Add(effectiveDelay(delay))
}

func (c *MemoryCooldown) RetryUntil() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.retryUntil
}

const defaultCooldownKey = "interviewace:ai:retry_until"

// RedisCooldown shares the deadline between instances. The key holds the
// deadline in unix milliseconds and expires with it.
type RedisCooldown struct {
	client redis.Cmdable
	key    string
	now    func() time.Time
}

func NewRedisCooldown(client redis.Cmdable) *RedisCooldown {
	return &RedisCooldown{client: client, key: defaultCooldownKey, now: time.Now}
}

// ShouldSkip fails open: when Redis cannot be read the provider is called.
func (c *RedisCooldown) ShouldSkip(ctx context.Context) bool {
	until, err := c.client.Get(ctx, c.key).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			config.WithContext(ctx).WithError(err).Warn("failed to read AI cooldown from redis")
		}
		return false
	}
	return c.now().UnixMilli() < until
}

func (c *RedisCooldown) SetCooldown(ctx context.Context, delay time.Duration) {
	delay = effectiveDelay(delay)
	until := c.now().Add(delay)
	if err := c.client.Set(ctx, c.key, until.UnixMilli(), delay).Err(); err != nil {
		config.WithContext(ctx).WithError(err).Warn("failed to store AI cooldown in redis")
	}
}
