package abuse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agentarchitect/leadgate/internal/metrics"
	"github.com/agentarchitect/leadgate/internal/models"
)

// RateLimitInfo is the limiter's decision for one request.
type RateLimitInfo struct {
	Allowed bool
	// RetryIn is the remaining time until the current window resets.
	// Only meaningful when Allowed is false.
	RetryIn time.Duration
}

// RateLimiter bounds request volume per client identity and submission kind.
// Implementations must make the increment-and-compare atomic per key so two
// concurrent requests cannot both claim the last slot.
type RateLimiter interface {
	Allow(ctx context.Context, identity string, kind models.SubmissionKind) (RateLimitInfo, error)
	Close() error
}

func limiterKey(identity string, kind models.SubmissionKind) string {
	return fmt.Sprintf("ratelimit:%s:%s", identity, kind)
}

type redisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisRateLimiter builds a redis-backed fixed-window limiter so multiple
// gateway instances share one counter per identity+kind.
func NewRedisRateLimiter(redisURL string, limit int, window time.Duration) (RateLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &redisRateLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
	}, nil
}

// NewRedisRateLimiterWithClient wraps an existing client. Used in tests.
func NewRedisRateLimiterWithClient(client *redis.Client, limit int, window time.Duration) RateLimiter {
	return &redisRateLimiter{client: client, limit: int64(limit), window: window}
}

// fixedWindowScript atomically increments the window counter and returns the
// count plus the window's remaining TTL in milliseconds. The window boundary
// is set once, when the first request of the window arrives, and decays on
// elapsed time rather than sliding with each request.
const fixedWindowScript = `
	local key = KEYS[1]
	local window_ms = tonumber(ARGV[1])

	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('PEXPIRE', key, window_ms)
	end

	local ttl = redis.call('PTTL', key)
	if ttl < 0 then
		redis.call('PEXPIRE', key, window_ms)
		ttl = window_ms
	end

	return {count, ttl}
`

func (r *redisRateLimiter) Allow(ctx context.Context, identity string, kind models.SubmissionKind) (RateLimitInfo, error) {
	result, err := r.client.Eval(ctx, fixedWindowScript,
		[]string{limiterKey(identity, kind)},
		r.window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return RateLimitInfo{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	if len(result) != 2 {
		return RateLimitInfo{}, fmt.Errorf("rate limit check returned %d values", len(result))
	}

	count, ttlMs := result[0], result[1]
	if count > r.limit {
		metrics.RateLimitHits.WithLabelValues(string(kind)).Inc()
		return RateLimitInfo{Allowed: false, RetryIn: time.Duration(ttlMs) * time.Millisecond}, nil
	}
	return RateLimitInfo{Allowed: true}, nil
}

func (r *redisRateLimiter) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

type windowState struct {
	mu    sync.Mutex
	start time.Time
	count int
}

type memoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*windowState
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewMemoryRateLimiter builds an in-process fixed-window limiter for
// single-instance deployments and tests. The clock is injectable.
func NewMemoryRateLimiter(limit int, window time.Duration, now func() time.Time) RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &memoryRateLimiter{
		windows: make(map[string]*windowState),
		limit:   limit,
		window:  window,
		now:     now,
	}
}

func (m *memoryRateLimiter) Allow(ctx context.Context, identity string, kind models.SubmissionKind) (RateLimitInfo, error) {
	key := limiterKey(identity, kind)

	m.mu.Lock()
	st, ok := m.windows[key]
	if !ok {
		st = &windowState{}
		m.windows[key] = st
	}
	m.mu.Unlock()

	st.mu.Lock()
	defer st.mu.Unlock()

	now := m.now()
	if st.count == 0 || now.Sub(st.start) >= m.window {
		st.start = now
		st.count = 0
	}

	st.count++
	if st.count > m.limit {
		metrics.RateLimitHits.WithLabelValues(string(kind)).Inc()
		retry := m.window - now.Sub(st.start)
		if retry < time.Millisecond {
			retry = time.Millisecond
		}
		return RateLimitInfo{Allowed: false, RetryIn: retry}, nil
	}
	return RateLimitInfo{Allowed: true}, nil
}

func (m *memoryRateLimiter) Close() error {
	return nil
}

// NoOpRateLimiter always allows requests (for disabled rate limiting).
type NoOpRateLimiter struct{}

func (NoOpRateLimiter) Allow(ctx context.Context, identity string, kind models.SubmissionKind) (RateLimitInfo, error) {
	return RateLimitInfo{Allowed: true}, nil
}

func (NoOpRateLimiter) Close() error { return nil }
