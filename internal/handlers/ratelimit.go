package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thisdougb/vitals/internal/config"
)

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter counts requests per client key in fixed windows
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// NewLimiterFromConfig returns a Redis limiter when client is non-nil, else
// an in-process one. A non-positive VITALS_RATE_LIMIT disables limiting and
// returns nil.
func NewLimiterFromConfig(client *redis.Client) Limiter {
	limit := config.IntValue("VITALS_RATE_LIMIT")
	if limit <= 0 {
		return nil
	}
	window := config.DurationValue("VITALS_RATE_WINDOW")

	if client != nil {
		return NewRedisLimiter(client, limit, window)
	}
	return NewMemoryLimiter(limit, window)
}

// MemoryLimiter keeps windows in process memory. Counts are per instance.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	clients map[string]*clientWindow
}

type clientWindow struct {
	count int
	reset time.Time
}

// sweep expired windows once the map grows past this
const memoryLimiterSweepSize = 10000

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*clientWindow),
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if len(l.clients) >= memoryLimiterSweepSize {
		for k, cw := range l.clients {
			if !now.Before(cw.reset) {
				delete(l.clients, k)
			}
		}
	}

	cw, ok := l.clients[key]
	if !ok || !now.Before(cw.reset) {
		cw = &clientWindow{reset: now.Add(l.window)}
		l.clients[key] = cw
	}
	cw.count++

	return decide(l.limit, int64(cw.count), cw.reset), nil
}

// RedisLimiter shares windows between instances through Redis counters
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "vitals:ratelimit:",
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit incr: %w", err)
	}

	// first hit opens the window
	if count == 1 {
		if err := l.client.PExpire(ctx, redisKey, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	ttl, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit ttl: %w", err)
	}
	if ttl < 0 {
		// key lost its expiry, start a new window
		l.client.PExpire(ctx, redisKey, l.window)
		ttl = l.window
	}

	return decide(l.limit, count, time.Now().Add(ttl)), nil
}

func decide(limit int, count int64, reset time.Time) Decision {
	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: int(remaining),
		Reset:     reset,
	}
}

// RateLimit rejects clients over their window with 429. Limiter errors let
// the request through.
func RateLimit(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := limiter.Allow(r.Context(), clientKey(r))
			if err != nil {
				config.LogError(r.Context(), fmt.Sprintf("rate limiter unavailable: %v", err))
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

			if !d.Allowed {
				retry := int(time.Until(d.Reset).Seconds() + 0.5)
				if retry < 1 {
					retry = 1
				}
				h.Set("Retry-After", strconv.Itoa(retry))
				config.LogInfo(r.Context(), "rate limit exceeded")
				writeError(w, http.StatusTooManyRequests, "", CodeRateLimitExceeded,
					"Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey is the first X-Forwarded-For entry, else the remote host
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
