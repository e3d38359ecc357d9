package limiter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Limiter is a fixed-window request counter stored in Redis. A nil *Limiter allows everything.
type Limiter struct {
	rdb    redis.Cmdable
	limit  int
	window time.Duration
}

// New wraps an existing Redis client.
func New(rdb redis.Cmdable, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 20
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Dial connects to addr (a redis:// URL or host:port) and verifies the connection.
// The caller owns the returned client.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Key returns the Redis key counting requests of id against resource.
func Key(resource, id string) string {
	return fmt.Sprintf("rl:%s:%s", resource, id)
}

// Allow counts one request and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, resource, id string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}

	key := Key(resource, id)
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return false, err
	}

	// 窗口过期时间缺失（首次请求或上次 EXPIRE 失败）时补上，避免计数永不过期
	if ttl.Val() < 0 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("failed to set rate limit window")
		}
	}
	return incr.Val() <= int64(l.limit), nil
}

// Limit returns the configured request count per window.
func (l *Limiter) Limit() int {
	if l == nil {
		return 0
	}
	return l.limit
}
