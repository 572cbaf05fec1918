package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// The first INCR in a window sets its expiry, so the counter resets on its own.
const windowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// Redis is a fixed-window limiter shared by every instance of the service.
// It fails open: if Redis is unreachable the call is allowed and logged.
type Redis struct {
	client *redis.Client
	script *redis.Script
	prefix string
	limit  int
	window time.Duration
	log    *zap.Logger
}

// NewRedis returns a limiter allowing limit calls per window per key.
// Keys are stored under prefix.
func NewRedis(client *redis.Client, prefix string, limit int, window time.Duration, logger *zap.Logger) *Redis {
	return &Redis{
		client: client,
		script: redis.NewScript(windowScript),
		prefix: prefix,
		limit:  limit,
		window: window,
		log:    logger,
	}
}

// Allow implements Limiter.
func (l *Redis) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil || key == "" || l.limit <= 0 || l.window <= 0 {
		return true
	}
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{l.prefix + key}, ttl, l.limit).Int64()
	if err != nil {
		l.log.Warn("rate limit check failed; allowing request",
			zap.String("key", key), zap.Error(err))
		return true
	}
	return allowed == 1
}

// Ping checks connectivity; bootstrap uses it to decide between Redis and
// the in-memory fallback.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
