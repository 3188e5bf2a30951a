package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"Athena_Nexus/internal/pkg"
)

// 有序集合滑动窗口：score 为请求时间（毫秒），先清掉窗口外的记录，
// 未超限才写入本次请求，被拒绝的请求不占用名额
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', ARGV[5])
local count = redis.call('ZCARD', key)
if count >= limit then
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local retry = window
	if oldest[2] then
		retry = tonumber(oldest[2]) + window - now
	end
	return {0, 0, retry}
end
redis.call('ZADD', key, ARGV[1], ARGV[4])
redis.call('PEXPIRE', key, ARGV[2])
return {1, limit - count - 1, 0}
`)

// RateLimitRepository 多实例共享的滑动窗口限流，key 为 ratelimit:<name>:<client>
type RateLimitRepository struct {
	client *redis.Client
	name   string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimitRepository(client *redis.Client, name string, limit int, window time.Duration) *RateLimitRepository {
	return &RateLimitRepository{
		client: client,
		name:   name,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

var _ pkg.Limiter = (*RateLimitRepository)(nil)

func (r *RateLimitRepository) key(client string) string {
	return fmt.Sprintf("ratelimit:%s:%s", r.name, client)
}

func (r *RateLimitRepository) Allow(ctx context.Context, client string) (pkg.Decision, error) {
	now := r.now().UnixMilli()
	windowMs := r.window.Milliseconds()
	res, err := slidingWindowScript.Run(ctx, r.client, []string{r.key(client)},
		now,
		windowMs,
		r.limit,
		strconv.FormatInt(now, 10)+"-"+uuid.NewString(),
		strconv.FormatInt(now-windowMs, 10),
	).Int64Slice()
	if err != nil {
		return pkg.Decision{Allowed: true, Limit: r.limit, Remaining: r.limit}, fmt.Errorf("redis rate limit: %w", err)
	}
	if len(res) != 3 {
		return pkg.Decision{Allowed: true, Limit: r.limit, Remaining: r.limit}, fmt.Errorf("redis rate limit: unexpected reply %v", res)
	}
	return pkg.Decision{
		Allowed:    res[0] == 1,
		Limit:      r.limit,
		Remaining:  int(res[1]),
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}
