package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/cache"
)

const limitNamespace = "limits"

// reserveScript adds ARGV[1] to both counters unless either would pass its
// limit. Values travel as strings because redis truncates Lua numbers.
var reserveScript = redis.NewScript(`
local daily = tonumber(redis.call('GET', KEYS[1]) or '0')
local monthly = tonumber(redis.call('GET', KEYS[2]) or '0')
local amount = tonumber(ARGV[1])
if daily + amount > tonumber(ARGV[2]) then
	return {'daily', tostring(daily), tostring(monthly)}
end
if monthly + amount > tonumber(ARGV[3]) then
	return {'monthly', tostring(daily), tostring(monthly)}
end
redis.call('INCRBYFLOAT', KEYS[1], ARGV[1])
redis.call('EXPIRE', KEYS[1], ARGV[4])
redis.call('INCRBYFLOAT', KEYS[2], ARGV[1])
redis.call('EXPIRE', KEYS[2], ARGV[5])
return {'ok', tostring(daily + amount), tostring(monthly + amount)}
`)

type RedisLimits struct {
	cache *cache.Cache
}

func NewRedisLimits(c *cache.Cache) *RedisLimits {
	return &RedisLimits{cache: c}
}

// keys share the {userID} hash tag so both counters live in one cluster slot,
// which the reserve script requires.
func (r *RedisLimits) keys(userID string, at time.Time) (string, string) {
	return fmt.Sprintf("{%s}:daily:%s", userID, dayKey(at)), fmt.Sprintf("{%s}:monthly:%s", userID, monthKey(at))
}

func (r *RedisLimits) Usage(ctx context.Context, userID string, at time.Time) (domain.Usage, error) {
	dk, mk := r.keys(userID, at)
	daily, err := r.counter(ctx, dk)
	if err != nil {
		return domain.Usage{}, err
	}
	monthly, err := r.counter(ctx, mk)
	if err != nil {
		return domain.Usage{}, err
	}
	return domain.Usage{Daily: daily, Monthly: monthly}, nil
}

func (r *RedisLimits) counter(ctx context.Context, key string) (decimal.Decimal, error) {
	v, err := r.cache.Get(ctx, limitNamespace, key)
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("read limit counter %s: %w", key, err)
	}
	return decimal.NewFromString(v)
}

func (r *RedisLimits) Reserve(ctx context.Context, userID string, amount decimal.Decimal, policy domain.LimitPolicy, at time.Time) (domain.Usage, error) {
	dk, mk := r.keys(userID, at)
	res, err := reserveScript.Run(ctx, r.cache.Client(),
		[]string{r.cache.Key(limitNamespace, dk), r.cache.Key(limitNamespace, mk)},
		amount.String(), policy.Daily.String(), policy.Monthly.String(),
		int((48 * time.Hour).Seconds()), int((32 * 24 * time.Hour).Seconds()),
	).StringSlice()
	if err != nil {
		return domain.Usage{}, fmt.Errorf("reserve limit: %w", err)
	}
	if len(res) != 3 {
		return domain.Usage{}, fmt.Errorf("reserve limit: unexpected reply %v", res)
	}

	var usage domain.Usage
	if usage.Daily, err = decimal.NewFromString(res[1]); err != nil {
		return domain.Usage{}, err
	}
	if usage.Monthly, err = decimal.NewFromString(res[2]); err != nil {
		return domain.Usage{}, err
	}

	if res[0] != "ok" {
		return usage, domain.CheckLimits(policy, usage, amount)
	}
	return usage, nil
}
