package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tavolo/ordercore/internal/port"
)

const (
	stockKeyPrefix    = "stock:"
	idempotencyKeyTTL = 24 * time.Hour
)

// Returns 1 when the mirrored stock covered the request and was decremented,
// 0 when it was insufficient, -1 when nothing is mirrored for the item.
var decrementStockScript = redis.NewScript(`
local key = KEYS[1]
local quantity = tonumber(ARGV[1])

local current = redis.call('GET', key)
if not current then
	return -1
end

current = tonumber(current)
if current >= quantity then
	redis.call('DECRBY', key, quantity)
	return 1
end

return 0
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func stockKey(menuItemID int64) string {
	return stockKeyPrefix + strconv.FormatInt(menuItemID, 10)
}

func (r *RedisAdapter) DecrementStock(ctx context.Context, menuItemID int64, quantity int) (port.GateResult, error) {
	result, err := decrementStockScript.Run(ctx, r.client, []string{stockKey(menuItemID)}, quantity).Int()
	if err != nil {
		return port.GateBypassed, err
	}

	switch result {
	case 1:
		return port.GateApplied, nil
	case -1:
		return port.GateBypassed, nil
	default:
		return port.GateBlocked, nil
	}
}

func (r *RedisAdapter) IncrementStock(ctx context.Context, menuItemID int64, quantity int) error {
	return r.client.IncrBy(ctx, stockKey(menuItemID), int64(quantity)).Err()
}

func (r *RedisAdapter) SetStock(ctx context.Context, menuItemID int64, stock int) error {
	return r.client.Set(ctx, stockKey(menuItemID), stock, 0).Err()
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *RedisAdapter) ClearIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
