package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"merchant-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// RecordCache implements ports.RecordCache using Redis. Records are stored as
// JSON snapshots keyed by their hex address and expire after the configured
// TTL. A miss reads as nil, nil; the services fall through to the repository.
type RecordCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewRecordCache creates a new Redis-backed record cache.
func NewRecordCache(client *goredis.Client, ttl time.Duration) *RecordCache {
	return &RecordCache{client: client, ttl: ttl}
}

func merchantKey(addr domain.Address) string { return "merchant:" + addr.String() }
func planKey(addr domain.Address) string     { return "plan:" + addr.String() }

// GetMerchant retrieves a cached merchant record. Returns nil, nil on a miss.
func (c *RecordCache) GetMerchant(ctx context.Context, addr domain.Address) (*domain.Merchant, error) {
	raw, err := c.client.Get(ctx, merchantKey(addr)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis merchant get: %w", err)
	}

	var m domain.Merchant
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("redis merchant decode: %w", err)
	}
	return &m, nil
}

// SetMerchant stores a merchant snapshot with TTL.
func (c *RecordCache) SetMerchant(ctx context.Context, m *domain.Merchant) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("redis merchant encode: %w", err)
	}
	if err := c.client.Set(ctx, merchantKey(m.Address), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis merchant set: %w", err)
	}
	return nil
}

// GetPlan retrieves a cached plan record. Returns nil, nil on a miss.
func (c *RecordCache) GetPlan(ctx context.Context, addr domain.Address) (*domain.SubscriptionPlan, error) {
	raw, err := c.client.Get(ctx, planKey(addr)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis plan get: %w", err)
	}

	var p domain.SubscriptionPlan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("redis plan decode: %w", err)
	}
	return &p, nil
}

// SetPlan stores a plan snapshot with TTL.
func (c *RecordCache) SetPlan(ctx context.Context, p *domain.SubscriptionPlan) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("redis plan encode: %w", err)
	}
	if err := c.client.Set(ctx, planKey(p.Address), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis plan set: %w", err)
	}
	return nil
}

// DeletePlan drops a plan snapshot after a mutation so the next read comes
// from the repository.
func (c *RecordCache) DeletePlan(ctx context.Context, addr domain.Address) error {
	if err := c.client.Del(ctx, planKey(addr)).Err(); err != nil {
		return fmt.Errorf("redis plan delete: %w", err)
	}
	return nil
}
