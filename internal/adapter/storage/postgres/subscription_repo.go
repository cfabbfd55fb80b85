package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"merchant-ledger/internal/core/domain"
	"merchant-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// SubscriptionRepo implements ports.SubscriptionRepository.
type SubscriptionRepo struct {
	pool Pool
}

// NewSubscriptionRepo creates a new SubscriptionRepo.
func NewSubscriptionRepo(pool Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

// Create inserts a subscription record, reporting ports.ErrAlreadyExists when
// the address is occupied. Canceled records occupy their address too, so a
// re-enrollment after cancellation collides here.
func (r *SubscriptionRepo) Create(ctx context.Context, sub *domain.UserSubscription) error {
	query := `INSERT INTO subscriptions (address, subscriber, plan, merchant_owner, start_date, next_billing_date, is_active, canceled_at, supported_tokens)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (address) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		sub.Address[:], sub.Subscriber[:], sub.Plan[:], sub.MerchantOwner[:],
		sub.StartDate, sub.NextBillingDate, sub.IsActive, sub.CanceledAt,
		tokensToBytes(sub.SupportedTokens),
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrAlreadyExists
	}
	return nil
}

// Get fetches a subscription record by its address. Returns nil, nil when no
// record exists.
func (r *SubscriptionRepo) Get(ctx context.Context, addr domain.Address) (*domain.UserSubscription, error) {
	query := `SELECT address, subscriber, plan, merchant_owner, start_date, next_billing_date, is_active, canceled_at, supported_tokens
		FROM subscriptions WHERE address = $1`

	var (
		address    []byte
		subscriber []byte
		plan       []byte
		owner      []byte
		tokens     [][]byte
		sub        domain.UserSubscription
	)
	err := r.pool.QueryRow(ctx, query, addr[:]).Scan(
		&address, &subscriber, &plan, &owner,
		&sub.StartDate, &sub.NextBillingDate, &sub.IsActive, &sub.CanceledAt,
		&tokens,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	sub.Address = addressFromBytes(address)
	sub.Subscriber = identityFromBytes(subscriber)
	sub.Plan = addressFromBytes(plan)
	sub.MerchantOwner = identityFromBytes(owner)
	sub.SupportedTokens = tokensFromBytes(tokens)
	return &sub, nil
}

// Cancel clears the active flag and stamps the cancellation instant in one
// statement.
func (r *SubscriptionRepo) Cancel(ctx context.Context, addr domain.Address, canceledAt time.Time) error {
	query := `UPDATE subscriptions SET is_active = FALSE, canceled_at = $2 WHERE address = $1`

	tag, err := r.pool.Exec(ctx, query, addr[:], canceledAt)
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cancel subscription: no subscription at %s", addr)
	}
	return nil
}
