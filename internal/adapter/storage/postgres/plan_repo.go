package postgres

import (
	"context"
	"errors"
	"fmt"

	"merchant-ledger/internal/core/domain"
	"merchant-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// PlanRepo implements ports.PlanRepository.
type PlanRepo struct {
	pool Pool
}

// NewPlanRepo creates a new PlanRepo.
func NewPlanRepo(pool Pool) *PlanRepo {
	return &PlanRepo{pool: pool}
}

// Create inserts a plan record, reporting ports.ErrAlreadyExists when the
// address is occupied.
func (r *PlanRepo) Create(ctx context.Context, p *domain.SubscriptionPlan) error {
	query := `INSERT INTO plans (address, name, price, token, billing_cycle, is_active, merchant_owner, supported_tokens, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (address) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		p.Address[:], p.Name, int64(p.Price), p.Token[:],
		int16(p.BillingCycle), p.IsActive, p.MerchantOwner[:],
		tokensToBytes(p.SupportedTokens), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrAlreadyExists
	}
	return nil
}

// Get fetches a plan record by its address. Returns nil, nil when no record
// exists.
func (r *PlanRepo) Get(ctx context.Context, addr domain.Address) (*domain.SubscriptionPlan, error) {
	query := `SELECT address, name, price, token, billing_cycle, is_active, merchant_owner, supported_tokens, created_at
		FROM plans WHERE address = $1`

	var (
		address []byte
		price   int64
		token   []byte
		cycle   int16
		owner   []byte
		tokens  [][]byte
		p       domain.SubscriptionPlan
	)
	err := r.pool.QueryRow(ctx, query, addr[:]).Scan(
		&address, &p.Name, &price, &token,
		&cycle, &p.IsActive, &owner,
		&tokens, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}

	p.Address = addressFromBytes(address)
	p.Price = uint64(price)
	copy(p.Token[:], token)
	p.BillingCycle = uint8(cycle)
	p.MerchantOwner = identityFromBytes(owner)
	p.SupportedTokens = tokensFromBytes(tokens)
	return &p, nil
}

// SetActive overwrites the activation flag of an existing plan.
func (r *PlanRepo) SetActive(ctx context.Context, addr domain.Address, active bool) error {
	query := `UPDATE plans SET is_active = $2 WHERE address = $1`

	tag, err := r.pool.Exec(ctx, query, addr[:], active)
	if err != nil {
		return fmt.Errorf("set plan active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set plan active: no plan at %s", addr)
	}
	return nil
}
