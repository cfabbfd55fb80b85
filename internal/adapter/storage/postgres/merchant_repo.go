package postgres

import (
	"context"
	"errors"
	"fmt"

	"merchant-ledger/internal/core/domain"
	"merchant-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// MerchantRepo implements ports.MerchantRepository.
type MerchantRepo struct {
	pool Pool
}

// NewMerchantRepo creates a new MerchantRepo.
func NewMerchantRepo(pool Pool) *MerchantRepo {
	return &MerchantRepo{pool: pool}
}

// Create inserts a merchant record. The address is the primary key; an
// occupied address leaves the row untouched and reports ports.ErrAlreadyExists.
func (r *MerchantRepo) Create(ctx context.Context, m *domain.Merchant) error {
	query := `INSERT INTO merchants (address, name, web_url, owner, is_active, created_at, supported_tokens)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (address) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		m.Address[:], m.Name, m.WebURL, m.Owner[:],
		m.IsActive, m.CreatedAt, tokensToBytes(m.SupportedTokens),
	)
	if err != nil {
		return fmt.Errorf("insert merchant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrAlreadyExists
	}
	return nil
}

// Get fetches a merchant record by its address. Returns nil, nil when no
// record exists.
func (r *MerchantRepo) Get(ctx context.Context, addr domain.Address) (*domain.Merchant, error) {
	query := `SELECT address, name, web_url, owner, is_active, created_at, supported_tokens
		FROM merchants WHERE address = $1`

	var (
		address []byte
		owner   []byte
		tokens  [][]byte
		m       domain.Merchant
	)
	err := r.pool.QueryRow(ctx, query, addr[:]).Scan(
		&address, &m.Name, &m.WebURL, &owner,
		&m.IsActive, &m.CreatedAt, &tokens,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get merchant: %w", err)
	}

	m.Address = addressFromBytes(address)
	m.Owner = identityFromBytes(owner)
	m.SupportedTokens = tokensFromBytes(tokens)
	return &m, nil
}
