package postgres

import (
	"context"
	"errors"
	"fmt"

	"merchant-ledger/internal/core/domain"
	"merchant-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// PaymentRepo implements ports.PaymentRepository. Payment records are
// write-once; there is no update path.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Create inserts a payment record, reporting ports.ErrAlreadyExists when the
// address is occupied.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (address, signature, signature_hash, payer, merchant_owner, amount, token, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (address) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		p.Address[:], p.Signature, p.SignatureHash[:], p.Payer[:],
		p.MerchantOwner[:], int64(p.Amount), p.Token[:], int16(p.Status),
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrAlreadyExists
	}
	return nil
}

// Get fetches a payment record by its address. Returns nil, nil when no
// record exists.
func (r *PaymentRepo) Get(ctx context.Context, addr domain.Address) (*domain.Payment, error) {
	query := `SELECT address, signature, signature_hash, payer, merchant_owner, amount, token, status, created_at
		FROM payments WHERE address = $1`

	var (
		address  []byte
		sigHash  []byte
		payer    []byte
		merchant []byte
		amount   int64
		token    []byte
		status   int16
		p        domain.Payment
	)
	err := r.pool.QueryRow(ctx, query, addr[:]).Scan(
		&address, &p.Signature, &sigHash, &payer,
		&merchant, &amount, &token, &status,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}

	p.Address = addressFromBytes(address)
	copy(p.SignatureHash[:], sigHash)
	p.Payer = identityFromBytes(payer)
	p.MerchantOwner = identityFromBytes(merchant)
	p.Amount = uint64(amount)
	copy(p.Token[:], token)
	p.Status = domain.PaymentStatus(status)
	return &p, nil
}
