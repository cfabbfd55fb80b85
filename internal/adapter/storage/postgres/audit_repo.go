package postgres

import (
	"context"

	"merchant-ledger/internal/core/domain"
	"merchant-ledger/internal/core/ports"
)

type auditRepo struct {
	pool Pool
}

// NewAuditRepository creates a PostgreSQL-backed AuditRepository.
func NewAuditRepository(pool Pool) ports.AuditRepository {
	return &auditRepo{pool: pool}
}

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_log (id, operation, actor, record_address, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, string(entry.Operation), entry.Actor[:],
		entry.RecordAddress[:], entry.CreatedAt,
	)
	return err
}
