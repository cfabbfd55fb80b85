package service

import (
	"context"

	"merchant-ledger/internal/core/domain"
	"merchant-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type auditService struct {
	repo  ports.AuditRepository
	clock ports.Clock
	log   zerolog.Logger
}

// NewAuditService creates a new audit service.
// If repo is nil, audit entries are only written to the logger.
func NewAuditService(repo ports.AuditRepository, clock ports.Clock, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, clock: clock, log: log}
}

// Record persists an audit entry asynchronously (fire-and-forget).
func (s *auditService) Record(ctx context.Context, op domain.AuditOperation, actor domain.Identity, addr domain.Address) {
	entry := &domain.AuditEntry{
		ID:            uuid.New(),
		Operation:     op,
		Actor:         actor,
		RecordAddress: addr,
		CreatedAt:     s.clock.Now(),
	}

	go func() {
		s.log.Info().
			Str("operation", string(entry.Operation)).
			Str("actor", entry.Actor.String()).
			Str("address", entry.RecordAddress.String()).
			Msg("audit")

		if s.repo != nil {
			if err := s.repo.Create(context.Background(), entry); err != nil {
				s.log.Warn().Err(err).Str("operation", string(op)).Msg("failed to persist audit entry")
			}
		}
	}()
}
