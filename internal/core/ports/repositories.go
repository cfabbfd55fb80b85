package ports

import (
	"context"
	"errors"
	"time"

	"merchant-ledger/internal/core/domain"
)

// ErrAlreadyExists is returned by Create methods when the record's address is
// already occupied. Adapters translate their native conflict signal
// (ON CONFLICT, map hit) into this sentinel; services map it to the
// duplicate-record error for the operation.
var ErrAlreadyExists = errors.New("record already exists at address")

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

// MerchantRepository persists merchant records.
// Create has create-if-absent semantics keyed by the record's address.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *domain.Merchant) error
	Get(ctx context.Context, addr domain.Address) (*domain.Merchant, error)
}

// PaymentRepository persists payment records. Payments are write-once; there
// is no update method.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	Get(ctx context.Context, addr domain.Address) (*domain.Payment, error)
}

// PlanRepository persists subscription plan records.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.SubscriptionPlan) error
	Get(ctx context.Context, addr domain.Address) (*domain.SubscriptionPlan, error)
	// SetActive atomically overwrites the activation flag of an existing plan.
	SetActive(ctx context.Context, addr domain.Address, active bool) error
}

// SubscriptionRepository persists user subscription records.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.UserSubscription) error
	Get(ctx context.Context, addr domain.Address) (*domain.UserSubscription, error)
	// Cancel atomically clears the active flag and sets the cancellation
	// timestamp of an existing subscription.
	Cancel(ctx context.Context, addr domain.Address, canceledAt time.Time) error
}

// AuditRepository persists the mutation audit trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
}
