package ports

import (
	"context"
	"time"

	"merchant-ledger/internal/core/domain"
)

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

// Clock supplies wall-clock time on demand. The core never reads time itself.
type Clock interface {
	Now() time.Time
}

// RecordCache is a read-through cache for the hot validation-path lookups
// (merchant and plan snapshots). A nil, nil return means cache miss; cache
// failures are tolerated and fall through to the repository.
type RecordCache interface {
	GetMerchant(ctx context.Context, addr domain.Address) (*domain.Merchant, error)
	SetMerchant(ctx context.Context, merchant *domain.Merchant) error
	GetPlan(ctx context.Context, addr domain.Address) (*domain.SubscriptionPlan, error)
	SetPlan(ctx context.Context, plan *domain.SubscriptionPlan) error
	DeletePlan(ctx context.Context, addr domain.Address) error
}

// Authenticator is the host-side actor-authentication collaborator: it turns
// transport-level credentials into the verified caller identity the core
// trusts.
type Authenticator interface {
	Verify(ctx context.Context, credential string) (domain.Identity, error)
}

// AuditService records successful mutations, best-effort.
type AuditService interface {
	Record(ctx context.Context, op domain.AuditOperation, actor domain.Identity, addr domain.Address)
}

// --- Operation requests ---

// RegisterMerchantRequest carries the inputs of merchant registration.
// Caller is the verified identity that will own the record.
type RegisterMerchantRequest struct {
	Caller          domain.Identity
	Name            string
	WebURL          string
	SupportedTokens []domain.TokenID
}

// RecordPaymentRequest carries the inputs of payment recording. Caller is the
// payer. SignatureHash must be the SHA-256 digest of Signature; MerchantOwner
// references the merchant by its owner identity. Token is accepted but the
// stored record always carries the native sentinel.
type RecordPaymentRequest struct {
	Caller        domain.Identity
	Signature     string
	SignatureHash domain.SignatureHash
	Amount        uint64
	Token         domain.TokenID
	Status        domain.PaymentStatus
	MerchantOwner domain.Identity
}

// CreatePlanRequest carries the inputs of plan creation. Caller must be the
// owner of the referenced merchant.
type CreatePlanRequest struct {
	Caller          domain.Identity
	MerchantOwner   domain.Identity
	Name            string
	Price           uint64
	Token           domain.TokenID
	BillingCycle    uint8
	IsActive        bool
	SupportedTokens []domain.TokenID
}

// EnrollRequest carries the inputs of subscription enrollment. Caller is the
// subscriber.
type EnrollRequest struct {
	Caller          domain.Identity
	Plan            domain.Address
	NextBillingDate time.Time
	SupportedTokens []domain.TokenID
}

// --- Operation services ---

// MerchantRegistry owns merchant records.
type MerchantRegistry interface {
	Register(ctx context.Context, req RegisterMerchantRequest) (*domain.Merchant, error)
	Get(ctx context.Context, owner domain.Identity) (*domain.Merchant, error)
}

// PaymentLedger owns payment records.
type PaymentLedger interface {
	Record(ctx context.Context, req RecordPaymentRequest) (*domain.Payment, error)
	Get(ctx context.Context, addr domain.Address) (*domain.Payment, error)
}

// SubscriptionCatalog owns plan records.
type SubscriptionCatalog interface {
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*domain.SubscriptionPlan, error)
	SetPlanActive(ctx context.Context, plan domain.Address, active bool, caller domain.Identity) (*domain.SubscriptionPlan, error)
	GetPlan(ctx context.Context, addr domain.Address) (*domain.SubscriptionPlan, error)
}

// SubscriptionEnrollment owns user subscription records.
type SubscriptionEnrollment interface {
	Enroll(ctx context.Context, req EnrollRequest) (*domain.UserSubscription, error)
	Cancel(ctx context.Context, sub domain.Address, caller domain.Identity) (*domain.UserSubscription, error)
	Get(ctx context.Context, addr domain.Address) (*domain.UserSubscription, error)
}
