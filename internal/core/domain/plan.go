package domain

import (
	"time"
)

const MaxPlanNameLen = 260

// PlanRecordSize is the storage ceiling for an encoded subscription plan
// record.
const PlanRecordSize = recordTagSize +
	4 + MaxPlanNameLen + // plan_name
	8 + // price
	32 + // token
	1 + // billing_cycle
	1 + // is_active
	8 + // created_at
	32 + // merchant owner identity
	4 + 32*MaxSupportedTokens // supported_tokens

// SubscriptionPlan is a merchant-published plan subscribers can enroll
// against. A merchant cannot register two plans under the same name; the
// address derived from (name, owner) enforces this.
type SubscriptionPlan struct {
	Address         Address   `json:"address"`
	Name            string    `json:"plan_name"`
	Price           uint64    `json:"price"`
	Token           TokenID   `json:"token_identifier"`
	BillingCycle    uint8     `json:"billing_cycle"` // Unit interpreted by the caller, e.g. days
	IsActive        bool      `json:"is_active"`
	MerchantOwner   Identity  `json:"merchant_owner_identity"`
	SupportedTokens []TokenID `json:"supported_tokens"`
	CreatedAt       time.Time `json:"created_at"`
}
