package domain

import (
	"time"
)

// SubscriptionRecordSize is the storage ceiling for an encoded user
// subscription record. The trailing 9 bytes hold the optional cancellation
// timestamp (1-byte presence flag + 8-byte value).
const SubscriptionRecordSize = recordTagSize +
	32 + // subscriber identity
	32 + // plan address
	8 + // start_date
	8 + // next_billing_date
	1 + // is_active
	32 + // merchant owner identity
	4 + 32*MaxSupportedTokens + // supported_tokens
	9 // canceled_at

// UserSubscription is a subscriber's enrollment against a plan. One exists
// per (plan, subscriber) pair, active or historical: cancellation does not
// free the address, so re-enrollment collides.
type UserSubscription struct {
	Address         Address    `json:"address"`
	Subscriber      Identity   `json:"subscriber_identity"`
	Plan            Address    `json:"plan_address"`
	MerchantOwner   Identity   `json:"merchant_owner_identity"`
	StartDate       time.Time  `json:"start_date"`
	NextBillingDate time.Time  `json:"next_billing_date"`
	IsActive        bool       `json:"is_active"`
	CanceledAt      *time.Time `json:"canceled_at,omitempty"`
	SupportedTokens []TokenID  `json:"supported_tokens"`
}

// Canceled reports whether the subscription has reached its terminal state.
func (s *UserSubscription) Canceled() bool {
	return !s.IsActive && s.CanceledAt != nil
}
