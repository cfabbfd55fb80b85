package domain

import (
	"time"
)

// Field limits shared across record kinds.
const (
	MaxSupportedTokens = 10

	MaxMerchantNameLen   = 256
	MaxMerchantWebURLLen = 256
)

// MerchantRecordSize is the storage ceiling for an encoded merchant record:
// an 8-byte kind tag, length-prefixed strings, and a length-prefixed token
// list.
const MerchantRecordSize = recordTagSize +
	4 + MaxMerchantNameLen + // name
	32 + // owner identity
	1 + // is_active
	8 + // created_at
	4 + MaxMerchantWebURLLen + // web_url
	4 + 32*MaxSupportedTokens // supported_tokens

// recordTagSize is the record-kind discriminator prefix every stored record
// carries.
const recordTagSize = 8

// Merchant is a registered merchant. At most one exists per owner identity;
// the deterministic address derived from the owner enforces this.
type Merchant struct {
	Address         Address   `json:"address"`
	Name            string    `json:"name"`
	WebURL          string    `json:"web_url"`
	Owner           Identity  `json:"owner_identity"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	SupportedTokens []TokenID `json:"supported_tokens"`
}
