package domain

import (
	"time"
)

const (
	MaxPaymentSignatureLen = 404

	// MaxPaymentAmount caps a single recorded payment, in the smallest unit
	// of the native asset.
	MaxPaymentAmount uint64 = 1_000_000_000
)

// PaymentRecordSize is the storage ceiling for an encoded payment record.
const PaymentRecordSize = recordTagSize +
	4 + MaxPaymentSignatureLen + // signature
	32 + // signature_hash
	32 + // payer identity
	32 + // merchant owner identity
	8 + // amount
	32 + // token
	1 + // status
	8 // created_at

// PaymentStatus is the write-once attestation state of a recorded payment.
// There is no transition operation between statuses.
type PaymentStatus uint8

const (
	PaymentStatusPending   PaymentStatus = 0
	PaymentStatusConfirmed PaymentStatus = 1
	PaymentStatusFailed    PaymentStatus = 2
)

// Valid reports whether the status is one of the three recognized values.
func (s PaymentStatus) Valid() bool {
	return s <= PaymentStatusFailed
}

func (s PaymentStatus) String() string {
	switch s {
	case PaymentStatusPending:
		return "PENDING"
	case PaymentStatusConfirmed:
		return "CONFIRMED"
	case PaymentStatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Payment is an immutable attestation that a payer settled an amount with a
// merchant. One payment exists per distinct transaction signature; replays
// collide on the address derived from the signature digest.
type Payment struct {
	Address       Address       `json:"address"`
	Signature     string        `json:"signature"`
	SignatureHash SignatureHash `json:"signature_hash"`
	Payer         Identity      `json:"payer_identity"`
	MerchantOwner Identity      `json:"merchant_owner_identity"`
	Amount        uint64        `json:"amount"`
	Token         TokenID       `json:"token_identifier"`
	Status        PaymentStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}
