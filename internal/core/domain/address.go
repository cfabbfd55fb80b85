package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Address is the unique, deterministically derived location of a record in
// addressed storage.
type Address [32]byte

// Seed tags namespace the address space per record kind, so records of
// different kinds can never collide even on identical seed values.
const (
	seedTagMerchant     = "merchant"
	seedTagPayment      = "payment"
	seedTagPlan         = "subscription"
	seedTagSubscription = "user_subscription"
)

// DeriveAddress computes a deterministic address from a seed tag and an
// ordered tuple of seed components. Every component is length-prefixed before
// hashing so that distinct tuples can never produce the same byte stream.
func DeriveAddress(tag string, seeds ...[]byte) Address {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails on an invalid key; we pass none.
		panic(err)
	}
	writeSeed(h, []byte(tag))
	for _, seed := range seeds {
		writeSeed(h, seed)
	}

	var a Address
	h.Sum(a[:0])
	return a
}

func writeSeed(h hash.Hash, seed []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(seed)))
	h.Write(n[:])
	h.Write(seed)
}

// MerchantAddress locates the single merchant record owned by an identity.
func MerchantAddress(owner Identity) Address {
	return DeriveAddress(seedTagMerchant, owner.Bytes())
}

// PaymentAddress locates a payment record by the digest of its transaction
// signature. The digest, not the signature itself, is the seed: signatures
// may be up to MaxPaymentSignatureLen bytes and seeds must stay fixed-width.
func PaymentAddress(sigHash SignatureHash) Address {
	return DeriveAddress(seedTagPayment, sigHash[:])
}

// PlanAddress locates a subscription plan by name within its merchant's
// namespace.
func PlanAddress(planName string, merchantOwner Identity) Address {
	return DeriveAddress(seedTagPlan, []byte(planName), merchantOwner.Bytes())
}

// SubscriptionAddress locates the single enrollment of a subscriber against
// a plan.
func SubscriptionAddress(plan Address, subscriber Identity) Address {
	return DeriveAddress(seedTagSubscription, plan.Bytes(), subscriber.Bytes())
}

// ParseAddress decodes a hex-encoded address.
func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("decoding address: %w", err)
	}
	if len(b) != len(a) {
		return a, fmt.Errorf("address must be %d bytes, got %d", len(a), len(b))
	}
	copy(a[:], b)
	return a, nil
}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// SignatureHash is the fixed-width digest of a transaction signature string.
type SignatureHash [32]byte

// HashSignature compresses an arbitrary-length transaction signature to the
// digest stored on the payment record and used as its addressing seed.
func HashSignature(signature string) SignatureHash {
	return sha256.Sum256([]byte(signature))
}

func (h SignatureHash) String() string {
	return hex.EncodeToString(h[:])
}

func (h SignatureHash) Bytes() []byte {
	return h[:]
}

func (h SignatureHash) IsZero() bool {
	return h == SignatureHash{}
}
