package domain

import (
	"encoding/hex"
	"fmt"
)

// Identity is an opaque, externally authenticated actor reference (a 32-byte
// public key). The core trusts identities handed to it and never re-verifies
// them.
type Identity [32]byte

// ParseIdentity decodes a hex-encoded identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("decoding identity: %w", err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("identity must be %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

func (id Identity) Bytes() []byte {
	return id[:]
}

func (id Identity) IsZero() bool {
	return id == Identity{}
}

// TokenID is an opaque asset-type tag (a token mint reference).
type TokenID [32]byte

// NativeToken is the sentinel for the chain's base asset. Payment and plan
// records always carry this value; caller-supplied token arguments are
// accepted for forward compatibility but discarded.
var NativeToken = TokenID{}

func (t TokenID) String() string {
	return hex.EncodeToString(t[:])
}

func (t TokenID) IsNative() bool {
	return t == NativeToken
}
