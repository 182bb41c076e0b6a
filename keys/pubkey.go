// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keys defines the 32-byte public key type shared by every account
// in the engine (claimer, publisher, admin, treasury owner, mint, token
// accounts, PDAs). Keys are BIP340-style x-only secp256k1 points, matching
// the width the protocol's wire format (spec section 6) fixes at 32 bytes
// while still letting the engine lean on btcec/schnorr for curve checks and
// signature verification instead of hand-rolling field arithmetic.
package keys

import (
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Size is the fixed width of every key in the protocol.
const Size = 32

// Pubkey is a 32-byte x-only public key.
type Pubkey [Size]byte

// IsZero reports whether the key is the all-zero placeholder.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// Bytes returns the key as a slice.
func (p Pubkey) Bytes() []byte {
	return p[:]
}

// FromBytes builds a Pubkey from a slice, requiring an exact 32-byte length.
func FromBytes(b []byte) (Pubkey, error) {
	var p Pubkey
	if len(b) != Size {
		return p, errBadKeyLen
	}
	copy(p[:], b)
	return p, nil
}

// OnCurve reports whether p decodes as a valid point on the secp256k1 curve.
// PDA derivation in the treasury package deliberately searches for an
// address that fails this check: a program-derived address must NOT
// correspond to a point anyone could hold the discrete log of, otherwise it
// wouldn't be safe for the engine to sign on its behalf using only seeds.
func (p Pubkey) OnCurve() bool {
	_, err := schnorr.ParsePubKey(p[:])
	return err == nil
}

// Verify checks a BIP340 schnorr signature (64 bytes) over msg against p.
func (p Pubkey) Verify(msg []byte, sig []byte) bool {
	parsed, err := schnorr.ParsePubKey(p[:])
	if err != nil {
		return false
	}
	s, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false
	}
	return s.Verify(msg, parsed)
}
