// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the keccak256 hash primitive shared by every
// consensus-critical computation in the engine: leaf commitment, merkle
// proof folding, channel key derivation and PDA derivation all route through
// this package so there is exactly one place that can get the hash wrong.
package chainhash

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// HashSize is the number of bytes in a keccak256 digest.
const HashSize = 32

// Hash is a 32-byte keccak256 digest.
type Hash [HashSize]byte

// String returns the hash as hex, most-significant byte first (i.e. the
// natural reading order of the byte array, not the reversed bitcoin
// convention).
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether the hash is the all-zero value, which marks an
// empty ring slot throughout channelstate.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Compare performs a lexicographic byte comparison, returning -1, 0 or 1.
// This is the ordering the sorted-pair merkle reduction relies on.
func Compare(a, b Hash) int {
	return bytes.Compare(a[:], b[:])
}

// Sum256 computes the keccak256 digest of data. It uses the "legacy" keccak
// padding (as used by Ethereum and most merkle-airdrop tooling), which is
// NOT the same as NIST SHA3-256 — the off-chain tree builder and this
// verifier must agree on this, and legacy keccak is the ecosystem default
// for this class of protocol.
func Sum256(data ...[]byte) Hash {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// NewKeccak256 returns a fresh incremental keccak256 hasher for callers that
// need to stream writes (PDA derivation does, to avoid building an
// intermediate concatenated buffer).
func NewKeccak256() *KeccakState {
	return &KeccakState{h: sha3.NewLegacyKeccak256()}
}

// KeccakState wraps the streaming keccak256 hash.Hash so callers outside
// this package never import golang.org/x/crypto/sha3 directly — the hash
// primitive used by the engine is an implementation detail of chainhash.
type KeccakState struct {
	h interface {
		Write(p []byte) (int, error)
		Sum(b []byte) []byte
	}
}

// Write appends data to the running hash.
func (k *KeccakState) Write(p []byte) {
	k.h.Write(p)
}

// Sum finalizes the hash and returns the 32-byte digest.
func (k *KeccakState) Sum() Hash {
	var out Hash
	copy(out[:], k.h.Sum(nil))
	return out
}

// ErrBadHashLen is returned by NewHash when the supplied byte slice isn't
// exactly HashSize bytes.
var ErrBadHashLen = fmt.Errorf("invalid hash length, must be %d bytes", HashSize)

// NewHash constructs a Hash from a byte slice, erroring if the length is
// wrong rather than silently truncating or zero-padding.
func NewHash(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashSize {
		return h, ErrBadHashLen
	}
	copy(h[:], b)
	return h, nil
}
