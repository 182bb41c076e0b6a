// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package merkle implements the leaf commitment and sorted-pair proof
// verification that make up the claim path's cryptographic core. Every
// function here is pure: no allocation beyond the scratch buffers needed to
// hash, no package state, nothing that touches an account. This is
// deliberate — the off-chain tree builder must be able to reimplement these
// exact functions byte-for-byte, and a stateless package is the only way to
// keep that contract honest.
package merkle

import (
	"encoding/binary"

	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/keys"
)

// MaxParticipationIDLen is the maximum length, in bytes, of the UTF-8
// participation id accepted in a leaf (spec section 4.2).
const MaxParticipationIDLen = 64

// Leaf computes the 32-byte keccak256 commitment for one claim tuple.
//
// The encoding is, in order: claimer (32 bytes) || index (u32 LE) || amount
// (u64 LE) || id (raw UTF-8 bytes, unprefixed, last). This is the canonical
// order spec section 4.2 fixes after flagging the legacy variant as
// ambiguous — id must come last precisely because it isn't length-prefixed;
// putting it anywhere else would let two different (index, amount, id)
// tuples collide on the same byte string.
func Leaf(claimer keys.Pubkey, index uint32, amount uint64, id string) chainhash.Hash {
	var fixed [12]byte
	binary.LittleEndian.PutUint32(fixed[0:4], index)
	binary.LittleEndian.PutUint64(fixed[4:12], amount)

	return chainhash.Sum256(claimer.Bytes(), fixed[:], []byte(id))
}

// Fold reduces a leaf hash through an ordered proof of sibling hashes into a
// merkle root, using sorted-pair ordering at every level: the
// lexicographically smaller of the current hash and the sibling is hashed
// first. This removes the need for a position bit in the proof, at the cost
// of requiring the off-chain tree builder to mirror the same sort — spec
// section 4.3 calls this out as the one place a mismatched convention
// silently breaks every proof in the tree.
//
// An empty proof is valid iff leaf already equals root (a single-leaf tree).
func Fold(leaf chainhash.Hash, proof []chainhash.Hash) chainhash.Hash {
	current := leaf
	for _, sibling := range proof {
		if chainhash.Compare(current, sibling) <= 0 {
			current = chainhash.Sum256(current[:], sibling[:])
		} else {
			current = chainhash.Sum256(sibling[:], current[:])
		}
	}
	return current
}

// Verify reports whether folding leaf through proof yields root.
func Verify(leaf chainhash.Hash, proof []chainhash.Hash, root chainhash.Hash) bool {
	return Fold(leaf, proof) == root
}

// MaxProofLen bounds proof length against a deployment's per-epoch claim
// capacity: ceil(log2(maxClaimsPerEpoch)). Spec section 4.3 allows an
// implementer to cap proof length explicitly to reject pathological inputs
// before they ever reach Fold; the engine applies this cap in the claim
// package before calling Verify.
func MaxProofLen(maxClaimsPerEpoch uint32) int {
	n := 0
	for capacity := uint32(1); capacity < maxClaimsPerEpoch; capacity <<= 1 {
		n++
	}
	return n
}
