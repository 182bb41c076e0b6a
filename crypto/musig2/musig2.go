// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package musig2 aggregates a guardian set's public keys into the single
// admin key a ProtocolState stores, using the standard rogue-key-safe
// coefficient construction: each key is weighted by H(all_keys || key_i)
// before the points are summed. The resulting aggregate key verifies an
// incoming schnorr signature exactly like any other BIP340 key — that's
// the entire point of MuSig2 from a verifier's perspective, and it's why
// protocolstate never needs to know whether AdminKey is a single signer's
// key or a guardian aggregate.
//
// This package only builds the aggregate key and verifies signatures
// against it; the interactive nonce-exchange/partial-signing protocol that
// produces a valid aggregate signature in the first place runs off-chain
// among the guardians, the same way the merkle tree itself is built
// off-chain (spec section 1 treats tree building as an external
// collaborator — guardian signing sessions are the governance analogue).
package musig2

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// MinGuardians is the smallest guardian set this package will aggregate;
// below this a plain single admin key should be used instead.
const MinGuardians = 2

// AggregateKeys computes the MuSig2 key aggregate of pubKeys and returns it
// as a 32-byte x-only key suitable for storage as ProtocolState.AdminKey.
// The keys are sorted by their compressed encoding first, so the same
// guardian set yields the same aggregate whatever order it is passed in.
func AggregateKeys(pubKeys []*btcec.PublicKey) ([32]byte, error) {
	var out [32]byte
	if len(pubKeys) < MinGuardians {
		return out, fmt.Errorf("need at least %d guardians, got %d", MinGuardians, len(pubKeys))
	}

	sorted := make([]*btcec.PublicKey, len(pubKeys))
	copy(sorted, pubKeys)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].SerializeCompressed(), sorted[j].SerializeCompressed()) < 0
	})
	pubKeys = sorted

	coeffs := keyCoefficients(pubKeys)

	var accum *btcec.JacobianPoint
	for i, pk := range pubKeys {
		var p btcec.JacobianPoint
		pk.AsJacobian(&p)

		var scalar btcec.ModNScalar
		scalar.SetByteSlice(coeffs[i].Bytes())

		var scaled btcec.JacobianPoint
		btcec.ScalarMultNonConst(&scalar, &p, &scaled)

		if accum == nil {
			accum = &scaled
			continue
		}
		var sum btcec.JacobianPoint
		btcec.AddNonConst(accum, &scaled, &sum)
		accum = &sum
	}

	accum.ToAffine()
	aggregated := btcec.NewPublicKey(&accum.X, &accum.Y)
	copy(out[:], schnorr.SerializePubKey(aggregated))
	return out, nil
}

// keyCoefficients computes each key's MuSig2 aggregation coefficient,
// H(all_keys || key_i) mod n, which is what prevents a participant from
// picking their own key adversarially to cancel out the rest of the set
// (a "rogue key attack").
func keyCoefficients(pubKeys []*btcec.PublicKey) []*big.Int {
	allKeysData := make([]byte, 0, len(pubKeys)*33)
	for _, pk := range pubKeys {
		allKeysData = append(allKeysData, pk.SerializeCompressed()...)
	}

	coeffs := make([]*big.Int, len(pubKeys))
	for i, pk := range pubKeys {
		h := sha256.New()
		h.Write(allKeysData)
		h.Write(pk.SerializeCompressed())
		digest := h.Sum(nil)

		c := new(big.Int).SetBytes(digest)
		c.Mod(c, btcec.S256().N)
		coeffs[i] = c
	}
	return coeffs
}

// VerifyAggregate verifies a 64-byte schnorr signature over msg against the
// 32-byte aggregate key produced by AggregateKeys (or against any plain
// BIP340 key — the verification equation doesn't distinguish the two).
func VerifyAggregate(aggregateKey [32]byte, msg, sig []byte) bool {
	pk, err := schnorr.ParsePubKey(aggregateKey[:])
	if err != nil {
		return false
	}
	s, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false
	}
	return s.Verify(msg, pk)
}
