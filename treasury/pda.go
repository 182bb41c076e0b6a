// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package treasury derives the three program-derived addresses the engine
// signs for — ProtocolState, ChannelState and the treasury authority — and
// holds the treasury-side checks the claim path runs before it will let a
// transfer out.
//
// A PDA here is an address deliberately chosen to NOT correspond to a point
// on the secp256k1 curve: if it were a valid point, whoever held its
// discrete log could sign for it directly and the "only the program can
// move these funds" guarantee would be worthless. Finding one is a small
// search over a one-byte bump seed, exactly mirroring the account-address
// derivation the teacher's vault package uses for its custody PDAs, just
// built on keccak256 + a secp256k1 on-curve test instead of ed25519.
package treasury

import (
	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/keys"
	"github.com/streamforge/dropcore/protoerr"
)

// addressDomainTag is appended to every PDA derivation so these addresses
// can never collide with a leaf hash, a channel key, or an instruction
// discriminator even if the same seed bytes happened to be reused.
const addressDomainTag = "ProgramDerivedAddress"

// seedProtocol, seedChannelState and seedTreasury are the fixed seed
// prefixes spec section 6 names for each PDA kind.
const (
	seedProtocol     = "protocol"
	seedChannelState = "channel_state"
	seedTreasury     = "treasury"
)

// maxBump is the starting point of the bump search; a PDA is found at the
// first bump (counting down from 255) that derives an off-curve address.
const maxBump = 255

// ProtocolStatePDA derives the ProtocolState PDA for tokenID: seeds
// ["protocol", token_id] (spec section 3/6).
func ProtocolStatePDA(programID keys.Pubkey, tokenID keys.Pubkey) (keys.Pubkey, uint8, error) {
	return findProgramAddress(programID, [][]byte{[]byte(seedProtocol), tokenID.Bytes()})
}

// ChannelStatePDA derives the ChannelState PDA for (tokenID, channelKey):
// seeds ["channel_state", token_id, channel_key] (spec section 3/6).
func ChannelStatePDA(programID keys.Pubkey, tokenID keys.Pubkey, channelKey chainhash.Hash) (keys.Pubkey, uint8, error) {
	return findProgramAddress(programID, [][]byte{[]byte(seedChannelState), tokenID.Bytes(), channelKey[:]})
}

// AuthorityPDA derives the treasury authority PDA for tokenID: a distinct
// PDA with seeds ["treasury", token_id], separate from ProtocolState. Spec
// section 9 flags the two conventions (an ATA-of-ProtocolState vs. a
// distinct PDA) as an unresolved ambiguity and requires picking one; this
// engine uses the distinct-PDA form so the treasury's signing authority
// never has to be derived transitively through ProtocolState's own address.
func AuthorityPDA(programID keys.Pubkey, tokenID keys.Pubkey) (keys.Pubkey, uint8, error) {
	return findProgramAddress(programID, [][]byte{[]byte(seedTreasury), tokenID.Bytes()})
}

// findProgramAddress searches bumps from 255 down to 0 for the first
// off-curve candidate address, returning that address and the bump that
// produced it. This always terminates in practice — the probability every
// single bump in the 256-wide search space collides with a valid curve
// point is astronomically small — but a caller that feeds in seeds crafted
// to exhaust the space gets ErrInvalidPDA rather than a panic.
func findProgramAddress(programID keys.Pubkey, seeds [][]byte) (keys.Pubkey, uint8, error) {
	for bump := maxBump; bump >= 0; bump-- {
		candidate := createProgramAddress(programID, seeds, byte(bump))
		if !candidate.OnCurve() {
			return candidate, uint8(bump), nil
		}
	}
	return keys.Pubkey{}, 0, protoerr.New(protoerr.ErrInvalidPDA,
		"no off-curve address found for the given seeds")
}

// createProgramAddress computes the candidate address for one bump value,
// without checking whether it's off-curve.
func createProgramAddress(programID keys.Pubkey, seeds [][]byte, bump byte) keys.Pubkey {
	h := chainhash.NewKeccak256()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write(programID.Bytes())
	h.Write([]byte(addressDomainTag))

	digest := h.Sum()
	var addr keys.Pubkey
	copy(addr[:], digest[:])
	return addr
}

// VerifyPDA reports whether provided matches the PDA derived from
// (programID, seeds), returning protoerr.ErrInvalidPDA if not. Callers pass
// the already-derived expected address in rather than re-deriving, since
// ChannelStatePDA/ProtocolStatePDA/AuthorityPDA each encode their own seed
// shape.
func VerifyPDA(expected, provided keys.Pubkey) error {
	if expected != provided {
		return protoerr.New(protoerr.ErrInvalidPDA,
			"account %x does not match derived PDA %x", provided, expected)
	}
	return nil
}
