// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the fixed, per-deployment parameters the engine
// is built against: ring size, bitmap width, claim capacity, the grace
// window for reclaiming channel rent, and the program id PDAs are derived
// against. These are deployment constants, not per-call arguments — a
// deployment picks one Params value and every account it ever creates is
// laid out to match it for the life of that deployment (spec section 9:
// "enlarging [the bitmap] later is a forward-incompatible change").
package chaincfg

import "github.com/streamforge/dropcore/keys"

// Params describes one deployment's fixed layout and identity.
type Params struct {
	// Name identifies the deployment for logging ("mainnet", "devnet", ...).
	Name string

	// ProgramID is the deployed program's own address; every PDA in this
	// deployment is derived against it.
	ProgramID keys.Pubkey

	// RingSize is N: the number of ring slots per ChannelState, i.e. the
	// number of trailing epochs a channel keeps resident at once.
	RingSize uint64

	// BitmapWords is M: the number of bytes in each slot's claimed_bitmap.
	// MaxClaimsPerEpoch is always BitmapWords*8.
	BitmapWords uint32

	// GraceEpochs is the number of epochs that must elapse, measured from a
	// ChannelState's newest slot epoch, before an admin may close the
	// account even if older slots still carry claimable state.
	GraceEpochs uint64
}

// MaxClaimsPerEpoch is the per-epoch claim capacity implied by BitmapWords.
func (p Params) MaxClaimsPerEpoch() uint32 {
	return p.BitmapWords * 8
}

// ChannelStateSize returns the exact encoded size of a ChannelState account
// under these parameters, so callers can size/rent-estimate the account
// before creating it.
func (p Params) ChannelStateSize() int {
	const headerSize = 1 + 1 + keys.Size + chainhashSize + 8 // version+bump+token+channel_key+latest_epoch
	slotSize := 8 + chainhashSize + 4 + int(p.BitmapWords)    // epoch+root+claim_count+bitmap
	return headerSize + int(p.RingSize)*slotSize
}

const chainhashSize = 32

// MainNet is the production deployment: the numbers spec.md calls the
// "legacy layout" (N=10, 512-byte bitmap -> 4096 claims/epoch).
var MainNet = Params{
	Name:        "mainnet",
	RingSize:    10,
	BitmapWords: 512,
	GraceEpochs: 24,
}

// DevNet mirrors MainNet's layout but is named separately so deployment
// logs/events are never ambiguous about which program id they came from.
var DevNet = Params{
	Name:        "devnet",
	RingSize:    10,
	BitmapWords: 512,
	GraceEpochs: 4,
}

// WithProgramID returns a copy of p bound to the given deployed program
// address, leaving p itself untouched.
func (p Params) WithProgramID(programID keys.Pubkey) Params {
	p.ProgramID = programID
	return p
}
