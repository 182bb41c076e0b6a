// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package claim implements the claim path: the preconditions-in-order
// pipeline of spec section 4.4, and the treasury disbursement that follows
// a successful verification. Every check below returns before the next one
// runs, and nothing in ChannelState or the token ledger is mutated until
// step 10 (the bitmap bit) and step 11 (the transfer) — both of which
// happen inside the same atomic transaction the host commits or rolls back
// whole, so a failed transfer also undoes the bit (spec section 4.4,
// "Ordering guarantees").
package claim

import (
	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/channelstate"
	"github.com/streamforge/dropcore/keys"
	"github.com/streamforge/dropcore/merkle"
	"github.com/streamforge/dropcore/protoerr"
	"github.com/streamforge/dropcore/tokenledger"
)

// Request is the caller-supplied claim argument tuple (spec section 4.2/4.4).
type Request struct {
	Claimer keys.Pubkey
	Epoch   uint64
	Index   uint32
	Amount  uint64
	ID      string
	Proof   []chainhash.Hash
}

// TreasuryContext bundles the accounts the disbursement step touches.
type TreasuryContext struct {
	Mint              tokenledger.Mint
	Authority         keys.Pubkey // the treasury authority PDA
	TreasuryAccount   *tokenledger.Account
	ClaimerAccount    *tokenledger.Account
	TransferDecimals  uint8
}

// Event is the structured log emitted on every successful claim (spec
// section 6).
type Event struct {
	ChannelKey chainhash.Hash
	Epoch      uint64
	Index      uint32
	Claimer    keys.Pubkey
	Amount     uint64
	Credited   tokenledger.Amount // amount minus any transfer-fee-extension cut
}

// Execute runs the full claim pipeline against an already-resolved
// ChannelState. paused must be the protocol's current pause flag — the
// caller (the engine package) reads it out of ProtocolState once per
// instruction and threads it through here so this package never needs to
// import protocolstate.
func Execute(paused bool, cs *channelstate.State, req Request, tc TreasuryContext) (*Event, error) {
	// 1. Protocol not paused.
	if paused {
		return nil, protoerr.New(protoerr.ErrPaused, "protocol is paused")
	}

	if len(req.ID) > merkle.MaxParticipationIDLen {
		return nil, protoerr.New(protoerr.ErrInvalidProof,
			"participation id is %d bytes, max is %d", len(req.ID), merkle.MaxParticipationIDLen)
	}

	// 2. Channel PDA check is the caller's responsibility: cs is only ever
	// handed to us already resolved from the PDA the caller derived, so a
	// mismatch would have failed before Execute was ever called. We still
	// assert the mint this ChannelState belongs to matches the treasury
	// context's mint, which catches a caller wiring the wrong ChannelState
	// to the wrong token.
	if cs.TokenID != tc.Mint.ID {
		return nil, protoerr.New(protoerr.ErrTreasuryMismatch,
			"channel state token %x does not match claim mint %x", cs.TokenID, tc.Mint.ID)
	}

	maxClaims := cs.Params().MaxClaimsPerEpoch()

	// 6. index < max_claims_per_epoch (checked early: everything past this
	// point indexes the bitmap by `index`, so bounds must hold first).
	if req.Index >= maxClaims {
		return nil, protoerr.New(protoerr.ErrIndexOutOfRange,
			"index %d is out of range for %d claims/epoch", req.Index, maxClaims)
	}

	// 3/4. slot_index = epoch mod N; slot must still hold the requested
	// epoch, or the claim window has expired.
	slot := cs.SlotFor(req.Epoch)
	if slot.Epoch != req.Epoch {
		return nil, protoerr.New(protoerr.ErrEpochEvicted,
			"slot for epoch %d now holds epoch %d", req.Epoch, slot.Epoch)
	}

	// 5. slot.root != zero (redundant with the epoch match above in
	// practice, since an empty slot has Epoch == 0, but kept explicit to
	// match spec section 4.4's enumerated checks one-for-one).
	if slot.Root.IsZero() {
		return nil, protoerr.New(protoerr.ErrEpochEvicted, "slot for epoch %d is empty", req.Epoch)
	}

	// 7. Already-claimed check.
	if slot.IsClaimed(req.Index) {
		return nil, protoerr.New(protoerr.ErrAlreadyClaimed,
			"index %d already claimed for channel %x epoch %d", req.Index, cs.ChannelKey, req.Epoch)
	}

	// 8. Leaf + proof verification.
	if len(req.Proof) > merkle.MaxProofLen(maxClaims) {
		return nil, protoerr.New(protoerr.ErrInvalidProof,
			"proof length %d exceeds maximum %d for this deployment", len(req.Proof), merkle.MaxProofLen(maxClaims))
	}
	leaf := merkle.Leaf(req.Claimer, req.Index, req.Amount, req.ID)
	if !merkle.Verify(leaf, req.Proof, slot.Root) {
		return nil, protoerr.New(protoerr.ErrInvalidProof, "proof does not fold to the stored root")
	}

	// 9. Treasury mint/owner check.
	if tc.TreasuryAccount.Mint != tc.Mint.ID {
		return nil, protoerr.New(protoerr.ErrTreasuryMismatch, "treasury account mint does not match declared mint")
	}
	if tc.TreasuryAccount.Owner != tc.Authority {
		return nil, protoerr.New(protoerr.ErrTreasuryMismatch, "treasury account owner is not the treasury authority PDA")
	}

	// 10. Set the bit before attempting the transfer, so a failing transfer
	// rolls the whole transaction — bit included — back with it.
	if err := slot.MarkClaimed(req.Index, maxClaims); err != nil {
		return nil, err
	}

	// 11. Disburse.
	credited, err := tokenledger.CheckedTransfer(tc.Mint, tc.TreasuryAccount, tc.ClaimerAccount, tokenledger.Amount(req.Amount), tc.TransferDecimals)
	if err != nil {
		return nil, err
	}

	log.Infof("claimed channel %x epoch %d index %d claimer %x amount %d",
		cs.ChannelKey, req.Epoch, req.Index, req.Claimer, req.Amount)

	return &Event{
		ChannelKey: cs.ChannelKey,
		Epoch:      req.Epoch,
		Index:      req.Index,
		Claimer:    req.Claimer,
		Amount:     req.Amount,
		Credited:   credited,
	}, nil
}
