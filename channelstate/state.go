// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package channelstate owns the ChannelState ring buffer: up to N resident
// epoch commitments per (token, channel), each carrying a fixed-width claim
// bitmap. This is the account that bounds the engine's state growth — an
// epoch's root and bitmap live here only until its ring slot is reused by a
// later epoch, at which point that history is gone by design (spec section
// 9, "Bounded state under unbounded epoch history").
package channelstate

import (
	"math/bits"

	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/chaincfg"
	"github.com/streamforge/dropcore/keys"
)

// SchemaVersion is bumped whenever the on-disk layout of ChannelState
// changes in a way that isn't just adding trailing reserved bytes.
const SchemaVersion = 1

// Slot is one ring position: a single epoch's commitment and claim bitmap.
type Slot struct {
	Epoch        uint64
	Root         chainhash.Hash
	ClaimCount   uint32
	ClaimedBitmap []byte
}

// empty reports whether the slot has never been written (or was zeroed at
// construction): both epoch and root are their zero values.
func (s *Slot) empty() bool {
	return s.Epoch == 0 && s.Root.IsZero()
}

// bitSet reports whether bit `index` of the claim bitmap is set.
func (s *Slot) bitSet(index uint32) bool {
	byteIdx := index / 8
	bit := byte(1) << (index % 8)
	return s.ClaimedBitmap[byteIdx]&bit != 0
}

// setBit sets bit `index` of the claim bitmap. Callers must have already
// checked it isn't set (the claim path treats a second set as a logic
// error, not a recoverable one, since AlreadyClaimed is checked earlier).
func (s *Slot) setBit(index uint32) {
	byteIdx := index / 8
	bit := byte(1) << (index % 8)
	s.ClaimedBitmap[byteIdx] |= bit
}

// popcount returns the number of set bits in the claim bitmap. Spec section
// 8's invariant 9 requires this always equal ClaimCount; tests check it
// through the exported Slot.Popcount.
func (s *Slot) popcount() uint32 {
	var n uint32
	for _, b := range s.ClaimedBitmap {
		n += uint32(bits.OnesCount8(b))
	}
	return n
}

// reset clears a slot back to empty and re-sizes its bitmap for bitmapWords,
// used both at ChannelState construction and when a publish overwrites a
// slot that held an older epoch.
func (s *Slot) reset(bitmapWords uint32) {
	s.Epoch = 0
	s.Root = chainhash.Hash{}
	s.ClaimCount = 0
	s.ClaimedBitmap = make([]byte, bitmapWords)
}

// State is the ChannelState account: one per (token, channel).
type State struct {
	SchemaVersion uint8
	PDABump       uint8
	TokenID       keys.Pubkey
	ChannelKey    chainhash.Hash
	LatestEpoch   uint64
	Slots         []Slot

	params chaincfg.Params
}

// New constructs a freshly-initialized ChannelState for a (token, channel)
// pair, with every slot empty — the state set_merkle_root's lazy-init path
// writes on first use for a channel (spec section 4.1).
func New(params chaincfg.Params, tokenID keys.Pubkey, channelKey chainhash.Hash, bump uint8) *State {
	slots := make([]Slot, params.RingSize)
	for i := range slots {
		slots[i].reset(params.BitmapWords)
	}
	return &State{
		SchemaVersion: SchemaVersion,
		PDABump:       bump,
		TokenID:       tokenID,
		ChannelKey:    channelKey,
		Slots:         slots,
		params:        params,
	}
}

// Params returns the deployment parameters this ChannelState was
// constructed with, so callers never have to thread them through
// separately once a *State exists.
func (cs *State) Params() chaincfg.Params {
	return cs.params
}

// BindParams attaches deployment parameters to a ChannelState that was
// reconstructed from storage rather than built via New. Params are a
// deployment-level constant, not account data — nothing in spec section 3's
// account layout carries ring size or bitmap width on the wire, the same way
// a real on-chain account never stores the program constants it was created
// under. A host's account store calls this immediately after decoding a
// ChannelState's bytes, before handing it to the engine.
func (cs *State) BindParams(params chaincfg.Params) {
	cs.params = params
}

// SlotIndex returns epoch mod N for this ChannelState's ring size.
func (cs *State) SlotIndex(epoch uint64) uint64 {
	return epoch % uint64(len(cs.Slots))
}

// SlotFor returns a pointer to the ring slot epoch currently maps to. The
// slot may or may not actually hold `epoch` — callers compare Slot.Epoch
// themselves (this is exactly what the claim path's EpochEvicted check
// does).
func (cs *State) SlotFor(epoch uint64) *Slot {
	return &cs.Slots[cs.SlotIndex(epoch)]
}

// hasLiveClaims reports whether any slot in the ring still has at least one
// set bit, i.e. whether any resident epoch has outstanding claimable
// history. close_channel_state uses this together with the grace window.
func (cs *State) hasLiveClaims() bool {
	for i := range cs.Slots {
		if cs.Slots[i].ClaimCount > 0 {
			return true
		}
	}
	return false
}

// newestSlotEpoch returns the highest epoch resident in any ring slot,
// which may be less than LatestEpoch if a later epoch's publish was itself
// evicted by a still-later one before this call (can't happen under
// correct monotonic publishing, but the close-grace check uses the actual
// resident maximum rather than trusting LatestEpoch blindly).
func (cs *State) newestSlotEpoch() uint64 {
	var newest uint64
	for i := range cs.Slots {
		if !cs.Slots[i].empty() && cs.Slots[i].Epoch > newest {
			newest = cs.Slots[i].Epoch
		}
	}
	return newest
}
