package channelstate

import "github.com/streamforge/dropcore/protoerr"

// IsClaimed reports whether index has already been claimed in slot.
// Callers must have already range-checked index against the deployment's
// MaxClaimsPerEpoch.
func (s *Slot) IsClaimed(index uint32) bool {
	return s.bitSet(index)
}

// MarkClaimed sets the claim bit for index and increments ClaimCount,
// rejecting the call if the slot is already at its per-epoch capacity. This
// is called exactly once, immediately before the claim path's token
// transfer — spec section 4.4 requires the bit to flip before the transfer
// is attempted, so a failed transfer (and the whole transaction) rolls the
// bit back atomically along with everything else.
func (s *Slot) MarkClaimed(index uint32, maxClaimsPerEpoch uint32) error {
	if s.ClaimCount >= maxClaimsPerEpoch {
		return protoerr.New(protoerr.ErrClaimCountExceedsCapacity,
			"slot already holds the maximum %d claims for this epoch", maxClaimsPerEpoch)
	}
	s.setBit(index)
	s.ClaimCount++
	return nil
}

// Popcount exposes Slot.popcount for tests that assert invariant 9 of spec
// section 8 (claim_count always equals the bitmap's population count).
func (s *Slot) Popcount() uint32 {
	return s.popcount()
}
