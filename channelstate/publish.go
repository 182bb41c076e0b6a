package channelstate

import (
	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/protoerr"
)

// MaxChannelNameLen is the longest channel name, in UTF-8 bytes, the
// publish path accepts (spec section 4.1).
const MaxChannelNameLen = 64

// PublishEvent is the structured log emitted on every successful publish
// (spec section 6): enough for a downstream indexer to reconstruct the ring
// transition without re-reading the account.
type PublishEvent struct {
	ChannelKey        chainhash.Hash
	Epoch             uint64
	Root              chainhash.Hash
	SlotIndex         uint64
	OverwroteEpoch    uint64 // 0 if the slot was empty before this publish
}

// SetMerkleRoot implements the publish path: idempotent ChannelState
// creation is the caller's job (New, in state.go) — this function only handles
// the tie-break and overwrite logic against an already-constructed State,
// exactly as spec section 4.1 specifies it. The caller (the engine package)
// is responsible for checking the pause flag and the publisher signature
// before ever calling this.
func SetMerkleRoot(cs *State, epoch uint64, root chainhash.Hash, expectedClaimCount uint32) (*PublishEvent, error) {
	maxClaims := cs.params.MaxClaimsPerEpoch()
	if expectedClaimCount > maxClaims {
		return nil, protoerr.New(protoerr.ErrClaimCountExceedsCapacity,
			"expected_claim_count %d exceeds max_claims_per_epoch %d", expectedClaimCount, maxClaims)
	}

	slotIndex := cs.SlotIndex(epoch)
	slot := &cs.Slots[slotIndex]

	var overwrote uint64
	switch {
	case slot.empty():
		// Empty slot: first write, nothing to overwrite.

	case slot.Epoch == epoch:
		return nil, protoerr.New(protoerr.ErrDuplicateEpoch,
			"epoch %d already published into slot %d with an immutable root", epoch, slotIndex)

	case slot.Epoch > epoch:
		return nil, protoerr.New(protoerr.ErrStaleEpoch,
			"slot %d holds epoch %d, cannot publish older epoch %d", slotIndex, slot.Epoch, epoch)

	default:
		// slot.Epoch < epoch: legitimate overwrite of a retired epoch.
		overwrote = slot.Epoch
	}

	slot.reset(cs.params.BitmapWords)
	slot.Epoch = epoch
	slot.Root = root

	if epoch > cs.LatestEpoch {
		cs.LatestEpoch = epoch
	}

	log.Infof("published root for channel %x epoch %d into slot %d (overwrote=%d)",
		cs.ChannelKey, epoch, slotIndex, overwrote)

	return &PublishEvent{
		ChannelKey:     cs.ChannelKey,
		Epoch:          epoch,
		Root:           root,
		SlotIndex:      slotIndex,
		OverwroteEpoch: overwrote,
	}, nil
}
