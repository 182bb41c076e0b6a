package channelstate

import "github.com/streamforge/dropcore/protoerr"

// CanClose reports whether a ChannelState may be closed (rent reclaimed) by
// the admin at currentEpoch, per spec section 4.1: permitted only when no
// slot has any claimed bit set, OR the grace period measured from the
// newest resident slot's epoch has elapsed. An implementer "MUST refuse to
// close a channel that still has claimable state younger than the grace
// window" — this is that refusal, expressed as a single boolean gate the
// engine checks before tearing down the account.
func (cs *State) CanClose(currentEpoch uint64) error {
	if !cs.hasLiveClaims() {
		return nil
	}

	newest := cs.newestSlotEpoch()
	if currentEpoch < newest {
		// A claim could still arrive for a future-dated slot; definitely busy.
		return protoerr.New(protoerr.ErrChannelBusy,
			"channel %x has live claims and current epoch %d precedes newest slot epoch %d",
			cs.ChannelKey, currentEpoch, newest)
	}

	elapsed := currentEpoch - newest
	if elapsed < cs.params.GraceEpochs {
		return protoerr.New(protoerr.ErrChannelBusy,
			"channel %x has live claims %d epochs old, grace window is %d epochs",
			cs.ChannelKey, elapsed, cs.params.GraceEpochs)
	}

	return nil
}
