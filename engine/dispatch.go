package engine

import (
	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/channelstate"
	"github.com/streamforge/dropcore/claim"
	"github.com/streamforge/dropcore/instruction"
	"github.com/streamforge/dropcore/keys"
	"github.com/streamforge/dropcore/protoerr"
	"github.com/streamforge/dropcore/protocolstate"
	"github.com/streamforge/dropcore/treasury"
)

// PublishResult is what a successful set_merkle_root dispatch returns: the
// event to log, plus the ChannelState the caller should persist (either the
// one it handed in, mutated in place, or a freshly lazy-initialized one if
// channelState was nil).
type PublishResult struct {
	ChannelState *channelstate.State
	Event        *channelstate.PublishEvent
}

// SetMerkleRoot implements the set_merkle_root instruction (spec section
// 4.1/6). channelState is nil on a channel's first publish; this method treats
// that as the lazy-init path spec section 4.1 describes and constructs a
// fresh ring via channelstate.New before delegating.
func (e *Engine) SetMerkleRoot(ps *protocolstate.State, channelState *channelstate.State, channelAccountKey keys.Pubkey, signer keys.Pubkey, args instruction.SetMerkleRootArgs) (result *PublishResult, err error) {
	defer protoerr.Recover(&err)

	if err := ps.RequireNotPaused(); err != nil {
		return nil, err
	}
	if err := ps.RequirePublisher(signer); err != nil {
		return nil, err
	}

	channelKey, bump, err := e.channelStatePDA(ps.TokenID, args.ChannelName, channelAccountKey)
	if err != nil {
		return nil, err
	}

	cs := channelState
	if cs == nil {
		cs = channelstate.New(e.Params, ps.TokenID, channelKey, bump)
	} else if cs.ChannelKey != channelKey {
		return nil, protoerr.New(protoerr.ErrInvalidChannelKey,
			"channel state account %x does not belong to channel %q", channelAccountKey, args.ChannelName)
	} else if cs.TokenID != ps.TokenID {
		// A caller wired a ChannelState account belonging to a different
		// token's ProtocolState into this call. PDA derivation alone can't
		// catch this (the channel key only depends on the name), and it can
		// never happen from client-supplied arguments alone — only from the
		// host handing mismatched accounts to the same call.
		protoerr.Panic("channel state token %x does not match protocol state token %x", cs.TokenID, ps.TokenID)
	}

	event, err := channelstate.SetMerkleRoot(cs, args.Epoch, args.Root, args.ClaimCount)
	if err != nil {
		return nil, err
	}

	log.Infof("dispatch set_merkle_root channel=%q epoch=%d", args.ChannelName, args.Epoch)
	return &PublishResult{ChannelState: cs, Event: event}, nil
}

// Claim implements the claim instruction (spec section 4.2/4.4/6).
// channelState must already be resolved (a claim can never lazily create a
// ChannelState — spec section 4.4 step 3 requires an existing slot).
func (e *Engine) Claim(ps *protocolstate.State, channelState *channelstate.State, channelAccountKey keys.Pubkey, claimer keys.Pubkey, args instruction.ClaimArgs, tc claim.TreasuryContext) (event *claim.Event, err error) {
	defer protoerr.Recover(&err)

	if channelState == nil {
		return nil, protoerr.New(protoerr.ErrInvalidChannelKey, "channel %q has no published state to claim against", args.ChannelName)
	}

	channelKey, _, err := e.channelStatePDA(ps.TokenID, args.ChannelName, channelAccountKey)
	if err != nil {
		return nil, err
	}
	if channelState.ChannelKey != channelKey {
		return nil, protoerr.New(protoerr.ErrInvalidChannelKey,
			"channel state account %x does not belong to channel %q", channelAccountKey, args.ChannelName)
	}

	expectedAuthority, _, err := treasury.AuthorityPDA(e.ProgramID, ps.TokenID)
	if err != nil {
		return nil, err
	}
	if err := treasury.VerifyPDA(expectedAuthority, tc.Authority); err != nil {
		return nil, err
	}

	req := claim.Request{
		Claimer: claimer,
		Epoch:   args.Epoch,
		Index:   args.Index,
		Amount:  args.Amount,
		ID:      args.ID,
		Proof:   args.Proof,
	}

	event, err = claim.Execute(ps.Paused, channelState, req, tc)
	if err != nil {
		return nil, err
	}

	log.Infof("dispatch claim channel=%q epoch=%d index=%d", args.ChannelName, args.Epoch, args.Index)
	return event, nil
}

// InitializeProtocol implements initialize_protocol (spec section 4.5/6):
// one-shot creation of the ProtocolState PDA. The caller must ensure
// accountKey does not already decode as a ProtocolState — this function has
// no notion of "already exists" since it never reads existing account
// bytes.
func (e *Engine) InitializeProtocol(accountKey, tokenID, admin, publisher, treasuryOwner keys.Pubkey) (*protocolstate.State, error) {
	expected, bump, err := treasury.ProtocolStatePDA(e.ProgramID, tokenID)
	if err != nil {
		return nil, err
	}
	if err := treasury.VerifyPDA(expected, accountKey); err != nil {
		return nil, err
	}

	ps := protocolstate.Initialize(bump, tokenID, admin, publisher, treasuryOwner)
	log.Infof("dispatch initialize_protocol token=%x admin=%x", tokenID, admin)
	return ps, nil
}

// SetPaused implements set_paused (spec section 4.5/6): admin only.
func (e *Engine) SetPaused(ps *protocolstate.State, signer keys.Pubkey, flag bool) error {
	return ps.SetPaused(signer, flag)
}

// UpdatePublisher implements update_publisher (spec section 4.5/6): admin only.
func (e *Engine) UpdatePublisher(ps *protocolstate.State, signer, newPublisher keys.Pubkey) error {
	return ps.UpdatePublisher(signer, newPublisher)
}

// UpdateAdmin implements update_admin (spec section 4.5/6): admin only.
func (e *Engine) UpdateAdmin(ps *protocolstate.State, signer, newAdmin keys.Pubkey) error {
	return ps.UpdateAdmin(signer, newAdmin)
}

// CloseChannelState implements close_channel_state (spec section 4.1/6):
// admin only, and only once the channel's ring holds no claimable state
// inside its grace window.
func (e *Engine) CloseChannelState(ps *protocolstate.State, cs *channelstate.State, signer keys.Pubkey, currentEpoch uint64) error {
	if err := ps.RequireAdmin(signer); err != nil {
		return err
	}
	if err := cs.CanClose(currentEpoch); err != nil {
		return err
	}
	log.Infof("dispatch close_channel_state channel=%x", cs.ChannelKey)
	return nil
}

// ChannelKeyFor exposes the channel-key derivation to callers that need it
// outside a dispatch call (e.g. a host resolving which account to load
// before it can hand the engine a *channelstate.State at all).
func ChannelKeyFor(name string) chainhash.Hash {
	return chainhash.ChannelKey(name)
}
