// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package engine is the top-level entry point a host runtime calls into:
// it decodes the instruction package's wire format, verifies the
// program-derived addresses the caller claims for each account, and
// dispatches to protocolstate, channelstate, claim and treasury — the same
// role blockchain.CheckBlock and mempool.ProcessTransaction play for the
// teacher's block and transaction validation paths, just for a single
// instruction instead of a full block.
//
// The Engine methods never fetch account data themselves — this package has
// no notion of a ledger, only of the (programID, params) deployment it
// validates against. A host hands each method the accounts already loaded for this
// instruction (decoded into the right *State by the host's own account
// layer, or freshly constructed for a lazy-init path) and receives back
// either a mutated state plus a structured event, or a protoerr.RuleError
// it can translate into its own failure convention.
package engine

import (
	"github.com/streamforge/dropcore/chaincfg"
	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/instruction"
	"github.com/streamforge/dropcore/keys"
	"github.com/streamforge/dropcore/protoerr"
	"github.com/streamforge/dropcore/treasury"
)

// Engine binds a deployment's parameters and program ID to the dispatch
// methods below, so every PDA derivation in a given process uses the same
// programID without threading it through every call.
type Engine struct {
	Params    chaincfg.Params
	ProgramID keys.Pubkey
}

// New constructs an Engine for a deployment, fixing params.ProgramID to
// programID.
func New(params chaincfg.Params, programID keys.Pubkey) *Engine {
	return &Engine{
		Params:    params.WithProgramID(programID),
		ProgramID: programID,
	}
}

// discriminator reads and validates the 8-byte instruction tag off the
// front of data, returning the matched name and the remaining argument
// bytes.
func (e *Engine) discriminator(data []byte) (instruction.Name, []byte, error) {
	if len(data) < 8 {
		return "", nil, protoerr.New(protoerr.ErrInvalidInstruction, "instruction data shorter than the 8-byte discriminator")
	}
	var d instruction.Discriminator
	copy(d[:], data[:8])
	name, ok := instruction.Lookup(d)
	if !ok {
		return "", nil, protoerr.New(protoerr.ErrInvalidInstruction, "unrecognized instruction discriminator")
	}
	return name, data[8:], nil
}

// DecodeSetMerkleRoot strips and validates the discriminator off raw
// set_merkle_root instruction data and parses its arguments, for hosts that
// hold whole instruction bytes rather than pre-decoded args.
func (e *Engine) DecodeSetMerkleRoot(data []byte) (instruction.SetMerkleRootArgs, error) {
	name, body, err := e.discriminator(data)
	if err != nil {
		return instruction.SetMerkleRootArgs{}, err
	}
	if name != instruction.SetMerkleRoot {
		return instruction.SetMerkleRootArgs{}, protoerr.New(protoerr.ErrInvalidInstruction,
			"expected set_merkle_root, got %s", name)
	}
	return instruction.DecodeSetMerkleRootArgs(body)
}

// DecodeClaim strips and validates the discriminator off raw claim
// instruction data and parses its arguments against this deployment's
// per-epoch claim capacity.
func (e *Engine) DecodeClaim(data []byte) (instruction.ClaimArgs, error) {
	name, body, err := e.discriminator(data)
	if err != nil {
		return instruction.ClaimArgs{}, err
	}
	if name != instruction.Claim {
		return instruction.ClaimArgs{}, protoerr.New(protoerr.ErrInvalidInstruction,
			"expected claim, got %s", name)
	}
	return instruction.DecodeClaimArgs(body, e.Params.MaxClaimsPerEpoch())
}

// channelStatePDA derives the ChannelState PDA for (tokenID, channelName) and
// verifies it against the account key the caller supplied, returning the
// channel key and bump alongside the usual error (ErrInvalidChannelKey when
// the supplied account is not that PDA). Both SetMerkleRoot and Claim need
// this same derivation, so it lives here rather than being duplicated in
// each.
func (e *Engine) channelStatePDA(tokenID keys.Pubkey, channelName string, accountKey keys.Pubkey) (chainhash.Hash, uint8, error) {
	channelKey := chainhash.ChannelKey(channelName)
	expected, bump, err := treasury.ChannelStatePDA(e.ProgramID, tokenID, channelKey)
	if err != nil {
		return chainhash.Hash{}, 0, err
	}
	if expected != accountKey {
		return chainhash.Hash{}, 0, protoerr.New(protoerr.ErrInvalidChannelKey,
			"account %x is not the ChannelState PDA %x for channel %q", accountKey, expected, channelName)
	}
	return channelKey, bump, nil
}
