// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package protocolstate owns the per-token ProtocolState singleton and the
// minimum governance surface the core actually depends on: admin identity,
// publisher identity, treasury owner, and the pause flag read on every
// publish and claim (spec section 4.5).
package protocolstate

import (
	"github.com/streamforge/dropcore/keys"
	"github.com/streamforge/dropcore/protoerr"
)

// SchemaVersion is bumped whenever ProtocolState's on-disk layout changes.
const SchemaVersion = 1

// State is the ProtocolState account: one singleton per token.
type State struct {
	SchemaVersion    uint8
	PDABump          uint8
	TokenID          keys.Pubkey
	AdminKey         keys.Pubkey
	PublisherKey     keys.Pubkey
	TreasuryOwnerKey keys.Pubkey
	Paused           bool

	// Guardians, if non-empty, is the guardian set recorded by SetGuardians.
	// While it is set, RequireAdmin refuses the single-signer check, and
	// VerifyGovernanceSignature verifies aggregated schnorr signatures
	// against AdminKey. SetGuardians does not rewrite AdminKey: it is still
	// exactly one 32-byte key, and becomes a guardian aggregate only if one
	// was stored there. This is additive to spec section 4.5, not a
	// replacement for it.
	Guardians []keys.Pubkey
	Threshold uint8
}

// Initialize constructs a one-shot ProtocolState for tokenID (spec section
// 4.5, initialize_protocol). It is the caller's job to ensure this is only
// ever invoked once per (token, programID) PDA — neither Initialize nor the
// engine's InitializeProtocol reads existing account bytes, so neither can
// tell whether a ProtocolState already exists there.
func Initialize(bump uint8, tokenID, admin, publisher, treasuryOwner keys.Pubkey) *State {
	return &State{
		SchemaVersion:    SchemaVersion,
		PDABump:          bump,
		TokenID:          tokenID,
		AdminKey:         admin,
		PublisherKey:     publisher,
		TreasuryOwnerKey: treasuryOwner,
	}
}

// RequireAdmin checks that signer is authorized to perform an admin-only
// operation. When Guardians is set, the caller must instead have already
// verified an aggregated schnorr signature via VerifyGovernanceSignature;
// RequireAdmin is only meaningful for the single-key case.
func (s *State) RequireAdmin(signer keys.Pubkey) error {
	if len(s.Guardians) > 0 {
		return protoerr.New(protoerr.ErrUnauthorized,
			"protocol uses guardian-threshold governance; call VerifyGovernanceSignature instead")
	}
	if signer != s.AdminKey {
		return protoerr.New(protoerr.ErrUnauthorized, "signer %x is not the admin", signer)
	}
	return nil
}

// RequirePublisher checks that signer is authorized to call set_merkle_root.
func (s *State) RequirePublisher(signer keys.Pubkey) error {
	if signer != s.PublisherKey {
		return protoerr.New(protoerr.ErrUnauthorized, "signer %x is not the publisher", signer)
	}
	return nil
}

// RequireNotPaused checks the protocol's pause flag, returning ErrPaused if
// publish/claim is currently blocked (spec section 4.1/4.4, step 1).
func (s *State) RequireNotPaused() error {
	if s.Paused {
		return protoerr.New(protoerr.ErrPaused, "protocol %x is paused", s.TokenID)
	}
	return nil
}

// SetPaused implements set_paused: admin only (spec section 4.5).
func (s *State) SetPaused(signer keys.Pubkey, flag bool) error {
	if err := s.RequireAdmin(signer); err != nil {
		return err
	}
	s.Paused = flag
	log.Infof("protocol %x paused=%v", s.TokenID, flag)
	return nil
}

// UpdatePublisher implements update_publisher: admin only.
func (s *State) UpdatePublisher(signer, newPublisher keys.Pubkey) error {
	if err := s.RequireAdmin(signer); err != nil {
		return err
	}
	s.PublisherKey = newPublisher
	log.Infof("protocol %x publisher rotated to %x", s.TokenID, newPublisher)
	return nil
}

// UpdateAdmin implements update_admin: admin only.
func (s *State) UpdateAdmin(signer, newAdmin keys.Pubkey) error {
	if err := s.RequireAdmin(signer); err != nil {
		return err
	}
	s.AdminKey = newAdmin
	s.Guardians = nil
	s.Threshold = 0
	log.Infof("protocol %x admin rotated to %x", s.TokenID, newAdmin)
	return nil
}
