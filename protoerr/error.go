// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package protoerr defines the engine's error taxonomy. Every precondition
// violation in channelstate, claim and protocolstate returns a RuleError
// built from one of these codes rather than a bare errors.New — callers
// across packages can type-assert on the code the same way the teacher's
// mempool package switches on blockchain.RuleError.
package protoerr

import "fmt"

// ErrorCode identifies the class of rule violation.
type ErrorCode int

const (
	// ErrPaused: the protocol's pause flag blocks publish and claim.
	ErrPaused ErrorCode = iota

	// ErrUnauthorized: the signer is not the expected publisher/admin.
	ErrUnauthorized

	// ErrInvalidChannelKey: the provided ChannelState account does not match
	// the PDA derived from the channel name.
	ErrInvalidChannelKey

	// ErrStaleEpoch: a publish targets a slot already holding a newer epoch.
	ErrStaleEpoch

	// ErrDuplicateEpoch: a publish repeats the epoch already in the slot.
	ErrDuplicateEpoch

	// ErrEpochEvicted: the ring slot for the requested epoch has been
	// overwritten by a later publish.
	ErrEpochEvicted

	// ErrIndexOutOfRange: the claim index exceeds the epoch's capacity.
	ErrIndexOutOfRange

	// ErrAlreadyClaimed: the bitmap bit for this index is already set.
	ErrAlreadyClaimed

	// ErrInvalidProof: the merkle proof does not fold to the stored root.
	ErrInvalidProof

	// ErrTreasuryMismatch: the treasury account's mint or owner is wrong.
	ErrTreasuryMismatch

	// ErrInsufficientTreasuryBalance: the treasury can't cover the claim.
	ErrInsufficientTreasuryBalance

	// ErrChannelBusy: close_channel_state attempted with live claimable state.
	ErrChannelBusy

	// ErrClaimCountExceedsCapacity: expected_claim_count argument is too large,
	// or a slot's claim_count would exceed the deployment's per-epoch cap.
	ErrClaimCountExceedsCapacity

	// ErrInvalidInstruction: the instruction discriminator or argument
	// encoding could not be parsed.
	ErrInvalidInstruction

	// ErrInvalidPDA: a derived program address does not match the account
	// the caller supplied.
	ErrInvalidPDA
)

var codeStrings = map[ErrorCode]string{
	ErrPaused:                      "Paused",
	ErrUnauthorized:                "Unauthorized",
	ErrInvalidChannelKey:           "InvalidChannelKey",
	ErrStaleEpoch:                  "StaleEpoch",
	ErrDuplicateEpoch:              "DuplicateEpoch",
	ErrEpochEvicted:                "EpochEvicted",
	ErrIndexOutOfRange:             "IndexOutOfRange",
	ErrAlreadyClaimed:              "AlreadyClaimed",
	ErrInvalidProof:                "InvalidProof",
	ErrTreasuryMismatch:            "TreasuryMismatch",
	ErrInsufficientTreasuryBalance: "InsufficientTreasuryBalance",
	ErrChannelBusy:                 "ChannelBusy",
	ErrClaimCountExceedsCapacity:   "ClaimCountExceedsCapacity",
	ErrInvalidInstruction:          "InvalidInstruction",
	ErrInvalidPDA:                  "InvalidPDA",
}

// String implements fmt.Stringer.
func (c ErrorCode) String() string {
	if s, ok := codeStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// RuleError identifies a rule violation encountered while validating an
// instruction. It is always returned by value, matching the
// blockchain.RuleError{ErrorCode: ...} idiom callers switch on.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

// Error implements the error interface.
func (e RuleError) Error() string {
	return e.Description
}

// New builds a RuleError from a code and a formatted description.
func New(code ErrorCode, format string, args ...interface{}) RuleError {
	return RuleError{
		ErrorCode:   code,
		Description: fmt.Sprintf(format, args...),
	}
}

// Is reports whether err is a RuleError carrying the given code. Mirrors the
// `cerr, ok := err.(blockchain.RuleError); ok && cerr.ErrorCode == X` pattern
// the teacher's mempool package repeats at every call site.
func Is(err error, code ErrorCode) bool {
	rerr, ok := err.(RuleError)
	return ok && rerr.ErrorCode == code
}

// Fatal marks an invariant violation that must never happen under correct
// callers — today, a ChannelState whose token doesn't match the
// ProtocolState it is used with (PDA mismatches are returned as ordinary
// RuleErrors instead). These aren't client-caused rule
// violations; they indicate the host handed the core a corrupt or
// maliciously mismatched account. Panic(Fatal{...}) rather than returning a
// RuleError; the engine dispatcher is the only place that recovers it, so a
// core function can never accidentally let a Fatal leak out as an ordinary
// error a caller might retry.
type Fatal struct {
	Reason string
}

// Error implements the error interface, used only when a recovered Fatal is
// converted back into a RuleError at the dispatch boundary.
func (f Fatal) Error() string {
	return f.Reason
}

// Panic raises a Fatal invariant violation.
func Panic(format string, args ...interface{}) {
	panic(Fatal{Reason: fmt.Sprintf(format, args...)})
}

// Recover turns a panicking Fatal into a RuleError with ErrInvalidPDA,
// leaving *errp untouched if no panic occurred and re-panicking anything
// that isn't a Fatal. Intended to run via defer at exactly one place: the
// engine dispatcher's outermost call boundary.
func Recover(errp *error) {
	if r := recover(); r != nil {
		f, ok := r.(Fatal)
		if !ok {
			panic(r)
		}
		*errp = New(ErrInvalidPDA, "fatal invariant violation: %s", f.Reason)
	}
}
