// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package addresses renders the engine's 32-byte keys and program-derived
// addresses as base58 text for logs and events, the same role the teacher's
// address package plays for P2PKH/Taproot addresses — just pointed at a
// single fixed-width key type instead of a handful of script-shaped ones,
// since there is no script system here to address.
package addresses

import (
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/keys"
)

// version tags every encoded address with this package's single address
// kind. There is exactly one kind today (a bare 32-byte key/PDA), but the
// byte is reserved up front the way the teacher reserves PubKeyHashAddrID
// per network, so a future second kind doesn't have to steal a byte from an
// address that's already been handed out.
const version = 0x2A

// checksumLen is the number of digest bytes appended to the payload before
// base58 encoding, matching the teacher's 4-byte double-SHA256 checksum
// convention but computed with this package's native keccak256.
const checksumLen = 4

var (
	// ErrInvalidLength is returned when a decoded payload isn't exactly
	// version + 32-byte key.
	ErrInvalidLength = errors.New("addresses: decoded payload has the wrong length")

	// ErrChecksumMismatch is returned when the trailing checksum bytes don't
	// match the payload.
	ErrChecksumMismatch = errors.New("addresses: checksum mismatch")

	// ErrUnsupportedVersion is returned when the version byte isn't one this
	// package knows how to decode.
	ErrUnsupportedVersion = errors.New("addresses: unsupported address version")
)

// Encode renders a 32-byte key (claimer, publisher, admin, mint, or any PDA)
// as base58 text.
func Encode(pubkey keys.Pubkey) string {
	payload := make([]byte, 1+keys.Size)
	payload[0] = version
	copy(payload[1:], pubkey.Bytes())

	checksum := chainhash.Sum256(payload)
	full := append(payload, checksum[:checksumLen]...)
	return base58.Encode(full)
}

// Decode parses base58 text back into a 32-byte key, verifying the version
// byte and checksum.
func Decode(s string) (keys.Pubkey, error) {
	decoded := base58.Decode(s)
	if len(decoded) != 1+keys.Size+checksumLen {
		return keys.Pubkey{}, ErrInvalidLength
	}

	payload := decoded[:1+keys.Size]
	gotChecksum := decoded[1+keys.Size:]

	wantChecksum := chainhash.Sum256(payload)
	for i := 0; i < checksumLen; i++ {
		if gotChecksum[i] != wantChecksum[i] {
			return keys.Pubkey{}, ErrChecksumMismatch
		}
	}

	if payload[0] != version {
		return keys.Pubkey{}, ErrUnsupportedVersion
	}

	return keys.FromBytes(payload[1:])
}

// Short returns a truncated base58 rendering (first 6 and last 4 characters)
// for log lines and event text where a full address is more noise than
// signal, mirroring the `%x`-truncated address style the teacher's own log
// lines use for long hashes.
func Short(pubkey keys.Pubkey) string {
	full := Encode(pubkey)
	if len(full) <= 12 {
		return full
	}
	return full[:6] + ".." + full[len(full)-4:]
}
