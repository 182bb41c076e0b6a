// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package instruction implements the wire format the host runtime hands
// the engine: an 8-byte discriminator identifying which operation an
// instruction carries, followed by its little-endian-packed arguments
// (spec section 6). Encoding and decoding live in the same package
// deliberately — they are two directions of one contract, and keeping them
// together is what makes it easy to keep them in sync.
package instruction

import "crypto/sha256"

// Name identifies one of the seven on-chain instructions the engine
// exposes.
type Name string

// The instruction names spec section 6 fixes, used verbatim in the
// discriminator preimage.
const (
	SetMerkleRoot       Name = "set_merkle_root"
	Claim               Name = "claim"
	InitializeProtocol  Name = "initialize_protocol"
	SetPaused           Name = "set_paused"
	UpdatePublisher     Name = "update_publisher"
	UpdateAdmin         Name = "update_admin"
	CloseChannelState   Name = "close_channel_state"
)

// Discriminator is the first 8 bytes of sha256("global:<name>"), the tag
// every instruction's wire encoding begins with.
type Discriminator [8]byte

// DiscriminatorFor computes the discriminator for an instruction name.
func DiscriminatorFor(name Name) Discriminator {
	digest := sha256.Sum256([]byte("global:" + string(name)))
	var d Discriminator
	copy(d[:], digest[:8])
	return d
}

var discriminators = map[Name]Discriminator{
	SetMerkleRoot:      DiscriminatorFor(SetMerkleRoot),
	Claim:              DiscriminatorFor(Claim),
	InitializeProtocol: DiscriminatorFor(InitializeProtocol),
	SetPaused:          DiscriminatorFor(SetPaused),
	UpdatePublisher:    DiscriminatorFor(UpdatePublisher),
	UpdateAdmin:        DiscriminatorFor(UpdateAdmin),
	CloseChannelState:  DiscriminatorFor(CloseChannelState),
}

// Lookup returns the instruction name matching a discriminator read off the
// wire, and false if it doesn't match any known instruction.
func Lookup(d Discriminator) (Name, bool) {
	for name, disc := range discriminators {
		if disc == d {
			return name, true
		}
	}
	return "", false
}
