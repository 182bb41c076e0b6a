package instruction

import (
	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/merkle"
	"github.com/streamforge/dropcore/protoerr"
)

// MaxChannelNameLen bounds channel_name across both instructions that carry
// one (spec section 4.1).
const MaxChannelNameLen = 64

// SetMerkleRootArgs is the argument tuple for set_merkle_root (spec
// section 6): channel_name, epoch, root, claim_count.
type SetMerkleRootArgs struct {
	ChannelName string
	Epoch       uint64
	Root        chainhash.Hash
	ClaimCount  uint32
}

// Encode writes the discriminator followed by the packed arguments.
func (a SetMerkleRootArgs) Encode() []byte {
	w := &writer{buf: make([]byte, 0, 64)}
	disc := DiscriminatorFor(SetMerkleRoot)
	w.buf = append(w.buf, disc[:]...)
	w.writeVarString(a.ChannelName)
	w.writeUint64(a.Epoch)
	w.writeHash(a.Root)
	w.writeUint32(a.ClaimCount)
	return w.buf
}

// DecodeSetMerkleRootArgs parses the argument bytes following the
// discriminator (the caller has already stripped and matched it).
func DecodeSetMerkleRootArgs(data []byte) (SetMerkleRootArgs, error) {
	var a SetMerkleRootArgs
	r := newReader(data)

	name, err := r.readVarString(MaxChannelNameLen)
	if err != nil {
		return a, wrapDecodeErr("channel_name", err)
	}
	epoch, err := r.readUint64()
	if err != nil {
		return a, wrapDecodeErr("epoch", err)
	}
	root, err := r.readHash()
	if err != nil {
		return a, wrapDecodeErr("root", err)
	}
	claimCount, err := r.readUint32()
	if err != nil {
		return a, wrapDecodeErr("claim_count", err)
	}
	if !r.exhausted() {
		return a, protoerr.New(protoerr.ErrInvalidInstruction, "set_merkle_root args have trailing bytes")
	}

	a.ChannelName = name
	a.Epoch = epoch
	a.Root = root
	a.ClaimCount = claimCount
	return a, nil
}

// ClaimArgs is the argument tuple for claim (spec section 6): channel_name,
// epoch, index, amount, id, proof.
type ClaimArgs struct {
	ChannelName string
	Epoch       uint64
	Index       uint32
	Amount      uint64
	ID          string
	Proof       []chainhash.Hash
}

// Encode writes the discriminator followed by the packed arguments.
func (a ClaimArgs) Encode() []byte {
	w := &writer{buf: make([]byte, 0, 128)}
	disc := DiscriminatorFor(Claim)
	w.buf = append(w.buf, disc[:]...)
	w.writeVarString(a.ChannelName)
	w.writeUint64(a.Epoch)
	w.writeUint32(a.Index)
	w.writeUint64(a.Amount)
	w.writeVarString(a.ID)
	w.writeProof(a.Proof)
	return w.buf
}

// DecodeClaimArgs parses the argument bytes following the discriminator.
// maxClaimsPerEpoch bounds the accepted proof length against the
// deployment's actual capacity (spec section 4.3).
func DecodeClaimArgs(data []byte, maxClaimsPerEpoch uint32) (ClaimArgs, error) {
	var a ClaimArgs
	r := newReader(data)

	name, err := r.readVarString(MaxChannelNameLen)
	if err != nil {
		return a, wrapDecodeErr("channel_name", err)
	}
	epoch, err := r.readUint64()
	if err != nil {
		return a, wrapDecodeErr("epoch", err)
	}
	index, err := r.readUint32()
	if err != nil {
		return a, wrapDecodeErr("index", err)
	}
	amount, err := r.readUint64()
	if err != nil {
		return a, wrapDecodeErr("amount", err)
	}
	id, err := r.readVarString(merkle.MaxParticipationIDLen)
	if err != nil {
		return a, wrapDecodeErr("id", err)
	}
	proof, err := r.readProof(merkle.MaxProofLen(maxClaimsPerEpoch))
	if err != nil {
		return a, wrapDecodeErr("proof", err)
	}
	if !r.exhausted() {
		return a, protoerr.New(protoerr.ErrInvalidInstruction, "claim args have trailing bytes")
	}

	a.ChannelName = name
	a.Epoch = epoch
	a.Index = index
	a.Amount = amount
	a.ID = id
	a.Proof = proof
	return a, nil
}

func wrapDecodeErr(field string, err error) error {
	if rerr, ok := err.(protoerr.RuleError); ok {
		return rerr
	}
	return protoerr.New(protoerr.ErrInvalidInstruction, "reading %s: %v", field, err)
}
