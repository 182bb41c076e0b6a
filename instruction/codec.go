package instruction

import (
	"encoding/binary"
	"io"

	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/protoerr"
)

// reader wraps a byte slice with the cursor bookkeeping every Read* helper
// needs, so argument decoders read like a straight-line sequence of field
// reads instead of repeated slice-bounds arithmetic.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) take(n int) ([]byte, error) {
	if r.off+n > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// readVarString reads a u32 length prefix followed by that many UTF-8
// bytes (spec section 6: "length-prefixed utf-8, u32 len + bytes").
func (r *reader) readVarString(maxLen int) (string, error) {
	n, err := r.readUint32()
	if err != nil {
		return "", err
	}
	if int(n) > maxLen {
		return "", protoerr.New(protoerr.ErrInvalidInstruction, "string length %d exceeds max %d", n, maxLen)
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) readHash() (chainhash.Hash, error) {
	b, err := r.take(chainhash.HashSize)
	if err != nil {
		return chainhash.Hash{}, err
	}
	var h chainhash.Hash
	copy(h[:], b)
	return h, nil
}

// readProof reads a u32 count followed by that many 32-byte sibling
// hashes (spec section 6).
func (r *reader) readProof(maxLen int) ([]chainhash.Hash, error) {
	n, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	if int(n) > maxLen {
		return nil, protoerr.New(protoerr.ErrInvalidProof, "proof length %d exceeds max %d", n, maxLen)
	}
	proof := make([]chainhash.Hash, n)
	for i := range proof {
		h, err := r.readHash()
		if err != nil {
			return nil, err
		}
		proof[i] = h
	}
	return proof, nil
}

func (r *reader) exhausted() bool {
	return r.off == len(r.buf)
}

type writer struct {
	buf []byte
}

func (w *writer) writeUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) writeUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) writeVarString(s string) {
	w.writeUint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) writeHash(h chainhash.Hash) {
	w.buf = append(w.buf, h[:]...)
}

func (w *writer) writeProof(proof []chainhash.Hash) {
	w.writeUint32(uint32(len(proof)))
	for _, h := range proof {
		w.writeHash(h)
	}
}
