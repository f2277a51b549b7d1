package bam

import (
	"encoding/binary"
	"hash"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/hts/sam"
)

// Digest is an order-sensitive seahash of a record stream. Two streams have
// the same digest iff (modulo hash collisions) they contain the same records,
// field by field, in the same order. Aux fields are not hashed.
type Digest struct {
	h   hash.Hash64
	buf [32]byte
}

// NewDigest creates an empty Digest.
func NewDigest() *Digest {
	return &Digest{h: seahash.New()}
}

// Add folds r into the digest.
func (d *Digest) Add(r *sam.Record) {
	b := d.buf[:]
	binary.LittleEndian.PutUint32(b[0:], uint32(r.Ref.ID()))
	binary.LittleEndian.PutUint32(b[4:], uint32(r.Pos))
	binary.LittleEndian.PutUint32(b[8:], uint32(r.MateRef.ID()))
	binary.LittleEndian.PutUint32(b[12:], uint32(r.MatePos))
	binary.LittleEndian.PutUint32(b[16:], uint32(r.TempLen))
	binary.LittleEndian.PutUint16(b[20:], uint16(r.Flags))
	b[22] = r.MapQ
	binary.LittleEndian.PutUint32(b[24:], uint32(len(r.Name)))
	binary.LittleEndian.PutUint32(b[28:], uint32(len(r.Cigar)))
	d.h.Write(b)
	d.h.Write([]byte(r.Name))
	for _, op := range r.Cigar {
		binary.LittleEndian.PutUint32(b[0:], uint32(op))
		d.h.Write(b[:4])
	}
	d.h.Write(r.Seq.Expand())
	d.h.Write(r.Qual)
}

// Sum64 returns the current digest value.
func (d *Digest) Sum64() uint64 { return d.h.Sum64() }
