package hic

import (
	gbam "github.com/grailbio/bellerophon/encoding/bam"
	"github.com/grailbio/hts/sam"
)

// Shape is the set of match-anchoring properties of a CIGAR. Only
// sam.CigarMatch ("M") counts as a match; "=" and "X" do not.
type Shape uint8

const (
	// HeadMatch is set when the first operation is a match.
	HeadMatch Shape = 1 << iota
	// TailMatch is set when the last operation is a match.
	TailMatch
	// MiddleMatch is set when the CIGAR starts and ends with a clip and has a
	// match in between.
	MiddleMatch
)

// Has returns true if every property in x is in s.
func (s Shape) Has(x Shape) bool { return s&x == x }

func isClip(t sam.CigarOpType) bool {
	return t == sam.CigarSoftClipped || t == sam.CigarHardClipped
}

// ShapeOf computes the shape of cigar. An empty CIGAR has no properties.
func ShapeOf(cigar sam.Cigar) Shape {
	n := len(cigar)
	if n == 0 {
		return 0
	}
	var s Shape
	first, last := cigar[0].Type(), cigar[n-1].Type()
	if first == sam.CigarMatch {
		s |= HeadMatch
	}
	if last == sam.CigarMatch {
		s |= TailMatch
	}
	if isClip(first) && isClip(last) {
		for _, op := range cigar[1 : n-1] {
			if op.Type() == sam.CigarMatch {
				s |= MiddleMatch
				break
			}
		}
	}
	return s
}

// HeadMaps returns true if the alignment of r starts with a match, i.e. its
// leftmost base on the reference is not clipped.
func HeadMaps(r *sam.Record) bool { return ShapeOf(r.Cigar).Has(HeadMatch) }

// TailMaps returns true if the alignment of r ends with a match.
func TailMaps(r *sam.Record) bool { return ShapeOf(r.Cigar).Has(TailMatch) }

// MiddleMaps returns true if r is clipped on both ends and matches in the
// middle.
func MiddleMaps(r *sam.Record) bool { return ShapeOf(r.Cigar).Has(MiddleMatch) }

// IsFivePrime returns true if the 5' end of the sequenced read is an
// alignment match. The CIGAR of a reverse-strand record runs from the 3' end
// of the read, so its tail is checked instead of its head.
func IsFivePrime(r *sam.Record) bool {
	if gbam.IsReverse(r) {
		return TailMaps(r)
	}
	return HeadMaps(r)
}

// IsThreePrime returns true if the 3' end of the sequenced read is an
// alignment match.
func IsThreePrime(r *sam.Record) bool {
	if gbam.IsReverse(r) {
		return HeadMaps(r)
	}
	return TailMaps(r)
}

// Anchor classifies which end of a read is anchored by an alignment match.
type Anchor int

const (
	// Neither means no end is anchored and the read is not middle-clipped.
	Neither Anchor = iota
	// FivePrime means the 5' end is anchored.
	FivePrime
	// ThreePrime means the 3' end, but not the 5' end, is anchored.
	ThreePrime
	// MiddleClipped means both ends are clipped around a matching middle.
	MiddleClipped

	numAnchors
)

var anchorNames = [...]string{"neither", "five-prime", "three-prime", "middle-clipped"}

func (a Anchor) String() string {
	if a < 0 || a >= numAnchors {
		return "invalid"
	}
	return anchorNames[a]
}

// Classify returns the anchor of r. A read whose both ends are matches (e.g.
// "76M") is FivePrime.
func Classify(r *sam.Record) Anchor {
	switch {
	case IsFivePrime(r):
		return FivePrime
	case IsThreePrime(r):
		return ThreePrime
	case MiddleMaps(r):
		return MiddleClipped
	}
	return Neither
}
