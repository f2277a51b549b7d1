package hic

import (
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil/expect"
)

func TestShapeOf(t *testing.T) {
	tests := []struct {
		cigar string
		head  bool
		tail  bool
		mid   bool
	}{
		{"76M", true, true, false},
		{"10S66M", false, true, false},
		{"66M10S", true, false, false},
		{"10S56M10S", false, false, true},
		{"10H56M10S", false, false, true},
		{"10S20I10S", false, false, false},
		{"5S10M3D20M5H", false, false, true},
		{"76=", false, false, false},
		{"10S66X", false, false, false},
		{"", false, false, false},
	}
	for _, test := range tests {
		var c sam.Cigar
		if test.cigar != "" {
			var err error
			c, err = sam.ParseCigar([]byte(test.cigar))
			expect.NoError(t, err)
		}
		s := ShapeOf(c)
		expect.EQ(t, s.Has(HeadMatch), test.head, "cigar %s", test.cigar)
		expect.EQ(t, s.Has(TailMatch), test.tail, "cigar %s", test.cigar)
		expect.EQ(t, s.Has(MiddleMatch), test.mid, "cigar %s", test.cigar)
	}
}

func TestFivePrimeStrand(t *testing.T) {
	h := newTestHeader(t, 1000)
	ref := h.Refs()[0]
	tests := []struct {
		cigar   string
		flags   sam.Flags
		five    bool
		three   bool
		classed Anchor
	}{
		{"76M", 0, true, true, FivePrime},
		{"76M", sam.Reverse, true, true, FivePrime},
		{"10S66M", 0, false, true, ThreePrime},
		{"10S66M", sam.Reverse, true, false, FivePrime},
		{"66M10S", 0, true, false, FivePrime},
		{"66M10S", sam.Reverse, false, true, ThreePrime},
		{"10S56M10S", 0, false, false, MiddleClipped},
		{"10S56M10S", sam.Reverse, false, false, MiddleClipped},
		{"10S10I10S", 0, false, false, Neither},
	}
	for _, test := range tests {
		r := newRecord(t, "r", ref, 10, test.flags, 60, test.cigar)
		expect.EQ(t, IsFivePrime(r), test.five, "%s flags %v", test.cigar, test.flags)
		expect.EQ(t, IsThreePrime(r), test.three, "%s flags %v", test.cigar, test.flags)
		expect.EQ(t, Classify(r), test.classed, "%s flags %v", test.cigar, test.flags)
		if test.flags&sam.Reverse != 0 {
			expect.EQ(t, IsFivePrime(r), TailMaps(r))
		} else {
			expect.EQ(t, IsFivePrime(r), HeadMaps(r))
		}
	}
}

func TestAnchorString(t *testing.T) {
	expect.EQ(t, FivePrime.String(), "five-prime")
	expect.EQ(t, Neither.String(), "neither")
	expect.EQ(t, Anchor(17).String(), "invalid")
}
