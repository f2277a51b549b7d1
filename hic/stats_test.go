package hic

import (
	"bytes"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestStatsWriteTSV(t *testing.T) {
	s := Stats{
		Forward: FilterStats{
			Processed:     10,
			QCFail:        1,
			Admitted:      8,
			Primary:       6,
			Supplementary: 2,
			Anchors:       [numAnchors]int64{FivePrime: 5, ThreePrime: 2, Neither: 1},
			Groups:        5,
			Written:       4,
		},
		Reverse: FilterStats{
			Processed: 9,
			Duplicate: 2,
			Admitted:  9,
			Primary:   8,
			Secondary: 1,
			Anchors:   [numAnchors]int64{FivePrime: 6, MiddleClipped: 3},
			Groups:    6,
			Written:   3,
		},
		Merge: MergeStats{Pairs: 2, ProperPairs: 2, Mismatched: 1, Digest: 0xabc},
	}
	var buf bytes.Buffer
	assert.NoError(t, s.WriteTSV(&buf))
	expect.EQ(t, buf.String(), `metric	value
forward_processed	10
forward_qcfail	1
forward_duplicate	0
forward_admitted	8
forward_primary	6
forward_secondary	0
forward_supplementary	2
forward_neither	1
forward_five_prime	5
forward_three_prime	2
forward_middle_clipped	0
forward_groups	5
forward_written	4
reverse_processed	9
reverse_qcfail	0
reverse_duplicate	2
reverse_admitted	9
reverse_primary	8
reverse_secondary	1
reverse_supplementary	0
reverse_neither	0
reverse_five_prime	6
reverse_three_prime	0
reverse_middle_clipped	3
reverse_groups	6
reverse_written	3
pairs	2
proper_pairs	2
mismatched	1
unpaired	0
digest	0000000000000abc
`)
}
