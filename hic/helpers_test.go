package hic

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	gbam "github.com/grailbio/bellerophon/encoding/bam"
	"github.com/grailbio/bellerophon/encoding/bamprovider"
	"github.com/grailbio/hts/sam"
	"github.com/stretchr/testify/require"
)

func newTestHeader(t *testing.T, lens ...int) *sam.Header {
	var refs []*sam.Reference
	for i, n := range lens {
		ref, err := sam.NewReference("chr"+string(rune('1'+i)), "", "", n, nil, nil)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	h, err := sam.NewHeader(nil, refs)
	require.NoError(t, err)
	return h
}

// newRecord creates a record with a sequence as long as the query span of
// cigar, so that it can be written to a BAM file.
func newRecord(t *testing.T, name string, ref *sam.Reference, pos int, flags sam.Flags, mapq byte, cigar string) *sam.Record {
	r := &sam.Record{
		Name:    name,
		Ref:     ref,
		Pos:     pos,
		MapQ:    mapq,
		Flags:   flags,
		MatePos: -1,
		TempLen: 0,
	}
	if ref == nil {
		r.Pos = -1
	}
	if cigar != "" {
		c, err := sam.ParseCigar([]byte(cigar))
		require.NoError(t, err)
		r.Cigar = c
	}
	n := queryLen(r.Cigar)
	if n > 0 {
		r.Seq = sam.NewSeq([]byte(strings.Repeat("ACGT", n/4+1)[:n]))
		r.Qual = []byte(strings.Repeat("I", n))
	}
	return r
}

func queryLen(c sam.Cigar) int {
	n := 0
	for _, op := range c {
		switch op.Type() {
		case sam.CigarMatch, sam.CigarInsertion, sam.CigarSoftClipped, sam.CigarEqual, sam.CigarMismatch:
			n += op.Len()
		}
	}
	return n
}

// recordSink collects copies of the records written to it.
type recordSink struct {
	recs []*sam.Record
}

func (s *recordSink) Write(r *sam.Record) error {
	c := *r
	s.recs = append(s.recs, &c)
	return nil
}

func (s *recordSink) names() []string {
	var names []string
	for _, r := range s.recs {
		names = append(names, r.Name)
	}
	return names
}

func fakeIterator(h *sam.Header, recs []*sam.Record) bamprovider.Iterator {
	return bamprovider.NewFakeProvider(h, recs).NewIterator()
}

func writeTestBAM(t *testing.T, path string, h *sam.Header, recs []*sam.Record) {
	ctx := vcontext.Background()
	w, err := gbam.NewWriter(ctx, path, h, 1)
	require.NoError(t, err)
	for _, r := range recs {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close(ctx))
}

func readTestBAM(t *testing.T, path string) (*sam.Header, []*sam.Record) {
	p := bamprovider.NewProvider(path)
	h, err := p.GetHeader()
	require.NoError(t, err)
	iter := p.NewIterator()
	var recs []*sam.Record
	for iter.Scan() {
		recs = append(recs, iter.Record())
	}
	require.NoError(t, iter.Close())
	require.NoError(t, p.Close())
	return h, recs
}

// scratchFiles lists the filter scratch files in dir.
func scratchFiles(t *testing.T, dir string) []string {
	m, err := filepath.Glob(filepath.Join(dir, "filtered_*"))
	require.NoError(t, err)
	return m
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
