package hic

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReferences(t *testing.T) {
	assert.NoError(t, CheckReferences(newTestHeader(t, 1000, 2000), newTestHeader(t, 1000, 2000)))

	for _, rev := range []*sam.Header{
		newTestHeader(t, 999, 2000),
		newTestHeader(t, 1000),
		newTestHeader(t, 1000, 2000, 3000),
	} {
		err := CheckReferences(newTestHeader(t, 1000, 2000), rev)
		assert.True(t, errors.Is(errors.Invalid, err), "got %v", err)
	}

	renamed := newTestHeader(t, 1000)
	other, err := sam.NewReference("chrX", "", "", 1000, nil, nil)
	require.NoError(t, err)
	h, err := sam.NewHeader(nil, []*sam.Reference{other})
	require.NoError(t, err)
	assert.Error(t, CheckReferences(renamed, h))
}

func TestNewMergedHeader(t *testing.T) {
	opts := DefaultOpts
	opts.ForwardPath = "s3://bucket/in/fwd.bam"
	opts.ReversePath = "in/rev.sam.gz"
	opts.OutputPath = "out.bam"
	opts.MinMapQ = 30

	h := newTestHeader(t, 1000)
	out, err := NewMergedHeader(h, opts)
	require.NoError(t, err)
	assert.Len(t, h.Progs(), 0, "input header must not change")
	require.Len(t, out.Progs(), 1)
	pg := out.Progs()[0]
	assert.Equal(t, "bellerophon", pg.UID())
	assert.Equal(t, "bellerophon", pg.Name())
	assert.Equal(t, "", pg.Previous())
	assert.Equal(t, "1.0", pg.Version())
	assert.Equal(t, "bellerophon --forward fwd.bam --reverse rev.sam.gz --output out.bam --quality 30", pg.Command())
	assert.Equal(t, Description, pg.Get(sam.NewTag("DS")))
	assert.Equal(t, 1, len(out.Refs()))

	// Merging a merged file chains onto the previous entry with a fresh ID.
	again, err := NewMergedHeader(out, opts)
	require.NoError(t, err)
	require.Len(t, again.Progs(), 2)
	assert.Equal(t, "bellerophon.1", again.Progs()[1].UID())
	assert.Equal(t, "bellerophon", again.Progs()[1].Previous())

	third, err := NewMergedHeader(again, opts)
	require.NoError(t, err)
	assert.Equal(t, "bellerophon.2", third.Progs()[2].UID())
	assert.Equal(t, "bellerophon.1", third.Progs()[2].Previous())
}
