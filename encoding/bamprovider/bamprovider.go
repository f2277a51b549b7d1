package bamprovider

import (
	"io"
	"sync"

	baseerrors "github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"v.io/x/lib/vlog"
)

// BAMProvider implements Provider for BAM and SAM files. The path is opened
// through github.com/grailbio/base/file, so any scheme registered there may
// be used.
type BAMProvider struct {
	// Path of the alignment file. Must be nonempty.
	Path string
	// Type is the encoding of Path. Unknown is read as BAM.
	Type FileType
	// Parallelism is passed to bam.NewReader.
	Parallelism int
	err         baseerrors.Once

	mu      sync.Mutex
	nActive int
	header  *sam.Header
}

// recordReader is implemented by both sam.Reader and bam.Reader.
type recordReader interface {
	Header() *sam.Header
	Read() (*sam.Record, error)
}

type bamIterator struct {
	provider *BAMProvider
	in       file.File
	closers  []io.Closer
	reader   recordReader

	nRecs int64
	next  *sam.Record
	err   error
}

// openReader opens b.Path and wraps it in a reader for b.Type. On error, all
// resources opened so far are released.
func (b *BAMProvider) openReader() (file.File, recordReader, []io.Closer, error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, b.Path)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "%s: open", b.Path)
	}
	var (
		closers []io.Closer
		reader  recordReader
		r       io.Reader = in.Reader(ctx)
	)
	switch b.Type {
	case SAMGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			in.Close(ctx) // nolint: errcheck
			return nil, nil, nil, errors.Wrapf(err, "%s: gzip", b.Path)
		}
		closers = append(closers, gz)
		r = gz
		fallthrough
	case SAM:
		reader, err = sam.NewReader(r)
	default:
		parallelism := b.Parallelism
		if parallelism < 1 {
			parallelism = 1
		}
		var br *bam.Reader
		if br, err = bam.NewReader(r, parallelism); err == nil {
			closers = append(closers, br)
			reader = br
		}
	}
	if err != nil {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close() // nolint: errcheck
		}
		in.Close(ctx) // nolint: errcheck
		return nil, nil, nil, errors.Wrapf(err, "%s: read header", b.Path)
	}
	return in, reader, closers, nil
}

// GetHeader implements the Provider interface.
func (b *BAMProvider) GetHeader() (*sam.Header, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.header != nil {
		return b.header, nil
	}
	in, reader, closers, err := b.openReader()
	if err != nil {
		b.err.Set(err)
		return nil, err
	}
	b.header = reader.Header()
	for i := len(closers) - 1; i >= 0; i-- {
		b.err.Set(closers[i].Close())
	}
	b.err.Set(in.Close(vcontext.Background()))
	return b.header, nil
}

// Close implements the Provider interface.
func (b *BAMProvider) Close() error {
	if b.nActive > 0 {
		vlog.Fatalf("%d iterators still active for %+v", b.nActive, b)
	}
	return b.err.Err()
}

// NewIterator implements the Provider interface.
func (b *BAMProvider) NewIterator() Iterator {
	in, reader, closers, err := b.openReader()
	if err != nil {
		b.err.Set(err)
		return NewErrorIterator(err)
	}
	b.mu.Lock()
	b.nActive++
	if b.header == nil {
		b.header = reader.Header()
	}
	b.mu.Unlock()
	return &bamIterator{provider: b, in: in, reader: reader, closers: closers}
}

// Scan implements the Iterator interface.
func (i *bamIterator) Scan() bool {
	if i.reader == nil {
		vlog.Fatal("Reusing iterator")
	}
	if i.err != nil {
		return false
	}
	if i.next, i.err = i.reader.Read(); i.err != nil {
		if i.err != io.EOF {
			i.err = errors.Wrapf(i.err, "%s: read record %d", i.provider.Path, i.nRecs)
		}
		i.next = nil
		return false
	}
	i.nRecs++
	return true
}

// Record implements the Iterator interface.
func (i *bamIterator) Record() *sam.Record {
	return i.next
}

// Err implements the Iterator interface.
func (i *bamIterator) Err() error {
	if i.err == io.EOF {
		return nil
	}
	return i.err
}

// Close implements the Iterator interface.
func (i *bamIterator) Close() error {
	for j := len(i.closers) - 1; j >= 0; j-- {
		if err := i.closers[j].Close(); err != nil && i.Err() == nil {
			i.err = err
		}
	}
	if err := i.in.Close(vcontext.Background()); err != nil && i.Err() == nil {
		i.err = err
	}
	i.closers = nil
	i.reader = nil
	b := i.provider
	b.err.Set(i.Err())
	b.mu.Lock()
	b.nActive--
	if b.nActive < 0 {
		vlog.Fatalf("Negative active count for %+v", b)
	}
	b.mu.Unlock()
	return i.Err()
}
