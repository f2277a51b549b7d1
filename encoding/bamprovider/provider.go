package bamprovider

import (
	"strings"

	"github.com/grailbio/hts/sam"
	"v.io/x/lib/vlog"
)

// ProviderOpts defines options for NewProvider.
type ProviderOpts struct {
	// Parallelism is the number of BGZF decompression goroutines used by the
	// BAM reader. Values < 1 are treated as 1. It is ignored for SAM input.
	Parallelism int
}

// Provider allows reading an alignment file in file order. Thread compatible.
type Provider interface {
	// GetHeader returns the header of the file.  The callee must not modify
	// the returned header object.
	//
	// REQUIRES: Close has not been called.
	GetHeader() (*sam.Header, error)

	// NewIterator returns an iterator over all the records in the file, in
	// file order.
	//
	// REQUIRES: Close has not been called.
	NewIterator() Iterator

	// Close must be called exactly once. It returns any error encountered
	// by the provider, or any iterator created by the provider.
	//
	// REQUIRES: All the iterators created by NewIterator have been closed.
	Close() error
}

// Iterator iterates over sam.Records in file order. Thread compatible.
type Iterator interface {
	// Scan returns where there are any records remaining in the iterator,
	// and if so, advances the iterator to the next record. If the iterator
	// reaches the end of the file, Scan() returns false.  If an error
	// occurs, Scan() returns false and the error can be retrieved by
	// calling Err().
	//
	// REQUIRES: Close has not been called.
	Scan() bool

	// Record returns the current record in the iterator. This must be
	// called only after a call to Scan() returns true.
	//
	// REQUIRES: Close has not been called.
	Record() *sam.Record

	// Err returns the error encoutered during iteration, or nil if no error
	// occurred.  An io.EOF error will be translated to nil.
	Err() error

	// Close must be called exactly once. It returns the value of Err().
	Close() error
}

// FileType represents the type of an alignment file.
type FileType int

const (
	// Unknown is a sentinel.
	Unknown FileType = iota
	// BAM file
	BAM
	// SAM file, uncompressed
	SAM
	// SAMGzip is a gzip-compressed SAM file
	SAMGzip
)

// GuessFileType returns the file type from the pathname. Returns Unknown if
// the suffix is not recognized.
func GuessFileType(path string) FileType {
	switch {
	case strings.HasSuffix(path, ".bam"):
		return BAM
	case strings.HasSuffix(path, ".sam"):
		return SAM
	case strings.HasSuffix(path, ".sam.gz"):
		return SAMGzip
	}
	vlog.VI(1).Infof("%v: could not detect file type.", path)
	return Unknown
}

// NewProvider creates a Provider object that can handle a BAM or SAM file at
// "path". The file type is autodetected from the path; unrecognized paths are
// read as BAM.
func NewProvider(path string, opts ...ProviderOpts) Provider {
	var o ProviderOpts
	for _, opt := range opts {
		if opt.Parallelism > 0 {
			o.Parallelism = opt.Parallelism
		}
	}
	if o.Parallelism < 1 {
		o.Parallelism = 1
	}
	fileType := GuessFileType(path)
	if fileType == Unknown {
		fileType = BAM
	}
	return &BAMProvider{Path: path, Type: fileType, Parallelism: o.Parallelism}
}
