package hic

import (
	"context"
	"io/ioutil"
	"os"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	gbam "github.com/grailbio/bellerophon/encoding/bam"
	"github.com/grailbio/bellerophon/encoding/bamprovider"
	"github.com/grailbio/hts/sam"
)

// RecordWriter is the sink of FilterStream and MergeStreams. *bam.Writer in
// encoding/bam implements it. Write must not retain r after it returns.
type RecordWriter interface {
	Write(r *sam.Record) error
}

// ScratchFiles names the intermediate files written by Filter.
type ScratchFiles struct {
	Forward string
	Reverse string
}

// Remove deletes the scratch files. Empty and already deleted paths are
// skipped.
func (s ScratchFiles) Remove(ctx context.Context) error {
	var once errors.Once
	for _, path := range []string{s.Forward, s.Reverse} {
		once.Set(removeScratch(ctx, path))
	}
	return once.Err()
}

func removeScratch(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := file.Remove(ctx, path); err != nil && !os.IsNotExist(err) && !errors.Is(errors.NotExist, err) {
		return errors.E(err, "remove scratch file", path)
	}
	return nil
}

// FilterStream keeps, for each query name in iter, the one record whose 5'
// end is an alignment match, and writes it to w. Records with mapping
// quality below opts.MinMapQ and unmapped records are dropped first. A name
// is written only if it has one or two remaining records and exactly one of
// them is five-prime anchored. Records of a name must be adjacent in iter.
//
// FilterStream does not close iter.
func FilterStream(iter bamprovider.Iterator, w RecordWriter, opts Opts) (FilterStats, error) {
	var (
		stats FilterStats
		group readGroup
	)
	emit := func(r *sam.Record) error {
		if r == nil {
			return nil
		}
		if err := w.Write(r); err != nil {
			return err
		}
		stats.Written++
		return nil
	}
	for iter.Scan() {
		r := iter.Record()
		stats.Processed++
		if gbam.IsQCFail(r) {
			stats.QCFail++
		}
		if gbam.IsDuplicate(r) {
			stats.Duplicate++
		}
		if int(r.MapQ) < opts.MinMapQ || gbam.IsUnmapped(r) {
			continue
		}
		stats.Admitted++
		switch {
		case gbam.IsPrimary(r):
			stats.Primary++
		case gbam.IsSupplementary(r):
			stats.Supplementary++
		case gbam.IsSecondary(r):
			stats.Secondary++
		}
		stats.Anchors[Classify(r)]++
		if group.state == idle || group.name != r.Name {
			stats.Groups++
		}
		if err := emit(group.add(r)); err != nil {
			return stats, err
		}
	}
	if err := iter.Err(); err != nil {
		return stats, err
	}
	return stats, emit(group.flush())
}

// Filter runs FilterStream over opts.ForwardPath and then opts.ReversePath,
// writing each result to a new scratch BAM in opts.ScratchDir under the
// input's header. The reference dictionaries of the two inputs are compared
// before anything is written; if they differ, an error of kind
// errors.Invalid is returned. On error, any scratch file already created is
// removed.
func Filter(ctx context.Context, opts Opts) (scratch ScratchFiles, fwd, rev FilterStats, err error) {
	if err = opts.Validate(); err != nil {
		return
	}
	popts := bamprovider.ProviderOpts{Parallelism: opts.Parallelism}
	fwdP := bamprovider.NewProvider(opts.ForwardPath, popts)
	revP := bamprovider.NewProvider(opts.ReversePath, popts)
	defer func() {
		var once errors.Once
		once.Set(fwdP.Close())
		once.Set(revP.Close())
		if err == nil {
			err = once.Err()
		}
		if err != nil {
			scratch.Remove(ctx) // nolint: errcheck
			scratch = ScratchFiles{}
		}
	}()
	fwdHeader, err := fwdP.GetHeader()
	if err != nil {
		return
	}
	revHeader, err := revP.GetHeader()
	if err != nil {
		return
	}
	if err = CheckReferences(fwdHeader, revHeader); err != nil {
		err = errors.E(err, opts.ForwardPath, opts.ReversePath)
		return
	}
	if scratch.Forward, fwd, err = filterFile(ctx, fwdP, fwdHeader, opts); err != nil {
		return
	}
	scratch.Reverse, rev, err = filterFile(ctx, revP, revHeader, opts)
	return
}

// filterFile filters the records of p into a new scratch file and returns
// its path. The path is returned even on error so that the caller can remove
// it.
func filterFile(ctx context.Context, p bamprovider.Provider, header *sam.Header, opts Opts) (path string, stats FilterStats, err error) {
	start := time.Now()
	if path, err = newScratchPath(opts.ScratchDir); err != nil {
		return
	}
	w, err := gbam.NewWriter(ctx, path, header, opts.Parallelism)
	if err != nil {
		return
	}
	iter := p.NewIterator()
	stats, err = FilterStream(iter, w, opts)
	if e := iter.Close(); e != nil && err == nil {
		err = e
	}
	if err != nil {
		w.Discard(ctx)
		return
	}
	if err = w.Close(ctx); err != nil {
		return
	}
	opts.logger().Printf("filter: %d records processed, %d admitted (%d five-prime, %d supplementary), %d names, %d written to %s, %v",
		stats.Processed, stats.Admitted, stats.Anchors[FivePrime], stats.Supplementary, stats.Groups, stats.Written, w.Path(), time.Since(start))
	return
}

// newScratchPath reserves a unique "filtered_*.bam" name in dir, or in the
// current directory if dir is empty.
func newScratchPath(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	f, err := ioutil.TempFile(dir, "filtered_*.bam")
	if err != nil {
		return "", errors.E(err, "create scratch file in", dir)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return path, errors.E(err, "close", path)
	}
	return path, nil
}
