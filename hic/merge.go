package hic

import (
	"context"
	"fmt"
	"time"

	"github.com/grailbio/base/errors"
	gbam "github.com/grailbio/bellerophon/encoding/bam"
	"github.com/grailbio/bellerophon/encoding/bamprovider"
	"github.com/grailbio/hts/sam"
)

// ReconcilePair rewrites f and r, the first and second read of one
// fragment, into a consistent pair: pairing and read-number flags, mate
// coordinates and strand, and template length. Sequence, qualities, CIGAR
// and mapping quality are left alone.
func ReconcilePair(f, r *sam.Record) {
	proper := !gbam.IsUnmapped(f) || !gbam.IsUnmapped(r)
	fReverse, rReverse := gbam.IsReverse(f), gbam.IsReverse(r)

	var fLen, rLen int
	if proper && f.Ref.ID() == r.Ref.ID() {
		d := f.Pos - r.Pos
		if d < 0 {
			d = -d
		}
		if f.Pos >= r.Pos {
			fLen, rLen = -d, d
		} else {
			fLen, rLen = d, -d
		}
	}

	for _, rec := range []*sam.Record{f, r} {
		rec.Flags &^= sam.Secondary | sam.Unmapped | sam.Supplementary
		rec.Flags |= sam.Paired
		gbam.SetFlag(rec, sam.ProperPair, proper)
	}
	gbam.SetFlag(f, sam.Read1, true)
	gbam.SetFlag(f, sam.Read2, false)
	gbam.SetFlag(r, sam.Read1, false)
	gbam.SetFlag(r, sam.Read2, true)

	gbam.SetFlag(f, sam.MateReverse, rReverse)
	gbam.SetFlag(r, sam.MateReverse, fReverse)
	f.MateRef, f.MatePos = r.Ref, r.Pos
	r.MateRef, r.MatePos = f.Ref, f.Pos
	// The mate-unmapped bit mirrors each record's own unmapped bit, which
	// was cleared above, so it always ends up false.
	gbam.SetFlag(f, sam.MateUnmapped, gbam.IsUnmapped(f))
	gbam.SetFlag(r, sam.MateUnmapped, gbam.IsUnmapped(r))

	f.TempLen, r.TempLen = fLen, rLen
}

// MergeStreams reads fwd and rev in lock step, reconciles each pair of
// records with the same name, and writes them to w, forward record first.
// Positions whose names differ are counted in MergeStats.Mismatched and
// skipped. When one stream ends, the rest of the other is dropped; in strict
// mode the dropped records are counted in MergeStats.Unpaired and an error
// of kind errors.Precondition is returned.
//
// If header is non-nil, the references of the written records are replaced
// by header's references with the same IDs. A record whose reference ID is
// not in header fails the merge with an error of kind errors.Invalid.
func MergeStreams(fwd, rev bamprovider.Iterator, w RecordWriter, header *sam.Header, opts Opts) (MergeStats, error) {
	var (
		stats  MergeStats
		digest = gbam.NewDigest()
	)
	for {
		fOK := fwd.Scan()
		rOK := rev.Scan()
		if !fOK || !rOK {
			if err := streamErr(fwd, rev); err != nil {
				return stats, err
			}
			if opts.Strict && fOK != rOK {
				stats.Unpaired = 1 + countRemaining(fwd) + countRemaining(rev)
				if err := streamErr(fwd, rev); err != nil {
					return stats, err
				}
				stats.Digest = digest.Sum64()
				return stats, errors.E(errors.Precondition,
					fmt.Sprintf("%d records left unpaired after %d pairs", stats.Unpaired, stats.Pairs))
			}
			break
		}
		f, r := fwd.Record(), rev.Record()
		if f.Name != r.Name {
			stats.Mismatched++
			continue
		}
		ReconcilePair(f, r)
		if header != nil {
			for _, rec := range []*sam.Record{f, r} {
				if err := repointRefs(rec, header); err != nil {
					return stats, err
				}
			}
		}
		if err := w.Write(f); err != nil {
			return stats, err
		}
		if err := w.Write(r); err != nil {
			return stats, err
		}
		digest.Add(f)
		digest.Add(r)
		stats.Pairs++
		if gbam.IsProperPair(f) {
			stats.ProperPairs++
		}
	}
	stats.Digest = digest.Sum64()
	return stats, nil
}

// repointRefs replaces the references of rec with header's references of the
// same IDs.
func repointRefs(rec *sam.Record, header *sam.Header) error {
	refID, mateID := rec.Ref.ID(), rec.MateRef.ID()
	rec.Ref = gbam.RefByID(header, refID)
	rec.MateRef = gbam.RefByID(header, mateID)
	if (refID >= 0 && rec.Ref == nil) || (mateID >= 0 && rec.MateRef == nil) {
		return errors.E(errors.Invalid,
			fmt.Sprintf("%s: reference ID %d or %d not in output header", rec.Name, refID, mateID))
	}
	return nil
}

func streamErr(fwd, rev bamprovider.Iterator) error {
	if err := fwd.Err(); err != nil {
		return err
	}
	return rev.Err()
}

func countRemaining(iter bamprovider.Iterator) int64 {
	var n int64
	for iter.Scan() {
		n++
	}
	return n
}

// Merge reconciles the two scratch files written by Filter into one
// paired-end BAM at opts.OutputPath. The two scratch headers must have the
// same references, as checked by CheckReferences. The output header is the
// forward scratch header with one @PG entry appended. Both scratch files
// are removed when Merge returns, whether or not it succeeded. On error no
// output file is left behind.
func Merge(ctx context.Context, opts Opts, scratch ScratchFiles) (stats MergeStats, err error) {
	defer func() {
		if e := scratch.Remove(ctx); e != nil && err == nil {
			err = e
		}
	}()
	if err = opts.Validate(); err != nil {
		return
	}
	start := time.Now()
	log := opts.logger()
	popts := bamprovider.ProviderOpts{Parallelism: opts.Parallelism}
	fwdP := bamprovider.NewProvider(scratch.Forward, popts)
	revP := bamprovider.NewProvider(scratch.Reverse, popts)
	defer func() {
		var once errors.Once
		once.Set(fwdP.Close())
		once.Set(revP.Close())
		if err == nil {
			err = once.Err()
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
		err = errors.E(err, scratch.Forward, scratch.Reverse)
		return
	}
	header, err := NewMergedHeader(fwdHeader, opts)
	if err != nil {
		return
	}
	w, err := gbam.NewWriter(ctx, opts.OutputPath, header, opts.Parallelism)
	if err != nil {
		return
	}
	fwdIter := fwdP.NewIterator()
	revIter := revP.NewIterator()
	stats, err = MergeStreams(fwdIter, revIter, w, header, opts)
	var once errors.Once
	once.Set(err)
	once.Set(fwdIter.Close())
	once.Set(revIter.Close())
	if err = once.Err(); err != nil {
		w.Discard(ctx)
		return
	}
	if err = w.Close(ctx); err != nil {
		return
	}
	log.Printf("merge: wrote %d pairs to %s, %d mismatched names, %v",
		stats.Pairs, opts.OutputPath, stats.Mismatched, time.Since(start))
	return
}
