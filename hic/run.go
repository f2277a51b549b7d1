package hic

import (
	"context"
	"time"
)

// Run filters opts.ForwardPath and opts.ReversePath and merges the results
// into opts.OutputPath. Scratch files are removed on every exit path, and no
// output is left behind on error.
func Run(ctx context.Context, opts Opts) (stats Stats, err error) {
	if err = opts.Validate(); err != nil {
		return
	}
	start := time.Now()
	scratch, fwd, rev, err := Filter(ctx, opts)
	stats.Forward, stats.Reverse = fwd, rev
	if err != nil {
		return
	}
	// Merge removes the scratch files whether or not it succeeds.
	if stats.Merge, err = Merge(ctx, opts, scratch); err != nil {
		return
	}
	opts.logger().Printf("done: forward %d/%d, reverse %d/%d records kept, %d pairs, %v",
		fwd.Written, fwd.Processed, rev.Written, rev.Processed, stats.Merge.Pairs, time.Since(start))
	return
}
