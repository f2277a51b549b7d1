// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bam

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	biogobam "github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
)

// Writer writes sam.Records to a BAM file. The file becomes visible at its
// path only after a successful Close; Discard abandons it. Thread compatible.
type Writer struct {
	path string
	out  file.File
	bw   *biogobam.Writer
	err  errors.Once
}

// NewWriter creates a BAM file at path with the given header. parallelism is
// the number of BGZF compression goroutines; values < 1 are treated as 1.
func NewWriter(ctx context.Context, path string, header *sam.Header, parallelism int) (*Writer, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	bw, err := biogobam.NewWriter(out.Writer(ctx), header, parallelism)
	if err != nil {
		out.Discard(ctx)
		return nil, errors.E(err, "bam header", path)
	}
	return &Writer{path: path, out: out, bw: bw}, nil
}

// Path returns the pathname passed to NewWriter.
func (w *Writer) Path() string { return w.path }

// Write appends a record. Once a write fails, subsequent writes are no-ops
// that return the same error.
func (w *Writer) Write(r *sam.Record) error {
	if err := w.err.Err(); err != nil {
		return err
	}
	if err := w.bw.Write(r); err != nil {
		w.err.Set(errors.E(err, "write", w.path))
	}
	return w.err.Err()
}

// Close flushes the BAM stream and commits the file. If any write failed, the
// file is discarded instead and the first error is returned.
func (w *Writer) Close(ctx context.Context) error {
	if w.err.Err() != nil {
		w.Discard(ctx)
		return w.err.Err()
	}
	if err := w.bw.Close(); err != nil {
		w.err.Set(errors.E(err, "close bam", w.path))
		w.out.Discard(ctx)
		return w.err.Err()
	}
	w.err.Set(w.out.Close(ctx))
	return w.err.Err()
}

// Discard abandons the output. Nothing is left at the path.
func (w *Writer) Discard(ctx context.Context) {
	w.bw.Close() // nolint: errcheck
	w.out.Discard(ctx)
}
