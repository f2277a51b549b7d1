package hic

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// CheckReferences returns an error of kind errors.Invalid unless the two
// headers list the same references, with the same names and lengths, in the
// same order.
func CheckReferences(fwd, rev *sam.Header) error {
	fr, rr := fwd.Refs(), rev.Refs()
	if len(fr) != len(rr) {
		return errors.E(errors.Invalid,
			fmt.Sprintf("forward header has %d references, reverse header has %d", len(fr), len(rr)))
	}
	for i := range fr {
		if fr[i].Name() != rr[i].Name() || fr[i].Len() != rr[i].Len() {
			return errors.E(errors.Invalid,
				fmt.Sprintf("reference %d differs: forward %s:%d, reverse %s:%d",
					i, fr[i].Name(), fr[i].Len(), rr[i].Name(), rr[i].Len()))
		}
	}
	return nil
}

// CommandLine returns the CL field of the @PG entry written by Merge. Paths
// are reduced to their base names.
func CommandLine(opts Opts) string {
	return fmt.Sprintf("%s --forward %s --reverse %s --output %s --quality %d",
		ProgramName, filepath.Base(opts.ForwardPath), filepath.Base(opts.ReversePath),
		filepath.Base(opts.OutputPath), opts.MinMapQ)
}

// NewMergedHeader returns a copy of h with one @PG entry appended. The new
// entry's PP is the ID of the last existing entry, if any. Its ID is
// ProgramName, or ProgramName with a ".N" suffix if that ID is already taken.
func NewMergedHeader(h *sam.Header, opts Opts) (*sam.Header, error) {
	out := h.Clone()
	progs := out.Progs()
	taken := make(map[string]bool, len(progs))
	for _, p := range progs {
		taken[p.UID()] = true
	}
	id := ProgramName
	for n := 1; taken[id]; n++ {
		id = ProgramName + "." + strconv.Itoa(n)
	}
	var prev string
	if len(progs) > 0 {
		prev = progs[len(progs)-1].UID()
	}
	pg := sam.NewProgram(id, ProgramName, CommandLine(opts), prev, Version)
	if err := pg.Set(sam.NewTag("DS"), Description); err != nil {
		return nil, errors.E(err, "set @PG DS")
	}
	if err := out.AddProgram(pg); err != nil {
		return nil, errors.E(err, "add @PG", id)
	}
	return out, nil
}
