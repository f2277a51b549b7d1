package hic

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

const (
	// ProgramName is the ID and PN of the @PG entry added to the merged
	// header, and the command name recorded in its CL field.
	ProgramName = "bellerophon"
	// Version is the VN of the @PG entry.
	Version = "1.0"
	// Description is the DS of the @PG entry.
	Description = "Filter two single-end BAM, SAM, or CRAM files for reads where " +
		"there is high-quality mapping on both sides of a ligation " +
		"junction, retaining the 5´ side of that mapping, then merge " +
		"them into one paired-end BAM file. "
)

// Logger receives progress messages. log.Info and log.Debug from
// github.com/grailbio/base/log satisfy it.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Opts configures Filter, Merge and Run.
type Opts struct {
	// ForwardPath and ReversePath are the single-end alignment files holding
	// the first and second read of each pair. Records sharing a name must be
	// adjacent.
	ForwardPath string
	ReversePath string
	// OutputPath is the merged paired-end BAM.
	OutputPath string
	// MinMapQ is the minimum mapping quality of a record admitted by Filter.
	MinMapQ int
	// Parallelism is the number of BGZF (de)compression goroutines per file.
	// It does not change the order or content of the output.
	Parallelism int
	// ScratchDir is the directory for the filtered intermediate files. If
	// empty, the current directory is used.
	ScratchDir string
	// Strict causes Merge to fail when one filtered stream has records left
	// after the other is exhausted. By default such records are dropped
	// silently.
	Strict bool
	// Logger receives progress messages. If nil, log.Info is used.
	Logger Logger
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	MinMapQ:     20,
	Parallelism: 1,
}

// Validate checks that the options are usable.
func (o *Opts) Validate() error {
	var msg string
	switch {
	case o.ForwardPath == "":
		msg = "forward path must be set"
	case o.ReversePath == "":
		msg = "reverse path must be set"
	case o.OutputPath == "":
		msg = "output path must be set"
	case o.MinMapQ < 0:
		msg = fmt.Sprintf("minimum mapping quality must be >= 0, but got %d", o.MinMapQ)
	case o.Parallelism < 1:
		msg = fmt.Sprintf("parallelism must be >= 1, but got %d", o.Parallelism)
	default:
		return nil
	}
	return errors.E(errors.Invalid, msg)
}

func (o *Opts) logger() Logger {
	if o.Logger == nil {
		return log.Info
	}
	return o.Logger
}
