package hic

import (
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/tsv"
)

// FilterStats counts the records seen by one pass of the stream filter.
type FilterStats struct {
	// Processed is the number of input records.
	Processed int64
	// QCFail and Duplicate count the input records carrying those flags.
	// Neither flag affects filtering.
	QCFail    int64
	Duplicate int64
	// Admitted is the number of records that passed the mapping quality and
	// unmapped checks.
	Admitted int64
	// Primary, Secondary and Supplementary break Admitted down by alignment
	// type.
	Primary       int64
	Secondary     int64
	Supplementary int64
	// Anchors breaks Admitted down by Classify.
	Anchors [numAnchors]int64
	// Groups is the number of query names among the admitted records.
	Groups int64
	// Written is the number of records written to the scratch file.
	Written int64
}

// MergeStats counts the pairs seen by the reconciler.
type MergeStats struct {
	// Pairs is the number of pairs written.
	Pairs int64
	// ProperPairs is the number of written pairs flagged as proper pairs.
	ProperPairs int64
	// Mismatched is the number of positions whose forward and reverse names
	// differ. Such positions are skipped.
	Mismatched int64
	// Unpaired is the number of records left in the longer stream. It is
	// only counted in strict mode.
	Unpaired int64
	// Digest is the seahash digest of the written records, in output order.
	Digest uint64
}

// Stats collects the counters of a complete run.
type Stats struct {
	Forward FilterStats
	Reverse FilterStats
	Merge   MergeStats
}

// WriteTSV writes the counters as "metric<TAB>value" lines.
func (s Stats) WriteTSV(w io.Writer) error {
	out := tsv.NewWriter(w)
	out.WriteString("metric")
	out.WriteString("value")
	if err := out.EndLine(); err != nil {
		return err
	}
	type metric struct {
		name  string
		value int64
	}
	var metrics []metric
	for _, f := range []struct {
		prefix string
		stats  FilterStats
	}{{"forward", s.Forward}, {"reverse", s.Reverse}} {
		metrics = append(metrics,
			metric{f.prefix + "_processed", f.stats.Processed},
			metric{f.prefix + "_qcfail", f.stats.QCFail},
			metric{f.prefix + "_duplicate", f.stats.Duplicate},
			metric{f.prefix + "_admitted", f.stats.Admitted},
			metric{f.prefix + "_primary", f.stats.Primary},
			metric{f.prefix + "_secondary", f.stats.Secondary},
			metric{f.prefix + "_supplementary", f.stats.Supplementary})
		for a := Anchor(0); a < numAnchors; a++ {
			metrics = append(metrics, metric{f.prefix + "_" + strings.Replace(a.String(), "-", "_", -1), f.stats.Anchors[a]})
		}
		metrics = append(metrics,
			metric{f.prefix + "_groups", f.stats.Groups},
			metric{f.prefix + "_written", f.stats.Written})
	}
	metrics = append(metrics,
		metric{"pairs", s.Merge.Pairs},
		metric{"proper_pairs", s.Merge.ProperPairs},
		metric{"mismatched", s.Merge.Mismatched},
		metric{"unpaired", s.Merge.Unpaired})
	for _, m := range metrics {
		out.WriteString(m.name)
		out.WriteInt64(m.value)
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	out.WriteString("digest")
	out.WriteString(fmt.Sprintf("%016x", s.Merge.Digest))
	if err := out.EndLine(); err != nil {
		return err
	}
	return out.Flush()
}
