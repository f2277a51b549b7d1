package main

// bellerophon filters two single-end Hi-C alignment files for reads whose
// 5' end maps cleanly, and merges the survivors into one paired-end BAM.
//
// Usage: bellerophon -forward r1.bam -reverse r2.bam -output out.bam

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bellerophon/hic"
)

var (
	forwardFlag    = flag.String("forward", "", "SAM, BAM or gzipped SAM file of the first read of each pair")
	reverseFlag    = flag.String("reverse", "", "SAM, BAM or gzipped SAM file of the second read of each pair")
	outputFlag     = flag.String("output", "", "Merged paired-end BAM file")
	qualityFlag    = flag.Int("quality", hic.DefaultOpts.MinMapQ, "Minimum mapping quality of a record to be considered")
	threadsFlag    = flag.Int("threads", hic.DefaultOpts.Parallelism, "Number of BGZF compression threads per file")
	scratchDirFlag = flag.String("scratch-dir", "", "Directory for the filtered intermediate files. Defaults to the current directory")
	strictFlag     = flag.Bool("strict", false, "Fail if the filtered forward and reverse files have a different number of records")
	statsFlag      = flag.String("stats", "", "If set, write the run counters to this TSV file")
	versionFlag    = flag.Bool("version", false, "Print the version and exit")
)

func writeStats(path string, stats hic.Stats) error {
	ctx := vcontext.Background()
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	if err := stats.WriteTSV(out.Writer(ctx)); err != nil {
		out.Discard(ctx)
		return err
	}
	return out.Close(ctx)
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	flag.Usage = func() {
		os.Stderr.WriteString(`Usage:
bellerophon -forward <r1> -reverse <r2> -output <out.bam> [flags]

Keeps, for every read name in each input, the one alignment whose 5' end is
an alignment match, then merges the two filtered streams, which must list
the same read names in the same order, into one paired-end BAM file.
`)
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()

	if *versionFlag {
		fmt.Printf("%s v%s\n", hic.ProgramName, hic.Version)
		return
	}
	if len(flag.Args()) != 0 {
		flag.Usage()
		os.Exit(1)
	}
	opts := hic.DefaultOpts
	opts.ForwardPath = *forwardFlag
	opts.ReversePath = *reverseFlag
	opts.OutputPath = *outputFlag
	opts.MinMapQ = *qualityFlag
	opts.Parallelism = *threadsFlag
	opts.ScratchDir = *scratchDirFlag
	opts.Strict = *strictFlag
	if err := opts.Validate(); err != nil {
		log.Error.Printf("%v", err)
		flag.Usage()
		os.Exit(1)
	}
	stats, err := hic.Run(vcontext.Background(), opts)
	if err != nil {
		log.Panicf("bellerophon %v %v -> %v: %v", opts.ForwardPath, opts.ReversePath, opts.OutputPath, err)
	}
	if *statsFlag != "" {
		if err := writeStats(*statsFlag, stats); err != nil {
			log.Panicf("write stats %v: %v", *statsFlag, err)
		}
	}
}
