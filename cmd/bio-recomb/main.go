// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/beval/recomb/encoding/fasta"
	"github.com/beval/recomb/recomb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	window      = flag.Int("window", recomb.DefaultOpts.WindowSize, "Number of positions per window")
	threshold   = flag.Float64("threshold", recomb.DefaultOpts.Threshold, "Report windows whose mismatch rate is strictly greater than this")
	parallelism = flag.Int("parallelism", recomb.DefaultOpts.Parallelism, "Maximum number of ranges scored concurrently; 0 = runtime.NumCPU()")
	timeout     = flag.Duration("timeout", recomb.DefaultOpts.Timeout, "Give up waiting for workers after this long; 0 = no limit")
	rolling     = flag.Bool("rolling", false, "Update mismatch counts incrementally instead of recounting each window")
	sequential  = flag.Bool("sequential", false, "Scan on a single goroutine")
	seq1        = flag.String("seq1", "", "Name of the first sequence; default is the first in the file")
	seq2        = flag.String("seq2", "", "Name of the second sequence; default is the second in the file")
	clean       = flag.Bool("clean", true, "Capitalize lowercase (soft-masked) bases before comparing; other symbols are compared as-is")
	outPath     = flag.String("out", "", "Output TSV path for events")
	regionsPath = flag.String("regions", "", "Output TSV path for merged divergent regions")
	printEvents = flag.Bool("print", false, "Print a line per event to stdout")
)

type runOpts struct {
	fastaPath   string
	seqNames    []string
	clean       bool
	sequential  bool
	outPath     string
	regionsPath string
	print       io.Writer
	scan        recomb.Opts
}

func bioRecombUsage() {
	fmt.Printf("Usage: %s [OPTIONS] fapath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioRecombUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Exactly one positional argument (fapath) expected; please check flag syntax: '%s'", strings.Join(flag.Args(), " "))
	}
	if (*seq1 == "") != (*seq2 == "") {
		log.Fatalf("-seq1 and -seq2 must be given together")
	}
	opts := runOpts{
		fastaPath:   flag.Arg(0),
		clean:       *clean,
		sequential:  *sequential,
		outPath:     *outPath,
		regionsPath: *regionsPath,
		scan: recomb.Opts{
			WindowSize:  *window,
			Threshold:   *threshold,
			Parallelism: *parallelism,
			Timeout:     *timeout,
			Rolling:     *rolling,
		},
	}
	if *seq1 != "" {
		opts.seqNames = []string{*seq1, *seq2}
	}
	if opts.scan.Parallelism == 0 {
		opts.scan.Parallelism = runtime.NumCPU()
	}
	if *printEvents {
		opts.print = os.Stdout
	}
	if err := run(vcontext.Background(), opts); err != nil {
		log.Fatalf("bio-recomb: %v", err)
	}
	log.Debug.Printf("exiting")
}

// run loads the sequences, scans them and writes the requested outputs.  A
// scan that was interrupted still has its partial events written before the
// error is returned.
func run(ctx context.Context, opts runOpts) error {
	var faOpts []fasta.Opt
	if opts.clean {
		faOpts = append(faOpts, fasta.OptClean)
	}
	fa, err := fasta.Open(ctx, opts.fastaPath, faOpts...)
	if err != nil {
		return err
	}
	seqs, err := recomb.FromFasta(fa, opts.seqNames...)
	if err != nil {
		return err
	}
	if len(seqs) < 2 {
		log.Printf("%s: %d sequence(s) found, need two to compare", opts.fastaPath, len(seqs))
	}
	for i, s := range seqs {
		if b, ok := s.(recomb.Bases); ok {
			log.Printf("sequence %d: %d bases, fingerprint %016x", i+1, b.Len(), b.Fingerprint())
		}
	}

	var (
		events  []recomb.Event
		scanErr error
	)
	if opts.sequential {
		start := time.Now()
		events, scanErr = recomb.Scan(seqs, opts.scan)
		log.Printf("Time taken: %d milliseconds", time.Since(start).Milliseconds())
	} else {
		var res recomb.Result
		res, scanErr = recomb.ScanParallel(ctx, seqs, opts.scan)
		events = res.Events
		log.Printf("Time taken: %d milliseconds", res.Elapsed.Milliseconds())
		for _, f := range res.Failed {
			log.Error.Printf("%v", f)
		}
		if scanErr == nil && len(res.Failed) > 0 {
			scanErr = errors.E(fmt.Sprintf("%d of the scan ranges failed; events from those ranges are missing", len(res.Failed)))
		}
	}
	if scanErr != nil && errors.Is(errors.Invalid, scanErr) {
		return scanErr
	}
	log.Printf("%d windows above threshold %v", len(events), opts.scan.Threshold)

	if opts.print != nil {
		for _, e := range events {
			if _, err := fmt.Fprintln(opts.print, e); err != nil {
				return err
			}
		}
	}
	if opts.outPath != "" {
		if err := writeOutput(ctx, opts.outPath, func(w io.Writer) error {
			return recomb.WriteTSV(w, events)
		}); err != nil {
			return err
		}
	}
	if opts.regionsPath != "" {
		regions := recomb.MergeRegions(events)
		log.Printf("%d divergent regions", len(regions))
		if err := writeOutput(ctx, opts.regionsPath, func(w io.Writer) error {
			return recomb.WriteRegionsTSV(w, regions)
		}); err != nil {
			return err
		}
	}
	return scanErr
}

func writeOutput(ctx context.Context, path string, write func(io.Writer) error) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	if err = write(out.Writer(ctx)); err != nil {
		return errors.E(err, "write", path)
	}
	return nil
}
