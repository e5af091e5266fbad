// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package recomb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Result is the outcome of ScanParallel.
type Result struct {
	// Events is the concatenation of the events of every range that finished
	// successfully, in range order.
	Events []Event
	// Elapsed is the wall-clock time spent scanning.
	Elapsed time.Duration
	// Complete is true iff every range was scored.  It is false when a range
	// failed or when the scan was canceled.
	Complete bool
	// Failed lists the ranges whose scoring failed, in range order.
	Failed []ChunkError
}

// ChunkError describes a range that could not be scored.
type ChunkError struct {
	Range ScanRange
	Err   error
}

func (e ChunkError) Error() string {
	return fmt.Sprintf("range %v: %v", e.Range, e.Err)
}

// Partition splits [0, total) into contiguous, non-overlapping ranges of
// ceil(total/parallelism) starts each; the last range may be shorter.  It
// returns nil if total <= 0.
func Partition(total, parallelism int) []ScanRange {
	if total <= 0 {
		return nil
	}
	if parallelism < 1 {
		parallelism = 1
	}
	chunkSize := (total + parallelism - 1) / parallelism
	ranges := make([]ScanRange, 0, (total+chunkSize-1)/chunkSize)
	for start := 0; start < total; start += chunkSize {
		end := start + chunkSize
		if end > total {
			end = total
		}
		ranges = append(ranges, ScanRange{start, end})
	}
	return ranges
}

// chunk holds the outcome of one range.  Slots are indexed by range, so the
// merge order never depends on which worker finished first.
type chunk struct {
	done   bool
	events []Event
	err    error
}

// ScanParallel returns the same events as Scan, scoring the ranges produced
// by Partition on at most opts.Parallelism workers.  Like Scan, fewer than two
// sequences yield an empty, complete Result regardless of opts.
//
// A range whose scoring fails (including by panicking) is logged, recorded in
// Result.Failed and contributes no events; the other ranges are unaffected
// and the returned error is nil.
//
// If ctx is canceled or opts.Timeout expires before all ranges are done,
// ScanParallel stops waiting and returns the events of the ranges finished so
// far together with an errors.Canceled or errors.Timeout error.
func ScanParallel(ctx context.Context, seqs []Sequence, opts Opts) (Result, error) {
	startTime := time.Now()
	if len(seqs) < 2 {
		log.Debug.Printf("recomb: %d sequence(s) supplied, nothing to compare", len(seqs))
		return Result{Complete: true, Elapsed: time.Since(startTime)}, nil
	}
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	a, b := seqs[0], seqs[1]
	ranges := Partition(numStarts(a, b, opts.WindowSize), opts.Parallelism)
	if len(ranges) == 0 {
		return Result{Complete: true, Elapsed: time.Since(startTime)}, nil
	}
	nWorkers := opts.Parallelism
	if nWorkers > len(ranges) {
		nWorkers = len(ranges)
	}

	var (
		mu     sync.Mutex
		chunks = make([]chunk, len(ranges))
		queue  = make(chan int, len(ranges))
		doneCh = make(chan error, 1)
	)
	for i := range ranges {
		queue <- i
	}
	close(queue)

	log.Debug.Printf("recomb: scanning %d ranges on %d workers", len(ranges), nWorkers)
	go func() {
		doneCh <- traverse.Each(nWorkers, func(worker int) error {
			for i := range queue {
				if ctx.Err() != nil {
					return nil
				}
				events, err := scanChunk(ctx, a, b, ranges[i], opts)
				mu.Lock()
				chunks[i] = chunk{done: true, events: events, err: err}
				mu.Unlock()
				log.Debug.Printf("recomb: worker %d finished range %v: %d events, err %v", worker, ranges[i], len(events), err)
			}
			return nil
		})
	}()

	var waitErr error
	select {
	case err := <-doneCh:
		if err != nil {
			// Workers never return errors; this would be a traverse failure.
			waitErr = errors.E(err, "recomb: worker pool")
		}
	case <-ctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	res := Result{Complete: true}
	interrupted := false
	for i, c := range chunks {
		switch {
		case !c.done || c.err == context.Canceled || c.err == context.DeadlineExceeded:
			interrupted = true
		case c.err == nil:
			res.Events = append(res.Events, c.events...)
		default:
			log.Error.Printf("recomb: range %v failed: %v", ranges[i], c.err)
			res.Failed = append(res.Failed, ChunkError{Range: ranges[i], Err: c.err})
		}
	}
	if interrupted && waitErr == nil {
		waitErr = ctxError(ctx.Err())
	}
	res.Complete = waitErr == nil && len(res.Failed) == 0
	res.Elapsed = time.Since(startTime)
	if waitErr != nil {
		log.Printf("recomb: scan interrupted after %v: %v", res.Elapsed, waitErr)
	}
	return res, waitErr
}

// scanChunk scores one range, converting a panic into an error so that a
// single bad range can't take down the whole run.
func scanChunk(ctx context.Context, a, b Sequence, r ScanRange, opts Opts) (events []Event, err error) {
	defer func() {
		if p := recover(); p != nil {
			events = nil
			err = errors.E(fmt.Sprintf("recomb: panic while scoring range %v: %v", r, p))
		}
	}()
	return scanRange(ctx, a, b, r, opts)
}

func ctxError(err error) error {
	if err == nil {
		err = context.Canceled
	}
	if err == context.DeadlineExceeded {
		return errors.E(errors.Timeout, "recomb: timed out waiting for workers", err)
	}
	return errors.E(errors.Canceled, "recomb: canceled while waiting for workers", err)
}
