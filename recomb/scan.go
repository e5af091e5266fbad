// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package recomb

import (
	"context"
	"fmt"
)

// Event is a window whose mismatch rate exceeded the threshold.  It covers
// positions [Start, End), End = Start + WindowSize.
type Event struct {
	Start, End int
	// Mismatches is the number of positions in the window where the two
	// sequences differ.
	Mismatches int
}

// String renders the event the way the reference analysis printed it.
func (e Event) String() string {
	return fmt.Sprintf("Potential recombination detected between positions %d and %d", e.Start, e.End)
}

// Rate returns the mismatch rate of the event's window.
func (e Event) Rate() float64 {
	return float64(e.Mismatches) / float64(e.End-e.Start)
}

// ScanRange is a half-open interval [Start, End) of window start positions.
type ScanRange struct {
	Start, End int
}

// Len returns the number of window starts in the range.
func (r ScanRange) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r ScanRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// ctxCheckInterval is the number of window starts scored between checks for
// cancellation.
const ctxCheckInterval = 4096

// numStarts returns the number of window start positions scanned for the
// pair.  The bound is exclusive: the last start considered is
// min(len(a), len(b)) - windowSize - 1.
func numStarts(a, b Sequence, windowSize int) int {
	n := a.Len()
	if m := b.Len(); m < n {
		n = m
	}
	if total := n - windowSize; total > 0 {
		return total
	}
	return 0
}

// countMismatches counts positions in [lo, hi) where a and b differ.
func countMismatches(a, b Sequence, lo, hi int) int {
	n := 0
	for j := lo; j < hi; j++ {
		if a.At(j) != b.At(j) {
			n++
		}
	}
	return n
}

// scanRange scores every window starting in r.  Events are appended in
// ascending start order.  It returns ctx.Err() if ctx is canceled before the
// range is finished, along with the events found so far.
func scanRange(ctx context.Context, a, b Sequence, r ScanRange, opts Opts) ([]Event, error) {
	var (
		events []Event
		w      = opts.WindowSize
		fw     = float64(w)
		n      int
	)
	for i := r.Start; i < r.End; i++ {
		if (i-r.Start)%ctxCheckInterval == ctxCheckInterval-1 {
			if err := ctx.Err(); err != nil {
				return events, err
			}
		}
		switch {
		case !opts.Rolling || i == r.Start:
			n = countMismatches(a, b, i, i+w)
		default:
			// Slide by one: drop position i-1, add position i+w-1.
			if a.At(i-1) != b.At(i-1) {
				n--
			}
			if a.At(i+w-1) != b.At(i+w-1) {
				n++
			}
		}
		if float64(n)/fw > opts.Threshold {
			events = append(events, Event{Start: i, End: i + w, Mismatches: n})
		}
	}
	return events, nil
}

// Scan compares the first two sequences in seqs and returns every window
// whose mismatch rate exceeds opts.Threshold, ordered by start position.
// Fewer than two sequences yield no events and no error, whatever opts hold;
// so do sequences shorter than the window.  Only opts.WindowSize,
// opts.Threshold and opts.Rolling are consulted.
func Scan(seqs []Sequence, opts Opts) ([]Event, error) {
	if len(seqs) < 2 {
		return nil, nil
	}
	if err := opts.validateWindow(); err != nil {
		return nil, err
	}
	a, b := seqs[0], seqs[1]
	r := ScanRange{0, numStarts(a, b, opts.WindowSize)}
	return scanRange(context.Background(), a, b, r, opts)
}
