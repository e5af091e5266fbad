// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package recomb

import (
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
)

// Region is a maximal run of overlapping or abutting event windows.
type Region struct {
	// Start and End delimit the union of the windows, [Start, End).
	Start, End int
	// Events is the number of event windows merged into the region.
	Events int
	// PeakMismatches is the largest mismatch count among the merged windows.
	PeakMismatches int
}

// MergeRegions coalesces events, which must be ordered by Start as returned by
// Scan and ScanParallel, into regions.
func MergeRegions(events []Event) []Region {
	var regions []Region
	for _, e := range events {
		if n := len(regions); n > 0 && e.Start <= regions[n-1].End {
			r := &regions[n-1]
			if e.End > r.End {
				r.End = e.End
			}
			r.Events++
			if e.Mismatches > r.PeakMismatches {
				r.PeakMismatches = e.Mismatches
			}
			continue
		}
		regions = append(regions, Region{Start: e.Start, End: e.End, Events: 1, PeakMismatches: e.Mismatches})
	}
	return regions
}

func formatRate(r float64) string {
	return strconv.FormatFloat(r, 'f', 4, 64)
}

// WriteTSV writes one row per event with columns start, end, mismatches and
// rate, preceded by a header line.
func WriteTSV(w io.Writer, events []Event) error {
	out := tsv.NewWriter(w)
	for _, col := range []string{"#start", "end", "mismatches", "rate"} {
		out.WriteString(col)
	}
	if err := out.EndLine(); err != nil {
		return err
	}
	for _, e := range events {
		out.WriteInt64(int64(e.Start))
		out.WriteInt64(int64(e.End))
		out.WriteInt64(int64(e.Mismatches))
		out.WriteString(formatRate(e.Rate()))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

// WriteRegionsTSV writes one row per region with columns start, end, events
// and peak mismatches, preceded by a header line.
func WriteRegionsTSV(w io.Writer, regions []Region) error {
	out := tsv.NewWriter(w)
	for _, col := range []string{"#start", "end", "events", "peak_mismatches"} {
		out.WriteString(col)
	}
	if err := out.EndLine(); err != nil {
		return err
	}
	for _, r := range regions {
		out.WriteInt64(int64(r.Start))
		out.WriteInt64(int64(r.End))
		out.WriteInt64(int64(r.Events))
		out.WriteInt64(int64(r.PeakMismatches))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
