// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package recomb scans two aligned sequences for windows of elevated
  divergence ("potential recombination").

  A window of Opts.WindowSize positions is slid across both sequences one
  position at a time; a window whose mismatch rate is strictly greater than
  Opts.Threshold produces an Event.  Scan does this on the calling goroutine.
  ScanParallel splits the window start positions into contiguous ScanRanges,
  scores them on a bounded pool of workers, and concatenates the per-range
  results in range order, so both entry points return the same event list.

  No alignment is performed: position i of one sequence is compared with
  position i of the other, and only the prefix shared by both sequences is
  scanned.
*/
package recomb
