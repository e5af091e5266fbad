// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package recomb

import (
	"fmt"
	"time"

	"github.com/grailbio/base/errors"
)

// Opts controls a scan.  The zero value is not valid; start from DefaultOpts.
type Opts struct {
	// WindowSize is the number of positions compared per window.
	WindowSize int
	// Threshold is the mismatch rate a window must strictly exceed to be
	// reported.  Must be in [0, 1].
	Threshold float64
	// Parallelism is the maximum number of ranges ScanParallel scores
	// concurrently.  Ignored by Scan.
	Parallelism int
	// Timeout bounds how long ScanParallel waits for its workers.  Zero means
	// no bound other than the caller's context.
	Timeout time.Duration
	// Rolling enables incremental mismatch counting: each window's count is
	// derived from the previous one in O(1) instead of recounting the whole
	// window.  Results are identical either way.
	Rolling bool
}

// DefaultOpts matches the settings of the reference analysis.
var DefaultOpts = Opts{
	WindowSize:  100,
	Threshold:   0.1,
	Parallelism: 4,
	Timeout:     24 * time.Hour,
}

// Validate returns an errors.Invalid error describing the first bad field.
func (o Opts) Validate() error {
	if err := o.validateWindow(); err != nil {
		return err
	}
	switch {
	case o.Parallelism <= 0:
		return errors.E(errors.Invalid, fmt.Sprintf("recomb: parallelism must be positive, got %d", o.Parallelism))
	case o.Timeout < 0:
		return errors.E(errors.Invalid, fmt.Sprintf("recomb: negative timeout %v", o.Timeout))
	}
	return nil
}

// validateWindow checks only the fields Scan uses.
func (o Opts) validateWindow() error {
	if o.WindowSize <= 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("recomb: window size must be positive, got %d", o.WindowSize))
	}
	if !(o.Threshold >= 0 && o.Threshold <= 1) {
		return errors.E(errors.Invalid, fmt.Sprintf("recomb: threshold must be in [0,1], got %v", o.Threshold))
	}
	return nil
}
