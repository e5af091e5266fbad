// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package recomb

import (
	"fmt"

	"github.com/beval/recomb/encoding/fasta"
	"github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
)

// Sequence is a read-only, randomly accessible sequence of bases.
// Implementations must be safe for concurrent use by multiple goroutines,
// and must not change while a scan is running.
type Sequence interface {
	// Len returns the number of bases.
	Len() int
	// At returns the base at the given 0-based position.
	At(pos int) byte
}

// Bases is the in-memory Sequence implementation.
type Bases []byte

// Len implements Sequence.
func (b Bases) Len() int { return len(b) }

// At implements Sequence.
func (b Bases) At(pos int) byte { return b[pos] }

// Fingerprint returns a 64-bit content hash, used to identify inputs in logs.
func (b Bases) Fingerprint() uint64 { return farm.Fingerprint64(b) }

// FromFasta extracts sequences from fa.  If names is empty, the first two
// sequences in file order are returned; a file with fewer than two sequences
// yields a short slice rather than an error, since the scanners treat that as
// an empty comparison.  Named sequences that don't exist are an error.
func FromFasta(fa fasta.Fasta, names ...string) ([]Sequence, error) {
	if len(names) == 0 {
		names = fa.SeqNames()
		if len(names) > 2 {
			names = names[:2]
		}
	}
	seqs := make([]Sequence, 0, len(names))
	for _, name := range names {
		n, err := fa.Len(name)
		if err != nil {
			return nil, errors.E(errors.NotExist, err)
		}
		if n == 0 {
			seqs = append(seqs, Bases{})
			continue
		}
		s, err := fa.Get(name, 0, n)
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("read sequence %s", name))
		}
		seqs = append(seqs, Bases(s))
	}
	return seqs, nil
}
