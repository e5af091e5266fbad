// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package recomb_test

import (
	"strings"
	"testing"

	"github.com/beval/recomb/encoding/fasta"
	"github.com/beval/recomb/recomb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const threeSeqs = ">s1 first\nACGT\nAC\n>s2\nACCT\nAA\n>s3\nTTTTTT\n"

func TestFromFasta(t *testing.T) {
	fa, err := fasta.New(strings.NewReader(threeSeqs))
	assert.NoError(t, err)

	seqs, err := recomb.FromFasta(fa)
	assert.NoError(t, err)
	assert.EQ(t, len(seqs), 2)
	expect.EQ(t, seqs[0], recomb.Sequence(recomb.Bases("ACGTAC")))
	expect.EQ(t, seqs[1], recomb.Sequence(recomb.Bases("ACCTAA")))

	seqs, err = recomb.FromFasta(fa, "s3", "s1")
	assert.NoError(t, err)
	assert.EQ(t, len(seqs), 2)
	expect.EQ(t, seqs[0].Len(), 6)
	expect.EQ(t, seqs[0].At(0), byte('T'))
	expect.EQ(t, seqs[1].At(5), byte('C'))

	_, err = recomb.FromFasta(fa, "s1", "nope")
	expect.True(t, errors.Is(errors.NotExist, err), "err: %v", err)
}

func TestFromFastaSingleSequence(t *testing.T) {
	fa, err := fasta.New(strings.NewReader(">only\nACGT\n"))
	assert.NoError(t, err)
	seqs, err := recomb.FromFasta(fa)
	assert.NoError(t, err)
	expect.EQ(t, len(seqs), 1)

	events, err := recomb.Scan(seqs, recomb.DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, len(events), 0)
}

func TestFingerprint(t *testing.T) {
	a := recomb.Bases("ACGTACGT")
	b := recomb.Bases("ACGTACGA")
	expect.EQ(t, a.Fingerprint(), recomb.Bases("ACGTACGT").Fingerprint())
	expect.True(t, a.Fingerprint() != b.Fingerprint())
}
