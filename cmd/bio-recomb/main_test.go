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
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beval/recomb/recomb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePair writes a FASTA file with two 300-base sequences that differ at
// positions 150-160, soft-masked in the second copy, plus a third decoy.
func writePair(t *testing.T, dir string) string {
	ref := strings.Repeat("GATC", 75)
	alt := []byte(strings.ToLower(ref))
	for i := 150; i < 161; i++ {
		if alt[i] == 'a' {
			alt[i] = 'c'
		} else {
			alt[i] = 'a'
		}
	}
	var buf bytes.Buffer
	buf.WriteString(">ref reference strain\n")
	for i := 0; i < len(ref); i += 60 {
		buf.WriteString(ref[i:i+60] + "\n")
	}
	buf.WriteString(">alt\n" + string(alt) + "\n")
	buf.WriteString(">decoy\n" + strings.Repeat("T", 300) + "\n")
	path := filepath.Join(dir, "pair.fa")
	require.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestRunSequentialAndParallelAgree(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	faPath := writePair(t, tempDir)
	ctx := context.Background()

	var outputs []string
	for _, sequential := range []bool{true, false} {
		outPath := filepath.Join(tempDir, "events.tsv")
		regionsPath := filepath.Join(tempDir, "regions.tsv")
		var printed bytes.Buffer
		err := run(ctx, runOpts{
			fastaPath:   faPath,
			clean:       true,
			sequential:  sequential,
			outPath:     outPath,
			regionsPath: regionsPath,
			print:       &printed,
			scan:        recomb.DefaultOpts,
		})
		require.NoError(t, err)

		events, err := ioutil.ReadFile(outPath)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(events)), "\n")
		require.Len(t, lines, 91)
		assert.Equal(t, "61\t161\t11\t0.1100", lines[1])
		assert.Equal(t, "150\t250\t11\t0.1100", lines[90])
		outputs = append(outputs, string(events))

		regions, err := ioutil.ReadFile(regionsPath)
		require.NoError(t, err)
		assert.Equal(t, "#start\tend\tevents\tpeak_mismatches\n61\t250\t90\t11\n", string(regions))

		assert.True(t, strings.HasPrefix(printed.String(),
			"Potential recombination detected between positions 61 and 161\n"))
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestRunWithoutClean(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	faPath := writePair(t, tempDir)

	// Without cleaning every position differs in case, so every window is
	// reported.
	outPath := filepath.Join(tempDir, "events.tsv")
	require.NoError(t, run(context.Background(), runOpts{
		fastaPath: faPath,
		outPath:   outPath,
		scan:      recomb.DefaultOpts,
	}))
	events, err := ioutil.ReadFile(outPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(events)), "\n"), 201)
}

func TestRunCleanKeepsAmbiguityCodes(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tempDir, "iupac.fa")
	fa := ">r\n" + strings.Repeat("R", 200) + "\n>y\n" + strings.Repeat("y", 200) + "\n"
	require.NoError(t, ioutil.WriteFile(path, []byte(fa), 0644))

	// R and Y are different symbols, so every window is a full mismatch.
	var printed bytes.Buffer
	require.NoError(t, run(context.Background(), runOpts{
		fastaPath: path,
		clean:     true,
		print:     &printed,
		scan:      recomb.DefaultOpts,
	}))
	assert.Equal(t, 100, strings.Count(printed.String(), "\n"))
}

func TestRunNamedSequences(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	faPath := writePair(t, tempDir)

	var printed bytes.Buffer
	require.NoError(t, run(context.Background(), runOpts{
		fastaPath: faPath,
		seqNames:  []string{"ref", "decoy"},
		clean:     true,
		print:     &printed,
		scan:      recomb.DefaultOpts,
	}))
	assert.Equal(t, 200, strings.Count(printed.String(), "\n"))

	err := run(context.Background(), runOpts{
		fastaPath: faPath,
		seqNames:  []string{"ref", "missing"},
		scan:      recomb.DefaultOpts,
	})
	assert.Error(t, err)
}

func TestRunBadOpts(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	faPath := writePair(t, tempDir)

	opts := recomb.DefaultOpts
	opts.Threshold = 3
	err := run(context.Background(), runOpts{fastaPath: faPath, scan: opts})
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Invalid, err))
}
