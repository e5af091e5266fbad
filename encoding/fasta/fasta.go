// Package fasta contains code for loading FASTA files into memory for
// random-access comparison.  Briefly, FASTA files consist of a number of
// named sequences that may be interrupted by newlines.  For example:
//
// >strainA
// ACGTAC
// GAGGAC
// GCG
// >strainB
// ACGTAA
// GAGGTC
// GCG
//
// Note: Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appear after a space are ignored.
// For example, '>strainA A viral sequence' becomes 'strainA'.
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

const (
	bufferInitSize = 1024 * 1024 * 300 // 300 MB
)

// Fasta represents FASTA-formatted data, consisting of a set of named
// sequences.
type Fasta interface {
	// Get returns a substring of the given sequence name at the given
	// coordinates, which are treated as a 0-based half-open interval
	// [start, end). Get is thread-safe.
	Get(seqName string, start, end uint64) (string, error)

	// Len returns the length of the given sequence.
	Len(seqName string) (uint64, error)

	// SeqNames returns the names of all sequences, in the order of appearance in
	// the FASTA file.
	SeqNames() []string
}

// Encoding selects how sequence bytes are stored after parsing.
type Encoding int

const (
	// Raw keeps the bytes exactly as they appear in the file.
	Raw Encoding = iota
	// UpperASCII capitalizes lowercase letters and leaves every other byte,
	// including IUPAC codes and gaps, unchanged.
	UpperASCII
)

type opts struct {
	Enc Encoding
}

// Opt is an optional argument to New and Open.
type Opt func(*opts)

// OptClean causes sequences to be stored in UpperASCII form, so that a
// soft-masked 'a' and an 'A' compare equal while distinct symbols such as 'R'
// and 'Y' stay distinct.
func OptClean(o *opts) {
	o.Enc = UpperASCII
}

func makeOpts(userOpts ...Opt) opts {
	var parsedOpts opts
	for _, opt := range userOpts {
		opt(&parsedOpts)
	}
	return parsedOpts
}

type fasta struct {
	seqs     map[string]string
	seqNames []string
}

// New creates a new Fasta that holds all the FASTA data from the given reader
// in memory.  An input without any records yields a Fasta with no sequences.
func New(r io.Reader, userOpts ...Opt) (Fasta, error) {
	parsedOpts := makeOpts(userOpts...)
	f := &fasta{seqs: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)
	var (
		seqName   string
		inRecord  bool
		seq       bytes.Buffer
		lineCount int
	)
	flush := func() error {
		if _, ok := f.seqs[seqName]; ok {
			return errors.Errorf("duplicate sequence name: %s", seqName)
		}
		b := seq.Bytes()
		if parsedOpts.Enc == UpperASCII {
			upperASCIIInplace(b)
		}
		f.seqs[seqName] = string(b)
		f.seqNames = append(f.seqNames, seqName)
		seq.Reset()
		return nil
	}
	for scanner.Scan() {
		lineCount++
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if inRecord { // We need to store the previous sequence first.
				if err := flush(); err != nil {
					return nil, err
				}
			}
			seqName = string(bytes.SplitN(line[1:], []byte(" "), 2)[0])
			inRecord = true
			continue
		}
		if !inRecord {
			return nil, errors.Errorf("malformed FASTA file: sequence data before header at line %d", lineCount)
		}
		seq.Write(line)
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	if inRecord {
		if err := flush(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Get implements Fasta.Get().
func (f *fasta) Get(seqName string, start, end uint64) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found: %s", seqName)
	}
	if end <= start {
		return "", fmt.Errorf("start must be less than end")
	}
	if end > uint64(len(s)) {
		return "", errors.Errorf("invalid query range %d - %d for sequence %s with length %d",
			start, end, seqName, len(s))
	}
	return s[start:end], nil
}

// Len implements Fasta.Len().
func (f *fasta) Len(seq string) (uint64, error) {
	s, ok := f.seqs[seq]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", seq)
	}
	return uint64(len(s)), nil
}

// SeqNames implements Fasta.SeqNames().
func (f *fasta) SeqNames() []string {
	return f.seqNames
}

var upperASCIITable = func() (t [256]byte) {
	for i := range t {
		t[i] = byte(i)
	}
	for c := 'a'; c <= 'z'; c++ {
		t[c] = byte(c - 'a' + 'A')
	}
	return
}()

// upperASCIIInplace capitalizes a-z; all other bytes are kept.
func upperASCIIInplace(ascii8 []byte) {
	for i, c := range ascii8 {
		ascii8[i] = upperASCIITable[c]
	}
}
