package fasta

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Open reads the FASTA file at path into memory.  The path may name any
// filesystem registered with grailbio/base/file.  Files whose name ends in
// ".gz" are decompressed on the fly.
func Open(ctx context.Context, path string, userOpts ...Opt) (fa Fasta, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.CloseAndReport(ctx, in, &err)

	var r io.Reader = in.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "gunzip %s", path)
		}
		defer gz.Close() // nolint: errcheck
		r = gz
	}
	if fa, err = New(r, userOpts...); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return fa, nil
}
