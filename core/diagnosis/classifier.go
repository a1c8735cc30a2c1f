// Package diagnosis grades crazing severity when no richer analysis is available.
//
// The classifier looks only at how many bytes an upload has, never at what they
// contain, so identical lengths always grade identically. It stands in for the
// external vision service and is what tests and replays run against.
package diagnosis

import (
	"context"
	"io"

	"glazeworks/core/types"
	"glazeworks/internal/errors"
)

// knuthMultiplier is Knuth's multiplicative hashing constant, 2^32 / φ.
const knuthMultiplier uint32 = 2654435761

// ClassifyLength grades an input of n bytes. Negative lengths are treated as zero.
func ClassifyLength(n int) types.DiagnosticSeverity {
	if n < 0 {
		n = 0
	}
	h := uint32(uint64(n)) * knuthMultiplier
	return types.Severities[h%uint32(len(types.Severities))]
}

// Classify grades data by its length.
func Classify(data []byte) types.DiagnosticSeverity {
	return ClassifyLength(len(data))
}

// ClassifyReader drains r and grades it by the number of bytes read.
func ClassifyReader(r io.Reader) (types.DiagnosticSeverity, int64, error) {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return "", n, errors.Wrap(errors.TypeInput, "read diagnostic upload", err)
	}
	return ClassifyLength(int(n)), n, nil
}

// Analyzer grades an upload. The vision service implements it outside this
// module; Fallback is the deterministic stand-in.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte) (types.DiagnosticSeverity, error)
}

// Fallback is the length-based Analyzer
type Fallback struct{}

// Analyze implements Analyzer
func (Fallback) Analyze(ctx context.Context, image []byte) (types.DiagnosticSeverity, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Classify(image), nil
}
