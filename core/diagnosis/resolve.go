package diagnosis

import (
	"glazeworks/core/types"
	"glazeworks/internal/errors"
)

// Input is one diagnosis request. A troubleshoot request carries the severity the
// customer picked; a photo request carries the upload length.
type Input struct {
	Path     types.DiagnosticPath     `json:"path"`
	Length   int                      `json:"length"`
	Severity types.DiagnosticSeverity `json:"severity,omitempty"`
}

// Result is a resolved diagnosis
type Result struct {
	Path     types.DiagnosticPath     `json:"path"`
	Severity types.DiagnosticSeverity `json:"severity"`

	// Classified is set when the severity came from the length classifier
	Classified bool `json:"classified"`
}

// Resolve settles the severity for in.
func Resolve(in Input) (Result, error) {
	path := in.Path
	if path == "" {
		path = types.PathPhoto
	}

	switch path {
	case types.PathTroubleshoot:
		if !in.Severity.Valid() {
			return Result{}, errors.Inputf("troubleshoot path needs a severity of mild, moderate or severe, got %q", in.Severity)
		}
		return Result{Path: path, Severity: in.Severity}, nil
	case types.PathPhoto:
		if in.Length < 0 {
			return Result{}, errors.Inputf("upload length must not be negative, got %d", in.Length)
		}
		return Result{Path: path, Severity: ClassifyLength(in.Length), Classified: true}, nil
	}
	return Result{}, errors.Inputf("unknown diagnostic path %q", path)
}
