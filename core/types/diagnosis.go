// Package types - Diagnosis and recipe modification types
package types

import "strings"

// DiagnosticSeverity grades how badly a fired glaze is crazing
type DiagnosticSeverity string

const (
	SeverityMild     DiagnosticSeverity = "mild"
	SeverityModerate DiagnosticSeverity = "moderate"
	SeveritySevere   DiagnosticSeverity = "severe"
)

// Severities is the ordered severity scale, least severe first.
var Severities = []DiagnosticSeverity{SeverityMild, SeverityModerate, SeveritySevere}

// Rank returns the position of s on the severity scale, or -1 if unknown.
func (s DiagnosticSeverity) Rank() int {
	for i, known := range Severities {
		if s == known {
			return i
		}
	}
	return -1
}

// Valid reports whether s is on the severity scale
func (s DiagnosticSeverity) Valid() bool {
	return s.Rank() >= 0
}

// ParseSeverity accepts a known severity label, case-insensitively.
func ParseSeverity(s string) (DiagnosticSeverity, bool) {
	sev := DiagnosticSeverity(strings.ToLower(strings.TrimSpace(s)))
	return sev, sev.Valid()
}

// ModificationIntensity is how strongly a recipe is pushed
type ModificationIntensity string

const (
	IntensitySlight     ModificationIntensity = "slight"
	IntensityModerate   ModificationIntensity = "moderate"
	IntensityAggressive ModificationIntensity = "aggressive"
)

// Intensities is the ordered intensity scale, gentlest first.
var Intensities = []ModificationIntensity{IntensitySlight, IntensityModerate, IntensityAggressive}

// Rank returns the position of i on the intensity scale, or -1 if unknown.
func (i ModificationIntensity) Rank() int {
	for n, known := range Intensities {
		if i == known {
			return n
		}
	}
	return -1
}

// Valid reports whether i is on the intensity scale
func (i ModificationIntensity) Valid() bool {
	return i.Rank() >= 0
}

// ModificationType names the chemistry direction of a recipe change
type ModificationType string

const (
	ReduceBoron     ModificationType = "reduce_boron"
	IncreaseBoron   ModificationType = "increase_boron"
	ReduceExpansion ModificationType = "reduce_expansion"
)

// ModificationTypes lists the known modification types.
var ModificationTypes = []ModificationType{ReduceBoron, IncreaseBoron, ReduceExpansion}

// ParseModificationType accepts a known modification type.
func ParseModificationType(s string) (ModificationType, bool) {
	t := ModificationType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ModificationTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// DiagnosticPath records how the customer reached a diagnosis
type DiagnosticPath string

const (
	// PathPhoto is an uploaded photo of the fired piece
	PathPhoto DiagnosticPath = "photo"

	// PathTroubleshoot is the guided questionnaire, where the customer picks a severity
	PathTroubleshoot DiagnosticPath = "troubleshoot"
)

// ParseDiagnosticPath accepts a known path; the empty string means photo.
func ParseDiagnosticPath(s string) (DiagnosticPath, bool) {
	switch DiagnosticPath(strings.ToLower(strings.TrimSpace(s))) {
	case "", PathPhoto:
		return PathPhoto, true
	case PathTroubleshoot:
		return PathTroubleshoot, true
	}
	return "", false
}
