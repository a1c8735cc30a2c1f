package modification

import (
	"glazeworks/core/diagnosis"
	"glazeworks/core/types"
)

var severityIntensity = map[types.DiagnosticSeverity]types.ModificationIntensity{
	types.SeverityMild:     types.IntensitySlight,
	types.SeverityModerate: types.IntensityModerate,
	types.SeveritySevere:   types.IntensityAggressive,
}

// SeverityToIntensity maps mild, moderate and severe onto slight, moderate and
// aggressive. An unknown severity maps to the empty intensity, which has no preset.
func SeverityToIntensity(s types.DiagnosticSeverity) types.ModificationIntensity {
	return severityIntensity[s]
}

// Params describes the modification being asked for
type Params struct {
	Type      types.ModificationType
	Intensity types.ModificationIntensity
	Path      types.DiagnosticPath

	OriginalColor string
	GlazeID       *string
	ClayBody      *string
}

// Key is the preset key for a type and intensity, "{type}:{intensity}".
func Key(t types.ModificationType, i types.ModificationIntensity) string {
	return string(t) + ":" + string(i)
}

// Build assembles a Modification from the catalogue. It never fails: a key with
// no preset yields no adjustments, the generic description and Fallback set.
func (c *Catalogue) Build(p Params) types.Modification {
	key := Key(p.Type, p.Intensity)

	m := types.Modification{
		Type:          p.Type,
		Intensity:     p.Intensity,
		Path:          p.Path,
		OriginalColor: p.OriginalColor,
		GlazeID:       cloneString(p.GlazeID),
		ClayBody:      cloneString(p.ClayBody),
		Description:   FallbackDescription,
		Adjustments:   []types.OxideAdjustment{},
		PresetKey:     key,
		Fallback:      true,
	}

	preset, ok := c.Lookup(key)
	if !ok {
		return m
	}
	if preset.Description != "" {
		m.Description = preset.Description
	}
	m.Adjustments = preset.Adjustments
	m.Fallback = false
	return m
}

// Recommend resolves a diagnosis and builds the modification for it. The
// intensity in p is replaced by the one the diagnosis calls for.
func (c *Catalogue) Recommend(in diagnosis.Input, p Params) (types.Modification, diagnosis.Result, error) {
	res, err := diagnosis.Resolve(in)
	if err != nil {
		return types.Modification{}, diagnosis.Result{}, err
	}
	p.Path = res.Path
	p.Intensity = SeverityToIntensity(res.Severity)
	return c.Build(p), res, nil
}

// Build applies the default catalogue.
func Build(p Params) types.Modification {
	return defaultCatalogue.Build(p)
}

// Recommend applies the default catalogue.
func Recommend(in diagnosis.Input, p Params) (types.Modification, diagnosis.Result, error) {
	return defaultCatalogue.Recommend(in, p)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
