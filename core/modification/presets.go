// Package modification turns a diagnosis into a catalogued recipe adjustment.
package modification

import (
	"sort"

	"glazeworks/core/types"
)

// FallbackDescription is used when a type and intensity have no preset.
const FallbackDescription = "Recipe adjustment based on your diagnostic results"

// Preset is one catalogue entry
type Preset struct {
	Description string                  `json:"description"`
	Adjustments []types.OxideAdjustment `json:"adjustments"`
}

func increase(oxide, magnitude string) types.OxideAdjustment {
	return types.OxideAdjustment{Oxide: oxide, Direction: types.DirectionIncrease, Magnitude: magnitude}
}

func decrease(oxide, magnitude string) types.OxideAdjustment {
	return types.OxideAdjustment{Oxide: oxide, Direction: types.DirectionDecrease, Magnitude: magnitude}
}

// The reduce_expansion entries for mild and severe are keyed by severity labels,
// not intensity labels, and only match callers that pass those labels through.
var defaultPresets = map[string]Preset{
	"reduce_boron:slight": {
		Description: "Slightly lowers boron and adds a little silica to tighten the glaze fit and ease fine crazing.",
		Adjustments: []types.OxideAdjustment{
			decrease("B₂O₃", "10%"),
			increase("SiO₂", "3%"),
		},
	},
	"reduce_boron:moderate": {
		Description: "Cuts boron noticeably while raising silica and alumina to lower expansion and stiffen the melt.",
		Adjustments: []types.OxideAdjustment{
			decrease("B₂O₃", "20%"),
			increase("SiO₂", "5%"),
			increase("Al₂O₃", "2%"),
		},
	},
	"increase_boron:moderate": {
		Description: "Raises boron and trims silica so the glaze melts more fully at the same firing temperature.",
		Adjustments: []types.OxideAdjustment{
			increase("B₂O₃", "15%"),
			decrease("SiO₂", "3%"),
		},
	},
	"reduce_expansion:mild": {
		Description: "Trims sodium and adds silica to bring thermal expansion down gently.",
		Adjustments: []types.OxideAdjustment{
			decrease("Na₂O", "8%"),
			increase("SiO₂", "5%"),
		},
	},
	"reduce_expansion:moderate": {
		Description: "Lowers sodium and potassium and raises silica to pull thermal expansion in line with the clay body.",
		Adjustments: []types.OxideAdjustment{
			decrease("Na₂O", "15%"),
			decrease("K₂O", "10%"),
			increase("SiO₂", "8%"),
		},
	},
	"reduce_expansion:severe": {
		Description: "Strongly cuts the alkali fluxes and raises silica, adding boron to keep the glaze melting while expansion drops.",
		Adjustments: []types.OxideAdjustment{
			decrease("Na₂O", "20%"),
			decrease("K₂O", "15%"),
			increase("SiO₂", "12%"),
			increase("B₂O₃", "5%"),
		},
	},
}

// Catalogue is a read-only preset table
type Catalogue struct {
	presets map[string]Preset
}

// NewCatalogue freezes presets into a Catalogue. The map and slices are copied.
func NewCatalogue(presets map[string]Preset) *Catalogue {
	c := &Catalogue{presets: make(map[string]Preset, len(presets))}
	for key, p := range presets {
		c.presets[key] = clonePreset(p)
	}
	return c
}

var defaultCatalogue = NewCatalogue(defaultPresets)

// DefaultCatalogue returns the storefront's preset table.
func DefaultCatalogue() *Catalogue {
	return defaultCatalogue
}

// Lookup returns a copy of the preset stored under key.
func (c *Catalogue) Lookup(key string) (Preset, bool) {
	p, ok := c.presets[key]
	if !ok {
		return Preset{}, false
	}
	return clonePreset(p), true
}

// Keys lists every preset key in sorted order.
func (c *Catalogue) Keys() []string {
	keys := make([]string, 0, len(c.presets))
	for k := range c.presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clonePreset(p Preset) Preset {
	adj := make([]types.OxideAdjustment, len(p.Adjustments))
	copy(adj, p.Adjustments)
	return Preset{Description: p.Description, Adjustments: adj}
}
