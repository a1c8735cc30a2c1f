// Package types - Recipe modification records
package types

// AdjustmentDirection is whether an oxide proportion goes up or down
type AdjustmentDirection string

const (
	DirectionIncrease AdjustmentDirection = "increase"
	DirectionDecrease AdjustmentDirection = "decrease"
)

// OxideAdjustment is one catalogued change to an oxide's share of a recipe
type OxideAdjustment struct {
	// Oxide is the chemical symbol, e.g. "B₂O₃"
	Oxide string `json:"oxide"`

	// Direction is increase or decrease
	Direction AdjustmentDirection `json:"direction"`

	// Magnitude is a catalogue label such as "10%"; it is never computed
	Magnitude string `json:"magnitude"`
}

// String renders the adjustment as "B₂O₃ −10%".
func (a OxideAdjustment) String() string {
	sign := "+"
	if a.Direction == DirectionDecrease {
		sign = "−"
	}
	return a.Oxide + " " + sign + a.Magnitude
}

// Modification is a recipe adjustment recommended from a diagnosis.
// Values are built once per request and never mutated.
type Modification struct {
	Type      ModificationType      `json:"type"`
	Intensity ModificationIntensity `json:"intensity"`
	Path      DiagnosticPath        `json:"path"`

	// OriginalColor is the color of the glaze being corrected
	OriginalColor string `json:"original_color"`

	// GlazeID is the catalogue glaze the diagnosis started from, if any
	GlazeID *string `json:"glaze_id,omitempty"`

	// ClayBody is the clay the glaze was fired on, if known
	ClayBody *string `json:"clay_body,omitempty"`

	Description string            `json:"description"`
	Adjustments []OxideAdjustment `json:"adjustments"`

	// PresetKey is the "{type}:{intensity}" key that was looked up
	PresetKey string `json:"preset_key"`

	// Fallback is set when PresetKey missed the catalogue
	Fallback bool `json:"fallback"`
}
