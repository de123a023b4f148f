// Package feedback implements the feedback-loop controller (spec §4.F): a
// declarative set of loops that scale template weights and system
// modifiers in response to population/distribution deviations, without
// ever replacing the era's base modifiers.
package feedback

// LoopType selects whether a loop amplifies (positive) or dampens
// (negative) its target in response to the source metric's deviation.
type LoopType string

const (
	Positive LoopType = "positive"
	Negative LoopType = "negative"
)

// Loop is one declared feedback loop (spec §4.F). Source and Target are
// caller-defined metric keys: Source names an entry in the deviation map
// passed to [Controller.Update] (a population/distribution metric key);
// Target names the template or system weight this loop adjusts:
// [Controller.TemplateWeight] looks up "template:<id>" and
// [Controller.SystemModifier] looks up "system:<id>", so a target in any
// other form adjusts nothing.
type Loop struct {
	ID       string
	Type     LoopType
	Source   string
	Target   string
	Strength float64
	Delay    int // ticks between a source deviation and its applied effect
}

// Tuning bounds how aggressively the controller corrects, and the
// allowable output ranges (spec §4.F "clamped by tuning.correctionStrength
// and the global min/max template weight").
type Tuning struct {
	CorrectionStrength float64
	MinTemplateWeight  float64
	MaxTemplateWeight  float64
}

const (
	minSystemModifier = 0.2
	maxSystemModifier = 2.0
)
