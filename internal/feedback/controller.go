package feedback

// Controller tracks feedback loops across ticks and exposes the resulting
// template-weight and system-modifier scale factors (spec §4.F). It never
// replaces era base modifiers — callers multiply the base by
// [Controller.TemplateWeight] / [Controller.SystemModifier].
type Controller struct {
	loops  []Loop
	tuning Tuning

	// sourceHistory holds, per loop id, one source-metric value per tick
	// since the loop started being observed, so a delayed effect can look
	// back Delay ticks.
	sourceHistory map[string][]float64
}

// NewController constructs a Controller for the declared loops.
func NewController(loops []Loop, tuning Tuning) *Controller {
	if tuning.MaxTemplateWeight <= 0 {
		tuning.MaxTemplateWeight = 2.0
	}
	if tuning.CorrectionStrength == 0 {
		tuning.CorrectionStrength = 1.0
	}
	return &Controller{
		loops:         loops,
		tuning:        tuning,
		sourceHistory: make(map[string][]float64, len(loops)),
	}
}

// Update records this tick's source-metric deviations. metrics maps a
// metric key (as named by a loop's Source) to its current deviation value.
func (c *Controller) Update(metrics map[string]float64) {
	for _, loop := range c.loops {
		c.sourceHistory[loop.ID] = append(c.sourceHistory[loop.ID], metrics[loop.Source])
	}
}

// adjustmentFor sums every loop targeting target into one signed
// adjustment, using each loop's delayed source value (spec §4.F
// "adjustments are applied after delay ticks"). Multiple loops sharing a
// target are combined by summing their adjustments.
func (c *Controller) adjustmentFor(target string) float64 {
	var total float64
	for _, loop := range c.loops {
		if loop.Target != target {
			continue
		}
		history := c.sourceHistory[loop.ID]
		idx := len(history) - 1 - loop.Delay
		if idx < 0 {
			continue
		}
		sourceValue := history[idx]
		adjustment := sourceValue * loop.Strength * c.tuning.CorrectionStrength
		if loop.Type == Negative {
			adjustment = -adjustment
		}
		total += adjustment
	}
	return total
}

// TemplateWeight returns the scale factor for templateID, clamped to
// [MinTemplateWeight, MaxTemplateWeight]. Templates with no targeting loop
// return 1 (no adjustment).
func (c *Controller) TemplateWeight(templateID string) float64 {
	weight := 1 + c.adjustmentFor("template:"+templateID)
	return clamp(weight, c.tuning.MinTemplateWeight, c.tuning.MaxTemplateWeight)
}

// SystemModifier returns the scale factor for systemID, clamped to [0.2,
// 2.0] (spec §4.F fixed system range).
func (c *Controller) SystemModifier(systemID string) float64 {
	modifier := 1 + c.adjustmentFor("system:"+systemID)
	return clamp(modifier, minSystemModifier, maxSystemModifier)
}

func clamp(v, lo, hi float64) float64 {
	if lo == 0 && hi == 0 {
		return v
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
