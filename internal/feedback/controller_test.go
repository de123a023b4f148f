package feedback

import "testing"

func TestController_PositiveLoopAmplifiesAfterDelay(t *testing.T) {
	t.Parallel()
	c := NewController([]Loop{
		{ID: "unrest-growth", Type: Positive, Source: "pressure:unrest", Target: "template:riot", Strength: 1.0, Delay: 1},
	}, Tuning{CorrectionStrength: 1.0, MinTemplateWeight: 0.1, MaxTemplateWeight: 3.0})

	c.Update(map[string]float64{"pressure:unrest": 0.5})
	if w := c.TemplateWeight("riot"); w != 1 {
		t.Fatalf("expected no effect before delay elapses, got %f", w)
	}

	c.Update(map[string]float64{"pressure:unrest": 0.8})
	if w := c.TemplateWeight("riot"); w != 1.5 {
		t.Fatalf("expected weight 1.5 (1 + delayed 0.5), got %f", w)
	}
}

func TestController_NegativeLoopDampens(t *testing.T) {
	t.Parallel()
	c := NewController([]Loop{
		{ID: "overpop-damp", Type: Negative, Source: "pop:npc", Target: "template:spawn_npc", Strength: 1.0, Delay: 0},
	}, Tuning{CorrectionStrength: 1.0, MinTemplateWeight: 0, MaxTemplateWeight: 2.0})

	c.Update(map[string]float64{"pop:npc": 0.4})
	if w := c.TemplateWeight("spawn_npc"); w != 0.6 {
		t.Fatalf("expected weight 0.6 (1 - 0.4), got %f", w)
	}
}

func TestController_SystemModifierClampedToFixedRange(t *testing.T) {
	t.Parallel()
	c := NewController([]Loop{
		{ID: "extreme", Type: Positive, Source: "pressure:chaos", Target: "system:collapse", Strength: 10.0, Delay: 0},
	}, Tuning{CorrectionStrength: 1.0})

	c.Update(map[string]float64{"pressure:chaos": 1.0})
	if m := c.SystemModifier("collapse"); m != 2.0 {
		t.Fatalf("expected system modifier clamped at 2.0, got %f", m)
	}
}

func TestController_UntargetedWeightDefaultsToOne(t *testing.T) {
	t.Parallel()
	c := NewController(nil, Tuning{MinTemplateWeight: 0.5, MaxTemplateWeight: 1.5})
	if w := c.TemplateWeight("anything"); w != 1 {
		t.Fatalf("expected default weight 1, got %f", w)
	}
}
