package driver

import (
	"context"
	"fmt"

	"github.com/mrwong99/worldforge/internal/distribution"
	"github.com/mrwong99/worldforge/internal/enrichment"
	"github.com/mrwong99/worldforge/internal/feedback"
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/population"
	"github.com/mrwong99/worldforge/internal/rng"
	"github.com/mrwong99/worldforge/internal/runtime"
	"github.com/mrwong99/worldforge/internal/schema"
	"github.com/mrwong99/worldforge/internal/targeting"
)

// Driver owns the graph store for the lifetime of a simulation run and
// drives it era by era (spec §4.H, §5 "the driver's call stack is the
// graph's sole owner").
type Driver struct {
	Store      *graph.Store
	Domain     *schema.Domain
	Registries []schema.EntityRegistry
	Templates  []runtime.GrowthTemplate
	Systems    []runtime.SimulationSystem

	Config Config

	Feedback     *feedback.Controller
	Population   *population.Tracker
	Distribution *distribution.Tracker
	Diversity    *targeting.DiversityTracker
	Rnd          *rng.Source

	// Enrichment is the out-of-scope collaborator boundary (spec §5, §9).
	// Nil disables enrichment entirely; Queue itself tolerates a nil
	// receiver so this field can be left unset in tests.
	Enrichment *enrichment.Queue
}

// Report is the driver's final account of one simulation run (spec §4.H).
type Report struct {
	TotalTicks       int
	ErasCompleted    []string
	StopReason       string
	History          []graph.HistoryEntry
	EnrichmentMerges enrichment.MergeResult
}

// Run drives the simulation from the first configured era until a
// termination condition fires (spec §4.H "The driver stops when..."), or
// ctx is cancelled. Two runs with the same seed, config, and domain produce
// identical graphs (spec §4.H "Determinism").
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	for _, era := range d.Config.Eras {
		d.Store.SetCurrentEra(era.ID)

		for epoch := 0; epoch < era.EpochLength; epoch++ {
			for i := 0; i < era.SimulationTicksPerGrowth; i++ {
				if err := ctx.Err(); err != nil {
					return d.cancel(report)
				}
				d.Store.SetTick(d.Store.Tick() + 1)
				report.TotalTicks++
				if _, err := runtime.RunSystemTick(d.systemContext(era), d.Systems); err != nil {
					return nil, fmt.Errorf("driver: system tick: %w", err)
				}
				if d.safetyValveFires() {
					return d.triggerSafetyValve(report)
				}
				if d.Config.MaxTicks > 0 && report.TotalTicks >= d.Config.MaxTicks {
					report.StopReason = "max_ticks_reached"
					report.History = d.Store.History()
					d.finalizeEnrichment(report)
					return report, nil
				}
			}

			if err := ctx.Err(); err != nil {
				return d.cancel(report)
			}
			d.Store.SetTick(d.Store.Tick() + 1)
			report.TotalTicks++
			growthResult, err := runtime.RunGrowthTick(d.growthContext(era))
			if err != nil {
				return nil, fmt.Errorf("driver: growth tick: %w", err)
			}
			d.enqueueEnrichment(growthResult)
			d.Store.SetEpoch(d.Store.Epoch() + 1)

			d.updatePressures()
			d.remeasure()
			d.drainEnrichment(report)

			if d.safetyValveFires() {
				return d.triggerSafetyValve(report)
			}
			if d.Config.MaxTicks > 0 && report.TotalTicks >= d.Config.MaxTicks {
				report.StopReason = "max_ticks_reached"
				report.History = d.Store.History()
				d.finalizeEnrichment(report)
				return report, nil
			}
		}

		d.archiveEra(era.ID)
		report.ErasCompleted = append(report.ErasCompleted, era.ID)
	}

	report.StopReason = "all_eras_complete"
	report.History = d.Store.History()
	d.finalizeEnrichment(report)
	return report, nil
}

func (d *Driver) systemContext(era EraConfig) *runtime.SystemContext {
	return &runtime.SystemContext{
		Store:              d.Store,
		Domain:             d.Domain,
		EraSystemModifiers: era.SystemModifiers,
		Feedback:           d.Feedback,
	}
}

func (d *Driver) growthContext(era EraConfig) *runtime.GrowthContext {
	return &runtime.GrowthContext{
		Store:       d.Store,
		Domain:      d.Domain,
		Registries:  d.Registries,
		Templates:   d.Templates,
		BaseWeights: era.TemplateWeights,
		Feedback:    d.Feedback,
		Rnd:         d.Rnd,
		Diversity:   d.Diversity,
	}
}

func (d *Driver) updatePressures() {
	view := graph.NewView(d.Store)
	for _, rule := range d.Config.PressureRules {
		current := d.Store.Pressure(rule.Name)
		growth := 0.0
		if rule.GrowthFunc != nil {
			growth = rule.GrowthFunc(view)
		}
		d.Store.SetPressure(rule.Name, current+growth-rule.DecayRate*current)
	}
}

func (d *Driver) remeasure() {
	view := graph.NewView(d.Store)
	if d.Distribution != nil {
		d.Distribution.Update(view)
	} else if d.Population != nil {
		d.Population.Update(view)
	}
	if d.Feedback != nil {
		d.Feedback.Update(d.metricsSnapshot())
	}
}

func (d *Driver) metricsSnapshot() map[string]float64 {
	metrics := make(map[string]float64)
	if d.Population != nil {
		for key, m := range d.Population.AllEntityMetrics() {
			metrics["pop:"+key] = m.Deviation
		}
	}
	for name := range d.Store.Pressures() {
		metrics["pressure:"+name] = d.Store.Pressure(name)
	}
	return metrics
}

// safetyValveFires reports whether total entity count exceeds
// targetEntitiesPerKind x scaleFactor x kindCount x 3 (spec §4.H "safety
// valve").
func (d *Driver) safetyValveFires() bool {
	if d.Domain == nil || d.Config.TargetEntitiesPerKind <= 0 {
		return false
	}
	kindCount := len(d.Domain.EntityKinds)
	threshold := float64(d.Config.TargetEntitiesPerKind) * d.Config.ScaleFactor * float64(kindCount) * 3
	return float64(d.Store.EntityCount()) > threshold
}

func (d *Driver) triggerSafetyValve(report *Report) (*Report, error) {
	d.Store.AppendHistory(graph.HistoryEntry{Kind: graph.HistorySafetyTrigger, SafetyReason: "entity count exceeded safety threshold"})
	report.StopReason = "safety_valve"
	report.History = d.Store.History()
	d.finalizeEnrichment(report)
	return report, nil
}

func (d *Driver) cancel(report *Report) (*Report, error) {
	d.Store.AppendHistory(graph.HistoryEntry{Kind: graph.HistoryCancellation})
	report.StopReason = "cancelled"
	report.History = d.Store.History()
	d.finalizeEnrichment(report)
	return report, nil
}

// enqueueEnrichment submits every entity committed by growthResult to the
// enrichment collaborator, keyed by each kind's declared [schema.SnapshotConfig]
// (spec §6 "Enrichment side-channel"). A nil Enrichment queue makes this a
// no-op.
func (d *Driver) enqueueEnrichment(growthResult *runtime.GrowthTickResult) {
	if d.Enrichment == nil || growthResult == nil {
		return
	}
	for _, id := range growthResult.NewEntityIDs {
		entity, ok := d.Store.GetEntity(id)
		if !ok {
			continue
		}
		var snapCfg schema.SnapshotConfig
		if d.Domain != nil {
			if def, ok := d.Domain.EntityKinds[entity.Kind]; ok {
				snapCfg = def.Snapshot
			}
		}

		snap := enrichment.Snapshot{
			EntityID: entity.ID,
			Kind:     entity.Kind,
			Subtype:  entity.Subtype,
			Name:     entity.Name,
			Tick:     d.Store.Tick(),
		}
		if snapCfg.IncludeDescription {
			snap.Description = entity.Description
		}
		if snapCfg.IncludeTags {
			for k, v := range entity.Tags {
				if v.IsSet {
					snap.Tags = append(snap.Tags, k+"="+v.Label)
				} else {
					snap.Tags = append(snap.Tags, k)
				}
			}
		}
		d.Enrichment.Enqueue(snap)
	}
}

// drainEnrichment applies everything the collaborator has finished since
// the last drain (spec §9 "Model as a queue drained between ticks").
func (d *Driver) drainEnrichment(report *Report) {
	if d.Enrichment == nil {
		return
	}
	records := d.Enrichment.Drain()
	if len(records) == 0 {
		return
	}
	merged := enrichment.ApplyRecords(d.Store, records)
	report.EnrichmentMerges.Applied = append(report.EnrichmentMerges.Applied, merged.Applied...)
	report.EnrichmentMerges.Rejected = append(report.EnrichmentMerges.Rejected, merged.Rejected...)
}

// finalizeEnrichment waits for any still-in-flight enrichment jobs and
// applies whatever they produced before the driver's report is returned.
func (d *Driver) finalizeEnrichment(report *Report) {
	if d.Enrichment == nil {
		return
	}
	records := d.Enrichment.Close()
	if len(records) == 0 {
		return
	}
	merged := enrichment.ApplyRecords(d.Store, records)
	report.EnrichmentMerges.Applied = append(report.EnrichmentMerges.Applied, merged.Applied...)
	report.EnrichmentMerges.Rejected = append(report.EnrichmentMerges.Rejected, merged.Rejected...)
}

// archiveEra moves every active active_during relationship pointing at
// eraID to historical status, except for relationship kinds the domain
// declares Protected (spec §4.H "archive its active-during relationships
// ... for non-protected kinds").
func (d *Driver) archiveEra(eraID string) {
	fromEra := eraID
	rels := d.Store.FindRelationships(graph.RelationshipCriteria{Kind: schema.RelActiveDuring, Dst: eraID})
	for _, r := range rels {
		if d.Domain != nil {
			if def, ok := d.Domain.RelationshipKinds[r.Kind]; ok && def.Protected {
				continue
			}
		}
		d.Store.ArchiveRelationship(r.Src, r.Dst, r.Kind)
	}
	d.Store.AppendHistory(graph.HistoryEntry{Kind: graph.HistoryEraTransition, EraFrom: fromEra})
}
