package runtime

import (
	"fmt"

	"github.com/mrwong99/worldforge/internal/contract"
	"github.com/mrwong99/worldforge/internal/coordgeo"
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/rng"
	"github.com/mrwong99/worldforge/internal/schema"
	"github.com/mrwong99/worldforge/internal/targeting"
)

// WeightSource supplies the per-tick scale factor applied on top of a
// template's or system's era-configured base weight (package feedback
// implements this).
type WeightSource interface {
	TemplateWeight(templateID string) float64
	SystemModifier(systemID string) float64
}

// GrowthContext bundles everything one growth tick needs (spec §4.G
// "Growth tick").
type GrowthContext struct {
	Store      *graph.Store
	Domain     *schema.Domain
	Registries []schema.EntityRegistry
	Templates  []GrowthTemplate

	BaseWeights map[string]float64 // era weight, keyed by template id
	Feedback    WeightSource
	Rnd         *rng.Source
	Diversity   *targeting.DiversityTracker
}

// GrowthTickResult summarises one growth tick for the history log.
type GrowthTickResult struct {
	TemplateID         string
	EntitiesAdded      int
	RelationshipsAdded int
	Warnings           []string
	Description        string

	// NewEntityIDs lists the ids committed this tick, in commit order. The
	// driver uses this to enqueue enrichment snapshots without re-deriving
	// "what's new" from the store (spec §6 "Enrichment side-channel").
	NewEntityIDs []string
}

// RunGrowthTick executes one full growth tick: score and gate templates,
// sample one, resolve its targets, expand it, place and commit the result,
// run the lineage pass, and validate affects (spec §4.G steps 1-6).
func RunGrowthTick(ctx *GrowthContext) (*GrowthTickResult, error) {
	view := graph.NewView(ctx.Store)

	var eligible []GrowthTemplate
	var weights []float64
	for _, tmpl := range ctx.Templates {
		if !gatePasses(view, ctx.Store.CurrentEra(), ctx.Registries, tmpl) {
			continue
		}
		base := ctx.BaseWeights[tmpl.ID()]
		if base <= 0 {
			base = 1
		}
		scale := 1.0
		if ctx.Feedback != nil {
			scale = ctx.Feedback.TemplateWeight(tmpl.ID())
		}
		eligible = append(eligible, tmpl)
		weights = append(weights, base*scale)
	}
	if len(eligible) == 0 {
		return &GrowthTickResult{Description: "no eligible templates this tick"}, nil
	}

	chosen := eligible[rng.WeightedChoice(ctx.Rnd, weights)]

	var targets []graph.Entity
	var factoryCreated []graph.Entity
	if finder, ok := chosen.(TargetFinder); ok {
		for _, criteria := range finder.FindTargets(view) {
			sel := targeting.Select(view, ctx.Diversity, criteria)
			targets = append(targets, sel.Targets...)
			factoryCreated = append(factoryCreated, sel.Created...)
		}
	}

	expanded, err := chosen.Expand(view, targets)
	if err != nil {
		return nil, fmt.Errorf("runtime: template %q expand: %w", chosen.ID(), err)
	}

	newEntities := append(factoryCreated, expanded.NewEntities...)
	for i := range newEntities {
		if newEntities[i].ID == "" {
			newEntities[i].ID = fmt.Sprintf("%s-%016x", newEntities[i].Kind, ctx.Rnd.Uint64())
		}
		newEntities[i].CreatedAt = ctx.Store.Tick()
		assignDefaultCoordinates(ctx, chosen, &newEntities[i], newEntities)
		ctx.Store.SetEntity(newEntities[i])
	}

	relationshipsCommitted := 0
	createdRelByKind := make(map[string]int)
	for _, r := range expanded.NewRelationships {
		if commitRelationship(ctx.Store, ctx.Domain, r) {
			relationshipsCommitted++
			createdRelByKind[r.Kind]++
		}
	}

	postView := graph.NewView(ctx.Store)
	lineageRels := contract.RunLineagePass(postView, newEntities, ctx.Registries, ctx.Rnd)
	for _, lr := range lineageRels {
		_, ok := ctx.Store.AddRelationship(lr.RelationshipKind, lr.Src, lr.Dst, graph.WithDistance(lr.Distance))
		if ok {
			relationshipsCommitted++
			createdRelByKind[lr.RelationshipKind]++
		}
	}

	newEntityIDs := make([]string, len(newEntities))
	for i, e := range newEntities {
		newEntityIDs[i] = e.ID
	}

	result := &GrowthTickResult{
		TemplateID:         chosen.ID(),
		EntitiesAdded:      len(newEntities),
		RelationshipsAdded: relationshipsCommitted,
		Description:        expanded.Description,
		NewEntityIDs:       newEntityIDs,
	}

	if contracted, ok := chosen.(Contracted); ok {
		createdEntityCounts := make(map[string]int)
		for _, e := range newEntities {
			createdEntityCounts[entityCountKey(e.Kind, e.Subtype)]++
		}
		result.Warnings = contract.ValidateAffects(contracted.Affects(), createdEntityCounts, createdRelByKind, nil)
	}

	ctx.Store.AppendHistory(graph.HistoryEntry{
		Kind:          graph.HistoryGrowth,
		TemplateID:    chosen.ID(),
		EntitiesAdded: result.EntitiesAdded,
		RelsAdded:     result.RelationshipsAdded,
		Description:   result.Description,
	})
	for _, w := range result.Warnings {
		ctx.Store.AppendHistory(graph.HistoryEntry{Kind: graph.HistoryContractWarning, TemplateID: chosen.ID(), Warning: w})
	}

	return result, nil
}

func gatePasses(view graph.View, currentEra string, registries []schema.EntityRegistry, tmpl GrowthTemplate) bool {
	if contracted, ok := tmpl.(Contracted); ok {
		if gate := contract.CheckEnabledBy(view, currentEra, contracted.EnabledBy()); !gate.Allowed {
			return false
		}
	}
	if producer, ok := tmpl.(Produces); ok {
		if contract.Saturated(view, registries, producer.ProducedKinds()) {
			return false
		}
	}
	if applier, ok := tmpl.(CanApplier); ok && !applier.CanApply(view) {
		return false
	}
	return true
}

// assignDefaultCoordinates fills in e.Coordinates for every coordinate
// space declared in the domain that e doesn't already carry, using the
// template's declared scheme or the space's per-kind default (spec §4.G
// step 3).
func assignDefaultCoordinates(ctx *GrowthContext, tmpl GrowthTemplate, e *graph.Entity, batchEntities []graph.Entity) {
	if ctx.Domain == nil {
		return
	}
	for spaceID, space := range ctx.Domain.CoordinateSpaces {
		if _, has := e.Coordinates[spaceID]; has {
			continue
		}
		batch := batchCoordinates(batchEntities, spaceID)
		engine := buildPlacementEngine(graph.NewView(ctx.Store), space, spaceID, ctx.Rnd)
		coord, ok := resolveCoordinate(tmpl, *e, space, spaceID, engine, batch)
		if !ok {
			continue
		}
		if e.Coordinates == nil {
			e.Coordinates = make(map[string]coordgeo.Coordinate)
		}
		e.Coordinates[spaceID] = coord
	}
}

func batchCoordinates(entities []graph.Entity, spaceID string) []coordgeo.Coordinate {
	var out []coordgeo.Coordinate
	for _, e := range entities {
		if c, ok := e.Coordinates[spaceID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// commitRelationship adds r to store, refusing it if the relationship
// kind's declared conflicts already hold between src and dst (spec §4.G
// step 3 of the system tick, reused here since both templates and systems
// must respect conflicts).
func commitRelationship(store *graph.Store, domain *schema.Domain, r graph.Relationship) bool {
	if domain != nil {
		existing := store.EntityRelationships(r.Src, graph.DirectionOut)
		var existingKinds []string
		for _, er := range existing {
			if er.Dst == r.Dst {
				existingKinds = append(existingKinds, er.Kind)
			}
		}
		if conflict, _ := domain.CheckRelationshipConflict(existingKinds, r.Kind); conflict {
			return false
		}
		def, ok := domain.RelationshipKinds[r.Kind]
		if ok && !def.AllowParallel && store.HasRelationship(r.Src, r.Dst, r.Kind) {
			return false
		}
	}
	_, ok := store.AddRelationship(r.Kind, r.Src, r.Dst,
		graph.WithStrength(pickStrength(domain, r)), graph.WithCategory(r.Category))
	return ok
}

func pickStrength(domain *schema.Domain, r graph.Relationship) float64 {
	if r.Strength != 0 {
		return r.Strength
	}
	if domain != nil {
		return domain.GetRelationshipStrength(r.Kind)
	}
	return 0.5
}

func entityCountKey(kind, subtype string) string {
	if subtype == "" {
		return kind
	}
	return kind + "/" + subtype
}
