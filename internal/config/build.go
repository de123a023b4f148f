package config

import (
	"fmt"

	"github.com/mrwong99/worldforge/internal/coordgeo"
	"github.com/mrwong99/worldforge/internal/distribution"
	"github.com/mrwong99/worldforge/internal/driver"
	"github.com/mrwong99/worldforge/internal/feedback"
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/schema"
)

// Built is everything [Build] can derive from a [Config] alone. Two pieces
// of the engine configuration input are Go code, not data, and are bound by
// the caller after Build returns:
//
//   - Built.DriverConfig.PressureRules[i].GrowthFunc — keyed by
//     PressureRules[i].Name, the caller supplies the function computing
//     each pressure's growth contribution from the graph.
//   - Built.Registries[i].Lineage.FindAncestor — keyed by
//     (Registries[i].Kind, Registries[i].Subtype), the caller supplies the
//     ancestor-finding strategy for registries that declare a lineage.
type Built struct {
	Domain              *schema.Domain
	Registries          []schema.EntityRegistry
	DriverConfig        driver.Config
	FeedbackLoops       []feedback.Loop
	FeedbackTuning      feedback.Tuning
	DistributionTargets *distribution.Targets
	PressureNames       []string
}

// Build maps a decoded, validated [Config] into the runtime types the
// driver, feedback controller, and distribution tracker are constructed
// from (spec §6). It performs no I/O and returns an error only when cfg
// contains a reference Validate could not catch structurally (an unknown
// axis semantics string, for instance).
func Build(cfg *Config) (*Built, error) {
	domain, err := buildDomain(&cfg.Domain)
	if err != nil {
		return nil, err
	}

	registries, err := buildRegistries(cfg.Engine.EntityRegistries)
	if err != nil {
		return nil, err
	}

	driverCfg, err := buildDriverConfig(&cfg.Engine)
	if err != nil {
		return nil, err
	}

	loops := buildFeedbackLoops(cfg.Engine.FeedbackLoops)
	tuning := feedback.Tuning{
		CorrectionStrength: cfg.Engine.FeedbackTuning.CorrectionStrength,
		MinTemplateWeight:  cfg.Engine.FeedbackTuning.MinTemplateWeight,
		MaxTemplateWeight:  cfg.Engine.FeedbackTuning.MaxTemplateWeight,
	}

	var targets *distribution.Targets
	if cfg.Engine.DistributionTargets != nil {
		targets, err = buildDistributionTargets(cfg.Engine.DistributionTargets)
		if err != nil {
			return nil, err
		}
	}

	return &Built{
		Domain:              domain,
		Registries:          registries,
		DriverConfig:        driverCfg,
		FeedbackLoops:       loops,
		FeedbackTuning:      tuning,
		DistributionTargets: targets,
		PressureNames:       append([]string(nil), cfg.Engine.Pressures...),
	}, nil
}

func buildDomain(dc *DomainConfig) (*schema.Domain, error) {
	d := &schema.Domain{
		ID:                 dc.ID,
		Name:               dc.Name,
		Version:            dc.Version,
		EntityKinds:        make(map[string]schema.EntityKindDef, len(dc.EntityKinds)),
		RelationshipKinds:  make(map[string]schema.RelationshipKindDef, len(dc.RelationshipKinds)),
		Cultures:           append([]string(nil), dc.Cultures...),
		CoordinateSpaces:   make(map[string]coordgeo.SpaceConfig, len(dc.CoordinateSpaces)),
		ActionDomains:      append([]string(nil), dc.ActionDomains...),
		PressureDomains:    append([]string(nil), dc.PressureDomains...),
		OccurrenceTriggers: append([]string(nil), dc.OccurrenceTriggers...),
		EraTransitionHooks: append([]string(nil), dc.EraTransitionHooks...),
	}

	for _, ek := range dc.EntityKinds {
		d.EntityKinds[ek.Kind] = schema.EntityKindDef{
			Kind:          ek.Kind,
			Subtypes:      append([]string(nil), ek.Subtypes...),
			Statuses:      append([]string(nil), ek.Statuses...),
			DefaultStatus: ek.DefaultStatus,
			Snapshot: schema.SnapshotConfig{
				IncludeDescription: ek.SnapshotIncludeDescription,
				IncludeTags:        ek.SnapshotIncludeTags,
				MaxLoreNoteLen:     ek.SnapshotMaxLoreNoteLen,
			},
		}
	}

	for _, rk := range dc.RelationshipKinds {
		mutability := schema.Mutable
		if rk.Mutability == "immutable" {
			mutability = schema.Immutable
		}
		d.RelationshipKinds[rk.Kind] = schema.RelationshipKindDef{
			Kind:            rk.Kind,
			SrcKinds:        append([]string(nil), rk.SrcKinds...),
			DstKinds:        append([]string(nil), rk.DstKinds...),
			Mutability:      mutability,
			Protected:       rk.Protected,
			IsLineage:       rk.IsLineage,
			DistanceRange:   rk.DistanceRange,
			DefaultStrength: rk.DefaultStrength,
			Category:        graph.Category(rk.Category),
			ConflictsWith:   append([]string(nil), rk.ConflictsWith...),
			AllowParallel:   rk.AllowParallel,
		}
	}

	for _, sp := range dc.CoordinateSpaces {
		space, err := buildSpace(&sp)
		if err != nil {
			return nil, fmt.Errorf("config: coordinate space %q: %w", sp.ID, err)
		}
		d.CoordinateSpaces[sp.ID] = *space
	}

	return d, nil
}

func buildSpace(sp *CoordinateSpaceConfig) (*coordgeo.SpaceConfig, error) {
	plane, err := buildAxis(&sp.Plane)
	if err != nil {
		return nil, fmt.Errorf("plane axis: %w", err)
	}
	sectorX, err := buildAxis(&sp.SectorX)
	if err != nil {
		return nil, fmt.Errorf("sector_x axis: %w", err)
	}
	sectorY, err := buildAxis(&sp.SectorY)
	if err != nil {
		return nil, fmt.Errorf("sector_y axis: %w", err)
	}
	cellX, err := buildAxis(&sp.CellX)
	if err != nil {
		return nil, fmt.Errorf("cell_x axis: %w", err)
	}
	cellY, err := buildAxis(&sp.CellY)
	if err != nil {
		return nil, fmt.Errorf("cell_y axis: %w", err)
	}
	zBand, err := buildAxis(&sp.ZBand)
	if err != nil {
		return nil, fmt.Errorf("z_band axis: %w", err)
	}

	out := &coordgeo.SpaceConfig{
		ID:                   sp.ID,
		Plane:                *plane,
		SectorX:              *sectorX,
		SectorY:              *sectorY,
		CellX:                *cellX,
		CellY:                *cellY,
		ZBand:                *zBand,
		CrossPlaneMultiplier: make(map[string]float64, len(sp.CrossPlaneMultiplier)),
		DefaultsByKind:       make(map[string]coordgeo.Coordinate, len(sp.DefaultsByKind)),
	}
	for pair, mult := range sp.CrossPlaneMultiplier {
		out.CrossPlaneMultiplier[pair] = mult
	}
	for kind, def := range sp.DefaultsByKind {
		out.DefaultsByKind[kind] = coordgeo.Coordinate{
			Plane:   coordgeo.Enum(def.Plane),
			SectorX: coordgeo.Num(def.SectorX),
			SectorY: coordgeo.Num(def.SectorY),
			CellX:   coordgeo.Num(def.CellX),
			CellY:   coordgeo.Num(def.CellY),
			ZBand:   coordgeo.Enum(def.ZBand),
		}
	}
	return out, nil
}

func buildAxis(a *AxisConfig) (*coordgeo.AxisSpec, error) {
	spec := &coordgeo.AxisSpec{
		Min:      a.Min,
		Max:      a.Max,
		MaxDepth: a.MaxDepth,
		Weight:   a.Weight,
	}
	switch a.Semantics {
	case "numeric", "":
		spec.Semantics = coordgeo.SemanticNumeric
		spec.Default = coordgeo.Num(a.DefaultNum)
	case "enum":
		spec.Semantics = coordgeo.SemanticEnum
		spec.EnumValues = make(map[string]float64, len(a.EnumValues))
		for k, v := range a.EnumValues {
			spec.EnumValues[k] = v
		}
		spec.Default = coordgeo.Enum(a.DefaultEnum)
	case "hierarchical":
		spec.Semantics = coordgeo.SemanticHierarchical
		spec.Default = coordgeo.Depth(a.DefaultDepth)
	default:
		return nil, fmt.Errorf("unknown axis semantics %q", a.Semantics)
	}
	return spec, nil
}

func buildRegistries(regs []EntityRegistryConfig) ([]schema.EntityRegistry, error) {
	out := make([]schema.EntityRegistry, 0, len(regs))
	for _, r := range regs {
		reg := schema.EntityRegistry{
			Kind:    r.Kind,
			Subtype: r.Subtype,
			Target:  r.Target,
		}
		if r.Lineage != nil {
			reg.Lineage = &schema.LineageConfig{
				RelationshipKind: r.Lineage.RelationshipKind,
				DistanceRange:    r.Lineage.DistanceRange,
				// FindAncestor is bound by the caller; see [Built].
			}
		}
		out = append(out, reg)
	}
	return out, nil
}

func buildDriverConfig(ec *EngineConfig) (driver.Config, error) {
	eras := make([]driver.EraConfig, 0, len(ec.Eras))
	for _, e := range ec.Eras {
		epochLength := e.EpochLength
		if epochLength == 0 {
			epochLength = ec.EpochLength
		}
		ticksPerGrowth := e.SimulationTicksPerGrowth
		if ticksPerGrowth == 0 {
			ticksPerGrowth = ec.SimulationTicksPerGrowth
		}
		eras = append(eras, driver.EraConfig{
			ID:                       e.ID,
			EpochLength:              epochLength,
			SimulationTicksPerGrowth: ticksPerGrowth,
			TemplateWeights:          e.TemplateWeights,
			SystemModifiers:          e.SystemModifiers,
		})
	}

	rules := make([]driver.PressureRule, 0, len(ec.Pressures))
	for _, name := range ec.Pressures {
		rules = append(rules, driver.PressureRule{Name: name})
		// GrowthFunc is bound by the caller; see [Built].
	}

	return driver.Config{
		Eras:                  eras,
		MaxTicks:              ec.MaxTicks,
		ScaleFactor:            ec.ScaleFactor,
		TargetEntitiesPerKind:  ec.TargetEntitiesPerKind,
		PressureRules:          rules,
	}, nil
}

func buildFeedbackLoops(loops []FeedbackLoopConfig) []feedback.Loop {
	out := make([]feedback.Loop, 0, len(loops))
	for _, l := range loops {
		loopType := feedback.Positive
		if l.Type == "negative" {
			loopType = feedback.Negative
		}
		out = append(out, feedback.Loop{
			ID:       l.ID,
			Type:     loopType,
			Source:   l.Source,
			Target:   l.Target,
			Strength: l.Strength,
			Delay:    l.Delay,
		})
	}
	return out
}

func buildDistributionTargets(dt *DistributionTargetsConfig) (*distribution.Targets, error) {
	t := &distribution.Targets{
		ClusteringStrengthThreshold: dt.ClusteringStrengthThreshold,
		ProminenceTargets:           make(map[graph.Prominence]float64, len(dt.ProminenceTargets)),
		TargetMaxSingleTypeRatio:    dt.TargetMaxSingleTypeRatio,
		MinTypesPresent:             dt.MinTypesPresent,
		TargetCategoryBalance:       make(map[graph.Category]float64, len(dt.TargetCategoryBalance)),
		TargetAvgClusterSize:        dt.TargetAvgClusterSize,
		TargetIntraClusterDensity:   dt.TargetIntraClusterDensity,
		TargetInterClusterDensity:   dt.TargetInterClusterDensity,
		TargetIsolatedRatio:         dt.TargetIsolatedRatio,
	}
	for k, v := range dt.ProminenceTargets {
		p := graph.Prominence(k)
		if !p.Valid() {
			return nil, fmt.Errorf("distribution_targets.prominence_targets: %q is not a valid prominence level", k)
		}
		t.ProminenceTargets[p] = v
	}
	for k, v := range dt.TargetCategoryBalance {
		t.TargetCategoryBalance[graph.Category(k)] = v
	}
	t.CorrectionWeights.EntityKind = dt.CorrectionWeights.EntityKind
	t.CorrectionWeights.Prominence = dt.CorrectionWeights.Prominence
	t.CorrectionWeights.RelationshipDiversity = dt.CorrectionWeights.RelationshipDiversity
	t.CorrectionWeights.Connectivity = dt.CorrectionWeights.Connectivity
	return t, nil
}
