package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg describes a coherent domain and engine
// configuration (spec §4.I runs the deeper structural checks once a
// [schema.Domain] exists; Validate catches shape errors earlier, at the
// YAML-decoding boundary, so a malformed file never reaches Build).
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Domain.ID == "" {
		errs = append(errs, errors.New("domain.id is required"))
	}

	seenEntityKinds := make(map[string]int, len(cfg.Domain.EntityKinds))
	for i, k := range cfg.Domain.EntityKinds {
		prefix := fmt.Sprintf("domain.entity_kinds[%d]", i)
		if k.Kind == "" {
			errs = append(errs, fmt.Errorf("%s.kind is required", prefix))
			continue
		}
		if prev, ok := seenEntityKinds[k.Kind]; ok {
			errs = append(errs, fmt.Errorf("%s.kind %q is a duplicate of entity_kinds[%d]", prefix, k.Kind, prev))
		}
		seenEntityKinds[k.Kind] = i
		if len(k.Subtypes) == 0 {
			errs = append(errs, fmt.Errorf("%s: entity kind %q declares no subtypes", prefix, k.Kind))
		}
		if len(k.Statuses) == 0 {
			errs = append(errs, fmt.Errorf("%s: entity kind %q declares no statuses", prefix, k.Kind))
		}
	}

	seenRelKinds := make(map[string]int, len(cfg.Domain.RelationshipKinds))
	for i, rk := range cfg.Domain.RelationshipKinds {
		prefix := fmt.Sprintf("domain.relationship_kinds[%d]", i)
		if rk.Kind == "" {
			errs = append(errs, fmt.Errorf("%s.kind is required", prefix))
			continue
		}
		if prev, ok := seenRelKinds[rk.Kind]; ok {
			errs = append(errs, fmt.Errorf("%s.kind %q is a duplicate of relationship_kinds[%d]", prefix, rk.Kind, prev))
		}
		seenRelKinds[rk.Kind] = i
		if rk.Mutability != "" && rk.Mutability != "immutable" && rk.Mutability != "mutable" {
			errs = append(errs, fmt.Errorf("%s.mutability %q is invalid; valid values: immutable, mutable", prefix, rk.Mutability))
		}
		if rk.IsLineage && rk.DistanceRange[0] > rk.DistanceRange[1] {
			errs = append(errs, fmt.Errorf("%s: distance_range %v is inverted", prefix, rk.DistanceRange))
		}
	}

	for i, sp := range cfg.Domain.CoordinateSpaces {
		prefix := fmt.Sprintf("domain.coordinate_spaces[%d]", i)
		if sp.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		}
	}

	if cfg.Engine.EpochLength < 0 {
		errs = append(errs, errors.New("engine.epoch_length must be >= 1 when set"))
	}
	if cfg.Engine.SimulationTicksPerGrowth < 0 {
		errs = append(errs, errors.New("engine.simulation_ticks_per_growth must be >= 1 when set"))
	}
	if cfg.Engine.TargetEntitiesPerKind < 0 {
		errs = append(errs, errors.New("engine.target_entities_per_kind must be >= 1 when set"))
	}
	if cfg.Engine.ScaleFactor == 0 {
		cfg.Engine.ScaleFactor = 1.0
		slog.Warn("engine.scale_factor not set; defaulting to 1.0")
	}

	for i, era := range cfg.Engine.Eras {
		prefix := fmt.Sprintf("engine.eras[%d]", i)
		if era.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		}
	}

	seenRegistries := make(map[string]int, len(cfg.Engine.EntityRegistries))
	for i, reg := range cfg.Engine.EntityRegistries {
		prefix := fmt.Sprintf("engine.entity_registries[%d]", i)
		key := reg.Kind + "/" + reg.Subtype
		if reg.Kind == "" {
			errs = append(errs, fmt.Errorf("%s.kind is required", prefix))
		}
		if prev, ok := seenRegistries[key]; ok {
			errs = append(errs, fmt.Errorf("%s: (kind,subtype) %q is a duplicate of entity_registries[%d]", prefix, key, prev))
		}
		seenRegistries[key] = i
		if reg.Target < 0 {
			errs = append(errs, fmt.Errorf("%s.target must be >= 0", prefix))
		}
	}

	for i, loop := range cfg.Engine.FeedbackLoops {
		prefix := fmt.Sprintf("engine.feedback_loops[%d]", i)
		if loop.Type != "" && loop.Type != "positive" && loop.Type != "negative" {
			errs = append(errs, fmt.Errorf("%s.type %q is invalid; valid values: positive, negative", prefix, loop.Type))
		}
		if loop.Delay < 0 {
			errs = append(errs, fmt.Errorf("%s.delay must be >= 0", prefix))
		}
	}

	return errors.Join(errs...)
}
