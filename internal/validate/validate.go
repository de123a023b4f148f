// Package validate implements the startup validator and framework
// primitives (spec §4.I): it checks a Domain and the templates/systems
// wired against it for structural errors before a [driver.Driver] is ever
// run. Errors abort startup; warnings are only surfaced.
package validate

import (
	"fmt"
	"sort"

	"github.com/mrwong99/worldforge/internal/runtime"
	"github.com/mrwong99/worldforge/internal/schema"
)

// Result is the outcome of [Check]. Errors are fatal (spec §4.I "Errors
// abort startup"); Warnings never block and are meant to be logged.
type Result struct {
	Errors   []string
	Warnings []string
}

// OK reports whether no errors were found. Warnings do not affect OK.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Input bundles everything the validator needs to cross-check a domain
// against the templates, systems, and pressures it will run with.
type Input struct {
	Domain        *schema.Domain
	Templates     []runtime.GrowthTemplate
	Systems       []runtime.SimulationSystem
	PressureNames []string
}

// Check runs every startup validation rule (spec §4.I) and returns the
// accumulated errors and warnings. It never panics; a nil Domain is itself
// reported as an error rather than causing a crash.
func Check(in Input) Result {
	var r Result
	if in.Domain == nil {
		r.Errors = append(r.Errors, "domain schema is nil")
		return r
	}

	checkEntityKinds(in.Domain, &r)
	checkRelationshipKinds(in.Domain, &r)
	checkFrameworkPrimitives(in.Domain, &r)

	pressures := toSet(in.PressureNames)
	for _, tmpl := range in.Templates {
		checkContracted(tmpl.ID(), "template", tmpl, in.Domain, pressures, &r)
	}
	for _, sys := range in.Systems {
		checkContracted(sys.ID(), "system", sys, in.Domain, pressures, &r)
	}

	sort.Strings(r.Errors)
	sort.Strings(r.Warnings)
	return r
}

// checkEntityKinds verifies every declared entity kind has at least one
// subtype and at least one status value (spec §4.I).
func checkEntityKinds(d *schema.Domain, r *Result) {
	for kind, def := range d.EntityKinds {
		if len(def.Subtypes) == 0 {
			r.Errors = append(r.Errors, fmt.Sprintf("entity kind %q declares no subtypes", kind))
		}
		if len(def.Statuses) == 0 {
			r.Errors = append(r.Errors, fmt.Sprintf("entity kind %q declares no statuses", kind))
		}
		if def.DefaultStatus != "" && !containsStr(def.Statuses, def.DefaultStatus) {
			r.Errors = append(r.Errors, fmt.Sprintf("entity kind %q: defaultStatus %q is not among its declared statuses", kind, def.DefaultStatus))
		}
	}
}

// checkRelationshipKinds verifies every declared relationship kind
// references only declared entity kinds in srcKinds/dstKinds (spec §4.I).
// Framework entity kinds (era, occurrence) are always valid endpoints even
// though no domain declares them itself.
func checkRelationshipKinds(d *schema.Domain, r *Result) {
	for kind, def := range d.RelationshipKinds {
		for _, src := range def.SrcKinds {
			if !validEntityKind(d, src) {
				r.Errors = append(r.Errors, fmt.Sprintf("relationship kind %q: srcKind %q is not a declared entity kind", kind, src))
			}
		}
		for _, dst := range def.DstKinds {
			if !validEntityKind(d, dst) {
				r.Errors = append(r.Errors, fmt.Sprintf("relationship kind %q: dstKind %q is not a declared entity kind", kind, dst))
			}
		}
		for _, c := range def.ConflictsWith {
			if _, ok := d.RelationshipKinds[c]; !ok {
				r.Warnings = append(r.Warnings, fmt.Sprintf("relationship kind %q: conflictsWith references undeclared kind %q", kind, c))
			}
		}
	}
}

func validEntityKind(d *schema.Domain, kind string) bool {
	if kind == schema.KindEra || kind == schema.KindOccurrence {
		return true
	}
	_, ok := d.EntityKinds[kind]
	return ok
}

// checkFrameworkPrimitives verifies framework kinds and relationships are
// present or at least not in conflict with domain declarations (spec §4.I).
func checkFrameworkPrimitives(d *schema.Domain, r *Result) {
	if _, ok := d.EntityKinds[schema.KindEra]; !ok {
		r.Warnings = append(r.Warnings, fmt.Sprintf("framework entity kind %q is not declared by the domain; it will still be accepted as an endpoint", schema.KindEra))
	}
	if _, ok := d.EntityKinds[schema.KindOccurrence]; !ok {
		r.Warnings = append(r.Warnings, fmt.Sprintf("framework entity kind %q is not declared by the domain; it will still be accepted as an endpoint", schema.KindOccurrence))
	}
	for _, frameworkRel := range []string{schema.RelSupersedes, schema.RelPartOf, schema.RelActiveDuring} {
		def, ok := d.RelationshipKinds[frameworkRel]
		if !ok {
			continue
		}
		for _, conflicting := range def.ConflictsWith {
			r.Errors = append(r.Errors, fmt.Sprintf("framework relationship %q must not conflict with any kind, but declares conflictsWith %q", frameworkRel, conflicting))
		}
	}
}

// checkContracted probes runtime.Contracted and runtime.Produces; both
// optional interfaces are probed independently since a template or system
// may implement only one.
func checkContracted(id, role string, v any, d *schema.Domain, pressures map[string]bool, r *Result) {
	if c, ok := v.(runtime.Contracted); ok {
		if enabledBy := c.EnabledBy(); enabledBy != nil {
			for _, p := range enabledBy.Pressures {
				if !pressures[p.Name] {
					r.Errors = append(r.Errors, fmt.Sprintf("%s %q: enabledBy references unknown pressure %q", role, id, p.Name))
				}
			}
			for _, ec := range enabledBy.EntityCounts {
				if !validEntityKind(d, ec.Kind) {
					r.Errors = append(r.Errors, fmt.Sprintf("%s %q: enabledBy references unknown entity kind %q", role, id, ec.Kind))
				}
			}
		}
	}
	if p, ok := v.(runtime.Produces); ok {
		for _, produced := range p.ProducedKinds() {
			if !validEntityKind(d, produced.Kind) {
				r.Errors = append(r.Errors, fmt.Sprintf("%s %q: metadata.produces references unknown entity kind %q", role, id, produced.Kind))
			}
		}
	}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func containsStr(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
