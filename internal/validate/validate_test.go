package validate

import (
	"testing"

	"github.com/mrwong99/worldforge/internal/contract"
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/runtime"
	"github.com/mrwong99/worldforge/internal/schema"
)

func validDomain() *schema.Domain {
	return &schema.Domain{
		EntityKinds: map[string]schema.EntityKindDef{
			"npc":        {Kind: "npc", Subtypes: []string{"villager"}, Statuses: []string{"alive"}, DefaultStatus: "alive"},
			"settlement": {Kind: "settlement", Subtypes: []string{"village"}, Statuses: []string{"active"}},
		},
		RelationshipKinds: map[string]schema.RelationshipKindDef{
			"lives_in": {Kind: "lives_in", SrcKinds: []string{"npc"}, DstKinds: []string{"settlement"}},
		},
	}
}

func TestCheck_ValidDomainProducesNoErrors(t *testing.T) {
	t.Parallel()
	r := Check(Input{Domain: validDomain()})
	if !r.OK() {
		t.Fatalf("expected no errors, got %v", r.Errors)
	}
}

func TestCheck_EntityKindMissingSubtypesOrStatusesIsAnError(t *testing.T) {
	t.Parallel()
	d := validDomain()
	d.EntityKinds["ghost"] = schema.EntityKindDef{Kind: "ghost"}
	r := Check(Input{Domain: d})
	if r.OK() {
		t.Fatal("expected errors for entity kind with no subtypes/statuses")
	}
}

func TestCheck_RelationshipKindReferencingUnknownEntityKindIsAnError(t *testing.T) {
	t.Parallel()
	d := validDomain()
	d.RelationshipKinds["haunts"] = schema.RelationshipKindDef{Kind: "haunts", SrcKinds: []string{"ghost"}, DstKinds: []string{"settlement"}}
	r := Check(Input{Domain: d})
	if r.OK() {
		t.Fatal("expected an error for an undeclared srcKind")
	}
}

func TestCheck_FrameworkEntityKindsOnlyWarnWhenAbsent(t *testing.T) {
	t.Parallel()
	r := Check(Input{Domain: validDomain()})
	if !r.OK() {
		t.Fatalf("absent framework kinds must not be errors, got %v", r.Errors)
	}
	if len(r.Warnings) == 0 {
		t.Fatal("expected warnings about missing framework entity kinds")
	}
}

type fakeContractedTemplate struct {
	id        string
	enabledBy *contract.EnabledBy
	produces  []contract.ProducedKind
}

func (t fakeContractedTemplate) ID() string { return t.id }
func (t fakeContractedTemplate) Expand(view graph.View, targets []graph.Entity) (runtime.ExpandResult, error) {
	return runtime.ExpandResult{}, nil
}
func (t fakeContractedTemplate) EnabledBy() *contract.EnabledBy { return t.enabledBy }
func (t fakeContractedTemplate) Affects() *contract.Affects     { return nil }
func (t fakeContractedTemplate) ProducedKinds() []contract.ProducedKind { return t.produces }

func TestCheck_TemplateEnabledByUnknownPressureIsAnError(t *testing.T) {
	t.Parallel()
	tmpl := fakeContractedTemplate{
		id:        "found_settlement",
		enabledBy: &contract.EnabledBy{Pressures: []contract.PressureRequirement{{Name: "unrest", Threshold: 0.5}}},
	}
	r := Check(Input{Domain: validDomain(), Templates: []runtime.GrowthTemplate{tmpl}, PressureNames: []string{"scarcity"}})
	if r.OK() {
		t.Fatal("expected an error for an unknown pressure name")
	}
}

func TestCheck_TemplateProducesUnknownKindIsAnError(t *testing.T) {
	t.Parallel()
	tmpl := fakeContractedTemplate{
		id:       "found_settlement",
		produces: []contract.ProducedKind{{Kind: "kingdom"}},
	}
	r := Check(Input{Domain: validDomain(), Templates: []runtime.GrowthTemplate{tmpl}})
	if r.OK() {
		t.Fatal("expected an error for an unknown produced kind")
	}
}

func TestCheck_TemplateEnabledByKnownPressureAndKindPasses(t *testing.T) {
	t.Parallel()
	tmpl := fakeContractedTemplate{
		id: "found_settlement",
		enabledBy: &contract.EnabledBy{
			Pressures:    []contract.PressureRequirement{{Name: "unrest", Threshold: 0.5}},
			EntityCounts: []contract.EntityCountRequirement{{Kind: "npc", Min: 1}},
		},
		produces: []contract.ProducedKind{{Kind: "settlement", Subtype: "village"}},
	}
	r := Check(Input{Domain: validDomain(), Templates: []runtime.GrowthTemplate{tmpl}, PressureNames: []string{"unrest"}})
	if !r.OK() {
		t.Fatalf("expected no errors, got %v", r.Errors)
	}
}
