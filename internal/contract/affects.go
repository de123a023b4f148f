package contract

import "fmt"

const relationshipTolerance = 0.20

// ValidateAffects compares realised counts and pressure deltas against a
// template's or system's declared Affects and returns advisory warnings
// (spec §4.D "Affects validation (advisory)"). Warnings never block; the
// caller appends them to the history log. affects may be nil, in which case
// no warnings are produced.
func ValidateAffects(affects *Affects, createdEntities map[string]int, createdRelationships map[string]int, pressureDeltas map[string]float64) []string {
	if affects == nil {
		return nil
	}
	var warnings []string

	for _, req := range affects.Entities {
		count := createdEntities[entityKey(req.Kind, req.Subtype)]
		if count < req.Min {
			warnings = append(warnings, fmt.Sprintf("entity %s/%s: created %d below declared minimum %d", req.Kind, req.Subtype, count, req.Min))
		}
		if req.Max != nil && count > *req.Max {
			warnings = append(warnings, fmt.Sprintf("entity %s/%s: created %d above declared maximum %d", req.Kind, req.Subtype, count, *req.Max))
		}
	}

	for _, req := range affects.Relationships {
		count := createdRelationships[req.Kind]
		min := float64(req.Min) * (1 - relationshipTolerance)
		if float64(count) < min {
			warnings = append(warnings, fmt.Sprintf("relationship %s: created %d below declared minimum %d (20%% tolerance applied)", req.Kind, count, req.Min))
		}
		if req.Max != nil {
			max := float64(*req.Max) * (1 + relationshipTolerance)
			if float64(count) > max {
				warnings = append(warnings, fmt.Sprintf("relationship %s: created %d above declared maximum %d (20%% tolerance applied)", req.Kind, count, *req.Max))
			}
		}
	}

	for _, req := range affects.PressureDeltas {
		delta := pressureDeltas[req.Name]
		if req.Sign > 0 && delta < 0 {
			warnings = append(warnings, fmt.Sprintf("pressure %q: declared increasing but moved by %.4f", req.Name, delta))
		}
		if req.Sign < 0 && delta > 0 {
			warnings = append(warnings, fmt.Sprintf("pressure %q: declared decreasing but moved by %.4f", req.Name, delta))
		}
	}

	return warnings
}

func entityKey(kind, subtype string) string {
	if subtype == "" {
		return kind
	}
	return kind + "/" + subtype
}
