package graph

// EntityCriteria narrows a [Store.FindEntities] query. All non-zero fields
// AND together (spec §4.A).
type EntityCriteria struct {
	Kind       string
	Subtype    string
	Status     string
	Prominence Prominence
	Culture    string
	Tag        string
	ExcludeIDs map[string]bool
}

func (c EntityCriteria) matches(e *Entity) bool {
	if c.Kind != "" && e.Kind != c.Kind {
		return false
	}
	if c.Subtype != "" && e.Subtype != c.Subtype {
		return false
	}
	if c.Status != "" && e.Status != c.Status {
		return false
	}
	if c.Prominence != "" && e.Prominence != c.Prominence {
		return false
	}
	if c.Culture != "" && e.Culture != c.Culture {
		return false
	}
	if c.Tag != "" {
		want := NormalizeTagKey(c.Tag)
		found := false
		for k := range e.Tags {
			if NormalizeTagKey(k) == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c.ExcludeIDs != nil && c.ExcludeIDs[e.ID] {
		return false
	}
	return true
}

// RelationshipCriteria narrows a [Store.FindRelationships] query. All
// non-zero fields AND together.
type RelationshipCriteria struct {
	Kind        string
	Src         string
	Dst         string
	Category    Category
	MinStrength *float64
}

func (c RelationshipCriteria) matches(r *Relationship) bool {
	if c.Kind != "" && r.Kind != c.Kind {
		return false
	}
	if c.Src != "" && r.Src != c.Src {
		return false
	}
	if c.Dst != "" && r.Dst != c.Dst {
		return false
	}
	if c.Category != "" && r.Category != c.Category {
		return false
	}
	if c.MinStrength != nil && r.Strength < *c.MinStrength {
		return false
	}
	return true
}

// NormalizeTagKey collapses any "name:*" tag key to a single wildcard
// bucket key for saturation accounting (spec §3.4, §4.D "Tag enforcement").
func NormalizeTagKey(key string) string {
	if len(key) > 5 && key[:5] == "name:" {
		return "name:*"
	}
	return key
}
