package config

// Diff describes what changed between two domain/engine configs, for
// logging and audit purposes only. A reload never patches a running
// [schema.Domain] field by field — the watcher only hands the old and new
// [Config] to its onChange callback and never touches a Domain already
// built (package schema's doc comment: "immutable after construction").
// Diff exists so a reload can be logged meaningfully instead of silently.
type Diff struct {
	EntityKindsAdded     []string
	EntityKindsRemoved   []string
	EntityKindsChanged   []string
	RelKindsAdded        []string
	RelKindsRemoved      []string
	RelKindsChanged      []string
	CoordinateSpacesAdded   []string
	CoordinateSpacesRemoved []string
	ErasChanged          bool
	PressuresChanged     bool
	FeedbackLoopsChanged bool
}

// Changed reports whether any tracked difference was found.
func (d Diff) Changed() bool {
	return len(d.EntityKindsAdded) > 0 || len(d.EntityKindsRemoved) > 0 || len(d.EntityKindsChanged) > 0 ||
		len(d.RelKindsAdded) > 0 || len(d.RelKindsRemoved) > 0 || len(d.RelKindsChanged) > 0 ||
		len(d.CoordinateSpacesAdded) > 0 || len(d.CoordinateSpacesRemoved) > 0 ||
		d.ErasChanged || d.PressuresChanged || d.FeedbackLoopsChanged
}

// DiffConfigs compares old and new configs and reports what changed.
func DiffConfigs(old, new *Config) Diff {
	var d Diff

	oldEK := keyedEntityKinds(old.Domain.EntityKinds)
	newEK := keyedEntityKinds(new.Domain.EntityKinds)
	for kind, ek := range oldEK {
		nk, ok := newEK[kind]
		if !ok {
			d.EntityKindsRemoved = append(d.EntityKindsRemoved, kind)
			continue
		}
		if !entityKindEqual(ek, nk) {
			d.EntityKindsChanged = append(d.EntityKindsChanged, kind)
		}
	}
	for kind := range newEK {
		if _, ok := oldEK[kind]; !ok {
			d.EntityKindsAdded = append(d.EntityKindsAdded, kind)
		}
	}

	oldRK := keyedRelKinds(old.Domain.RelationshipKinds)
	newRK := keyedRelKinds(new.Domain.RelationshipKinds)
	for kind, rk := range oldRK {
		nk, ok := newRK[kind]
		if !ok {
			d.RelKindsRemoved = append(d.RelKindsRemoved, kind)
			continue
		}
		if !relKindEqual(rk, nk) {
			d.RelKindsChanged = append(d.RelKindsChanged, kind)
		}
	}
	for kind := range newRK {
		if _, ok := oldRK[kind]; !ok {
			d.RelKindsAdded = append(d.RelKindsAdded, kind)
		}
	}

	oldSpaces := keyedSpaceIDs(old.Domain.CoordinateSpaces)
	newSpaces := keyedSpaceIDs(new.Domain.CoordinateSpaces)
	for id := range oldSpaces {
		if !newSpaces[id] {
			d.CoordinateSpacesRemoved = append(d.CoordinateSpacesRemoved, id)
		}
	}
	for id := range newSpaces {
		if !oldSpaces[id] {
			d.CoordinateSpacesAdded = append(d.CoordinateSpacesAdded, id)
		}
	}

	d.ErasChanged = !erasEqual(old.Engine.Eras, new.Engine.Eras)
	d.PressuresChanged = !stringsEqual(old.Engine.Pressures, new.Engine.Pressures)
	d.FeedbackLoopsChanged = !feedbackLoopsEqual(old.Engine.FeedbackLoops, new.Engine.FeedbackLoops)

	return d
}

func keyedEntityKinds(ks []EntityKindConfig) map[string]EntityKindConfig {
	m := make(map[string]EntityKindConfig, len(ks))
	for _, k := range ks {
		m[k.Kind] = k
	}
	return m
}

func keyedRelKinds(ks []RelationshipKindConfig) map[string]RelationshipKindConfig {
	m := make(map[string]RelationshipKindConfig, len(ks))
	for _, k := range ks {
		m[k.Kind] = k
	}
	return m
}

func keyedSpaceIDs(ss []CoordinateSpaceConfig) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s.ID] = true
	}
	return m
}

func entityKindEqual(a, b EntityKindConfig) bool {
	return stringsEqual(a.Subtypes, b.Subtypes) &&
		stringsEqual(a.Statuses, b.Statuses) &&
		a.DefaultStatus == b.DefaultStatus
}

func relKindEqual(a, b RelationshipKindConfig) bool {
	return stringsEqual(a.SrcKinds, b.SrcKinds) &&
		stringsEqual(a.DstKinds, b.DstKinds) &&
		a.Mutability == b.Mutability &&
		a.Protected == b.Protected &&
		a.IsLineage == b.IsLineage &&
		a.Category == b.Category
}

func erasEqual(a, b []EraConfig) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].EpochLength != b[i].EpochLength ||
			a[i].SimulationTicksPerGrowth != b[i].SimulationTicksPerGrowth {
			return false
		}
	}
	return true
}

func feedbackLoopsEqual(a, b []FeedbackLoopConfig) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Type != b[i].Type || a[i].Source != b[i].Source ||
			a[i].Target != b[i].Target || a[i].Strength != b[i].Strength || a[i].Delay != b[i].Delay {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
