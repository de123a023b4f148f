package graph

import "fmt"

// Store is the sole authority over entities and relationships (spec §4.A).
// It is owned exclusively by the driver's call stack: per spec §5 the
// simulation is single-threaded and cooperative, so unlike the teacher's
// concurrency-safe stores (internal/entity.Store, pkg/memory.KnowledgeGraph),
// Store performs no internal locking — callers outside the driver's tick
// loop must not touch it concurrently.
type Store struct {
	entities      map[string]*Entity
	relationships []*Relationship

	tagIndex     map[string]map[string]bool // tag -> entity id set
	relByKind    map[string][]*Relationship
	relByKindSrc map[string]map[string][]*Relationship // kind -> src -> rels

	tick       int
	epoch      int
	currentEra string
	pressures  map[string]float64
	history    []HistoryEntry
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		entities:     make(map[string]*Entity),
		tagIndex:     make(map[string]map[string]bool),
		relByKind:    make(map[string][]*Relationship),
		relByKindSrc: make(map[string]map[string][]*Relationship),
		pressures:    make(map[string]float64),
	}
}

// ---------------------------------------------------------------- reads ---

func (s *Store) GetEntity(id string) (Entity, bool) {
	e, ok := s.entities[id]
	if !ok {
		return Entity{}, false
	}
	return e.Clone(), true
}

func (s *Store) HasEntity(id string) bool {
	_, ok := s.entities[id]
	return ok
}

func (s *Store) EntityCount() int { return len(s.entities) }

func (s *Store) Entities() []Entity {
	out := make([]Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e.Clone())
	}
	return out
}

func (s *Store) EntityIDs() []string {
	out := make([]string, 0, len(s.entities))
	for id := range s.entities {
		out = append(out, id)
	}
	return out
}

// ForEachEntity calls fn for every entity. Iteration order is unspecified.
// fn receives a defensive copy; mutating it has no effect on the store.
func (s *Store) ForEachEntity(fn func(Entity)) {
	for _, e := range s.entities {
		fn(e.Clone())
	}
}

func (s *Store) FindEntities(criteria EntityCriteria) []Entity {
	var candidates map[string]bool
	if criteria.Tag != "" {
		candidates = s.tagIndex[NormalizeTagKey(criteria.Tag)]
	}
	var out []Entity
	if candidates != nil {
		for id := range candidates {
			e, ok := s.entities[id]
			if ok && criteria.matches(e) {
				out = append(out, e.Clone())
			}
		}
		return out
	}
	for _, e := range s.entities {
		if criteria.matches(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func (s *Store) EntitiesByKind(kind string) []Entity {
	return s.FindEntities(EntityCriteria{Kind: kind})
}

// ConnectedEntities returns the entities reachable from id by one hop,
// optionally restricted to relKind (empty matches all kinds).
func (s *Store) ConnectedEntities(id string, relKind string) []Entity {
	e, ok := s.entities[id]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []Entity
	for _, l := range e.Links {
		if relKind != "" && l.Kind != relKind {
			continue
		}
		otherID := l.Dst
		if l.Direction == DirectionIn {
			otherID = l.Src
		}
		if otherID == id || seen[otherID] {
			continue
		}
		if other, ok := s.entities[otherID]; ok {
			seen[otherID] = true
			out = append(out, other.Clone())
		}
	}
	return out
}

// ------------------------------------------------------------- mutation ---

// SetEntity inserts or completely replaces an entity. Returns false only
// when the entity's ID is empty.
func (s *Store) SetEntity(e Entity) bool {
	if e.ID == "" {
		return false
	}
	cp := e.Clone()
	cp.UpdatedAt = s.tick
	s.removeFromTagIndex(e.ID)
	s.entities[e.ID] = &cp
	s.addToTagIndex(&cp)
	return true
}

// EntityChanges is a partial update applied by UpdateEntity. Nil fields are
// left unchanged.
type EntityChanges struct {
	Subtype     *string
	Name        *string
	Description *string
	Status      *string
	Prominence  *Prominence
	Tags        map[string]TagValue // merged in, not replaced
	RemoveTags  []string
}

// UpdateEntity applies changes to an existing entity and stamps
// UpdatedAt = currentTick. Returns false if id does not exist (not an
// error — spec §4.A "Failure").
func (s *Store) UpdateEntity(id string, changes EntityChanges) bool {
	e, ok := s.entities[id]
	if !ok {
		return false
	}
	if changes.Subtype != nil {
		e.Subtype = *changes.Subtype
	}
	if changes.Name != nil {
		e.Name = *changes.Name
	}
	if changes.Description != nil {
		e.Description = *changes.Description
	}
	if changes.Status != nil {
		e.Status = *changes.Status
	}
	if changes.Prominence != nil {
		e.Prominence = *changes.Prominence
	}
	if len(changes.Tags) > 0 || len(changes.RemoveTags) > 0 {
		s.removeFromTagIndex(id)
		if e.Tags == nil {
			e.Tags = make(map[string]TagValue)
		}
		for k, v := range changes.Tags {
			e.Tags[NormalizeTagKey(k)] = v
		}
		for _, k := range changes.RemoveTags {
			delete(e.Tags, NormalizeTagKey(k))
		}
		s.addToTagIndex(e)
	}
	e.UpdatedAt = s.tick
	return true
}

// DeleteEntity removes an entity and every relationship that references it.
// Returns false if id does not exist.
func (s *Store) DeleteEntity(id string) bool {
	if _, ok := s.entities[id]; !ok {
		return false
	}
	s.removeFromTagIndex(id)
	delete(s.entities, id)

	kept := s.relationships[:0:0]
	for _, r := range s.relationships {
		if r.Src == id || r.Dst == id {
			continue
		}
		kept = append(kept, r)
	}
	s.relationships = kept
	s.rebuildRelIndex()
	return true
}

func (s *Store) addToTagIndex(e *Entity) {
	for k := range e.Tags {
		nk := NormalizeTagKey(k)
		if s.tagIndex[nk] == nil {
			s.tagIndex[nk] = make(map[string]bool)
		}
		s.tagIndex[nk][e.ID] = true
	}
}

func (s *Store) removeFromTagIndex(id string) {
	e, ok := s.entities[id]
	if !ok {
		return
	}
	for k := range e.Tags {
		nk := NormalizeTagKey(k)
		if set, ok := s.tagIndex[nk]; ok {
			delete(set, id)
		}
	}
}

// ----------------------------------------------------- relationship API ---

func (s *Store) Relationships() []Relationship {
	out := make([]Relationship, 0, len(s.relationships))
	for _, r := range s.relationships {
		out = append(out, r.Clone())
	}
	return out
}

func (s *Store) RelationshipCount() int { return len(s.relationships) }

func (s *Store) FindRelationships(criteria RelationshipCriteria) []Relationship {
	var pool []*Relationship
	switch {
	case criteria.Kind != "" && criteria.Src != "":
		pool = s.relByKindSrc[criteria.Kind][criteria.Src]
	case criteria.Kind != "":
		pool = s.relByKind[criteria.Kind]
	default:
		pool = s.relationships
	}
	var out []Relationship
	for _, r := range pool {
		if criteria.matches(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

func (s *Store) EntityRelationships(id string, dir Direction) []Relationship {
	var out []Relationship
	for _, r := range s.relationships {
		switch dir {
		case DirectionOut:
			if r.Src == id {
				out = append(out, r.Clone())
			}
		case DirectionIn:
			if r.Dst == id {
				out = append(out, r.Clone())
			}
		default:
			if r.Src == id || r.Dst == id {
				out = append(out, r.Clone())
			}
		}
	}
	return out
}

func (s *Store) HasRelationship(src, dst, kind string) bool {
	for _, r := range s.relationships {
		if r.Src == src && r.Dst == dst && (kind == "" || r.Kind == kind) {
			return true
		}
	}
	return false
}

// RelOption configures an AddRelationship call.
type RelOption func(*Relationship)

func WithStrength(s float64) RelOption    { return func(r *Relationship) { r.Strength = s } }
func WithDistance(d float64) RelOption    { return func(r *Relationship) { r.Distance = &d } }
func WithCategory(c Category) RelOption   { return func(r *Relationship) { r.Category = c } }
func WithCatalyzedBy(id string) RelOption { return func(r *Relationship) { r.CatalyzedBy = &id } }

// AddRelationship creates and commits a new active relationship between two
// known entities. Rejected (false, zero value) if either endpoint is
// unknown (spec §4.A "Attempting to add a relationship between unknown ids
// is rejected").
func (s *Store) AddRelationship(kind, src, dst string, opts ...RelOption) (Relationship, bool) {
	if !s.HasEntity(src) || !s.HasEntity(dst) {
		return Relationship{}, false
	}
	r := Relationship{
		Kind: kind, Src: src, Dst: dst,
		Strength: 0.5, CreatedAt: s.tick, Status: StatusActive,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if !s.PushRelationship(r) {
		return Relationship{}, false
	}
	return r, true
}

// PushRelationship commits a fully-formed relationship. Rejected if either
// endpoint is unknown.
func (s *Store) PushRelationship(r Relationship) bool {
	if !s.HasEntity(r.Src) || !s.HasEntity(r.Dst) {
		return false
	}
	cp := r.Clone()
	ptr := &cp
	s.relationships = append(s.relationships, ptr)
	s.indexRelationship(ptr)
	s.addLink(r.Src, Link{Kind: r.Kind, Src: r.Src, Dst: r.Dst, Direction: DirectionOut})
	s.addLink(r.Dst, Link{Kind: r.Kind, Src: r.Src, Dst: r.Dst, Direction: DirectionIn})
	return true
}

// SetRelationships replaces the entire relationship list (used by bulk
// migration/seed paths) and rebuilds every derived index.
func (s *Store) SetRelationships(rels []Relationship) {
	s.relationships = nil
	for _, e := range s.entities {
		e.Links = nil
	}
	for _, r := range rels {
		s.PushRelationship(r)
	}
}

// RemoveRelationship deletes the (src,dst,kind) relationship. Returns false
// if it doesn't exist. Store has no schema knowledge and does not check
// protection: callers enforcing invariant 6 check schema-level protection
// before calling this.
func (s *Store) RemoveRelationship(src, dst, kind string) bool {
	idx := -1
	for i, r := range s.relationships {
		if r.Src == src && r.Dst == dst && r.Kind == kind {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.relationships = append(s.relationships[:idx], s.relationships[idx+1:]...)
	s.rebuildRelIndex()
	s.removeLink(src, Link{Kind: kind, Src: src, Dst: dst, Direction: DirectionOut})
	s.removeLink(dst, Link{Kind: kind, Src: src, Dst: dst, Direction: DirectionIn})
	return true
}

// ArchiveRelationship moves a relationship to historical status and stamps
// ArchivedAt, without removing it (spec §4.H era transitions, §3.4
// "status='historical' relationships never participate in current-state
// analytics but remain in the history log").
func (s *Store) ArchiveRelationship(src, dst, kind string) bool {
	for _, r := range s.relationships {
		if r.Src == src && r.Dst == dst && r.Kind == kind {
			r.Status = StatusHistorical
			t := s.tick
			r.ArchivedAt = &t
			return true
		}
	}
	return false
}

func (s *Store) indexRelationship(r *Relationship) {
	s.relByKind[r.Kind] = append(s.relByKind[r.Kind], r)
	if s.relByKindSrc[r.Kind] == nil {
		s.relByKindSrc[r.Kind] = make(map[string][]*Relationship)
	}
	s.relByKindSrc[r.Kind][r.Src] = append(s.relByKindSrc[r.Kind][r.Src], r)
}

func (s *Store) rebuildRelIndex() {
	s.relByKind = make(map[string][]*Relationship)
	s.relByKindSrc = make(map[string]map[string][]*Relationship)
	for _, r := range s.relationships {
		s.indexRelationship(r)
	}
}

func (s *Store) addLink(entityID string, l Link) {
	e, ok := s.entities[entityID]
	if !ok {
		return
	}
	e.Links = append(e.Links, l)
}

func (s *Store) removeLink(entityID string, l Link) {
	e, ok := s.entities[entityID]
	if !ok {
		return
	}
	for i, existing := range e.Links {
		if existing == l {
			e.Links = append(e.Links[:i], e.Links[i+1:]...)
			return
		}
	}
}

// -------------------------------------------------------- driver clock ---

func (s *Store) Tick() int           { return s.tick }
func (s *Store) Epoch() int          { return s.epoch }
func (s *Store) CurrentEra() string  { return s.currentEra }

func (s *Store) Pressures() map[string]float64 {
	out := make(map[string]float64, len(s.pressures))
	for k, v := range s.pressures {
		out[k] = v
	}
	return out
}

func (s *Store) Pressure(name string) float64 { return s.pressures[name] }

func (s *Store) History() []HistoryEntry {
	return append([]HistoryEntry(nil), s.history...)
}

// The following setters are used only by the driver (package driver) to
// advance the simulation clock; they are exported because driver is a
// separate package, but no template, system, or selector should call them.

func (s *Store) SetTick(t int)          { s.tick = t }
func (s *Store) SetEpoch(e int)         { s.epoch = e }
func (s *Store) SetCurrentEra(era string) { s.currentEra = era }

func (s *Store) SetPressure(name string, v float64) { s.pressures[name] = v }

func (s *Store) AppendHistory(entry HistoryEntry) {
	entry.Tick = s.tick
	s.history = append(s.history, entry)
}

// CheckInvariants verifies the link-consistency and uniqueness invariants
// that must always hold (spec §8, invariants 1-3). It returns the first
// violation found, or nil. Intended for use in tests and as a fatal-error
// guard after bulk mutation (spec §7 "Invariant violation... fatal").
func (s *Store) CheckInvariants() error {
	for _, r := range s.relationships {
		if !s.HasEntity(r.Src) {
			return fmt.Errorf("graph: relationship %s->%s(%s) references missing src", r.Src, r.Dst, r.Kind)
		}
		if !s.HasEntity(r.Dst) {
			return fmt.Errorf("graph: relationship %s->%s(%s) references missing dst", r.Src, r.Dst, r.Kind)
		}
	}
	global := make(map[Key]bool, len(s.relationships))
	for _, r := range s.relationships {
		global[r.Key()] = true
	}
	for _, e := range s.entities {
		for _, l := range e.Links {
			if !global[Key{Kind: l.Kind, Src: l.Src, Dst: l.Dst}] {
				return fmt.Errorf("graph: entity %s has link %s->%s(%s) with no matching relationship", e.ID, l.Src, l.Dst, l.Kind)
			}
		}
	}
	return nil
}
