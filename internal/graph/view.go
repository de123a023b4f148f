package graph

// View is a read-only facade over a [Store] (spec §9 "GraphView"). Templates,
// systems' canApply/findTargets, custom contract predicates, and feedback
// loop source-metric lookups may only reach the graph through a View — they
// have no access to any mutating method.
type View struct {
	store *Store
}

// NewView wraps store in a read-only facade.
func NewView(store *Store) View { return View{store: store} }

func (v View) GetEntity(id string) (Entity, bool)                 { return v.store.GetEntity(id) }
func (v View) HasEntity(id string) bool                           { return v.store.HasEntity(id) }
func (v View) EntityCount() int                                   { return v.store.EntityCount() }
func (v View) Entities() []Entity                                 { return v.store.Entities() }
func (v View) EntityIDs() []string                                { return v.store.EntityIDs() }
func (v View) ForEachEntity(fn func(Entity))                      { v.store.ForEachEntity(fn) }
func (v View) FindEntities(c EntityCriteria) []Entity             { return v.store.FindEntities(c) }
func (v View) EntitiesByKind(kind string) []Entity                { return v.store.EntitiesByKind(kind) }
func (v View) ConnectedEntities(id, relKind string) []Entity      { return v.store.ConnectedEntities(id, relKind) }
func (v View) Relationships() []Relationship                      { return v.store.Relationships() }
func (v View) RelationshipCount() int                             { return v.store.RelationshipCount() }
func (v View) FindRelationships(c RelationshipCriteria) []Relationship {
	return v.store.FindRelationships(c)
}
func (v View) EntityRelationships(id string, dir Direction) []Relationship {
	return v.store.EntityRelationships(id, dir)
}
func (v View) HasRelationship(src, dst, kind string) bool { return v.store.HasRelationship(src, dst, kind) }
func (v View) Tick() int                                  { return v.store.Tick() }
func (v View) Epoch() int                                 { return v.store.Epoch() }
func (v View) CurrentEra() string                         { return v.store.CurrentEra() }
func (v View) Pressures() map[string]float64              { return v.store.Pressures() }
func (v View) Pressure(name string) float64               { return v.store.Pressure(name) }
func (v View) History() []HistoryEntry                    { return v.store.History() }
