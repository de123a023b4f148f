package population

import (
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/schema"
)

const defaultEWMAAlpha = 0.3

// Tracker maintains entity, relationship, and pressure metrics across ticks
// (spec §4.E). It is driven entirely by [Tracker.Update] calls against a
// read-only graph view; it holds no reference to the store itself.
type Tracker struct {
	historyWindow int
	alpha         float64

	entity       map[string]*Metric
	relationship map[string]*Metric
	pressure     map[string]*Metric
}

// NewTracker initialises zero-valued entries for every declared (kind,
// subtype) registry, relationship kind, and pressure name, so feedback
// loops can find them even before the first entity of a kind is created
// (spec §4.E "Initialises entries for every declared (kind, subtype) even
// at zero").
func NewTracker(registries []schema.EntityRegistry, relationshipKinds []string, pressureNames []string, historyWindow int) *Tracker {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	t := &Tracker{
		historyWindow: historyWindow,
		alpha:         defaultEWMAAlpha,
		entity:        make(map[string]*Metric),
		relationship:  make(map[string]*Metric),
		pressure:      make(map[string]*Metric),
	}
	for _, reg := range registries {
		t.entity[entityKey(reg.Kind, reg.Subtype)] = &Metric{Target: float64(reg.Target)}
	}
	for _, kind := range relationshipKinds {
		t.relationship[kind] = &Metric{}
	}
	for _, name := range pressureNames {
		t.pressure[name] = &Metric{}
	}
	return t
}

// Update recomputes every tracked metric from the current graph state.
func (t *Tracker) Update(view graph.View) {
	for key, m := range t.entity {
		kind, subtype := splitEntityKey(key)
		count := len(view.FindEntities(graph.EntityCriteria{Kind: kind, Subtype: subtype}))
		advance(m, float64(count), t.alpha, t.historyWindow)
	}
	for kind, m := range t.relationship {
		count := len(view.FindRelationships(graph.RelationshipCriteria{Kind: kind}))
		advance(m, float64(count), t.alpha, t.historyWindow)
	}
	for name, m := range t.pressure {
		advance(m, view.Pressure(name), t.alpha, t.historyWindow)
	}
}

func advance(m *Metric, value float64, alpha float64, window int) {
	delta := value - m.Value
	m.Trend = alpha*delta + (1-alpha)*m.Trend
	m.Value = value
	if m.Target != 0 {
		m.Deviation = (value - m.Target) / m.Target
	} else {
		m.Deviation = 0
	}
	m.History = append(m.History, value)
	if len(m.History) > window {
		m.History = m.History[len(m.History)-window:]
	}
}

// EntityMetric returns the tracked metric for (kind, subtype).
func (t *Tracker) EntityMetric(kind, subtype string) (Metric, bool) {
	m, ok := t.entity[entityKey(kind, subtype)]
	if !ok {
		return Metric{}, false
	}
	return *m, true
}

// RelationshipMetric returns the tracked metric for a relationship kind.
func (t *Tracker) RelationshipMetric(kind string) (Metric, bool) {
	m, ok := t.relationship[kind]
	if !ok {
		return Metric{}, false
	}
	return *m, true
}

// PressureMetric returns the tracked metric for a pressure name.
func (t *Tracker) PressureMetric(name string) (Metric, bool) {
	m, ok := t.pressure[name]
	if !ok {
		return Metric{}, false
	}
	return *m, true
}

// AllEntityMetrics returns a copy of every tracked (kind,subtype) metric,
// keyed the same way as [Tracker.EntityMetric].
func (t *Tracker) AllEntityMetrics() map[string]Metric {
	out := make(map[string]Metric, len(t.entity))
	for key, m := range t.entity {
		out[key] = *m
	}
	return out
}

// Overpopulated returns entity keys whose deviation is >= threshold.
func (t *Tracker) Overpopulated(threshold float64) []string {
	var out []string
	for key, m := range t.entity {
		if m.Deviation >= threshold {
			out = append(out, key)
		}
	}
	return out
}

// Underpopulated returns entity keys whose deviation is <= -threshold.
func (t *Tracker) Underpopulated(threshold float64) []string {
	var out []string
	for key, m := range t.entity {
		if m.Deviation <= -threshold {
			out = append(out, key)
		}
	}
	return out
}

func splitEntityKey(key string) (kind, subtype string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}
