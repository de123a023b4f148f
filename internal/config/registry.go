package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mrwong99/worldforge/internal/runtime"
)

// ErrNotRegistered is returned by Template/System when no implementation has
// been registered under the requested id.
var ErrNotRegistered = errors.New("config: not registered")

// Registry binds the string ids that eras reference in template_weights and
// system_modifiers to the Go implementations that carry them out. Templates
// and systems are code, not data (spec §6), so a [Config] only ever
// mentions them by id — cmd/worldgen-run populates a Registry once at
// startup and [Build]'s caller resolves every era's weighted id list
// through it before constructing a [driver.Driver].
//
// Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]runtime.GrowthTemplate
	systems   map[string]runtime.SimulationSystem
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]runtime.GrowthTemplate),
		systems:   make(map[string]runtime.SimulationSystem),
	}
}

// RegisterTemplate registers t under its own ID(). Subsequent registrations
// under the same id overwrite the previous one.
func (r *Registry) RegisterTemplate(t runtime.GrowthTemplate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.ID()] = t
}

// RegisterSystem registers s under its own ID().
func (r *Registry) RegisterSystem(s runtime.SimulationSystem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.systems[s.ID()] = s
}

// Template looks up a registered [runtime.GrowthTemplate] by id.
func (r *Registry) Template(id string) (runtime.GrowthTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: template %q", ErrNotRegistered, id)
	}
	return t, nil
}

// System looks up a registered [runtime.SimulationSystem] by id.
func (r *Registry) System(id string) (runtime.SimulationSystem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.systems[id]
	if !ok {
		return nil, fmt.Errorf("%w: system %q", ErrNotRegistered, id)
	}
	return s, nil
}

// Templates resolves every id in ids to its registered implementation,
// typically an era's template_weights key set. It fails on the first
// unresolved id rather than silently dropping it.
func (r *Registry) Templates(ids []string) ([]runtime.GrowthTemplate, error) {
	out := make([]runtime.GrowthTemplate, 0, len(ids))
	for _, id := range ids {
		t, err := r.Template(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Systems resolves every id in ids to its registered implementation,
// typically an era's system_modifiers key set.
func (r *Registry) Systems(ids []string) ([]runtime.SimulationSystem, error) {
	out := make([]runtime.SimulationSystem, 0, len(ids))
	for _, id := range ids {
		s, err := r.System(id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
