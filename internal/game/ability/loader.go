package ability

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry holds all known abilities keyed by ID.
type Registry struct {
	abilities map[string]*Ability
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{abilities: make(map[string]*Ability)}
}

// Register adds a to the registry, overwriting any existing entry.
//
// Precondition: a must not be nil and a.ID must not be empty.
func (r *Registry) Register(a *Ability) {
	r.abilities[a.ID] = a
}

// Get returns the Ability for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Ability, bool) {
	a, ok := r.abilities[id]
	return a, ok
}

// All returns a snapshot slice of all registered abilities.
func (r *Registry) All() []*Ability {
	out := make([]*Ability, 0, len(r.abilities))
	for _, a := range r.abilities {
		out = append(out, a)
	}
	return out
}

// LoadFromBytes parses a single ability from raw YAML bytes, normalising
// the level bonus order before validation.
//
// Precondition: data must be valid YAML for a single Ability.
// Postcondition: Returns a validated *Ability with sorted LevelBonuses.
func LoadFromBytes(data []byte) (*Ability, error) {
	var a Ability
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("parsing ability YAML: %w", err)
	}
	a.sortLevelBonuses()
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadDirectory reads every *.yaml file in dir and returns a populated
// Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry or an error on the first parse
// or validation failure.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading ability dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		a, err := LoadFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(a)
	}
	return reg, nil
}
