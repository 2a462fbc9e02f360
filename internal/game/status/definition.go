package status

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// typeTags maps YAML type tags to effect types.
var typeTags = map[string]Type{
	"poison":       Poison,
	"burn":         Burn,
	"regen":        Regen,
	"shield":       Shield,
	"freeze":       Freeze,
	"silence":      Silence,
	"attack_up":    AttackUp,
	"attack_down":  AttackDown,
	"defense_up":   DefenseUp,
	"defense_down": DefenseDown,
	"speed_up":     SpeedUp,
	"speed_down":   SpeedDown,
	"magic_up":     MagicUp,
	"magic_down":   MagicDown,
}

// ParseType resolves a YAML type tag into a Type.
//
// Postcondition: Returns (type, true) for a known tag, (0, false) otherwise.
func ParseType(tag string) (Type, bool) {
	t, ok := typeTags[tag]
	return t, ok
}

// Definition is the static definition of a status effect, loaded from YAML.
// Abilities reference definitions by ID when they apply buffs or debuffs.
type Definition struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Duration  int    `yaml:"duration"`
	Value     int    `yaml:"value"`
	Stackable bool   `yaml:"stackable"`
	MaxStacks int    `yaml:"max_stacks"`
}

// Validate checks that the definition satisfies its invariants.
//
// Precondition: d must not be nil.
// Postcondition: Returns nil iff ID is non-empty, Type is a known tag,
// Duration >= 1, and MaxStacks >= 1 when Stackable.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("status definition: id must not be empty")
	}
	if _, ok := ParseType(d.Type); !ok {
		return fmt.Errorf("status definition %q: unknown type %q", d.ID, d.Type)
	}
	if d.Duration < 1 {
		return fmt.Errorf("status definition %q: duration must be >= 1, got %d", d.ID, d.Duration)
	}
	if d.Stackable && d.MaxStacks < 1 {
		return fmt.Errorf("status definition %q: max_stacks must be >= 1 when stackable", d.ID)
	}
	return nil
}

// Instantiate creates a fresh Effect from the definition.
//
// Precondition: d must have passed Validate().
// Postcondition: The returned effect carries source as its Source.
func (d *Definition) Instantiate(source string) *Effect {
	t, _ := ParseType(d.Type)
	eff := New(d.ID, t, d.Duration, d.Value, d.Stackable, d.MaxStacks)
	eff.Source = source
	return eff
}

// Registry holds all known status Definitions keyed by ID.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds def to the registry, overwriting any existing entry.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Definition) {
	r.defs[def.ID] = def
}

// Get returns the Definition for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Definition,
// and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails
// to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading status dir %q: %w", dir, err)
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
		var def Definition
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
