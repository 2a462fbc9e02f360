// Package monster provides monster definitions, the per-turn AI action
// selector, and kill reward generation.
package monster

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stats is a monster's combat stat block.
type Stats struct {
	HP      int `yaml:"hp"`
	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`
	Speed   int `yaml:"speed"`
}

// Behavior controls how a monster reacts to the player.
type Behavior string

const (
	// BehaviorPassive monsters never retaliate between their own turns.
	BehaviorPassive Behavior = "passive"
	// BehaviorAggressive monsters counter-attack after taking damage.
	BehaviorAggressive Behavior = "aggressive"
	// BehaviorDefensive monsters counter-attack but favour defensive abilities.
	BehaviorDefensive Behavior = "defensive"
)

var knownBehaviors = map[Behavior]bool{
	BehaviorPassive: true, BehaviorAggressive: true, BehaviorDefensive: true,
}

// Counters reports whether the behavior permits a reactive counter-attack
// after a damaging player action.
func (b Behavior) Counters() bool {
	return b == BehaviorAggressive || b == BehaviorDefensive
}

// Condition gates a monster ability on battle state. Nil fields are
// unconstrained.
type Condition struct {
	// HPBelow activates when the monster's HP fraction is strictly below
	// this value (0–1).
	HPBelow *float64 `yaml:"hp_below"`
	// HPAbove activates when the monster's HP fraction is strictly above
	// this value (0–1).
	HPAbove *float64 `yaml:"hp_above"`
	// TurnAfter activates from this turn number onward.
	TurnAfter *int `yaml:"turn_after"`
}

// Met reports whether the condition holds for the given HP fraction and
// turn number. A nil condition always holds.
func (c *Condition) Met(hpFraction float64, turn int) bool {
	if c == nil {
		return true
	}
	if c.HPBelow != nil && hpFraction >= *c.HPBelow {
		return false
	}
	if c.HPAbove != nil && hpFraction <= *c.HPAbove {
		return false
	}
	if c.TurnAfter != nil && turn < *c.TurnAfter {
		return false
	}
	return true
}

// Ability references an ability the monster can use, with selection weight
// and the level it is used at.
type Ability struct {
	AbilityID string     `yaml:"ability_id"`
	Weight    float64    `yaml:"weight"`
	Level     int        `yaml:"level"`
	Condition *Condition `yaml:"condition"`
}

// Drop is a single item entry in a monster's reward table.
type Drop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// Rewards defines what a monster yields on defeat.
type Rewards struct {
	Exp   int    `yaml:"exp"`
	Gold  int    `yaml:"gold"`
	Drops []Drop `yaml:"drops"`
}

// Monster is the static definition of a monster loaded from YAML.
type Monster struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Stats     Stats     `yaml:"stats"`
	Element   string    `yaml:"element"`
	Behavior  Behavior  `yaml:"behavior"`
	Abilities []Ability `yaml:"abilities"`
	Rewards   Rewards   `yaml:"rewards"`
}

// Validate checks the monster definition's invariants.
//
// Precondition: m must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, HP and attack
// are >= 1, the behavior is known, and every ability and drop entry is
// well-formed.
func (m *Monster) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("monster: id must not be empty")
	}
	if m.Name == "" {
		return fmt.Errorf("monster %q: name must not be empty", m.ID)
	}
	if m.Stats.HP < 1 {
		return fmt.Errorf("monster %q: hp must be >= 1, got %d", m.ID, m.Stats.HP)
	}
	if m.Stats.Attack < 1 {
		return fmt.Errorf("monster %q: attack must be >= 1, got %d", m.ID, m.Stats.Attack)
	}
	if !knownBehaviors[m.Behavior] {
		return fmt.Errorf("monster %q: unknown behavior %q", m.ID, m.Behavior)
	}
	for i, ma := range m.Abilities {
		if ma.AbilityID == "" {
			return fmt.Errorf("monster %q: ability[%d] must reference an ability id", m.ID, i)
		}
		if ma.Weight < 0 {
			return fmt.Errorf("monster %q: ability[%d] weight must be >= 0, got %f", m.ID, i, ma.Weight)
		}
	}
	for i, d := range m.Rewards.Drops {
		if d.ItemID == "" {
			return fmt.Errorf("monster %q: drop[%d] must have a non-empty item id", m.ID, i)
		}
		if d.Chance <= 0 || d.Chance > 1.0 {
			return fmt.Errorf("monster %q: drop[%d] chance must be in (0, 1.0], got %f", m.ID, i, d.Chance)
		}
		if d.MinQty < 1 || d.MinQty > d.MaxQty {
			return fmt.Errorf("monster %q: drop[%d] quantity range [%d,%d] is invalid", m.ID, i, d.MinQty, d.MaxQty)
		}
	}
	return nil
}

// Registry holds all known monster definitions keyed by ID.
type Registry struct {
	monsters map[string]*Monster
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{monsters: make(map[string]*Monster)}
}

// Register adds m to the registry, overwriting any existing entry.
func (r *Registry) Register(m *Monster) {
	r.monsters[m.ID] = m
}

// Get returns the Monster for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Monster, bool) {
	m, ok := r.monsters[id]
	return m, ok
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
		return nil, fmt.Errorf("reading monster dir %q: %w", dir, err)
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
		var m Monster
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(&m)
	}
	return reg, nil
}
