// Package stats defines the character attribute block shared by the damage
// formulas, ability rules, and equipment aggregation.
package stats

import "fmt"

// CharacterStats holds the seven core attributes for a character.
// Values are immutable for the duration of a battle; the combat core
// reads them and never writes them.
type CharacterStats struct {
	Str int `yaml:"str"`
	Dex int `yaml:"dex"`
	Con int `yaml:"con"`
	Int int `yaml:"int"`
	Wis int `yaml:"wis"`
	Cha int `yaml:"cha"`
	Lck int `yaml:"lck"`
}

// Validate checks that every attribute is at least 1.
//
// Postcondition: Returns nil iff all seven attributes are >= 1.
func (s CharacterStats) Validate() error {
	check := func(name string, v int) error {
		if v < 1 {
			return fmt.Errorf("stats: %s must be >= 1, got %d", name, v)
		}
		return nil
	}
	for _, c := range []struct {
		name string
		v    int
	}{
		{"str", s.Str}, {"dex", s.Dex}, {"con", s.Con},
		{"int", s.Int}, {"wis", s.Wis}, {"cha", s.Cha}, {"lck", s.Lck},
	} {
		if err := check(c.name, c.v); err != nil {
			return err
		}
	}
	return nil
}

// Aggregate is a summed map of named numeric bonuses, typically produced by
// equipment totalling. A key is present once any contributing item defines
// it; missing per-item values count as 0.
type Aggregate map[string]int

// Add merges other into a, summing values key-wise.
//
// Postcondition: Every key of other is present in a.
func (a Aggregate) Add(other map[string]int) {
	for k, v := range other {
		a[k] += v
	}
}

// Get returns the aggregated value for key, or 0 when absent.
func (a Aggregate) Get(key string) int {
	return a[key]
}
