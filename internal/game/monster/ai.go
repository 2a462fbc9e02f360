package monster

import (
	"go.uber.org/zap"

	"github.com/seojin-dev/eldoria/internal/game/ability"
	"github.com/seojin-dev/eldoria/internal/game/roll"
)

const (
	// DefaultAttackAP is the AP cost of the fallback basic attack.
	DefaultAttackAP = 3
	// MaxActionsPerTurn caps a monster's planned queue length.
	MaxActionsPerTurn = 3
)

// PlannedAction is one entry in a monster's turn queue. BasicAttack
// actions have no ability behind them and resolve as a plain attack.
type PlannedAction struct {
	AbilityID   string
	Level       int
	APCost      int
	BasicAttack bool
}

// TurnContext carries the battle state the selector conditions on.
type TurnContext struct {
	// HPFraction is the monster's current HP divided by max HP (0–1).
	HPFraction float64
	// Turn is the 1-based battle turn number.
	Turn int
	// MaxAP is the AP budget for this turn.
	MaxAP int
}

// candidate is a monster ability resolved against the registry.
type candidate struct {
	entry  Ability
	apCost int
}

// BuildQueue plans the monster's action queue for one turn.
//
// Abilities whose condition does not hold for the current state are
// excluded. Entries referencing unknown abilities are skipped with a
// warning rather than failing the turn. When no ability is eligible, the
// queue falls back to basic attacks. Selection is weighted; the queue is
// capped at MaxActionsPerTurn and its total AP cost never exceeds
// ctx.MaxAP.
//
// Precondition: src, m, reg must not be nil; ctx.MaxAP >= 0.
// Postcondition: len(queue) <= MaxActionsPerTurn and the summed AP cost
// is <= ctx.MaxAP.
func BuildQueue(src roll.Source, m *Monster, reg *ability.Registry, ctx TurnContext, logger *zap.Logger) []PlannedAction {
	var eligible []candidate
	for _, ma := range m.Abilities {
		if !ma.Condition.Met(ctx.HPFraction, ctx.Turn) {
			continue
		}
		a, ok := reg.Get(ma.AbilityID)
		if !ok {
			logger.Warn("monster references unknown ability, skipping",
				zap.String("monster", m.ID),
				zap.String("ability", ma.AbilityID))
			continue
		}
		eligible = append(eligible, candidate{entry: ma, apCost: a.APCostAt(ma.Level)})
	}

	var queue []PlannedAction
	remaining := ctx.MaxAP
	for len(queue) < MaxActionsPerTurn {
		affordable := eligible[:0:0]
		for _, c := range eligible {
			if c.apCost <= remaining {
				affordable = append(affordable, c)
			}
		}
		if len(affordable) == 0 {
			// No ability fits the remaining budget; a basic attack may.
			if remaining < DefaultAttackAP {
				break
			}
			queue = append(queue, PlannedAction{APCost: DefaultAttackAP, BasicAttack: true})
			remaining -= DefaultAttackAP
			continue
		}
		chosen := pickWeighted(src, affordable)
		queue = append(queue, PlannedAction{
			AbilityID: chosen.entry.AbilityID,
			Level:     chosen.entry.Level,
			APCost:    chosen.apCost,
		})
		remaining -= chosen.apCost
	}
	return queue
}

// pickWeighted selects one candidate by cumulative weight. The roll is a
// uniform fraction of the total weight; floating point remainder lands on
// the last candidate. A zero or negative weight sum selects the first.
//
// Precondition: len(candidates) >= 1.
func pickWeighted(src roll.Source, candidates []candidate) candidate {
	var total float64
	for _, c := range candidates {
		total += c.entry.Weight
	}
	if total <= 0 {
		return candidates[0]
	}
	r := float64(src.Intn(10000)) / 10000.0 * total
	var cum float64
	for _, c := range candidates {
		cum += c.entry.Weight
		if r < cum {
			return c
		}
	}
	return candidates[len(candidates)-1]
}
