package monster

import (
	"github.com/google/uuid"

	"github.com/seojin-dev/eldoria/internal/game/roll"
)

// DropResult is a materialised item drop with a unique instance ID.
type DropResult struct {
	InstanceID uuid.UUID
	ItemID     string
	Quantity   int
}

// KillReward is everything a defeated monster yields.
type KillReward struct {
	Exp   int
	Gold  int
	Drops []DropResult
}

// GenerateRewards rolls the monster's reward table. Exp and gold are
// fixed; each drop entry is rolled independently against its chance and,
// on success, gets a quantity uniform in [MinQty, MaxQty].
//
// Precondition: src must not be nil; m must have passed Validate().
// Postcondition: Drops preserves the reward table's entry order.
func GenerateRewards(src roll.Source, m *Monster) KillReward {
	reward := KillReward{Exp: m.Rewards.Exp, Gold: m.Rewards.Gold}
	for _, d := range m.Rewards.Drops {
		if !roll.Chance(src, d.Chance*100) {
			continue
		}
		reward.Drops = append(reward.Drops, DropResult{
			InstanceID: uuid.New(),
			ItemID:     d.ItemID,
			Quantity:   roll.Between(src, d.MinQty, d.MaxQty),
		})
	}
	return reward
}
