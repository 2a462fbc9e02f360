package battle

import (
	"go.uber.org/zap"

	"github.com/seojin-dev/eldoria/internal/game/ability"
	"github.com/seojin-dev/eldoria/internal/game/damage"
)

// Player-facing rejection reasons for queue validation. Rejections never
// mutate session state.
const (
	ReasonBattleOver        = "the battle is already over"
	ReasonUnknownAbility    = "unknown ability"
	ReasonNotUsableInCombat = "that ability cannot be used in combat"
	ReasonSilenced          = "you are silenced and cannot cast spells"
	ReasonInsufficientAP    = "insufficient AP"
	ReasonInsufficientMP    = "insufficient MP"
)

// QueueResult reports whether an action was accepted into the queue.
type QueueResult struct {
	OK     bool
	Reason string
}

func queueRejected(reason string) QueueResult { return QueueResult{Reason: reason} }

// QueuedAction is one player action awaiting execution. BasicAttack actions
// carry no ability.
type QueuedAction struct {
	AbilityID   string
	Level       int
	APCost      int
	MPCost      int
	BasicAttack bool
}

// QueuedAP returns the summed AP cost of the pending queue.
func (s *Session) QueuedAP() int {
	total := 0
	for _, a := range s.queue {
		total += a.APCost
	}
	return total
}

// QueuedMP returns the summed MP cost of the pending queue.
func (s *Session) QueuedMP() int {
	total := 0
	for _, a := range s.queue {
		total += a.MPCost
	}
	return total
}

// Queue returns a snapshot of the pending player actions.
func (s *Session) Queue() []QueuedAction {
	out := make([]QueuedAction, len(s.queue))
	copy(out, s.queue)
	return out
}

// ClearQueue discards all pending player actions.
func (s *Session) ClearQueue() {
	s.queue = s.queue[:0]
}

// QueueBasicAttack appends a plain weapon attack (fixed AP cost, no MP).
//
// Postcondition: on rejection the queue is unchanged.
func (s *Session) QueueBasicAttack() QueueResult {
	if s.result != Ongoing {
		return queueRejected(ReasonBattleOver)
	}
	if s.QueuedAP()+BasicAttackAP > s.player.MaxAP {
		return queueRejected(ReasonInsufficientAP)
	}
	s.queue = append(s.queue, QueuedAction{APCost: BasicAttackAP, BasicAttack: true})
	return QueueResult{OK: true}
}

// QueueAbility validates and appends the ability with the given ID at the
// player's current level. Validation covers combat usability, skill and
// equipment requirements, silence, and the cumulative AP and MP budgets.
// Every failure is a structured rejection with a player-facing reason.
//
// Postcondition: on rejection the queue and session state are unchanged.
func (s *Session) QueueAbility(abilityID string) QueueResult {
	if s.result != Ongoing {
		return queueRejected(ReasonBattleOver)
	}
	a, ok := s.cfg.Abilities.Get(abilityID)
	if !ok {
		s.logger.Warn("queue request for unknown ability", zap.String("ability", abilityID))
		return queueRejected(ReasonUnknownAbility)
	}
	if !ability.UsableInCombat(a) {
		return queueRejected(ReasonNotUsableInCombat)
	}
	if req := ability.CheckRequirement(a, s.player.Progress, s.player.Loadout.MainHandType()); !req.OK {
		return queueRejected(req.Reason)
	}
	// Silence blocks all spellcasting, offensive or not, plus any
	// magic-kind attack regardless of source.
	if s.playerEffects.IsSilenced() && (a.Source == ability.SourceSpell || a.AttackKind() == damage.KindMagic) {
		return queueRejected(ReasonSilenced)
	}

	level := s.player.Progress.LevelOf(abilityID)
	apCost := a.APCostAt(level)
	mpCost := a.MPCostAt(level)
	if s.QueuedAP()+apCost > s.player.MaxAP {
		return queueRejected(ReasonInsufficientAP)
	}
	if s.QueuedMP()+mpCost > s.playerMP {
		return queueRejected(ReasonInsufficientMP)
	}

	s.queue = append(s.queue, QueuedAction{
		AbilityID: abilityID,
		Level:     level,
		APCost:    apCost,
		MPCost:    mpCost,
	})
	return QueueResult{OK: true}
}
