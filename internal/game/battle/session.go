// Package battle implements the turn-based combat orchestrator: the battle
// session state machine, the player action queue, monster turns and reactive
// counters, status resolution boundaries, and terminal outcomes.
package battle

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seojin-dev/eldoria/internal/game/ability"
	"github.com/seojin-dev/eldoria/internal/game/damage"
	"github.com/seojin-dev/eldoria/internal/game/equipment"
	"github.com/seojin-dev/eldoria/internal/game/monster"
	"github.com/seojin-dev/eldoria/internal/game/roll"
	"github.com/seojin-dev/eldoria/internal/game/stats"
	"github.com/seojin-dev/eldoria/internal/game/status"
)

// Result is the battle session's lifecycle state. Ongoing is the only
// non-terminal state; there are no transitions out of the others.
type Result int

const (
	Ongoing Result = iota
	Victory
	Defeat
	Fled
)

// String returns the result's wire tag.
func (r Result) String() string {
	switch r {
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case Fled:
		return "fled"
	default:
		return "ongoing"
	}
}

// Actor identifies who produced a battle log entry.
type Actor string

const (
	ActorPlayer  Actor = "player"
	ActorMonster Actor = "monster"
	ActorSystem  Actor = "system"
)

// LogEntry is one line of the battle log shown to the player.
type LogEntry struct {
	Turn    int
	Actor   Actor
	Message string
}

// Player carries the player-side inputs to a battle. The session reads
// stats and loadout; it never mutates them.
type Player struct {
	Name     string
	Stats    stats.CharacterStats
	Loadout  *equipment.Loadout
	Progress ability.ProgressMap
	MaxHP    int
	MaxMP    int
	// MaxAP is the per-turn action point budget.
	MaxAP int
}

// Defaults applied when Config leaves tunables zero.
const (
	defaultMonsterMaxAP = 9
	defaultExpPerUse    = 1
	// preemptiveScale discounts the monster's unmitigated opening strike.
	preemptiveScale = 0.8
	// fleeChance is the fixed percent chance a flee attempt succeeds.
	fleeChance = 50.0
	// equalSpeedMonsterFirst is the percent chance the monster opens when
	// speeds tie.
	equalSpeedMonsterFirst = 50.0
	// BasicAttackAP is the AP cost of the player's plain weapon attack.
	BasicAttackAP = 3
)

// Config wires the session's collaborators. Source, Logger, Abilities and
// Statuses are required; the rest default sensibly.
type Config struct {
	Source    roll.Source
	Logger    *zap.Logger
	Abilities *ability.Registry
	Statuses  *status.Registry
	// Balance supplies proficiency curves and elemental matchups. Nil means
	// identity multipliers everywhere.
	Balance *ability.Balance
	// TimeBoost is the contextual day/time elemental boost. Nil means none.
	TimeBoost func(element damage.Element) float64
	// MonsterMaxAP is the monster's per-turn AP budget (default 9).
	MonsterMaxAP int
	// ExpPerUse is the experience granted per ability use (default 1).
	ExpPerUse int
}

// Session is the authoritative mutable state of one battle. All mutation
// goes through its methods; it is not safe for concurrent use and the
// caller must serialise access (one session per client).
type Session struct {
	id     uuid.UUID
	cfg    Config
	logger *zap.Logger

	player  *Player
	monster *monster.Monster

	playerHP  int
	playerMP  int
	monsterHP int

	playerEffects  *status.Ledger
	monsterEffects *status.Ledger

	queue []QueuedAction

	turn         int
	result       Result
	battleLog    []LogEntry
	preemptive   bool
	monsterFirst bool

	grants []ability.Grant
	reward *monster.KillReward
}

// NewSession creates a battle between the player and monster m.
// Initiative is speed-based: the faster side opens, with a fair roll on a
// tie. When the monster opens, the session starts in the preemptive phase;
// call Begin to resolve the opening strike before queueing actions.
//
// Precondition: cfg.Source, cfg.Logger, cfg.Abilities and cfg.Statuses must
// be non-nil; player and m must be valid.
// Postcondition: Result() == Ongoing; Turn() == 1.
func NewSession(cfg Config, player *Player, m *monster.Monster) *Session {
	if cfg.MonsterMaxAP <= 0 {
		cfg.MonsterMaxAP = defaultMonsterMaxAP
	}
	if cfg.ExpPerUse <= 0 {
		cfg.ExpPerUse = defaultExpPerUse
	}
	s := &Session{
		id:             uuid.New(),
		cfg:            cfg,
		player:         player,
		monster:        m,
		playerHP:       player.MaxHP,
		playerMP:       player.MaxMP,
		monsterHP:      m.Stats.HP,
		playerEffects:  status.NewLedger(),
		monsterEffects: status.NewLedger(),
		turn:           1,
	}
	s.logger = cfg.Logger.With(
		zap.String("battle_id", s.id.String()),
		zap.String("monster", m.ID),
	)

	playerSpeed := player.Stats.Dex
	switch {
	case m.Stats.Speed > playerSpeed:
		s.monsterFirst = true
	case m.Stats.Speed == playerSpeed:
		s.monsterFirst = roll.Chance(cfg.Source, equalSpeedMonsterFirst)
	}
	s.preemptive = s.monsterFirst

	s.logf(ActorSystem, "%s appears!", m.Name)
	s.logger.Info("battle started",
		zap.Bool("monster_first", s.monsterFirst),
		zap.Int("player_hp", s.playerHP),
		zap.Int("monster_hp", s.monsterHP))
	return s
}

// Begin resolves the preemptive phase. When the monster opens, it lands an
// unmitigated strike of floor(attack*0.8) before the player can queue.
// A no-op when the player has initiative or the battle already began.
//
// Postcondition: the preemptive phase is over.
func (s *Session) Begin() {
	if s.result != Ongoing || !s.preemptive {
		s.preemptive = false
		return
	}
	s.preemptive = false
	dmg := int(float64(s.monster.Stats.Attack) * preemptiveScale)
	s.playerHP -= dmg
	s.logf(ActorMonster, "%s strikes first for %d damage!", s.monster.Name, dmg)
	s.checkTermination()
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Result returns the current lifecycle state.
func (s *Session) Result() Result { return s.result }

// Turn returns the 1-based current turn number.
func (s *Session) Turn() int { return s.turn }

// PlayerHP returns the player's current hit points.
func (s *Session) PlayerHP() int { return s.playerHP }

// PlayerMP returns the player's current mana.
func (s *Session) PlayerMP() int { return s.playerMP }

// MonsterHP returns the monster's current hit points.
func (s *Session) MonsterHP() int { return s.monsterHP }

// MonsterGoesFirst reports whether the monster won initiative.
func (s *Session) MonsterGoesFirst() bool { return s.monsterFirst }

// PlayerEffects returns the player's status ledger.
func (s *Session) PlayerEffects() *status.Ledger { return s.playerEffects }

// MonsterEffects returns the monster's status ledger.
func (s *Session) MonsterEffects() *status.Ledger { return s.monsterEffects }

// Log returns a snapshot of the battle log.
func (s *Session) Log() []LogEntry {
	out := make([]LogEntry, len(s.battleLog))
	copy(out, s.battleLog)
	return out
}

// PendingGrants returns the experience deltas accumulated from ability use
// so far. The caller hands them to the progression layer; the session never
// blocks on persistence.
func (s *Session) PendingGrants() []ability.Grant {
	out := make([]ability.Grant, len(s.grants))
	copy(out, s.grants)
	return out
}

// Reward returns the kill reward, or nil unless Result() == Victory.
func (s *Session) Reward() *monster.KillReward { return s.reward }

func (s *Session) logf(actor Actor, format string, args ...any) {
	s.battleLog = append(s.battleLog, LogEntry{
		Turn:    s.turn,
		Actor:   actor,
		Message: fmt.Sprintf(format, args...),
	})
}

// checkTermination moves the session to a terminal state when either side
// is out of HP. Victory also rolls the kill reward.
func (s *Session) checkTermination() {
	if s.result != Ongoing {
		return
	}
	if s.monsterHP <= 0 {
		s.monsterHP = 0
		s.result = Victory
		r := monster.GenerateRewards(s.cfg.Source, s.monster)
		s.reward = &r
		s.logf(ActorSystem, "%s is defeated! Gained %d exp and %d gold.", s.monster.Name, r.Exp, r.Gold)
		s.logger.Info("battle won", zap.Int("exp", r.Exp), zap.Int("gold", r.Gold))
		return
	}
	if s.playerHP <= 0 {
		s.playerHP = 0
		s.result = Defeat
		s.logf(ActorSystem, "%s falls...", s.player.Name)
		s.logger.Info("battle lost", zap.Int("turn", s.turn))
	}
}

// mods assembles the damage modifiers for an attack kind from the balance
// tables, falling back to identity when no balance is configured.
func (s *Session) mods(kind damage.Kind) damage.Modifiers {
	if s.cfg.Balance != nil {
		return s.cfg.Balance.Modifiers(kind, s.cfg.TimeBoost)
	}
	return damage.Modifiers{TimeBoost: s.cfg.TimeBoost}
}

// playerDefense is the player's effective defense: equipment total plus
// status modifiers, never negative.
func (s *Session) playerDefense() int {
	def := s.player.Loadout.TotalStats().Get("defense") + s.playerEffects.StatModifier(status.StatDefense)
	if def < 0 {
		return 0
	}
	return def
}

// monsterDefense is the monster's effective defense including modifiers.
func (s *Session) monsterDefense() int {
	def := s.monster.Stats.Defense + s.monsterEffects.StatModifier(status.StatDefense)
	if def < 0 {
		return 0
	}
	return def
}

// monsterAttack is the monster's effective attack including modifiers.
func (s *Session) monsterAttack() int {
	atk := s.monster.Stats.Attack + s.monsterEffects.StatModifier(status.StatAttack)
	if atk < 0 {
		return 0
	}
	return atk
}
