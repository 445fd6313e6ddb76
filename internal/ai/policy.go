package ai

import (
	"log/slog"

	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// Rand is the random source a policy draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Decision is one automated participant's choice for the round.
// SkillIndex is meaningful only for IntentionCast.
type Decision struct {
	Intention  model.Intention
	SkillIndex int
}

// OpponentPolicy drives non-player participants.
// Weights: attack 70% (of which SkillShare uses a skill), defend 15%, idle 15%.
type OpponentPolicy struct {
	AttackWeight float64
	DefendWeight float64
	SkillShare   float64
}

// DefaultOpponentPolicy returns the standard 70/15/15 policy with 40% skill use.
func DefaultOpponentPolicy() OpponentPolicy {
	return OpponentPolicy{
		AttackWeight: 0.70,
		DefendWeight: 0.15,
		SkillShare:   0.40,
	}
}

// Decide picks an intention. skillCount is the number of skills the
// participant owns; with none, the skill share becomes a plain attack.
func (p OpponentPolicy) Decide(rng Rand, skillCount int) Decision {
	roll := rng.Float64()

	var d Decision
	switch {
	case roll < p.AttackWeight:
		d.Intention = model.IntentionAttack
		if skillCount > 0 && rng.Float64() < p.SkillShare {
			d.Intention = model.IntentionCast
			d.SkillIndex = rng.IntN(skillCount)
		}
	case roll < p.AttackWeight+p.DefendWeight:
		d.Intention = model.IntentionDefend
	default:
		d.Intention = model.IntentionIdle
	}

	if IsDebugEnabled() {
		slog.Debug("opponent decision", "roll", roll, "intention", d.Intention, "skill", d.SkillIndex)
	}
	return d
}

// AutoPilot drives the player side during automatic resolution.
// It uses a random skill SkillChance of the time while hp is above
// MinHPRatio, and attacks otherwise.
type AutoPilot struct {
	SkillChance float64
	MinHPRatio  float64
}

// DefaultAutoPilot returns the 30% skill / 30% hp threshold pilot.
func DefaultAutoPilot() AutoPilot {
	return AutoPilot{SkillChance: 0.30, MinHPRatio: 0.30}
}

// Decide picks attack or cast for the player side.
func (a AutoPilot) Decide(rng Rand, hpRatio float64, skillCount int) Decision {
	if skillCount > 0 && hpRatio > a.MinHPRatio && rng.Float64() < a.SkillChance {
		return Decision{Intention: model.IntentionCast, SkillIndex: rng.IntN(skillCount)}
	}
	return Decision{Intention: model.IntentionAttack}
}
