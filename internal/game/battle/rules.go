package battle

import (
	"github.com/Dre1stein/xiuxian-mud/internal/ai"
	"github.com/Dre1stein/xiuxian-mud/internal/game/combat"
	"github.com/Dre1stein/xiuxian-mud/internal/game/skill"
)

// Default rule values.
const (
	DefaultMaxAutoRounds = 50
	DefaultItemHeal      = 50
)

// Rules is the shared, read-only configuration every session resolves with.
type Rules struct {
	Calculator    *combat.Calculator
	Advantage     *combat.AdvantageTable
	Opponent      ai.OpponentPolicy
	AutoPilot     ai.AutoPilot
	ItemHeal      int
	MaxAutoRounds int
}

// DefaultRules returns the standard tables and policies.
func DefaultRules() Rules {
	return Rules{
		Calculator:    combat.NewCalculator(combat.DefaultCounterTable()),
		Advantage:     combat.DefaultAdvantageTable(),
		Opponent:      ai.DefaultOpponentPolicy(),
		AutoPilot:     ai.DefaultAutoPilot(),
		ItemHeal:      DefaultItemHeal,
		MaxAutoRounds: DefaultMaxAutoRounds,
	}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.Calculator == nil {
		r.Calculator = d.Calculator
	}
	if r.Advantage == nil {
		r.Advantage = d.Advantage
	}
	if r.Opponent == (ai.OpponentPolicy{}) {
		r.Opponent = d.Opponent
	}
	if r.AutoPilot == (ai.AutoPilot{}) {
		r.AutoPilot = d.AutoPilot
	}
	if r.ItemHeal <= 0 {
		r.ItemHeal = d.ItemHeal
	}
	if r.MaxAutoRounds <= 0 {
		r.MaxAutoRounds = d.MaxAutoRounds
	}
	return r
}

func (r Rules) resolver() *skill.Resolver {
	return skill.NewResolver(r.Calculator)
}
