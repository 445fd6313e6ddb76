package combat

import "github.com/Dre1stein/xiuxian-mud/internal/model"

// SeqRoller replays a fixed sequence of rolls, then repeats the last one.
// An empty SeqRoller always rolls 0.99 (no dodge, no crit for sane rates).
type SeqRoller struct {
	rolls []float64
	pos   int
}

// NewSeqRoller creates a roller for tests that need exact outcomes.
func NewSeqRoller(rolls ...float64) *SeqRoller {
	return &SeqRoller{rolls: rolls}
}

// Float64 returns the next roll.
func (r *SeqRoller) Float64() float64 {
	if len(r.rolls) == 0 {
		return 0.99
	}
	v := r.rolls[min(r.pos, len(r.rolls)-1)]
	r.pos++
	return v
}

// Calls returns how many rolls were taken.
func (r *SeqRoller) Calls() int {
	return r.pos
}

// FixedStats is a StatSource double backed by a plain Stats value.
type FixedStats model.Stats

// CombatStats implements StatSource.
func (f FixedStats) CombatStats() model.Stats {
	return model.Stats(f)
}
