package combat

import "github.com/Dre1stein/xiuxian-mud/internal/model"

type sectPair struct {
	attacker model.Sect
	defender model.Sect
}

// AdvantageTable is a sparse directed sect → sect damage multiplier.
// Only plain attacks consult it. A beating B says nothing about B attacking A.
type AdvantageTable struct {
	pairs map[sectPair]float64
}

// NewAdvantageTable creates an empty table.
func NewAdvantageTable() *AdvantageTable {
	return &AdvantageTable{pairs: make(map[sectPair]float64, 8)}
}

// DefaultAdvantageTable returns the sect advantages known to the game.
func DefaultAdvantageTable() *AdvantageTable {
	t := NewAdvantageTable()
	t.Set(model.SectQingyun, model.SectWanhua, 1.2)
	t.Set(model.SectQingyun, model.SectXiaoyao, 1.5)
	t.Set(model.SectQingyun, model.SectShushan, 0.8)
	t.Set(model.SectQingyun, model.SectDanding, 0.9)
	return t
}

// Set registers a directed multiplier. Must be called before the table is shared.
func (t *AdvantageTable) Set(attacker, defender model.Sect, mult float64) {
	t.pairs[sectPair{attacker, defender}] = mult
}

// Advantage returns the attacker → defender multiplier, 1.0 if unspecified.
func (t *AdvantageTable) Advantage(attacker, defender model.Sect) float64 {
	if t == nil {
		return Neutral
	}
	if m, ok := t.pairs[sectPair{attacker, defender}]; ok {
		return m
	}
	return Neutral
}
