package combat

import "github.com/Dre1stein/xiuxian-mud/internal/model"

// Elemental multipliers.
const (
	CounterBonus   = 1.5  // attacker element counters defender
	CounterPenalty = 0.75 // defender element counters attacker
	Neutral        = 1.0
)

// CounterTable maps an element to the set of elements it beats.
// Read-only after construction; safe for concurrent lookups.
type CounterTable struct {
	beats map[model.Element]map[model.Element]struct{}
}

// NewCounterTable builds a table from element → beaten elements.
func NewCounterTable(beats map[model.Element][]model.Element) *CounterTable {
	t := &CounterTable{beats: make(map[model.Element]map[model.Element]struct{}, len(beats))}
	for atk, defs := range beats {
		set := make(map[model.Element]struct{}, len(defs))
		for _, d := range defs {
			set[d] = struct{}{}
		}
		t.beats[atk] = set
	}
	return t
}

// DefaultCounterTable returns the standard elemental wheel.
func DefaultCounterTable() *CounterTable {
	return NewCounterTable(map[model.Element][]model.Element{
		model.ElementWind:      {model.ElementWood, model.ElementSound},
		model.ElementFire:      {model.ElementWood, model.ElementIce},
		model.ElementWood:      {model.ElementFire, model.ElementBlood},
		model.ElementVoid:      {model.ElementLightning, model.ElementWind},
		model.ElementLightning: {model.ElementWood, model.ElementSound},
		model.ElementIce:       {model.ElementFire, model.ElementWind},
		model.ElementSound:     {model.ElementVoid, model.ElementLightning},
		model.ElementBlood:     {model.ElementWood, model.ElementVoid},
	})
}

// Counters reports whether atk beats def.
func (t *CounterTable) Counters(atk, def model.Element) bool {
	_, ok := t.beats[atk][def]
	return ok
}

// Multiplier returns 1.5 when atk counters def, 0.75 when def counters atk,
// otherwise 1.0. ElementNone on either side is always neutral, as is any
// pair the table does not mention.
func (t *CounterTable) Multiplier(atk, def model.Element) float64 {
	if t == nil || atk == model.ElementNone || def == model.ElementNone {
		return Neutral
	}
	switch {
	case t.Counters(atk, def):
		return CounterBonus
	case t.Counters(def, atk):
		return CounterPenalty
	default:
		return Neutral
	}
}
