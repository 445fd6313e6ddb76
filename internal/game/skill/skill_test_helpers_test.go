package skill

import (
	"github.com/Dre1stein/xiuxian-mud/internal/game/combat"
	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

func newUnit(id string, hp, mp int, mut func(*model.Stats)) *model.Entity {
	s := model.DefaultStats()
	s.CritRate = 0
	s.DodgeRate = 0
	if mut != nil {
		mut(&s)
	}
	return model.NewEntity(model.EntitySpec{ID: id, Name: id, Level: 10, MaxHP: hp, MaxMP: mp, Stats: s})
}

func newTestResolver() *Resolver {
	return NewResolver(combat.NewCalculator(combat.DefaultCounterTable()))
}

func strike(base float64) Damage {
	return Damage{Scaling: Scaling{Base: base}, Element: model.ElementPhysical, Hits: 1}
}

const testCatalogYAML = `
skills:
  - id: slash
    name: Slash
    target: single_enemy
    mp_cost: 10
    cooldown: 3
    element: wind
    required_sect: qingyun
    effects:
      - {kind: damage, base: 30, stat: attack, factor: 1.2, element: wind}
  - id: mend
    name: Mend
    target: single_ally
    mp_cost: 5
    effects:
      - {kind: heal, base: 20, stat: willpower, factor: 1}
  - id: miasma
    name: Miasma
    type: active
    target: all_enemies
    required_level: 5
    effects:
      - {kind: debuff, base: 4, status: poison, duration: 2}
`
