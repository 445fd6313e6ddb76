package data

import (
	"fmt"
	"strings"

	"github.com/Dre1stein/xiuxian-mud/internal/game/skill"
	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// Stage is a cultivation realm. Each realm multiplies combat stats.
type Stage int8

const (
	StageQi Stage = iota
	StageZhuji
	StageJindan
	StageYuanying
	StageYuanshen
)

var stageNames = [...]string{"qi", "zhuji", "jindan", "yuanying", "yuanshen"}

var stageMultipliers = [...]float64{1, 2, 5, 10, 50}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Multiplier returns the stat multiplier of the realm. Unknown stages use 1.
func (s Stage) Multiplier() float64 {
	if s < 0 || int(s) >= len(stageMultipliers) {
		return 1
	}
	return stageMultipliers[s]
}

// ParseStage converts a realm name to Stage. Empty means qi.
func ParseStage(name string) (Stage, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return StageQi, nil
	}
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return StageQi, fmt.Errorf("unknown stage %q", name)
}

// SectPreset is the flat bonus a sect grants its disciples.
type SectPreset struct {
	Bonus        model.Stats
	Constitution int
	Element      model.Element
}

// SectPresets maps each sect to its bonus. Rates are fractions.
var SectPresets = map[model.Sect]SectPreset{
	model.SectQingyun: {
		Bonus:   model.Stats{Speed: 20, Attack: 10, Defense: 5, DodgeRate: 0.15},
		Element: model.ElementWind,
	},
	model.SectDanding: {
		Bonus:        model.Stats{Attack: 30, Defense: 25, Willpower: 5},
		Constitution: 15,
		Element:      model.ElementFire,
	},
	model.SectWanhua: {
		Bonus:        model.Stats{HealingReceived: 0.25, MagicResist: 20},
		Constitution: 30,
		Element:      model.ElementWood,
	},
	model.SectXiaoyao: {
		Bonus:   model.Stats{DodgeRate: 0.25, CritRate: 0.10},
		Element: model.ElementVoid,
	},
	model.SectShushan: {
		Bonus:        model.Stats{Attack: 40, Defense: 20, CritRate: 0.15},
		Constitution: 15,
		Element:      model.ElementLightning,
	},
}

// PlayerAggregate is the progression-side view of a cultivator that combat
// consumes. Equipment is a precomputed flat delta.
type PlayerAggregate struct {
	Name         string
	Level        int
	Stage        Stage
	Sect         model.Sect
	Base         model.Stats
	Constitution int
	Equipment    model.Stats
	Unlocked     []string
}

// DefaultPlayer returns a level-1 qi-stage cultivator of the given sect.
func DefaultPlayer(name string, sect model.Sect) PlayerAggregate {
	return PlayerAggregate{
		Name:         name,
		Level:        1,
		Stage:        StageQi,
		Sect:         sect,
		Base:         model.DefaultStats(),
		Constitution: 10,
	}
}

// BuildPlayer turns an aggregate into a combat entity and its skill instances.
//
// Stats are base + sect preset + equipment; the stage multiplier then applies
// to attack, defense, magic attack, magic resist and speed. Skills are the
// unlocked ids followed by every sect skill the level allows, without
// duplicates. Unlocked ids missing from the catalog become physical strikes.
func BuildPlayer(agg PlayerAggregate, catalog *skill.Catalog, id string) (*model.Entity, []*skill.Instance) {
	preset := SectPresets[agg.Sect]
	stats := agg.Base.Add(preset.Bonus).Add(agg.Equipment)
	if stats.Element == model.ElementNone {
		stats.Element = preset.Element
	}

	m := agg.Stage.Multiplier()
	stats.Attack *= m
	stats.Defense *= m
	stats.MagicAttack *= m
	stats.MagicResist *= m
	stats.Speed *= m

	con := agg.Constitution + preset.Constitution
	maxHP := int((100 + float64(con)*10) * m)
	maxMP := int((50 + stats.Willpower*5) * m)

	entity := model.NewEntity(model.EntitySpec{
		ID:    id,
		Name:  agg.Name,
		Level: agg.Level,
		MaxHP: maxHP,
		MaxMP: maxMP,
		Stats: stats,
		Sect:  agg.Sect,
	})

	seen := make(map[string]bool, len(agg.Unlocked))
	var skills []*skill.Instance
	for _, sid := range agg.Unlocked {
		if sid == "" || seen[sid] {
			continue
		}
		seen[sid] = true
		skills = append(skills, catalog.Instantiate(sid))
	}
	for _, inst := range catalog.BySect(agg.Sect) {
		if seen[inst.ID] || !inst.Unlockable(agg.Level, agg.Sect) {
			continue
		}
		seen[inst.ID] = true
		skills = append(skills, inst)
	}
	return entity, skills
}
