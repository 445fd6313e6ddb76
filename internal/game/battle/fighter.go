package battle

import (
	"github.com/Dre1stein/xiuxian-mud/internal/data"
	"github.com/Dre1stein/xiuxian-mud/internal/game/skill"
	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// Fighter is a combat entity together with the skills it may use and what
// defeating it is worth.
type Fighter struct {
	*model.Entity

	Side        Side
	TemplateID  string
	XPReward    int
	StoneReward int
	Skills      []*skill.Instance
}

// Skill returns the fighter's instance of id, or nil.
func (f *Fighter) Skill(id string) *skill.Instance {
	for _, inst := range f.Skills {
		if inst.ID == id {
			return inst
		}
	}
	return nil
}

// usableSkills returns the skills that pass the cooldown and cost gate.
func (f *Fighter) usableSkills() []*skill.Instance {
	var out []*skill.Instance
	for _, inst := range f.Skills {
		if inst.CanUse(f.MP(), f.HP()) {
			out = append(out, inst)
		}
	}
	return out
}

// NewPlayerFighter builds the fighter of a cultivator.
func NewPlayerFighter(agg data.PlayerAggregate, catalog *skill.Catalog, id string) *Fighter {
	e, skills := data.BuildPlayer(agg, catalog, id)
	return &Fighter{Entity: e, Skills: skills}
}

// NewMonsterFighter builds the fighter of an instantiated monster.
// Skills missing from the catalog become physical strikes.
func NewMonsterFighter(m data.MonsterInstance, catalog *skill.Catalog, id string) *Fighter {
	skills := make([]*skill.Instance, 0, len(m.Skills))
	for _, sid := range m.Skills {
		skills = append(skills, catalog.Instantiate(sid))
	}
	return &Fighter{
		Entity:      m.Entity(id),
		TemplateID:  m.TemplateID,
		XPReward:    m.XPReward,
		StoneReward: m.StoneReward,
		Skills:      skills,
	}
}
