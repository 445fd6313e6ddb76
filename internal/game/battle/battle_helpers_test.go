package battle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dre1stein/xiuxian-mud/internal/ai"
	"github.com/Dre1stein/xiuxian-mud/internal/game/skill"
	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

const testSkillsYAML = `
skills:
  - id: nova
    name: Nova
    target: all_enemies
    mp_cost: 10
    effects:
      - {kind: damage, base: 50, element: physical}
  - id: focus
    name: Focus Strike
    target: single_enemy
    mp_cost: 10
    cooldown: 3
    effects:
      - {kind: damage, base: 5, element: physical}
  - id: venom
    name: Venom
    target: single_enemy
    effects:
      - {kind: debuff, base: 7, status: poison, duration: 2}
  - id: mend
    name: Mend
    target: single_ally
    effects:
      - {kind: heal, base: 40}
`

func testCatalog(t testing.TB) *skill.Catalog {
	t.Helper()
	cat, err := skill.ParseCatalog([]byte(testSkillsYAML))
	require.NoError(t, err)
	return cat
}

// fighter builds a participant with no crit or dodge so hits are exact.
func fighter(id string, hp, mp int, mut func(*model.Stats), skills ...*skill.Instance) *Fighter {
	s := model.DefaultStats()
	s.CritRate = 0
	s.DodgeRate = 0
	if mut != nil {
		mut(&s)
	}
	return &Fighter{
		Entity:   model.NewEntity(model.EntitySpec{ID: id, Name: id, Level: 1, MaxHP: hp, MaxMP: mp, Stats: s}),
		Skills:   skills,
		XPReward: 10,
	}
}

func withAttack(v float64) func(*model.Stats) {
	return func(s *model.Stats) { s.Attack = v; s.Defense = 0 }
}

func withSpeed(v float64) func(*model.Stats) {
	return func(s *model.Stats) { s.Speed = v }
}

// idleRules makes opponents neither attack nor defend.
func idleRules() Rules {
	r := DefaultRules()
	r.Opponent = ai.OpponentPolicy{SkillShare: 1}
	return r
}

// attackRules makes opponents always use a plain attack.
func attackRules() Rules {
	r := DefaultRules()
	r.Opponent = ai.OpponentPolicy{AttackWeight: 1}
	return r
}

func newPvE(t testing.TB, rules Rules, player *Fighter, monsters ...*Fighter) *Session {
	t.Helper()
	s, err := NewPvE("combat_test", player, monsters, rules, Seed{Hi: 1, Lo: 2})
	require.NoError(t, err)
	return s
}

func logTexts(entries []LogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}
