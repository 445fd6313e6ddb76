package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dre1stein/xiuxian-mud/internal/game/skill"
	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

func TestFleeAtSpeed200AlwaysSucceeds(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		player := fighter("hero", 100, 0, withSpeed(200))
		wolf := fighter("Wolf", 100, 0, withAttack(30))
		s, err := NewPvE("combat_flee", player, []*Fighter{wolf}, attackRules(), Seed{Hi: seed, Lo: seed + 1})
		require.NoError(t, err)

		turn, err := s.Act(ActionRequest{Kind: ActionFlee})
		require.NoError(t, err)

		assert.Equal(t, StatusFled, turn.Status)
		assert.Equal(t, OutcomeFled, turn.Outcome)
		assert.Equal(t, 100, player.HP(), "no opposing phase after a successful flee")
		for _, text := range logTexts(turn.Log) {
			assert.NotContains(t, text, "Wolf")
		}
	}
}

func TestAllEnemiesSkillWinsBattle(t *testing.T) {
	cat := testCatalog(t)
	nova, _ := cat.Get("nova")
	player := fighter("hero", 100, 100, nil, nova)
	monsters := []*Fighter{
		fighter("m1", 10, 0, withAttack(5)),
		fighter("m2", 10, 0, withAttack(5)),
		fighter("m3", 10, 0, withAttack(5)),
	}
	for i, m := range monsters {
		m.TemplateID = "wolf"
		m.XPReward = 50 * (i + 1)
		m.StoneReward = 5
	}
	s := newPvE(t, attackRules(), player, monsters...)

	turn, err := s.Act(ActionRequest{Kind: ActionSkill, SkillID: "nova"})
	require.NoError(t, err)

	assert.Equal(t, StatusVictory, turn.Status)
	require.Len(t, turn.Actions, 3)
	for _, m := range monsters {
		assert.True(t, m.IsPerished())
		assert.Equal(t, 0, m.HP())
	}
	assert.Equal(t, 100, player.HP(), "opposing phase skipped after victory")

	report, ok := s.Report()
	require.True(t, ok)
	assert.Equal(t, []string{"wolf", "wolf", "wolf"}, report.DefeatedTemplateIDs)
	assert.Equal(t, 1, report.TurnsElapsed)
	assert.Equal(t, 300, report.XP)
	assert.Equal(t, 15, report.SpiritStones)
}

func TestAllEnemiesSkipsPerished(t *testing.T) {
	cat := testCatalog(t)
	nova, _ := cat.Get("nova")
	player := fighter("hero", 100, 100, nil, nova)
	m1 := fighter("m1", 500, 0, withAttack(1))
	m2 := fighter("m2", 500, 0, withAttack(1))
	m3 := fighter("m3", 500, 0, withAttack(1))
	m2.TakeDamage(500)
	s := newPvE(t, idleRules(), player, m1, m2, m3)

	turn, err := s.Act(ActionRequest{Kind: ActionSkill, SkillID: "nova"})
	require.NoError(t, err)

	var touched []string
	for _, a := range turn.Actions {
		touched = append(touched, a.TargetID)
	}
	assert.Equal(t, []string{"m1", "m3"}, touched)
	assert.Equal(t, 450, m1.HP())
	assert.Equal(t, 0, m2.HP())
	assert.Equal(t, 450, m3.HP())
}

func TestSkillCooldownReuseIsRejected(t *testing.T) {
	cat := testCatalog(t)
	focus, _ := cat.Get("focus")
	player := fighter("hero", 1000, 100, nil, focus)
	dummy := fighter("dummy", 10000, 0, withAttack(1))
	s := newPvE(t, idleRules(), player, dummy)

	turn, err := s.Act(ActionRequest{Kind: ActionSkill, SkillID: "focus"})
	require.NoError(t, err)
	require.Len(t, turn.Actions, 1)
	assert.Equal(t, 90, player.MP())

	hpBefore := dummy.HP()
	turn, err = s.Act(ActionRequest{Kind: ActionSkill, SkillID: "focus"})
	require.NoError(t, err)
	assert.Empty(t, turn.Actions)
	assert.Equal(t, 90, player.MP(), "rejected use spends nothing")
	assert.Equal(t, hpBefore, dummy.HP())
	assert.Contains(t, logTexts(turn.Log)[0], "cannot use Focus Strike")

	_, err = s.Act(ActionRequest{Kind: ActionDefend})
	require.NoError(t, err)

	turn, err = s.Act(ActionRequest{Kind: ActionSkill, SkillID: "focus"})
	require.NoError(t, err)
	assert.Len(t, turn.Actions, 1, "cooldown of 3 has elapsed by round 4")
	assert.Equal(t, 80, player.MP())
}

func TestDefendHalvesEveryHitOfOpposingPhase(t *testing.T) {
	player := fighter("hero", 1000, 0, func(s *model.Stats) { s.Defense = 0 })
	m1 := fighter("m1", 10000, 0, withAttack(30))
	m2 := fighter("m2", 10000, 0, withAttack(30))
	s := newPvE(t, attackRules(), player, m1, m2)

	_, err := s.Act(ActionRequest{Kind: ActionDefend})
	require.NoError(t, err)
	assert.Equal(t, 970, player.HP(), "two hits of 30 halved to 15")

	_, err = s.Act(ActionRequest{Kind: ActionAttack})
	require.NoError(t, err)
	assert.False(t, player.IsDefending(), "stance clears on the next own action")
	assert.Equal(t, 910, player.HP())
}

func TestStunnedActorLosesAction(t *testing.T) {
	player := fighter("hero", 100, 0, withAttack(10))
	dummy := fighter("dummy", 1000, 0, withAttack(1))
	s := newPvE(t, idleRules(), player, dummy)
	player.AddStatus(skill.NewStatus("stun", true, 1, 0))

	turn, err := s.Act(ActionRequest{Kind: ActionAttack})
	require.NoError(t, err)
	assert.Equal(t, 1000, dummy.HP())
	assert.Contains(t, logTexts(turn.Log), "hero is stunned and cannot act")
	assert.Equal(t, 1, s.Round(), "round still completes")
	assert.False(t, player.HasStatusKind(model.StatusStun))

	_, err = s.Act(ActionRequest{Kind: ActionAttack})
	require.NoError(t, err)
	assert.Equal(t, 990, dummy.HP())
}

func TestStunnedOpponentSkipsButTicks(t *testing.T) {
	player := fighter("hero", 100, 0, func(s *model.Stats) { s.Defense = 0 })
	m := fighter("m", 1000, 0, withAttack(20))
	m.AddStatus(skill.NewStatus("freeze", true, 2, 0))
	s := newPvE(t, attackRules(), player, m)

	_, err := s.Act(ActionRequest{Kind: ActionDefend})
	require.NoError(t, err)
	assert.Equal(t, 100, player.HP())
	require.Len(t, m.Statuses(), 1)
	assert.Equal(t, 1, m.Statuses()[0].Remaining)

	_, err = s.Act(ActionRequest{Kind: ActionDefend})
	require.NoError(t, err)
	assert.Empty(t, m.Statuses())

	_, err = s.Act(ActionRequest{Kind: ActionItem})
	require.NoError(t, err)
	assert.Equal(t, 80, player.HP(), "stun expired, the hit lands")
}

func TestDebuffStacksTickIndependently(t *testing.T) {
	cat := testCatalog(t)
	venom, _ := cat.Get("venom")
	player := fighter("hero", 100, 0, nil, venom)
	m := fighter("m", 1000, 0, withAttack(1))
	s := newPvE(t, idleRules(), player, m)

	_, err := s.Act(ActionRequest{Kind: ActionSkill, SkillID: "venom", TargetID: "m"})
	require.NoError(t, err)
	// first entry ticks once at the end of round 1
	assert.Equal(t, 993, m.HP())

	_, err = s.Act(ActionRequest{Kind: ActionSkill, SkillID: "venom"})
	require.NoError(t, err)
	statuses := m.Statuses()
	require.Len(t, statuses, 1, "first entry expired, second still running")
	assert.Equal(t, 1, statuses[0].Remaining)
	assert.Equal(t, 979, m.HP())
}

func TestItemHealClamps(t *testing.T) {
	player := fighter("hero", 100, 0, nil)
	s := newPvE(t, idleRules(), player, fighter("m", 100, 0, nil))
	player.TakeDamage(80)

	_, err := s.Act(ActionRequest{Kind: ActionItem})
	require.NoError(t, err)
	assert.Equal(t, 70, player.HP())

	_, err = s.Act(ActionRequest{Kind: ActionItem})
	require.NoError(t, err)
	assert.Equal(t, 100, player.HP())
}

func TestHealTargetsAllyOrSelf(t *testing.T) {
	cat := testCatalog(t)
	mend, _ := cat.Get("mend")
	player := fighter("hero", 100, 0, nil, mend)
	s := newPvE(t, idleRules(), player, fighter("m", 100, 0, nil))
	player.TakeDamage(60)

	turn, err := s.Act(ActionRequest{Kind: ActionSkill, SkillID: "mend"})
	require.NoError(t, err)
	require.Len(t, turn.Actions, 1)
	assert.Equal(t, "hero", turn.Actions[0].TargetID)
	assert.Equal(t, 80, player.HP())
}

func TestInvalidActionsDoNotMutate(t *testing.T) {
	cat := testCatalog(t)
	focus, _ := cat.Get("focus")
	player := fighter("hero", 100, 100, nil, focus)
	alive := fighter("alive", 100, 0, nil)
	dead := fighter("dead", 100, 0, nil)
	dead.TakeDamage(100)
	s := newPvE(t, attackRules(), player, alive, dead)
	player.SetDefending(true)

	tests := []struct {
		name string
		req  ActionRequest
		want error
	}{
		{"unknown skill", ActionRequest{Kind: ActionSkill, SkillID: "meteor"}, ErrUnknownSkill},
		{"unknown target", ActionRequest{Kind: ActionAttack, TargetID: "ghost"}, ErrInvalidTarget},
		{"perished target", ActionRequest{Kind: ActionAttack, TargetID: "dead"}, ErrInvalidTarget},
		{"perished skill target", ActionRequest{Kind: ActionSkill, SkillID: "focus", TargetID: "dead"}, ErrInvalidTarget},
		{"ally as hostile target", ActionRequest{Kind: ActionSkill, SkillID: "focus", TargetID: "hero"}, ErrInvalidTarget},
		{"unknown kind", ActionRequest{Kind: ActionKind(99)}, ErrInvalidAction},
		{"foreign actor", ActionRequest{Kind: ActionAttack, ActorID: "alive"}, ErrInvalidAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logLen := len(s.Log())
			turn, err := s.Act(tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, turn.Log)
			assert.Len(t, s.Log(), logLen)
			assert.Equal(t, 0, s.Round())
			assert.Equal(t, 100, player.MP())
			assert.Equal(t, 100, player.HP())
			assert.True(t, player.IsDefending())
		})
	}
}

func TestTerminalSessionRejectsActions(t *testing.T) {
	player := fighter("hero", 100, 0, withSpeed(200))
	s := newPvE(t, idleRules(), player, fighter("m", 100, 0, nil))
	_, err := s.Act(ActionRequest{Kind: ActionFlee})
	require.NoError(t, err)

	logLen := len(s.Log())
	turn, err := s.Act(ActionRequest{Kind: ActionAttack})
	require.ErrorIs(t, err, ErrSessionClosed)
	assert.Equal(t, StatusFled, turn.Status)
	assert.Len(t, s.Log(), logLen)
	assert.Equal(t, 1, s.Round())

	_, err = s.AutoResolve(10)
	assert.ErrorIs(t, err, ErrSessionClosed)

	_, ok := s.Report()
	assert.False(t, ok)
}

func TestDefeatWhenLeaderFalls(t *testing.T) {
	player := fighter("hero", 10, 0, func(s *model.Stats) { s.Defense = 0 })
	s := newPvE(t, attackRules(), player, fighter("brute", 1000, 0, withAttack(50)))

	turn, err := s.Act(ActionRequest{Kind: ActionAttack})
	require.NoError(t, err)
	assert.Equal(t, StatusDefeat, turn.Status)
	assert.Equal(t, 0, player.HP())
	assert.Contains(t, logTexts(turn.Log), "hero has fallen")
}

func TestDefeatCheckedBeforeVictory(t *testing.T) {
	player := fighter("hero", 5, 0, nil)
	m := fighter("m", 5, 0, nil)
	s := newPvE(t, idleRules(), player, m)
	player.AddStatus(skill.NewStatus("poison", true, 1, 10))
	m.AddStatus(skill.NewStatus("poison", true, 1, 10))

	turn, err := s.Act(ActionRequest{Kind: ActionDefend})
	require.NoError(t, err)
	assert.Equal(t, StatusDefeat, turn.Status)
}

func TestTurnOrderBySpeedStable(t *testing.T) {
	p := fighter("p", 10, 0, withSpeed(10))
	m1 := fighter("m1", 10, 0, withSpeed(30))
	m2 := fighter("m2", 10, 0, withSpeed(10))
	m3 := fighter("m3", 10, 0, withSpeed(30))
	s := newPvE(t, idleRules(), p, m1, m2, m3)

	assert.Equal(t, []string{"m1", "m3", "p", "m2"}, s.TurnOrder())
}

func TestNewSessionValidation(t *testing.T) {
	_, err := NewSession("x", KindPvE, nil, []*Fighter{fighter("m", 1, 0, nil)}, DefaultRules(), Seed{})
	assert.ErrorIs(t, err, ErrInvalidAction)

	a := fighter("same", 1, 0, nil)
	b := fighter("same", 1, 0, nil)
	_, err = NewSession("x", KindPvE, []*Fighter{a}, []*Fighter{b}, DefaultRules(), Seed{})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestPvPDefenderIsAutomated(t *testing.T) {
	a := fighter("a", 1000, 0, func(s *model.Stats) { s.Defense = 0 })
	b := fighter("b", 1000, 0, withAttack(40))
	a.Entity = model.NewEntity(model.EntitySpec{ID: "a", Name: "a", MaxHP: 1000, Stats: a.BaseStats(), Sect: model.SectQingyun})
	s, err := NewPvP("pvp_test", a, b, attackRules(), Seed{Hi: 9})
	require.NoError(t, err)
	assert.Equal(t, KindPvP, s.Kind())

	_, err = s.Act(ActionRequest{Kind: ActionDefend})
	require.NoError(t, err)
	assert.Equal(t, 980, a.HP())
}

func TestPlainAttackUsesFactionAdvantage(t *testing.T) {
	mk := func(id string, sect model.Sect, attack float64) *Fighter {
		st := model.DefaultStats()
		st.CritRate, st.DodgeRate, st.Attack, st.Defense = 0, 0, attack, 0
		return &Fighter{Entity: model.NewEntity(model.EntitySpec{ID: id, Name: id, MaxHP: 1000, Stats: st, Sect: sect})}
	}
	attacker := mk("qy", model.SectQingyun, 100)
	defender := mk("xy", model.SectXiaoyao, 1)
	s := newPvE(t, idleRules(), attacker, defender)

	_, err := s.Act(ActionRequest{Kind: ActionAttack})
	require.NoError(t, err)
	assert.Equal(t, 850, defender.HP(), "100 × 1.5")
}
