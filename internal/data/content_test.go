package data

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

func TestLoadEmbeddedContent(t *testing.T) {
	skills, err := LoadSkillCatalog("")
	require.NoError(t, err)
	monsters, err := LoadMonsterCatalog("")
	require.NoError(t, err)

	assert.Equal(t, 6, monsters.Len())
	for _, tmpl := range monsters.Templates() {
		for _, sid := range tmpl.Skills {
			assert.True(t, skills.Has(sid), "monster %s references missing skill %s", tmpl.ID, sid)
		}
	}
	for _, sect := range []model.Sect{model.SectQingyun, model.SectDanding, model.SectWanhua, model.SectXiaoyao, model.SectShushan} {
		assert.NotEmpty(t, skills.BySect(sect), "sect %s has no skills", sect)
	}
}

func TestLoadContentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monsters.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
monsters:
  - id: slime
    name: Slime
    level_range: [1, 3]
    base_hp: 10
    base_attack: 2
`), 0o600))

	cat, err := LoadMonsterCatalog(path)
	require.NoError(t, err)
	tmpl, ok := cat.Get("slime")
	require.True(t, ok)
	assert.Equal(t, DifficultyNormal, tmpl.Difficulty)

	_, err = LoadMonsterCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseMonsterCatalogRejectsDuplicates(t *testing.T) {
	_, err := ParseMonsterCatalog([]byte(`
monsters:
  - {id: a, level_range: [1, 2]}
  - {id: a, level_range: [1, 2]}
`))
	assert.ErrorContains(t, err, "duplicate")

	_, err = ParseMonsterCatalog([]byte(`
monsters:
  - {id: b, level_range: [5, 2]}
`))
	assert.ErrorContains(t, err, "inverted")
}

func TestLevelMultiplier(t *testing.T) {
	tmpl := MonsterTemplate{LevelRange: [2]int{10, 25}}
	tests := []struct {
		level int
		want  float64
	}{
		{10, 1.0},
		{15, 1.5},
		{5, 0.5},
		{1, 0.5},
		{30, 3.0},
		{60, 3.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, tmpl.LevelMultiplier(tt.level), 1e-9, "level %d", tt.level)
	}
}

func TestInstantiate(t *testing.T) {
	tmpl := MonsterTemplate{
		ID:          "wolf",
		Name:        "Wolf",
		LevelRange:  [2]int{1, 10},
		Element:     model.ElementWood,
		BaseHP:      80,
		BaseMP:      30,
		BaseAttack:  15,
		BaseDefense: 5,
		BaseSpeed:   12,
		Skills:      []string{"bite"},
		XPReward:    50,
		StoneReward: 10,
	}

	m := tmpl.Instantiate(11)
	assert.Equal(t, 10, m.Level, "level clamps to range max")
	assert.Equal(t, 160, m.MaxHP)
	assert.Equal(t, 30.0, m.Stats.Attack)
	assert.Equal(t, m.Stats.Defense, m.Stats.MagicResist)
	assert.Equal(t, model.ElementWood, m.Stats.Element)
	assert.Equal(t, 100, m.XPReward)

	m.Skills[0] = "mutated"
	assert.Equal(t, "bite", tmpl.Skills[0])

	e := m.Entity("m1")
	assert.Equal(t, "m1", e.ID())
	assert.Equal(t, 160, e.HP())
}

func TestPick(t *testing.T) {
	cat, err := LoadMonsterCatalog("")
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(1, 2))

	tmpl, err := cat.Pick("ice_soul", 1, rng)
	require.NoError(t, err)
	assert.Equal(t, "ice_soul", tmpl.ID)

	_, err = cat.Pick("dragon", 1, rng)
	assert.ErrorIs(t, err, ErrUnknownMonster)

	for range 50 {
		tmpl, err := cat.Pick("", 30, rng)
		require.NoError(t, err)
		assert.True(t, tmpl.Fits(30), "%s does not fit level 30", tmpl.ID)
	}

	tmpl, err = cat.Pick("", 1000, rng)
	require.NoError(t, err, "falls back to any template")
	assert.NotEmpty(t, tmpl.ID)
}

func TestSpawn(t *testing.T) {
	cat, err := LoadMonsterCatalog("")
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(3, 4))

	tests := []struct {
		difficulty Difficulty
		count      int
	}{
		{DifficultyEasy, 1},
		{DifficultyNormal, 2},
		{DifficultyHard, 3},
		{DifficultyBoss, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			got, err := cat.Spawn(tt.difficulty, "", 5, rng)
			require.NoError(t, err)
			assert.Len(t, got, tt.count)
		})
	}

	boss, err := cat.Spawn(DifficultyBoss, "wolf", 5, rng)
	require.NoError(t, err)
	assert.Equal(t, BossID, boss[0].TemplateID)

	_, err = cat.Spawn(DifficultyNormal, "dragon", 5, rng)
	assert.ErrorIs(t, err, ErrUnknownMonster)
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("HARD")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, d)

	d, err = ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyNormal, d)

	_, err = ParseDifficulty("nightmare")
	assert.Error(t, err)
}
