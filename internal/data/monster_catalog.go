package data

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// ErrUnknownMonster is returned when a monster id is not in the catalog.
var ErrUnknownMonster = errors.New("unknown monster")

// Level scaling bounds for monster instantiation.
const (
	levelStep          = 0.1
	minLevelMultiplier = 0.5
	maxLevelMultiplier = 3.0
)

// Difficulty tags a monster template and an encounter.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
	DifficultyBoss   Difficulty = "boss"
)

// BossID is the template that leads every boss encounter.
const BossID = "demon_king"

// ParseDifficulty converts a name to Difficulty. Empty means normal.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(s)); d {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyBoss:
		return d, nil
	default:
		return DifficultyNormal, fmt.Errorf("unknown difficulty %q", s)
	}
}

// EnemyCount returns how many monsters an encounter of this difficulty spawns.
func (d Difficulty) EnemyCount() int {
	switch d {
	case DifficultyEasy, DifficultyBoss:
		return 1
	case DifficultyHard:
		return 3
	default:
		return 2
	}
}

// MonsterTemplate is a static monster definition.
type MonsterTemplate struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	LevelRange  [2]int        `yaml:"level_range"`
	Difficulty  Difficulty    `yaml:"difficulty"`
	Element     model.Element `yaml:"element"`
	BaseHP      int           `yaml:"base_hp"`
	BaseMP      int           `yaml:"base_mp"`
	BaseAttack  int           `yaml:"base_attack"`
	BaseDefense int           `yaml:"base_defense"`
	BaseSpeed   int           `yaml:"base_speed"`
	Skills      []string      `yaml:"skills"`
	XPReward    int           `yaml:"xp_reward"`
	StoneReward int           `yaml:"stone_reward"`
}

// Fits reports whether a player of this level is in the template's range.
func (t MonsterTemplate) Fits(level int) bool {
	return t.LevelRange[0] <= level && level <= t.LevelRange[1]
}

// LevelMultiplier returns 1 + (playerLevel − minLevel)×0.1 clamped to [0.5, 3.0].
func (t MonsterTemplate) LevelMultiplier(playerLevel int) float64 {
	m := 1 + float64(playerLevel-t.LevelRange[0])*levelStep
	return min(max(m, minLevelMultiplier), maxLevelMultiplier)
}

// MonsterInstance is a template scaled for one encounter.
type MonsterInstance struct {
	TemplateID  string
	Name        string
	Level       int
	MaxHP       int
	MaxMP       int
	Stats       model.Stats
	Skills      []string
	XPReward    int
	StoneReward int
	Difficulty  Difficulty
}

// Instantiate scales a template to the player's level.
func (t MonsterTemplate) Instantiate(playerLevel int) MonsterInstance {
	m := t.LevelMultiplier(playerLevel)
	scale := func(v int) int { return int(float64(v) * m) }

	stats := model.DefaultStats()
	stats.Attack = float64(scale(t.BaseAttack))
	stats.Defense = float64(scale(t.BaseDefense))
	stats.MagicAttack = stats.Attack
	stats.MagicResist = stats.Defense
	stats.Speed = float64(scale(t.BaseSpeed))
	stats.DodgeRate = 0.05
	stats.Element = t.Element

	return MonsterInstance{
		TemplateID:  t.ID,
		Name:        t.Name,
		Level:       max(1, min(playerLevel, t.LevelRange[1])),
		MaxHP:       max(1, scale(t.BaseHP)),
		MaxMP:       scale(t.BaseMP),
		Stats:       stats,
		Skills:      slices.Clone(t.Skills),
		XPReward:    scale(t.XPReward),
		StoneReward: scale(t.StoneReward),
		Difficulty:  t.Difficulty,
	}
}

// Entity builds the combat entity for this instance.
func (m MonsterInstance) Entity(id string) *model.Entity {
	return model.NewEntity(model.EntitySpec{
		ID:    id,
		Name:  m.Name,
		Level: m.Level,
		MaxHP: m.MaxHP,
		MaxMP: m.MaxMP,
		Stats: m.Stats,
	})
}

// MonsterCatalog is a read-only set of monster templates.
type MonsterCatalog struct {
	byID map[string]MonsterTemplate
	ids  []string
}

// NewMonsterCatalog builds a catalog, rejecting duplicate ids and bad ranges.
func NewMonsterCatalog(templates ...MonsterTemplate) (*MonsterCatalog, error) {
	c := &MonsterCatalog{byID: make(map[string]MonsterTemplate, len(templates))}
	for _, t := range templates {
		if t.ID == "" {
			return nil, fmt.Errorf("monster without id (name %q)", t.Name)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate monster id %q", t.ID)
		}
		if t.LevelRange[0] > t.LevelRange[1] {
			return nil, fmt.Errorf("monster %q: level range %v is inverted", t.ID, t.LevelRange)
		}
		if t.Difficulty == "" {
			t.Difficulty = DifficultyNormal
		}
		t.Skills = slices.Clone(t.Skills)
		c.byID[t.ID] = t
		c.ids = append(c.ids, t.ID)
	}
	slices.Sort(c.ids)
	return c, nil
}

// ParseMonsterCatalog decodes a yaml monster list.
func ParseMonsterCatalog(data []byte) (*MonsterCatalog, error) {
	var file struct {
		Monsters []MonsterTemplate `yaml:"monsters"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing monster catalog: %w", err)
	}
	return NewMonsterCatalog(file.Monsters...)
}

// Len returns the number of templates.
func (c *MonsterCatalog) Len() int {
	return len(c.ids)
}

// IDs returns template ids in sorted order.
func (c *MonsterCatalog) IDs() []string {
	return slices.Clone(c.ids)
}

// Get returns a template by id.
func (c *MonsterCatalog) Get(id string) (MonsterTemplate, bool) {
	t, ok := c.byID[id]
	if !ok {
		return MonsterTemplate{}, false
	}
	t.Skills = slices.Clone(t.Skills)
	return t, true
}

// Templates returns all templates in id order.
func (c *MonsterCatalog) Templates() []MonsterTemplate {
	out := make([]MonsterTemplate, 0, len(c.ids))
	for _, id := range c.ids {
		t, _ := c.Get(id)
		out = append(out, t)
	}
	return out
}

// Intn is the random source Pick draws from. *rand.Rand satisfies it.
type Intn interface {
	IntN(n int) int
}

// Pick returns the template named id, or when id is empty a random template
// whose level range fits playerLevel (any template if none fits).
func (c *MonsterCatalog) Pick(id string, playerLevel int, rng Intn) (MonsterTemplate, error) {
	if id != "" {
		t, ok := c.Get(id)
		if !ok {
			return MonsterTemplate{}, fmt.Errorf("%w: %s", ErrUnknownMonster, id)
		}
		return t, nil
	}
	if len(c.ids) == 0 {
		return MonsterTemplate{}, fmt.Errorf("%w: catalog is empty", ErrUnknownMonster)
	}

	var suitable []string
	for _, tid := range c.ids {
		if c.byID[tid].Fits(playerLevel) {
			suitable = append(suitable, tid)
		}
	}
	if len(suitable) == 0 {
		suitable = c.ids
	}
	t, _ := c.Get(suitable[rng.IntN(len(suitable))])
	return t, nil
}

// Spawn instantiates the monsters of an encounter. Boss encounters always
// lead with the boss template; the remaining slots use monsterID or a random
// level-appropriate pick.
func (c *MonsterCatalog) Spawn(difficulty Difficulty, monsterID string, playerLevel int, rng Intn) ([]MonsterInstance, error) {
	n := difficulty.EnemyCount()
	out := make([]MonsterInstance, 0, n)
	for i := range n {
		id := monsterID
		if difficulty == DifficultyBoss && i == 0 {
			id = BossID
		}
		t, err := c.Pick(id, playerLevel, rng)
		if err != nil {
			return nil, fmt.Errorf("spawning %s encounter: %w", difficulty, err)
		}
		out = append(out, t.Instantiate(playerLevel))
	}
	return out, nil
}
