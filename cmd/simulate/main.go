// simulate builds a cultivator and an encounter from the built-in content and
// auto-resolves the battle, printing the log.
//
// Usage:
//
//	go run ./cmd/simulate -sect shushan -level 12 -difficulty hard
//	go run ./cmd/simulate -monster demon_king -stage jindan -seed 7
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/Dre1stein/xiuxian-mud/internal/data"
	"github.com/Dre1stein/xiuxian-mud/internal/game/battle"
	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

type options struct {
	name         string
	sect         string
	stage        string
	level        int
	difficulty   string
	monster      string
	seed         uint64
	maxRounds    int
	skillsPath   string
	monstersPath string
}

func main() {
	var opts options
	flag.StringVar(&opts.name, "name", "Wanderer", "cultivator name")
	flag.StringVar(&opts.sect, "sect", "qingyun", "sect: qingyun, danding, wanhua, xiaoyao, shushan")
	flag.StringVar(&opts.stage, "stage", "qi", "stage: qi, zhuji, jindan, yuanying, yuanshen")
	flag.IntVar(&opts.level, "level", 1, "cultivator level")
	flag.StringVar(&opts.difficulty, "difficulty", "normal", "encounter: easy, normal, hard, boss")
	flag.StringVar(&opts.monster, "monster", "", "monster template id (random when empty)")
	flag.Uint64Var(&opts.seed, "seed", 1, "random seed")
	flag.IntVar(&opts.maxRounds, "rounds", battle.DefaultMaxAutoRounds, "round cap")
	flag.StringVar(&opts.skillsPath, "skills", "", "skills yaml (built-in when empty)")
	flag.StringVar(&opts.monstersPath, "monsters", "", "monsters yaml (built-in when empty)")
	flag.Parse()

	if err := simulate(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func simulate(w io.Writer, opts options) error {
	sect, err := model.ParseSect(opts.sect)
	if err != nil {
		return err
	}
	stage, err := data.ParseStage(opts.stage)
	if err != nil {
		return err
	}
	difficulty, err := data.ParseDifficulty(opts.difficulty)
	if err != nil {
		return err
	}

	skills, err := data.LoadSkillCatalog(opts.skillsPath)
	if err != nil {
		return err
	}
	monsters, err := data.LoadMonsterCatalog(opts.monstersPath)
	if err != nil {
		return err
	}

	agg := data.DefaultPlayer(opts.name, sect)
	agg.Level = max(1, opts.level)
	agg.Stage = stage
	player := battle.NewPlayerFighter(agg, skills, "player")

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	spawned, err := monsters.Spawn(difficulty, opts.monster, agg.Level, rng)
	if err != nil {
		return err
	}
	foes := make([]*battle.Fighter, 0, len(spawned))
	for i, m := range spawned {
		foes = append(foes, battle.NewMonsterFighter(m, skills, fmt.Sprintf("enemy_%d", i+1)))
	}

	s, err := battle.NewPvE(battle.NewID(battle.KindPvE), player, foes, battle.DefaultRules(),
		battle.Seed{Hi: rng.Uint64(), Lo: rng.Uint64()})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%s, %s, level %d): hp %d, mp %d\n",
		player.Name(), sect, stage, agg.Level, player.MaxHP(), player.MaxMP())
	for _, f := range foes {
		fmt.Fprintf(w, "  vs %s (level %d): hp %d\n", f.Name(), f.Level(), f.MaxHP())
	}
	fmt.Fprintln(w)

	turn, err := s.AutoResolve(opts.maxRounds)
	if err != nil {
		return err
	}
	for _, e := range s.Log() {
		fmt.Fprintln(w, e)
	}

	fmt.Fprintf(w, "\noutcome: %s after %d rounds\n", turn.Outcome, s.Round())
	if report, ok := s.Report(); ok {
		fmt.Fprintf(w, "defeated: %v\nxp: %d, spirit stones: %d\n",
			report.DefeatedTemplateIDs, report.XP, report.SpiritStones)
	}
	return nil
}
