package data

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/Dre1stein/xiuxian-mud/internal/game/skill"
)

//go:embed content/skills.yaml
var defaultSkillsYAML []byte

//go:embed content/monsters.yaml
var defaultMonstersYAML []byte

// readContent returns the file at path, or fallback when path is empty.
func readContent(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	return b, nil
}

// LoadSkillCatalog parses the skill catalog from path, or the built-in
// content when path is empty.
func LoadSkillCatalog(path string) (*skill.Catalog, error) {
	b, err := readContent(path, defaultSkillsYAML)
	if err != nil {
		return nil, err
	}
	cat, err := skill.ParseCatalog(b)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded skill templates", "count", cat.Len(), "source", sourceName(path))
	return cat, nil
}

// LoadMonsterCatalog parses monster templates from path, or the built-in
// content when path is empty.
func LoadMonsterCatalog(path string) (*MonsterCatalog, error) {
	b, err := readContent(path, defaultMonstersYAML)
	if err != nil {
		return nil, err
	}
	cat, err := ParseMonsterCatalog(b)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded monster templates", "count", cat.Len(), "source", sourceName(path))
	return cat, nil
}

func sourceName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
