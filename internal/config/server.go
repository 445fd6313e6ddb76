package config

import (
	"fmt"
	"time"
)

// Combat holds battle engine tuning.
type Combat struct {
	MaxAutoRounds int           `yaml:"max_auto_rounds"`
	SessionTTL    time.Duration `yaml:"session_ttl"`    // idle ACTIVE sessions expire after this
	TerminalGrace time.Duration `yaml:"terminal_grace"` // finished sessions stay readable this long
	SweepInterval time.Duration `yaml:"sweep_interval"`
	ItemHeal      int           `yaml:"item_heal"`
}

// DefaultCombat returns a 50-round cap, 15m TTL, 1m grace, 30s sweep and 50 hp pills.
func DefaultCombat() Combat {
	return Combat{
		MaxAutoRounds: 50,
		SessionTTL:    15 * time.Minute,
		TerminalGrace: time.Minute,
		SweepInterval: 30 * time.Second,
		ItemHeal:      50,
	}
}

// Content points at yaml files replacing the built-in content. Empty means built-in.
type Content struct {
	SkillsPath   string `yaml:"skills_path"`
	MonstersPath string `yaml:"monsters_path"`
}

// Server holds all configuration for the game server.
type Server struct {
	LogLevel string `yaml:"log_level"`

	// Persistence enables session checkpoints in PostgreSQL.
	Persistence bool           `yaml:"persistence"`
	Database    DatabaseConfig `yaml:"database"`

	Combat  Combat  `yaml:"combat"`
	Content Content `yaml:"content"`
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		LogLevel: "info",
		Database: DefaultDatabase(),
		Combat:   DefaultCombat(),
	}
}

// Validate rejects settings the engine cannot run with.
func (s Server) Validate() error {
	c := s.Combat
	switch {
	case c.MaxAutoRounds <= 0:
		return fmt.Errorf("combat.max_auto_rounds must be positive, got %d", c.MaxAutoRounds)
	case c.SessionTTL <= 0:
		return fmt.Errorf("combat.session_ttl must be positive, got %s", c.SessionTTL)
	case c.TerminalGrace < 0:
		return fmt.Errorf("combat.terminal_grace must not be negative, got %s", c.TerminalGrace)
	case c.SweepInterval <= 0:
		return fmt.Errorf("combat.sweep_interval must be positive, got %s", c.SweepInterval)
	case c.ItemHeal <= 0:
		return fmt.Errorf("combat.item_heal must be positive, got %d", c.ItemHeal)
	}
	return nil
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()
	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
