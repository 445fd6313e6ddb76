package skill

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// Type classifies how a skill is triggered.
type Type int8

const (
	TypeActive Type = iota
	TypePassive
	TypeToggle
	TypeTrigger
)

// String returns lower-case type name.
func (t Type) String() string {
	switch t {
	case TypeActive:
		return "active"
	case TypePassive:
		return "passive"
	case TypeToggle:
		return "toggle"
	case TypeTrigger:
		return "trigger"
	default:
		return "unknown"
	}
}

func parseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "", "active":
		return TypeActive, nil
	case "passive":
		return TypePassive, nil
	case "toggle":
		return TypeToggle, nil
	case "trigger":
		return TypeTrigger, nil
	default:
		return TypeActive, fmt.Errorf("unknown skill type %q", s)
	}
}

// TargetRule selects who a skill affects.
type TargetRule int8

const (
	TargetSelf TargetRule = iota
	TargetSingleEnemy
	TargetAllEnemies
	TargetSingleAlly
	TargetAllAllies
)

// String returns snake_case rule name.
func (r TargetRule) String() string {
	switch r {
	case TargetSelf:
		return "self"
	case TargetSingleEnemy:
		return "single_enemy"
	case TargetAllEnemies:
		return "all_enemies"
	case TargetSingleAlly:
		return "single_ally"
	case TargetAllAllies:
		return "all_allies"
	default:
		return "unknown"
	}
}

// Hostile reports whether the rule picks from the opposing side.
func (r TargetRule) Hostile() bool {
	return r == TargetSingleEnemy || r == TargetAllEnemies
}

func parseTargetRule(s string) (TargetRule, error) {
	switch strings.ToLower(s) {
	case "self":
		return TargetSelf, nil
	case "", "single_enemy":
		return TargetSingleEnemy, nil
	case "all_enemies":
		return TargetAllEnemies, nil
	case "single_ally":
		return TargetSingleAlly, nil
	case "all_allies":
		return TargetAllAllies, nil
	default:
		return TargetSingleEnemy, fmt.Errorf("unknown target rule %q", s)
	}
}

// Cost is what a skill consumes on use.
type Cost struct {
	MP int
	HP int
}

// Requirements gate learning a skill; they are not checked at cast time.
type Requirements struct {
	Level int
	Sect  model.Sect
}

// Template is an immutable skill definition stored in the Catalog.
type Template struct {
	ID           string
	Name         string
	Description  string
	Type         Type
	Target       TargetRule
	Cost         Cost
	Cooldown     int
	Requirements Requirements
	Element      model.Element
	Effects      []Effect
}

func (t Template) clone() Template {
	t.Effects = slices.Clone(t.Effects)
	return t
}

// Unlockable reports whether a cultivator of the given level and sect may learn the skill.
func (t Template) Unlockable(level int, sect model.Sect) bool {
	if level < t.Requirements.Level {
		return false
	}
	return t.Requirements.Sect == model.SectNone || t.Requirements.Sect == sect
}

// Instance is a per-owner copy of a Template with its own cooldown.
type Instance struct {
	Template
	currentCooldown int
}

// NewInstance clones tmpl into a ready-to-use instance.
func NewInstance(tmpl Template) *Instance {
	return &Instance{Template: tmpl.clone()}
}

// CurrentCooldown returns rounds left before the skill is usable again.
func (i *Instance) CurrentCooldown() int {
	return i.currentCooldown
}

// SetCurrentCooldown overrides the cooldown counter (snapshot restore).
func (i *Instance) SetCurrentCooldown(n int) {
	i.currentCooldown = max(0, n)
}

// Ready reports whether the cooldown has elapsed.
func (i *Instance) Ready() bool {
	return i.currentCooldown <= 0
}

// CanUse reports whether the skill is off cooldown and affordable.
func (i *Instance) CanUse(mp, hp int) bool {
	return i.Ready() && mp >= i.Cost.MP && hp >= i.Cost.HP
}

// StartCooldown puts the skill on its full cooldown.
func (i *Instance) StartCooldown() {
	i.currentCooldown = i.Cooldown
}

// ReduceCooldown advances the cooldown by one round.
func (i *Instance) ReduceCooldown() {
	if i.currentCooldown > 0 {
		i.currentCooldown--
	}
}

// Clone returns an independent copy including current cooldown.
func (i *Instance) Clone() *Instance {
	return &Instance{Template: i.Template.clone(), currentCooldown: i.currentCooldown}
}
