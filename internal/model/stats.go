package model

import (
	"fmt"
	"strings"
)

// StatKind names a numeric combat stat that skill formulas can scale from.
type StatKind int8

const (
	StatNone StatKind = iota
	StatAttack
	StatDefense
	StatMagicAttack
	StatMagicResist
	StatSpeed
	StatWillpower
	StatCritRate
	StatCritDamage
	StatDodgeRate
	StatHealingReceived
)

var statNames = [...]string{
	StatNone:            "none",
	StatAttack:          "attack",
	StatDefense:         "defense",
	StatMagicAttack:     "magic_attack",
	StatMagicResist:     "magic_resist",
	StatSpeed:           "speed",
	StatWillpower:       "willpower",
	StatCritRate:        "crit_rate",
	StatCritDamage:      "crit_damage",
	StatDodgeRate:       "dodge_rate",
	StatHealingReceived: "healing_received",
}

// String returns snake_case stat name.
func (k StatKind) String() string {
	if k < 0 || int(k) >= len(statNames) {
		return "unknown"
	}
	return statNames[k]
}

// ParseStatKind converts a name to StatKind.
// "intellect" is accepted as an alias of willpower.
func ParseStatKind(s string) (StatKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return StatNone, nil
	case "intellect":
		return StatWillpower, nil
	}
	for i, name := range statNames {
		if name == s {
			return StatKind(i), nil
		}
	}
	return StatNone, fmt.Errorf("unknown stat %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
// Unknown stat names decode to StatNone so content with exotic stats still loads.
func (k *StatKind) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseStatKind(s)
	if err != nil {
		*k = StatNone
		return nil
	}
	*k = parsed
	return nil
}

// MarshalText encodes stat as its name.
func (k StatKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes stat name.
func (k *StatKind) UnmarshalText(b []byte) error {
	parsed, err := ParseStatKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Stats is the combat stat bundle of one participant.
// Callers build it from player aggregates or monster templates.
type Stats struct {
	Attack          float64 `yaml:"attack" json:"attack"`
	Defense         float64 `yaml:"defense" json:"defense"`
	MagicAttack     float64 `yaml:"magic_attack" json:"magic_attack"`
	MagicResist     float64 `yaml:"magic_resist" json:"magic_resist"`
	Speed           float64 `yaml:"speed" json:"speed"`
	Willpower       float64 `yaml:"willpower" json:"willpower"`
	CritRate        float64 `yaml:"crit_rate" json:"crit_rate"`
	CritDamage      float64 `yaml:"crit_damage" json:"crit_damage"`
	DodgeRate       float64 `yaml:"dodge_rate" json:"dodge_rate"`
	Element         Element `yaml:"element" json:"element"`
	HealingReceived float64 `yaml:"healing_received" json:"healing_received"`
}

// DefaultStats returns the baseline bundle for a fresh participant.
func DefaultStats() Stats {
	return Stats{
		Attack:          10,
		Defense:         5,
		MagicAttack:     10,
		MagicResist:     5,
		Speed:           10,
		Willpower:       10,
		CritRate:        0.05,
		CritDamage:      1.5,
		DodgeRate:       0,
		Element:         ElementNone,
		HealingReceived: 1.0,
	}
}

// Value reads a stat by kind. StatNone and unknown kinds read 0.
func (s Stats) Value(k StatKind) float64 {
	switch k {
	case StatAttack:
		return s.Attack
	case StatDefense:
		return s.Defense
	case StatMagicAttack:
		return s.MagicAttack
	case StatMagicResist:
		return s.MagicResist
	case StatSpeed:
		return s.Speed
	case StatWillpower:
		return s.Willpower
	case StatCritRate:
		return s.CritRate
	case StatCritDamage:
		return s.CritDamage
	case StatDodgeRate:
		return s.DodgeRate
	case StatHealingReceived:
		return s.HealingReceived
	default:
		return 0
	}
}

// WithBonus returns a copy with delta added to the named stat.
func (s Stats) WithBonus(k StatKind, delta float64) Stats {
	switch k {
	case StatAttack:
		s.Attack += delta
	case StatDefense:
		s.Defense += delta
	case StatMagicAttack:
		s.MagicAttack += delta
	case StatMagicResist:
		s.MagicResist += delta
	case StatSpeed:
		s.Speed += delta
	case StatWillpower:
		s.Willpower += delta
	case StatCritRate:
		s.CritRate += delta
	case StatCritDamage:
		s.CritDamage += delta
	case StatDodgeRate:
		s.DodgeRate += delta
	case StatHealingReceived:
		s.HealingReceived += delta
	}
	return s
}

// Add returns the sum of two bundles. Element of s is kept unless s has none.
// Used to fold sect and equipment deltas into base stats.
func (s Stats) Add(d Stats) Stats {
	s.Attack += d.Attack
	s.Defense += d.Defense
	s.MagicAttack += d.MagicAttack
	s.MagicResist += d.MagicResist
	s.Speed += d.Speed
	s.Willpower += d.Willpower
	s.CritRate += d.CritRate
	s.CritDamage += d.CritDamage
	s.DodgeRate += d.DodgeRate
	s.HealingReceived += d.HealingReceived
	if s.Element == ElementNone {
		s.Element = d.Element
	}
	return s
}
