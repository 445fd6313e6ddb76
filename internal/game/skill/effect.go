package skill

import (
	"fmt"
	"math"
	"strings"

	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// EffectKind tags the variants of Effect.
type EffectKind int8

const (
	KindDamage EffectKind = iota
	KindHeal
	KindBuff
	KindDebuff
)

// String returns lower-case kind name.
func (k EffectKind) String() string {
	switch k {
	case KindDamage:
		return "damage"
	case KindHeal:
		return "heal"
	case KindBuff:
		return "buff"
	case KindDebuff:
		return "debuff"
	default:
		return "unknown"
	}
}

// MarshalText encodes kind as its name.
func (k EffectKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Effect is one step of a skill. The set of implementations is closed:
// Damage, Heal, Buff and Debuff. Consumers switch on the concrete type.
type Effect interface {
	Kind() EffectKind
	effect()
}

// Scaling is the base + stat × factor part shared by every effect.
type Scaling struct {
	Base   float64
	Stat   model.StatKind
	Factor float64
}

// Amount evaluates the scaling against a stat bundle.
func (s Scaling) Amount(src model.Stats) float64 {
	return s.Base + src.Value(s.Stat)*s.Factor
}

// Damage hits the target Hits times with one rolled value.
type Damage struct {
	Scaling
	Element model.Element
	Hits    int
}

// Heal restores target hp.
type Heal struct {
	Scaling
}

// Buff attaches a beneficial status.
type Buff struct {
	Scaling
	StatusID string
	Duration int
}

// Debuff attaches a harmful status.
type Debuff struct {
	Scaling
	StatusID string
	Duration int
}

func (Damage) Kind() EffectKind { return KindDamage }
func (Heal) Kind() EffectKind   { return KindHeal }
func (Buff) Kind() EffectKind   { return KindBuff }
func (Debuff) Kind() EffectKind { return KindDebuff }

func (Damage) effect() {}
func (Heal) effect()   {}
func (Buff) effect()   {}
func (Debuff) effect() {}

// FallbackStrike is used when a skill has no usable effect definition.
var FallbackStrike Effect = Damage{
	Scaling: Scaling{Base: 0, Stat: model.StatAttack, Factor: 1},
	Element: model.ElementPhysical,
	Hits:    1,
}

// magnitude converts a status scaling to a non-negative integer.
func magnitude(s Scaling, caster model.Stats) int {
	return max(0, int(math.Floor(s.Amount(caster))))
}

// effectSpec is the yaml shape of an effect.
type effectSpec struct {
	Kind     string         `yaml:"kind"`
	Base     float64        `yaml:"base"`
	Stat     model.StatKind `yaml:"stat"`
	Factor   float64        `yaml:"factor"`
	Element  model.Element  `yaml:"element"`
	Status   string         `yaml:"status"`
	Duration int            `yaml:"duration"`
	Hits     int            `yaml:"hits"`
}

func (s effectSpec) toEffect() (Effect, error) {
	sc := Scaling{Base: s.Base, Stat: s.Stat, Factor: s.Factor}
	switch strings.ToLower(s.Kind) {
	case "damage":
		hits := s.Hits
		if hits < 1 {
			hits = 1
		}
		elem := s.Element
		if elem == model.ElementNone {
			elem = model.ElementPhysical
		}
		return Damage{Scaling: sc, Element: elem, Hits: hits}, nil
	case "heal":
		return Heal{Scaling: sc}, nil
	case "buff":
		if s.Status == "" {
			return nil, fmt.Errorf("buff effect without status")
		}
		return Buff{Scaling: sc, StatusID: s.Status, Duration: s.Duration}, nil
	case "debuff":
		if s.Status == "" {
			return nil, fmt.Errorf("debuff effect without status")
		}
		return Debuff{Scaling: sc, StatusID: s.Status, Duration: s.Duration}, nil
	default:
		return nil, fmt.Errorf("unknown effect kind %q", s.Kind)
	}
}
