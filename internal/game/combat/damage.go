package combat

import (
	"math"

	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// MitigationFactor is the share of the defense stat subtracted from a hit.
const MitigationFactor = 0.5

// DamageClass selects which attack/defense stat pair a hit uses.
type DamageClass int8

const (
	// ClassPhysical uses attack vs defense.
	ClassPhysical DamageClass = iota
	// ClassMagic uses magic attack vs magic resist.
	ClassMagic
	// ClassTrue skips mitigation entirely.
	ClassTrue
)

// String returns class name.
func (c DamageClass) String() string {
	switch c {
	case ClassPhysical:
		return "physical"
	case ClassMagic:
		return "magic"
	case ClassTrue:
		return "true"
	default:
		return "unknown"
	}
}

// ClassFor returns the damage class an elemental effect deals:
// physical element hits physically, everything else is magic.
func ClassFor(e model.Element) DamageClass {
	if e == model.ElementPhysical {
		return ClassPhysical
	}
	return ClassMagic
}

// StatSource exposes exactly what the calculator reads from a participant.
// Entities, monster instances and test doubles supply their own defaults.
type StatSource interface {
	CombatStats() model.Stats
}

// Roller is a uniform [0,1) random source. *rand.Rand satisfies it.
type Roller interface {
	Float64() float64
}

// HitRequest describes one damage roll.
type HitRequest struct {
	Element model.Element
	Class   DamageClass
	Base    float64
	Stat    model.StatKind
	Factor  float64
}

// Hit is the result of one damage roll.
type Hit struct {
	Amount            float64
	Crit              bool
	ElementMultiplier float64
	Dodged            bool
}

// Value truncates the hit to integer damage. Dodged hits deal 0, others at least 1.
func (h Hit) Value() int {
	if h.Dodged {
		return 0
	}
	return max(1, int(h.Amount))
}

// Calculator resolves hits and heals. Stateless apart from its counter table.
type Calculator struct {
	counters *CounterTable
}

// NewCalculator creates a calculator. A nil table makes every element neutral.
func NewCalculator(counters *CounterTable) *Calculator {
	return &Calculator{counters: counters}
}

// Counters returns the elemental table in use.
func (c *Calculator) Counters() *CounterTable {
	return c.counters
}

// Resolve computes one hit from attacker to defender.
//
// Order: dodge roll against defender dodge rate (stop on success);
// raw = base + attacker[stat]*factor; minus defense*0.5 floored at 1
// (true damage keeps raw, floored at 1); × elemental multiplier;
// crit roll against attacker crit rate multiplies by crit damage.
// The result never drops below 1 for a hit that connects.
func (c *Calculator) Resolve(attacker, defender StatSource, req HitRequest, rng Roller) Hit {
	atk := attacker.CombatStats()
	def := defender.CombatStats()

	if rng.Float64() < def.DodgeRate {
		return Hit{Dodged: true, ElementMultiplier: Neutral}
	}

	amount := req.Base + atk.Value(req.Stat)*req.Factor

	switch req.Class {
	case ClassPhysical:
		amount = math.Max(1, amount-def.Defense*MitigationFactor)
	case ClassMagic:
		amount = math.Max(1, amount-def.MagicResist*MitigationFactor)
	default:
		amount = math.Max(1, amount)
	}

	mult := c.counters.Multiplier(req.Element, def.Element)
	amount *= mult

	crit := rng.Float64() < atk.CritRate
	if crit {
		amount *= atk.CritDamage
	}

	return Hit{
		Amount:            math.Max(1, amount),
		Crit:              crit,
		ElementMultiplier: mult,
	}
}

// Heal computes healing from caster to target:
// max(1, base + caster[stat]*factor) × target healing received multiplier.
func (c *Calculator) Heal(caster, target StatSource, base float64, stat model.StatKind, factor float64) float64 {
	raw := math.Max(1, base+caster.CombatStats().Value(stat)*factor)
	return raw * target.CombatStats().HealingReceived
}

// FleeChance returns the probability that a participant with the given
// speed escapes: 0.5 + speed/200, clamped to [0,1].
func FleeChance(speed float64) float64 {
	return math.Min(1, math.Max(0, 0.5+speed/200))
}
