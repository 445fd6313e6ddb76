package skill

import "github.com/Dre1stein/xiuxian-mud/internal/model"

// StatusDef describes how a status id behaves once attached.
type StatusDef struct {
	Kind model.StatusKind
	Stat model.StatKind // for StatusModifier
}

// statusRegistry maps status id → behaviour.
// Populated by init(); read-only afterwards.
var statusRegistry = map[string]StatusDef{}

// RegisterStatus registers a status behaviour by id.
// Must be called from init().
func RegisterStatus(id string, def StatusDef) {
	statusRegistry[id] = def
}

// LookupStatus returns the behaviour of a status id.
// Unknown ids are plain markers that only count down.
func LookupStatus(id string) StatusDef {
	if def, ok := statusRegistry[id]; ok {
		return def
	}
	return StatusDef{Kind: model.StatusMarker}
}

// NewStatus builds the entry a buff or debuff attaches to its target.
func NewStatus(id string, harmful bool, duration, magnitude int) model.StatusEffect {
	def := LookupStatus(id)
	return model.StatusEffect{
		ID:        id,
		Kind:      def.Kind,
		Stat:      def.Stat,
		Harmful:   harmful,
		Remaining: duration,
		Magnitude: magnitude,
	}
}

func init() {
	dot := StatusDef{Kind: model.StatusDamageOverTime}
	RegisterStatus("poison", dot)
	RegisterStatus("burn", dot)
	RegisterStatus("bleed", dot)
	RegisterStatus("flower_curse", dot)

	stun := StatusDef{Kind: model.StatusStun}
	RegisterStatus("stun", stun)
	RegisterStatus("freeze", stun)
	RegisterStatus("petrify", stun)

	RegisterStatus("speed_boost", StatusDef{Kind: model.StatusModifier, Stat: model.StatSpeed})
	RegisterStatus("dodge_boost", StatusDef{Kind: model.StatusModifier, Stat: model.StatDodgeRate})
	RegisterStatus("attack_boost", StatusDef{Kind: model.StatusModifier, Stat: model.StatAttack})
	RegisterStatus("defense_boost", StatusDef{Kind: model.StatusModifier, Stat: model.StatDefense})
	RegisterStatus("defense_break", StatusDef{Kind: model.StatusModifier, Stat: model.StatDefense})
	RegisterStatus("weaken", StatusDef{Kind: model.StatusModifier, Stat: model.StatAttack})
}
