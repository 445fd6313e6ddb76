package model

import "slices"

// EntitySpec holds construction parameters for an Entity.
type EntitySpec struct {
	ID    string
	Name  string
	Level int
	MaxHP int
	MaxMP int
	Stats Stats
	Sect  Sect
}

// Entity is the mutable runtime state of one combat participant.
// Not safe for concurrent use: an Entity is owned by exactly one session
// and mutated under that session's lock.
type Entity struct {
	id    string
	name  string
	level int
	sect  Sect

	hp    int
	maxHP int
	mp    int
	maxMP int

	stats    Stats
	statuses []StatusEffect

	perished  bool
	defending bool
}

// NewEntity creates an entity at full hp/mp.
// maxHP is at least 1, maxMP at least 0.
func NewEntity(spec EntitySpec) *Entity {
	if spec.MaxHP < 1 {
		spec.MaxHP = 1
	}
	if spec.MaxMP < 0 {
		spec.MaxMP = 0
	}
	if spec.Level < 1 {
		spec.Level = 1
	}
	return &Entity{
		id:    spec.ID,
		name:  spec.Name,
		level: spec.Level,
		sect:  spec.Sect,
		hp:    spec.MaxHP,
		maxHP: spec.MaxHP,
		mp:    spec.MaxMP,
		maxMP: spec.MaxMP,
		stats: spec.Stats,
	}
}

// ID returns entity id, unique within a session.
func (e *Entity) ID() string { return e.id }

// Name returns display name.
func (e *Entity) Name() string { return e.name }

// Level returns entity level.
func (e *Entity) Level() int { return e.level }

// Sect returns the faction used for plain-attack advantage.
func (e *Entity) Sect() Sect { return e.sect }

// HP returns current hp.
func (e *Entity) HP() int { return e.hp }

// MaxHP returns max hp.
func (e *Entity) MaxHP() int { return e.maxHP }

// MP returns current mp.
func (e *Entity) MP() int { return e.mp }

// MaxMP returns max mp.
func (e *Entity) MaxMP() int { return e.maxMP }

// IsPerished reports whether hp reached zero during the battle.
func (e *Entity) IsPerished() bool { return e.perished }

// Alive is the inverse of IsPerished.
func (e *Entity) Alive() bool { return !e.perished }

// IsDefending reports whether the defend stance is up.
func (e *Entity) IsDefending() bool { return e.defending }

// SetDefending raises or clears the defend stance.
func (e *Entity) SetDefending(v bool) { e.defending = v }

// BaseStats returns stats without status modifiers.
func (e *Entity) BaseStats() Stats { return e.stats }

// CombatStats returns stats with active modifier statuses applied.
func (e *Entity) CombatStats() Stats {
	s := e.stats
	for _, st := range e.statuses {
		if st.Kind == StatusModifier {
			s = s.WithBonus(st.Stat, st.modifierDelta())
		}
	}
	return s
}

// HPRatio returns hp/maxHp in [0,1].
func (e *Entity) HPRatio() float64 {
	return float64(e.hp) / float64(e.maxHP)
}

// TakeDamage subtracts amount from hp, clamping at 0.
// Reaching 0 marks the entity perished. Returns hp actually lost.
func (e *Entity) TakeDamage(amount int) int {
	if amount <= 0 || e.perished {
		return 0
	}
	lost := min(amount, e.hp)
	e.hp -= lost
	if e.hp == 0 {
		e.perished = true
	}
	return lost
}

// ReceiveHit applies a hit of the given size.
// The defend stance halves every hit while it is up, never below 1.
// Returns the damage after stance reduction.
func (e *Entity) ReceiveHit(amount int) int {
	if amount <= 0 {
		return 0
	}
	if e.defending {
		amount = max(1, amount/2)
	}
	e.TakeDamage(amount)
	return amount
}

// Restore adds hp up to maxHp. Perished entities cannot be restored.
// Returns hp actually gained.
func (e *Entity) Restore(amount int) int {
	if amount <= 0 || e.perished {
		return 0
	}
	gained := min(amount, e.maxHP-e.hp)
	e.hp += gained
	return gained
}

// CanAfford reports whether current resources cover the cost.
func (e *Entity) CanAfford(mp, hp int) bool {
	return e.mp >= mp && e.hp >= hp
}

// Spend deducts mp and hp if affordable. Paying hp can perish the entity.
func (e *Entity) Spend(mp, hp int) bool {
	if !e.CanAfford(mp, hp) {
		return false
	}
	e.mp -= mp
	e.TakeDamage(hp)
	return true
}

// AddStatus appends a status entry. Existing entries with the same id are kept.
func (e *Entity) AddStatus(s StatusEffect) {
	e.statuses = append(e.statuses, s)
}

// Statuses returns a copy of active status entries.
func (e *Entity) Statuses() []StatusEffect {
	if len(e.statuses) == 0 {
		return nil
	}
	return slices.Clone(e.statuses)
}

// HasStatusKind reports whether any active status has the given kind.
func (e *Entity) HasStatusKind(k StatusKind) bool {
	return slices.ContainsFunc(e.statuses, func(s StatusEffect) bool {
		return s.Kind == k
	})
}

// TickStatuses advances every status entry by one round.
// Damage-over-time entries deal their magnitude first; entries reaching
// zero remaining duration are removed.
func (e *Entity) TickStatuses() []StatusTick {
	if len(e.statuses) == 0 {
		return nil
	}
	ticks := make([]StatusTick, 0, len(e.statuses))
	kept := e.statuses[:0]
	for _, st := range e.statuses {
		tick := StatusTick{ID: st.ID}
		if st.Kind == StatusDamageOverTime && !e.perished {
			tick.Damage = e.TakeDamage(st.Magnitude)
		}
		st.Remaining--
		if st.Remaining <= 0 {
			tick.Expired = true
		} else {
			kept = append(kept, st)
		}
		ticks = append(ticks, tick)
	}
	clear(e.statuses[len(kept):])
	e.statuses = kept
	return ticks
}

// EntityState is a serializable view of an Entity.
type EntityState struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Level     int            `json:"level"`
	Sect      Sect           `json:"sect"`
	HP        int            `json:"hp"`
	MaxHP     int            `json:"max_hp"`
	MP        int            `json:"mp"`
	MaxMP     int            `json:"max_mp"`
	Stats     Stats          `json:"stats"`
	Statuses  []StatusEffect `json:"statuses,omitempty"`
	Perished  bool           `json:"perished"`
	Defending bool           `json:"defending"`
}

// State returns a serializable copy of the entity.
func (e *Entity) State() EntityState {
	return EntityState{
		ID:        e.id,
		Name:      e.name,
		Level:     e.level,
		Sect:      e.sect,
		HP:        e.hp,
		MaxHP:     e.maxHP,
		MP:        e.mp,
		MaxMP:     e.maxMP,
		Stats:     e.stats,
		Statuses:  e.Statuses(),
		Perished:  e.perished,
		Defending: e.defending,
	}
}

// EntityFromState rebuilds an entity from a serialized view.
// hp is re-clamped to [0, maxHp].
func EntityFromState(st EntityState) *Entity {
	e := NewEntity(EntitySpec{
		ID:    st.ID,
		Name:  st.Name,
		Level: st.Level,
		MaxHP: st.MaxHP,
		MaxMP: st.MaxMP,
		Stats: st.Stats,
		Sect:  st.Sect,
	})
	e.hp = min(max(st.HP, 0), e.maxHP)
	e.mp = min(max(st.MP, 0), e.maxMP)
	e.statuses = slices.Clone(st.Statuses)
	e.perished = st.Perished || e.hp == 0
	e.defending = st.Defending
	return e
}
