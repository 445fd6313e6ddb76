package model

// StatusKind classifies how a timed status behaves when it ticks.
type StatusKind int8

const (
	// StatusMarker only counts down. Unknown status ids fall back to it.
	StatusMarker StatusKind = iota
	// StatusDamageOverTime subtracts its magnitude from hp every round.
	StatusDamageOverTime
	// StatusStun makes an automated participant skip its action.
	StatusStun
	// StatusModifier adjusts one stat while active.
	StatusModifier
)

// String returns human-readable kind name.
func (k StatusKind) String() string {
	switch k {
	case StatusMarker:
		return "MARKER"
	case StatusDamageOverTime:
		return "DOT"
	case StatusStun:
		return "STUN"
	case StatusModifier:
		return "MODIFIER"
	default:
		return "UNKNOWN"
	}
}

// StatusEffect is one timed buff or debuff entry on an entity.
// Entries with the same ID stack independently.
type StatusEffect struct {
	ID        string     `json:"id"`
	Kind      StatusKind `json:"kind"`
	Stat      StatKind   `json:"stat,omitempty"`
	Harmful   bool       `json:"harmful"`
	Remaining int        `json:"remaining"`
	Magnitude int        `json:"magnitude"`
}

// modifierDelta returns the stat delta of a modifier entry.
// Rate stats are stored as percent points in Magnitude.
func (s StatusEffect) modifierDelta() float64 {
	delta := float64(s.Magnitude)
	switch s.Stat {
	case StatCritRate, StatCritDamage, StatDodgeRate, StatHealingReceived:
		delta /= 100
	}
	if s.Harmful {
		delta = -delta
	}
	return delta
}

// StatusTick reports what one status entry did during a round tick.
type StatusTick struct {
	ID      string
	Damage  int
	Expired bool
}
