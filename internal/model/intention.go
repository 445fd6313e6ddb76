package model

// Intention is what an automated participant decided to do this round.
type Intention int32

const (
	// IntentionIdle - participant watches and does nothing
	IntentionIdle Intention = iota
	// IntentionAttack - plain attack on a foe
	IntentionAttack
	// IntentionCast - use one of the participant's skills
	IntentionCast
	// IntentionDefend - raise the defend stance until the next own action
	IntentionDefend
)

// String returns human-readable intention name
func (i Intention) String() string {
	switch i {
	case IntentionIdle:
		return "IDLE"
	case IntentionAttack:
		return "ATTACK"
	case IntentionCast:
		return "CAST"
	case IntentionDefend:
		return "DEFEND"
	default:
		return "UNKNOWN"
	}
}
