// Package battle runs turn-based combat sessions.
// A session moves from ACTIVE to one of VICTORY, DEFEAT or FLED and never leaves
// a terminal state. The Registry keys live sessions by id.
package battle

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionClosed is returned for actions against a terminal session.
	ErrSessionClosed = errors.New("battle session is closed")
	// ErrUnknownSkill is returned when the actor does not own the skill.
	ErrUnknownSkill = errors.New("unknown skill")
	// ErrInvalidTarget is returned for an absent or perished explicit target.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrInvalidAction is returned for unknown action kinds or actors.
	ErrInvalidAction = errors.New("invalid action")
	// ErrSessionNotFound is returned by the Registry for unknown ids.
	ErrSessionNotFound = errors.New("battle session not found")
)

// Status is the state machine position of a session.
type Status int8

const (
	StatusActive Status = iota
	StatusVictory
	StatusDefeat
	StatusFled
)

var statusNames = [...]string{"ACTIVE", "VICTORY", "DEFEAT", "FLED"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "UNKNOWN"
	}
	return statusNames[s]
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool { return s != StatusActive }

// MarshalText encodes the status name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(b []byte) error {
	for i, n := range statusNames {
		if strings.EqualFold(n, string(b)) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown battle status %q", b)
}

// Outcome is what a call to Act or AutoResolve left the session at.
// OutcomeTimeout is only produced by AutoResolve; the session stays ACTIVE.
type Outcome int8

const (
	OutcomeOngoing Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeFled
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOngoing:
		return "ONGOING"
	case OutcomeVictory:
		return "VICTORY"
	case OutcomeDefeat:
		return "DEFEAT"
	case OutcomeFled:
		return "FLED"
	case OutcomeTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

func outcomeOf(s Status) Outcome {
	switch s {
	case StatusVictory:
		return OutcomeVictory
	case StatusDefeat:
		return OutcomeDefeat
	case StatusFled:
		return OutcomeFled
	default:
		return OutcomeOngoing
	}
}

// Kind distinguishes monster encounters from duels.
type Kind int8

const (
	KindPvE Kind = iota
	KindPvP
)

func (k Kind) String() string {
	if k == KindPvP {
		return "pvp"
	}
	return "pve"
}

// IDPrefix is the session id prefix for the kind.
func (k Kind) IDPrefix() string {
	if k == KindPvP {
		return "pvp_"
	}
	return "combat_"
}

// MarshalText encodes the kind name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "pve":
		*k = KindPvE
	case "pvp":
		*k = KindPvP
	default:
		return fmt.Errorf("unknown battle kind %q", b)
	}
	return nil
}

// Side is which team a fighter belongs to.
type Side int8

const (
	SideSelf Side = iota
	SideOpposing
)

func (s Side) String() string {
	if s == SideOpposing {
		return "opposing"
	}
	return "self"
}

// ActionKind is the verb of an action request.
type ActionKind int8

const (
	ActionAttack ActionKind = iota + 1
	ActionSkill
	ActionDefend
	ActionFlee
	ActionItem
)

var actionNames = map[ActionKind]string{
	ActionAttack: "attack",
	ActionSkill:  "skill",
	ActionDefend: "defend",
	ActionFlee:   "flee",
	ActionItem:   "item",
}

func (a ActionKind) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "unknown"
}

// ParseActionKind converts an action name to ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range actionNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// ActionRequest is one player command.
// ActorID defaults to the self side leader. TargetID is optional.
type ActionRequest struct {
	Kind     ActionKind
	ActorID  string
	SkillID  string
	TargetID string
}

// LogEntry is one human-readable line of the battle log.
type LogEntry struct {
	Round int    `json:"round"`
	Text  string `json:"text"`
}

func (e LogEntry) String() string {
	return fmt.Sprintf("[%d] %s", e.Round, e.Text)
}
