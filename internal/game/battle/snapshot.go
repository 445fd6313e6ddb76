package battle

import (
	"fmt"
	"slices"
	"time"

	"github.com/Dre1stein/xiuxian-mud/internal/game/skill"
	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// SkillState is the persisted part of a skill instance.
type SkillState struct {
	ID       string `json:"id"`
	Cooldown int    `json:"cooldown"`
}

// FighterState is the persisted form of a Fighter.
type FighterState struct {
	Side        Side              `json:"side"`
	TemplateID  string            `json:"template_id,omitempty"`
	XPReward    int               `json:"xp_reward,omitempty"`
	StoneReward int               `json:"stone_reward,omitempty"`
	Entity      model.EntityState `json:"entity"`
	Skills      []SkillState      `json:"skills,omitempty"`
}

// Snapshot is a JSON-encodable checkpoint of a session, including the
// random source state so a restored session continues deterministically.
type Snapshot struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"kind"`
	Status     Status         `json:"status"`
	Round      int            `json:"round"`
	Fighters   []FighterState `json:"fighters"`
	TurnOrder  []string       `json:"turn_order"`
	Log        []LogEntry     `json:"log"`
	RandState  []byte         `json:"rand_state"`
	CreatedAt  time.Time      `json:"created_at"`
	LastActive time.Time      `json:"last_active"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() (Snapshot, error) {
	randState, err := s.pcg.MarshalBinary()
	if err != nil {
		return Snapshot{}, fmt.Errorf("encoding random state of %s: %w", s.id, err)
	}
	snap := Snapshot{
		ID:         s.id,
		Kind:       s.kind,
		Status:     s.status,
		Round:      s.round,
		Log:        slices.Clone(s.log),
		RandState:  randState,
		CreatedAt:  s.createdAt,
		LastActive: s.lastActive,
	}
	for _, f := range s.order {
		snap.TurnOrder = append(snap.TurnOrder, f.ID())
	}
	for _, f := range slices.Concat(s.self, s.opposing) {
		fs := FighterState{
			Side:        f.Side,
			TemplateID:  f.TemplateID,
			XPReward:    f.XPReward,
			StoneReward: f.StoneReward,
			Entity:      f.State(),
		}
		for _, inst := range f.Skills {
			fs.Skills = append(fs.Skills, SkillState{ID: inst.ID, Cooldown: inst.CurrentCooldown()})
		}
		snap.Fighters = append(snap.Fighters, fs)
	}
	return snap, nil
}

// Restore rebuilds a session from a snapshot. Skill definitions come from
// catalog; ids it no longer has become physical strikes.
func Restore(snap Snapshot, catalog *skill.Catalog, rules Rules) (*Session, error) {
	var self, opposing []*Fighter
	for _, fs := range snap.Fighters {
		f := &Fighter{
			Entity:      model.EntityFromState(fs.Entity),
			Side:        fs.Side,
			TemplateID:  fs.TemplateID,
			XPReward:    fs.XPReward,
			StoneReward: fs.StoneReward,
		}
		for _, ss := range fs.Skills {
			inst := catalog.Instantiate(ss.ID)
			inst.SetCurrentCooldown(ss.Cooldown)
			f.Skills = append(f.Skills, inst)
		}
		if fs.Side == SideOpposing {
			opposing = append(opposing, f)
		} else {
			self = append(self, f)
		}
	}

	s, err := NewSession(snap.ID, snap.Kind, self, opposing, rules, Seed{})
	if err != nil {
		return nil, fmt.Errorf("restoring %s: %w", snap.ID, err)
	}
	if err := s.pcg.UnmarshalBinary(snap.RandState); err != nil {
		return nil, fmt.Errorf("restoring random state of %s: %w", snap.ID, err)
	}
	s.status = snap.Status
	s.round = snap.Round
	s.log = slices.Clone(snap.Log)
	s.createdAt = snap.CreatedAt
	s.lastActive = snap.LastActive
	s.dirty = false
	if order, ok := s.orderByIDs(snap.TurnOrder); ok {
		s.order = order
	}
	for _, f := range s.order {
		if f.IsPerished() {
			s.fallen[f.ID()] = true
		}
	}
	return s, nil
}

// orderByIDs maps saved ids back to fighters. ok is false when the ids do
// not name every fighter exactly once.
func (s *Session) orderByIDs(ids []string) ([]*Fighter, bool) {
	if len(ids) != len(s.order) {
		return nil, false
	}
	out := make([]*Fighter, 0, len(ids))
	for _, id := range ids {
		f, ok := s.Fighter(id)
		if !ok || slices.Contains(out, f) {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}
