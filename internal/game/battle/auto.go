package battle

import (
	"fmt"

	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// AutoResolve plays the leader with the auto-pilot until the battle ends or
// the session has completed maxRounds rounds in total. A non-positive cap
// uses the rules default. Hitting the cap while ACTIVE yields OutcomeTimeout
// and leaves the session ACTIVE.
func (s *Session) AutoResolve(maxRounds int) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if maxRounds <= 0 {
		maxRounds = s.rules.MaxAutoRounds
	}
	mark := len(s.log)
	if s.status.Terminal() {
		return s.turn(mark, nil), fmt.Errorf("%w: %s is %s", ErrSessionClosed, s.id, s.status)
	}

	for s.status == StatusActive && s.round < maxRounds {
		if _, err := s.act(s.autoAction()); err != nil {
			return s.turn(mark, nil), fmt.Errorf("auto-resolving %s: %w", s.id, err)
		}
	}

	turn := s.turn(mark, nil)
	if s.status == StatusActive {
		s.logf("Battle times out after %d rounds", s.round)
		turn.Log = append(turn.Log, s.log[len(s.log)-1])
		turn.Outcome = OutcomeTimeout
	}
	return turn, nil
}

// autoAction asks the auto-pilot for the leader's next action. Only skills
// that pass the cooldown and cost gate are offered.
func (s *Session) autoAction() ActionRequest {
	leader := s.self[0]
	usable := leader.usableSkills()
	d := s.rules.AutoPilot.Decide(s.rng, leader.HPRatio(), len(usable))
	if d.Intention == model.IntentionCast {
		return ActionRequest{Kind: ActionSkill, SkillID: usable[d.SkillIndex].ID}
	}
	return ActionRequest{Kind: ActionAttack}
}
