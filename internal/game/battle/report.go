package battle

// Report is what a won battle hands to the progression and economy side.
type Report struct {
	DefeatedTemplateIDs []string `json:"defeated_template_ids"`
	TurnsElapsed        int      `json:"turns_elapsed"`
	XP                  int      `json:"xp"`
	SpiritStones        int      `json:"spirit_stones"`
}

// Report returns the reward report. ok is false unless the session is VICTORY.
func (s *Session) Report() (r Report, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusVictory {
		return Report{}, false
	}
	r.TurnsElapsed = s.round
	for _, f := range s.opposing {
		if !f.IsPerished() {
			continue
		}
		id := f.TemplateID
		if id == "" {
			id = f.ID()
		}
		r.DefeatedTemplateIDs = append(r.DefeatedTemplateIDs, id)
		r.XP += f.XPReward
		r.SpiritStones += f.StoneReward
	}
	return r, true
}
