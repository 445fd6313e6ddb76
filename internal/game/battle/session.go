package battle

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Dre1stein/xiuxian-mud/internal/ai"
	"github.com/Dre1stein/xiuxian-mud/internal/game/combat"
	"github.com/Dre1stein/xiuxian-mud/internal/game/skill"
	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// Seed initializes the per-session PCG source.
type Seed struct {
	Hi uint64 `json:"hi"`
	Lo uint64 `json:"lo"`
}

// Turn is the result of one Act or AutoResolve call.
type Turn struct {
	Outcome Outcome
	Status  Status
	Round   int
	Actions []skill.Action
	Log     []LogEntry
}

// Session is one battle. All exported methods are safe for concurrent use;
// actions against the same session are serialized by its mutex.
type Session struct {
	mu sync.Mutex

	id       string
	kind     Kind
	self     []*Fighter
	opposing []*Fighter
	order    []*Fighter

	status Status
	round  int
	log    []LogEntry

	fallen map[string]bool

	pcg      *rand.PCG
	rng      *rand.Rand
	rules    Rules
	resolver *skill.Resolver

	now        func() time.Time
	createdAt  time.Time
	lastActive time.Time
	dirty      bool
}

// NewSession creates an ACTIVE session. The first self fighter is the
// leader whose defeat ends the battle.
func NewSession(id string, kind Kind, self, opposing []*Fighter, rules Rules, seed Seed) (*Session, error) {
	if len(self) == 0 || len(opposing) == 0 {
		return nil, fmt.Errorf("%w: both sides need at least one fighter", ErrInvalidAction)
	}
	seen := make(map[string]bool, len(self)+len(opposing))
	for _, f := range slices.Concat(self, opposing) {
		if f == nil || f.Entity == nil {
			return nil, fmt.Errorf("%w: nil fighter", ErrInvalidAction)
		}
		if seen[f.ID()] {
			return nil, fmt.Errorf("%w: duplicate fighter id %q", ErrInvalidAction, f.ID())
		}
		seen[f.ID()] = true
	}
	for _, f := range self {
		f.Side = SideSelf
	}
	for _, f := range opposing {
		f.Side = SideOpposing
	}

	rules = rules.withDefaults()
	pcg := rand.NewPCG(seed.Hi, seed.Lo)
	s := &Session{
		id:       id,
		kind:     kind,
		self:     self,
		opposing: opposing,
		order:    turnOrder(self, opposing),
		fallen:   make(map[string]bool),
		pcg:      pcg,
		rng:      rand.New(pcg),
		rules:    rules,
		resolver: rules.resolver(),
		now:      time.Now,
		dirty:    true,
	}
	s.createdAt = s.now()
	s.lastActive = s.createdAt
	s.logf("Battle begins: %s vs %s", names(self), names(opposing))
	return s, nil
}

// NewPvE starts a monster encounter.
func NewPvE(id string, player *Fighter, monsters []*Fighter, rules Rules, seed Seed) (*Session, error) {
	return NewSession(id, KindPvE, []*Fighter{player}, monsters, rules, seed)
}

// NewPvP starts a duel. The defender is driven by the opponent policy.
func NewPvP(id string, challenger, defender *Fighter, rules Rules, seed Seed) (*Session, error) {
	return NewSession(id, KindPvP, []*Fighter{challenger}, []*Fighter{defender}, rules, seed)
}

// turnOrder sorts by speed descending; ties keep insertion order.
func turnOrder(self, opposing []*Fighter) []*Fighter {
	order := slices.Concat(self, opposing)
	slices.SortStableFunc(order, func(a, b *Fighter) int {
		sa, sb := a.CombatStats().Speed, b.CombatStats().Speed
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		default:
			return 0
		}
	})
	return order
}

func names(fs []*Fighter) string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name()
	}
	return strings.Join(out, ", ")
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Kind returns PvE or PvP.
func (s *Session) Kind() Kind { return s.kind }

// Status returns the current state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Round returns the number of completed rounds.
func (s *Session) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// Log returns a copy of the battle log.
func (s *Session) Log() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.log)
}

// TurnOrder returns fighter ids by speed, fastest first.
func (s *Session) TurnOrder() []string {
	ids := make([]string, len(s.order))
	for i, f := range s.order {
		ids[i] = f.ID()
	}
	return ids
}

// Fighter returns a participant by id. The returned fighter must not be
// mutated outside the session.
func (s *Session) Fighter(id string) (*Fighter, bool) {
	for _, f := range s.order {
		if f.ID() == id {
			return f, true
		}
	}
	return nil, false
}

// Leader returns the self side fighter whose defeat ends the battle.
func (s *Session) Leader() *Fighter { return s.self[0] }

// Opposing returns the opposing fighters in insertion order.
func (s *Session) Opposing() []*Fighter { return slices.Clone(s.opposing) }

// Act resolves one player action and the opposing phase that follows it.
//
// Validation errors and actions against a terminal session change nothing.
func (s *Session) Act(req ActionRequest) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.act(req)
}

func (s *Session) act(req ActionRequest) (Turn, error) {
	mark := len(s.log)
	if s.status.Terminal() {
		return s.turn(mark, nil), fmt.Errorf("%w: %s is %s", ErrSessionClosed, s.id, s.status)
	}

	actor, err := s.actor(req.ActorID)
	if err != nil {
		return s.turn(mark, nil), err
	}

	var (
		inst   *skill.Instance
		target *Fighter
	)
	switch req.Kind {
	case ActionAttack:
		target, err = s.explicitTarget(req.TargetID, s.opposing)
	case ActionSkill:
		inst = actor.Skill(req.SkillID)
		if inst == nil {
			return s.turn(mark, nil), fmt.Errorf("%w: %s does not know %q", ErrUnknownSkill, actor.Name(), req.SkillID)
		}
		side := s.self
		if inst.Target.Hostile() {
			side = s.opposing
		}
		target, err = s.explicitTarget(req.TargetID, side)
	case ActionDefend, ActionFlee, ActionItem:
	default:
		err = fmt.Errorf("%w: kind %d", ErrInvalidAction, req.Kind)
	}
	if err != nil {
		return s.turn(mark, nil), err
	}

	s.lastActive = s.now()
	s.dirty = true
	actor.SetDefending(false)

	var actions []skill.Action
	if actor.HasStatusKind(model.StatusStun) {
		s.logf("%s is stunned and cannot act", actor.Name())
	} else {
		switch req.Kind {
		case ActionAttack:
			s.plainAttack(actor, target)
		case ActionSkill:
			actions = s.cast(actor, inst, target)
		case ActionDefend:
			actor.SetDefending(true)
			s.logf("%s takes a defensive stance", actor.Name())
		case ActionFlee:
			s.flee(actor)
		case ActionItem:
			gained := actor.Restore(s.rules.ItemHeal)
			s.logf("%s uses a healing pill and recovers %d hp (%d/%d)", actor.Name(), gained, actor.HP(), actor.MaxHP())
		}
	}

	if s.status == StatusActive {
		s.checkEnd()
	}
	if s.status == StatusActive {
		s.opposingPhase()
	}
	if s.status == StatusActive {
		s.tickPhase()
		s.checkEnd()
	}
	s.round++
	return s.turn(mark, actions), nil
}

func (s *Session) turn(mark int, actions []skill.Action) Turn {
	return Turn{
		Outcome: outcomeOf(s.status),
		Status:  s.status,
		Round:   s.round,
		Actions: actions,
		Log:     slices.Clone(s.log[mark:]),
	}
}

// actor resolves the acting fighter: the leader, or a living self side fighter by id.
func (s *Session) actor(id string) (*Fighter, error) {
	if id == "" {
		return s.self[0], nil
	}
	for _, f := range s.self {
		if f.ID() == id {
			if f.IsPerished() {
				return nil, fmt.Errorf("%w: actor %s has perished", ErrInvalidAction, id)
			}
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not on the acting side", ErrInvalidAction, id)
}

// explicitTarget validates an explicit target id against side.
// An empty id returns nil, meaning "pick by rule".
func (s *Session) explicitTarget(id string, side []*Fighter) (*Fighter, error) {
	if id == "" {
		return nil, nil
	}
	for _, f := range side {
		if f.ID() == id {
			if f.IsPerished() {
				return nil, fmt.Errorf("%w: %s has perished", ErrInvalidTarget, f.Name())
			}
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, id)
}

func firstLiving(fs []*Fighter) *Fighter {
	for _, f := range fs {
		if f.Alive() {
			return f
		}
	}
	return nil
}

func allPerished(fs []*Fighter) bool {
	return !slices.ContainsFunc(fs, func(f *Fighter) bool { return f.Alive() })
}

func (s *Session) foesOf(f *Fighter) []*Fighter {
	if f.Side == SideSelf {
		return s.opposing
	}
	return s.self
}

func (s *Session) alliesOf(f *Fighter) []*Fighter {
	if f.Side == SideSelf {
		return s.self
	}
	return s.opposing
}

// plainAttack hits target, or the first living foe when target is nil.
// The faction advantage table scales plain attacks only.
func (s *Session) plainAttack(attacker, target *Fighter) {
	if target == nil {
		target = firstLiving(s.foesOf(attacker))
	}
	if target == nil {
		return
	}

	hit := s.rules.Calculator.Resolve(attacker, target, combat.HitRequest{
		Element: model.ElementPhysical,
		Class:   combat.ClassPhysical,
		Stat:    model.StatAttack,
		Factor:  1,
	}, s.rng)
	if hit.Dodged {
		s.logf("%s attacks %s but misses", attacker.Name(), target.Name())
		return
	}

	adv := s.rules.Advantage.Advantage(attacker.Sect(), target.Sect())
	amount := max(1, int(math.Floor(hit.Amount*adv)))
	dealt := target.ReceiveHit(amount)

	crit := ""
	if hit.Crit {
		crit = " (critical)"
	}
	s.logf("%s attacks %s for %d damage%s (%d/%d)", attacker.Name(), target.Name(), dealt, crit, target.HP(), target.MaxHP())
	s.logPerished(target)
}

// cast runs a skill. An explicit target is tried first for single-target rules.
func (s *Session) cast(caster *Fighter, inst *skill.Instance, target *Fighter) []skill.Action {
	var pool []*Fighter
	if inst.Target.Hostile() {
		pool = s.foesOf(caster)
	} else {
		pool = slices.DeleteFunc(slices.Clone(s.alliesOf(caster)), func(f *Fighter) bool { return f == caster })
	}
	if target == caster && inst.Target == skill.TargetSingleAlly {
		pool = nil
	}
	if target != nil && target != caster {
		pool = append([]*Fighter{target}, slices.DeleteFunc(slices.Clone(pool), func(f *Fighter) bool { return f == target })...)
	}

	candidates := make([]*model.Entity, len(pool))
	for i, f := range pool {
		candidates[i] = f.Entity
	}

	actions := s.resolver.Execute(inst, caster.Entity, candidates, s.rng)
	if actions == nil {
		s.logf("%s cannot use %s (cooldown %d, mp %d/%d)", caster.Name(), inst.Name, inst.CurrentCooldown(), caster.MP(), inst.Cost.MP)
		return nil
	}
	for _, a := range actions {
		s.logAction(caster, inst, a)
	}
	return actions
}

func (s *Session) logAction(caster *Fighter, inst *skill.Instance, a skill.Action) {
	target, _ := s.Fighter(a.TargetID)
	if a.Dodged && a.Value == 0 {
		s.logf("%s uses %s on %s but misses", caster.Name(), inst.Name, target.Name())
		return
	}
	crit := ""
	if a.Crit {
		crit = " (critical)"
	}
	switch a.Kind {
	case skill.KindDamage:
		s.logf("%s uses %s on %s for %d damage%s (%d/%d)", caster.Name(), inst.Name, target.Name(), a.Value, crit, target.HP(), target.MaxHP())
	case skill.KindHeal:
		s.logf("%s uses %s on %s, healing %d (%d/%d)", caster.Name(), inst.Name, target.Name(), a.Value, target.HP(), target.MaxHP())
	default:
		s.logf("%s uses %s on %s: %v", caster.Name(), inst.Name, target.Name(), a.Statuses)
	}
	s.logPerished(target)
}

func (s *Session) flee(f *Fighter) {
	chance := combat.FleeChance(f.CombatStats().Speed)
	if s.rng.Float64() < chance {
		s.logf("%s escapes the battle", f.Name())
		s.transition(StatusFled)
		return
	}
	s.logf("%s fails to escape", f.Name())
}

// opposingPhase lets every living, non-stunned opposing fighter act once.
func (s *Session) opposingPhase() {
	for _, f := range s.opposing {
		if s.status != StatusActive {
			return
		}
		if f.IsPerished() {
			continue
		}
		f.SetDefending(false)
		if f.HasStatusKind(model.StatusStun) {
			s.logf("%s is stunned and cannot act", f.Name())
			continue
		}
		s.opponentAct(f)
		s.checkEnd()
	}
}

func (s *Session) opponentAct(f *Fighter) {
	d := s.rules.Opponent.Decide(s.rng, len(f.Skills))
	switch d.Intention {
	case model.IntentionCast:
		if actions := s.cast(f, f.Skills[d.SkillIndex], nil); actions != nil {
			return
		}
		s.plainAttack(f, nil)
	case model.IntentionAttack:
		s.plainAttack(f, nil)
	case model.IntentionDefend:
		f.SetDefending(true)
		s.logf("%s takes a defensive stance", f.Name())
	default:
		s.logf("%s watches warily", f.Name())
	}
}

// tickPhase advances statuses and skill cooldowns of every living fighter.
func (s *Session) tickPhase() {
	for _, f := range s.order {
		if f.IsPerished() {
			continue
		}
		for _, t := range f.TickStatuses() {
			if t.Damage > 0 {
				s.logf("%s suffers %d damage from %s (%d/%d)", f.Name(), t.Damage, t.ID, f.HP(), f.MaxHP())
			}
			if t.Expired {
				s.logf("%s on %s wears off", t.ID, f.Name())
			}
		}
		s.logPerished(f)
		for _, inst := range f.Skills {
			inst.ReduceCooldown()
		}
	}
}

// checkEnd applies DEFEAT before VICTORY.
func (s *Session) checkEnd() {
	switch {
	case s.self[0].IsPerished():
		s.transition(StatusDefeat)
	case allPerished(s.opposing):
		s.transition(StatusVictory)
	}
}

func (s *Session) transition(to Status) {
	if s.status.Terminal() {
		return
	}
	s.status = to
	s.logf("Battle ends: %s", to)
	slog.Info("battle ended", "session", s.id, "status", to, "round", s.round+1)
}

func (s *Session) logPerished(f *Fighter) {
	if f == nil || !f.IsPerished() || s.fallen[f.ID()] {
		return
	}
	s.fallen[f.ID()] = true
	s.logf("%s has fallen", f.Name())
}

func (s *Session) logf(format string, args ...any) {
	s.log = append(s.log, LogEntry{Round: s.round + 1, Text: fmt.Sprintf(format, args...)})
	if ai.IsDebugEnabled() {
		slog.Debug("battle log", "session", s.id, "round", s.round+1, "text", s.log[len(s.log)-1].Text)
	}
}
