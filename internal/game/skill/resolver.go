package skill

import (
	"github.com/Dre1stein/xiuxian-mud/internal/game/combat"
	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// Action is the accumulated outcome of one skill on one target.
type Action struct {
	Kind     EffectKind
	CasterID string
	TargetID string
	SkillID  string
	Value    int
	Element  model.Element
	Crit     bool
	Dodged   bool
	Statuses []string
}

// Resolver applies skill effect lists through the damage calculator.
type Resolver struct {
	calc *combat.Calculator
}

// NewResolver creates a resolver on top of calc.
func NewResolver(calc *combat.Calculator) *Resolver {
	return &Resolver{calc: calc}
}

// Execute uses inst from caster against candidates.
//
// A skill on cooldown, unaffordable, or cast by a perished caster yields an
// empty result and changes nothing. Otherwise cost is paid, the cooldown
// starts and one Action is produced per selected living target. Candidates
// are foes for hostile rules and allies (caster excluded) for the others.
func (r *Resolver) Execute(inst *Instance, caster *model.Entity, candidates []*model.Entity, rng combat.Roller) []Action {
	if inst == nil || caster.IsPerished() || !inst.CanUse(caster.MP(), caster.HP()) {
		return nil
	}
	if !caster.Spend(inst.Cost.MP, inst.Cost.HP) {
		return nil
	}
	inst.StartCooldown()

	effects := inst.Effects
	if len(effects) == 0 {
		effects = []Effect{FallbackStrike}
	}

	targets := SelectTargets(inst.Target, caster, candidates)
	actions := make([]Action, 0, len(targets))
	for _, target := range targets {
		if target.IsPerished() {
			continue
		}
		act := r.apply(effects, caster, target, rng)
		act.SkillID = inst.ID
		actions = append(actions, act)
	}
	return actions
}

// SelectTargets resolves a target rule against candidates.
// Perished candidates are never selected.
func SelectTargets(rule TargetRule, caster *model.Entity, candidates []*model.Entity) []*model.Entity {
	living := make([]*model.Entity, 0, len(candidates))
	for _, c := range candidates {
		if c != nil && c.Alive() {
			living = append(living, c)
		}
	}

	switch rule {
	case TargetSelf:
		return []*model.Entity{caster}
	case TargetSingleEnemy:
		return living[:min(1, len(living))]
	case TargetAllEnemies:
		return living
	case TargetSingleAlly:
		if len(living) > 0 {
			return living[:1]
		}
		return []*model.Entity{caster}
	case TargetAllAllies:
		out := make([]*model.Entity, 0, len(living)+1)
		out = append(out, caster)
		for _, c := range living {
			if c != caster {
				out = append(out, c)
			}
		}
		return out
	default:
		return nil
	}
}

// apply runs effects in order on one target and folds them into one Action.
// Effects after the one that fells the target are skipped.
func (r *Resolver) apply(effects []Effect, caster, target *model.Entity, rng combat.Roller) Action {
	act := Action{
		Kind:     effects[0].Kind(),
		CasterID: caster.ID(),
		TargetID: target.ID(),
	}
	if d, ok := effects[0].(Damage); ok {
		act.Element = d.Element
	}

	casterStats := caster.CombatStats()
	for _, eff := range effects {
		if target.IsPerished() {
			break
		}
		switch e := eff.(type) {
		case Damage:
			hit := r.calc.Resolve(caster, target, combat.HitRequest{
				Element: e.Element,
				Class:   combat.ClassFor(e.Element),
				Base:    e.Base,
				Stat:    e.Stat,
				Factor:  e.Factor,
			}, rng)
			act.Crit = hit.Crit
			act.Dodged = hit.Dodged
			if hit.Dodged {
				continue
			}
			act.Value += target.ReceiveHit(hit.Value() * max(1, e.Hits))

		case Heal:
			amount := int(r.calc.Heal(caster, target, e.Base, e.Stat, e.Factor))
			act.Value += target.Restore(amount)

		case Buff:
			mag := magnitude(e.Scaling, casterStats)
			target.AddStatus(NewStatus(e.StatusID, false, e.Duration, mag))
			act.Value += mag
			act.Statuses = append(act.Statuses, e.StatusID)

		case Debuff:
			mag := magnitude(e.Scaling, casterStats)
			target.AddStatus(NewStatus(e.StatusID, true, e.Duration, mag))
			act.Value += mag
			act.Statuses = append(act.Statuses, e.StatusID)
		}
	}
	return act
}
