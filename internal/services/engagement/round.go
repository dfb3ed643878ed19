package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/effects"
	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
)

func (s *service) playRound(ctx context.Context, battle *Battle) (*combat.RoundSummary, error) {
	eng := battle.Engagement
	summary := &combat.RoundSummary{EngagementID: eng.ID, Round: eng.Round}

	eng.State = combat.StateAwaitingActions
	actions, err := s.collectActions(ctx, battle)
	if err != nil {
		eng.State = combat.StateTerminated
		return nil, err
	}

	if fled := s.fleeing(eng, actions); fled != nil {
		eng.FledBy = fled.ID
		summary.Outcomes = append(summary.Outcomes, &combat.ActionOutcome{
			ActorID:     fled.ID,
			Performed:   true,
			Description: fmt.Sprintf("%s fled the battle!", fled.Name),
		})
		summary.Combatants = snapshots(eng)
		s.finish(eng, combat.ResultFled)
		summary.Result = eng.Result
		s.report(ctx, eng, summary)
		return summary, nil
	}

	eng.State = combat.StateResolving
	s.resolve(eng, battle.Config, actions, summary)

	eng.State = combat.StateUpkeep
	s.upkeep(eng, summary)

	summary.Combatants = snapshots(eng)
	s.checkTermination(eng, battle.Config)
	summary.Result = eng.Result

	s.report(ctx, eng, summary)
	return summary, nil
}

// collectActions asks every living combatant for an action. Human prompts run
// concurrently, each bounded by its own timeout.
func (s *service) collectActions(ctx context.Context, battle *Battle) (map[string]*combat.Action, error) {
	eng := battle.Engagement
	actions := make(map[string]*combat.Action, len(eng.Combatants))

	var humans []*combat.Combatant
	for _, c := range eng.Combatants {
		if !c.IsAlive() {
			continue
		}
		if c.Human {
			humans = append(humans, c)
			continue
		}
		actions[c.ID] = battle.Config.Policy.Choose(&PolicyInput{
			Combatant:  c,
			Techniques: s.equipped(c),
			Opponents:  eng.Living(c.Side.Opposing()),
		})
	}

	results := make([]*combat.Action, len(humans))
	var g errgroup.Group
	for i, c := range humans {
		req := s.requestFor(battle, c)
		g.Go(func() error {
			results[i] = s.prompt(ctx, battle.Config.PromptTimeout, c, req)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, cmberr.Abortedf("engagement %s cancelled: %v", eng.ID, err)
	}

	for i, c := range humans {
		actions[c.ID] = results[i]
	}
	return actions, nil
}

func (s *service) requestFor(battle *Battle, c *combat.Combatant) *ActionRequest {
	eng := battle.Engagement
	req := &ActionRequest{
		EngagementID: eng.ID,
		ChannelID:    eng.ChannelID,
		Kind:         eng.Kind,
		Round:        eng.Round,
		Combatant:    combat.Snapshot(c),
		Deadline:     time.Now().Add(battle.Config.PromptTimeout),
	}
	for _, t := range s.equipped(c) {
		req.Techniques = append(req.Techniques, TechniqueOption{
			Name:        t.Name,
			Cost:        t.Cost,
			Description: t.Description,
			Affordable:  t.Cost <= c.Chakra,
		})
	}
	for _, o := range eng.Living(c.Side.Opposing()) {
		req.Targets = append(req.Targets, combat.Snapshot(o))
	}
	return req
}

// prompt never fails: a timeout or prompt error becomes a no-op action
func (s *service) prompt(ctx context.Context, timeout time.Duration, c *combat.Combatant, req *ActionRequest) *combat.Action {
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	action, err := s.prompter.RequestAction(pctx, req)
	if err == nil && action != nil {
		action.CombatantID = c.ID
		return action
	}

	if errors.Is(err, context.DeadlineExceeded) || pctx.Err() != nil {
		s.logger.Info("action prompt timed out",
			zap.String("engagement_id", req.EngagementID),
			zap.String("combatant", c.ID),
			zap.Duration("timeout", timeout))
	} else {
		s.logger.Warn("action prompt failed",
			zap.String("engagement_id", req.EngagementID),
			zap.String("combatant", c.ID),
			zap.Error(err))
	}
	return &combat.Action{CombatantID: c.ID, Kind: combat.ActionNone}
}

// fleeing returns the first combatant able to flee. A stunned or flinching
// combatant's flee is forfeited during resolution instead.
func (s *service) fleeing(eng *combat.Engagement, actions map[string]*combat.Action) *combat.Combatant {
	for _, c := range eng.Combatants {
		a, ok := actions[c.ID]
		if !ok || a.Kind != combat.ActionFlee {
			continue
		}
		if forfeit, _ := s.ledger.Forfeits(c); forfeit {
			continue
		}
		return c
	}
	return nil
}

// resolve runs ailment ticks, then every action in order. Health is clamped
// once, after everything has been summed.
func (s *service) resolve(eng *combat.Engagement, cfg *Config, actions map[string]*combat.Action, summary *combat.RoundSummary) {
	for _, c := range eng.Combatants {
		if c.IsAlive() {
			summary.Ticks = append(summary.Ticks, s.ledger.Tick(c)...)
		}
	}

	stats := make(map[string]combat.Stats, len(eng.Combatants))
	for _, c := range eng.Combatants {
		stats[c.ID] = c.Effective()
	}

	for _, actor := range cfg.Order.Order(eng) {
		action, ok := actions[actor.ID]
		if !ok || actor.Health <= 0 {
			continue
		}
		summary.Outcomes = append(summary.Outcomes, s.channel(eng, actor, stats)...)
		summary.Outcomes = append(summary.Outcomes, s.act(eng, actor, action, stats))
	}

	for _, c := range eng.Combatants {
		c.ClampHealth()
	}
}

// channel fires the next round of every technique actor has in motion
func (s *service) channel(eng *combat.Engagement, actor *combat.Combatant, stats map[string]combat.Stats) []*combat.ActionOutcome {
	var outs []*combat.ActionOutcome
	kept := actor.Channeling[:0]
	for _, ch := range actor.Channeling {
		target := targetFor(eng, actor, ch.TargetID)
		out, done := s.pipeline.Continue(call(actor, target, stats), ch)
		if out != nil {
			outs = append(outs, out)
		}
		if !done {
			kept = append(kept, ch)
		}
	}
	actor.Channeling = kept
	return outs
}

func (s *service) act(eng *combat.Engagement, actor *combat.Combatant, action *combat.Action, stats map[string]combat.Stats) *combat.ActionOutcome {
	out := &combat.ActionOutcome{ActorID: actor.ID}

	if forfeit, reason := s.ledger.Forfeits(actor); forfeit {
		out.Forfeited = true
		out.Description = reason
		return out
	}

	switch action.Kind {
	case combat.ActionFocus:
		before := actor.Chakra
		actor.AddChakra(combat.FocusGain)
		out.Performed = true
		out.Hit = true
		out.Description = fmt.Sprintf("%s focused and gained %d chakra", actor.Name, actor.Chakra-before)
		return out

	case combat.ActionTechnique:
		out.Technique = action.Technique
		if !s.isEquipped(actor, action.Technique) {
			out.Description = effects.DescriptionFailed
			return out
		}
		target := targetFor(eng, actor, action.TargetID)
		if target == nil {
			out.Description = fmt.Sprintf("%s has no one left to fight", actor.Name)
			return out
		}

		c := call(actor, target, stats)
		out = s.pipeline.ApplyTechnique(c, action.Technique)
		if out.Performed {
			out.Absorb(s.tracker.Observe(c, out.Technique))
		}
		return out

	default:
		out.Forfeited = true
		out.Description = fmt.Sprintf("%s stood still", actor.Name)
		return out
	}
}

// targetFor returns the preferred opponent if it is still standing, else the
// first opponent that is
func targetFor(eng *combat.Engagement, actor *combat.Combatant, preferred string) *combat.Combatant {
	opposing := actor.Side.Opposing()
	if t := eng.Combatant(preferred); t != nil && t.Side == opposing && t.Health > 0 {
		return t
	}
	for _, c := range eng.Combatants {
		if c.Side == opposing && c.Health > 0 {
			return c
		}
	}
	return nil
}

func call(user, target *combat.Combatant, stats map[string]combat.Stats) *effects.Call {
	c := &effects.Call{User: user, Target: target}
	if us, ok := stats[user.ID]; ok {
		c.UserStats = &us
	}
	if target != nil {
		if ts, ok := stats[target.ID]; ok {
			c.TargetStats = &ts
		}
	}
	return c
}

func (s *service) upkeep(eng *combat.Engagement, summary *combat.RoundSummary) {
	for _, c := range eng.Combatants {
		summary.Expired = append(summary.Expired, s.ledger.Decay(c)...)
		if c.IsAlive() {
			c.AddChakra(s.rules.regenFor(c))
		}
	}
	eng.Round++
}

func (s *service) checkTermination(eng *combat.Engagement, cfg *Config) {
	alliesDown := eng.SideDown(combat.SideAlly)
	enemiesDown := eng.SideDown(combat.SideEnemy)

	switch {
	case alliesDown && enemiesDown:
		s.finish(eng, combat.ResultDraw)
	case alliesDown:
		s.finish(eng, combat.ResultDefeat)
	case enemiesDown:
		s.finish(eng, combat.ResultVictory)
	case eng.Round > cfg.MaxRounds:
		s.finish(eng, combat.ResultDraw)
	default:
		eng.State = combat.StateAwaitingActions
	}
}

func (s *service) finish(eng *combat.Engagement, result combat.Result) {
	eng.Terminate(result)
	eng.ClearEffects()
	s.logger.Info("engagement terminated",
		zap.String("engagement_id", eng.ID),
		zap.Int("round", eng.Round),
		zap.String("result", string(result)),
		zap.String("fled_by", eng.FledBy))
}

func (s *service) report(ctx context.Context, eng *combat.Engagement, summary *combat.RoundSummary) {
	s.logger.Info("round resolved",
		zap.String("engagement_id", eng.ID),
		zap.Int("round", summary.Round),
		zap.Int("outcomes", len(summary.Outcomes)),
		zap.String("result", string(summary.Result)))

	if s.observer != nil {
		s.observer.RoundResolved(ctx, eng, summary)
	}
}

func snapshots(eng *combat.Engagement) []combat.CombatantSnapshot {
	out := make([]combat.CombatantSnapshot, 0, len(eng.Combatants))
	for _, c := range eng.Combatants {
		out = append(out, combat.Snapshot(c))
	}
	return out
}
