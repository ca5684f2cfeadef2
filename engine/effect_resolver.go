// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"strings"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
)

// Dynamic value sources measured at resolution time.
const (
	dynamicCountReference = "COUNT_REFERENCE"
	dynamicHandCount      = "HAND_COUNT"
	dynamicLifeCount      = "LIFE_COUNT"
	dynamicDonCount       = "DON_COUNT"
)

// EffectContext carries state across the actions of one ability resolution:
// saved target sets, the last materialized targets and whether the last
// action succeeded. It survives suspension inside the continuation.
type EffectContext struct {
	Saved       map[string][]*cards.CardInstance
	LastTargets []*cards.CardInstance
	LastOK      bool
}

func newEffectContext() *EffectContext {
	return &EffectContext{
		Saved:  map[string][]*cards.CardInstance{},
		LastOK: true,
	}
}

// effectResolver executes parsed ability trees against a game. Execution
// walks an explicit node stack so it can freeze into a Continuation when a
// player has to pick targets or an option, and thaw when the pick arrives.
type effectResolver struct {
	game *Game
}

func newEffectResolver(g *Game) *effectResolver {
	return &effectResolver{game: g}
}

// resolveAbility starts one ability. The cost node runs first; the effect
// only runs when the cost's last action succeeded.
func (r *effectResolver) resolveAbility(p *Player, ability *cards.Ability, source *cards.CardInstance) {
	ctx := newEffectContext()
	if ability.Condition != nil && !r.checkCondition(p, ability.Condition, source, ctx) {
		r.game.logger.Debug("ability condition not met",
			tag.PlayerID(p.ID), tag.CardID(source.Master.ID))
		return
	}

	var stack []cards.EffectNode
	if ability.Effect != nil {
		if ability.Cost != nil {
			// Gate the effect on the cost completing, even when the cost
			// suspends for a selection in between.
			stack = append(stack, &cards.Branch{
				Condition: &cards.Condition{
					Type:     cards.CondContext,
					StrValue: cards.ContextLastActionSuccess,
				},
				IfTrue: ability.Effect,
			})
		} else {
			stack = append(stack, ability.Effect)
		}
	}
	if ability.Cost != nil {
		stack = append(stack, ability.Cost)
	}
	r.run(p, source, stack, ctx)
}

// resumeTargets continues a resolution suspended on target selection.
func (r *effectResolver) resumeTargets(p *Player, source *cards.CardInstance, continuation *Continuation, selected []*cards.CardInstance) {
	ctx := continuation.Ctx
	if ctx == nil {
		ctx = newEffectContext()
	}
	action := continuation.PendingAction
	if action != nil {
		if q := action.Target; q != nil && q.SaveID != "" {
			ctx.Saved[q.SaveID] = selected
		}
		if suspended := r.executeAction(p, action, source, continuation.Stack, ctx, selected); suspended {
			return
		}
	}
	r.run(p, source, continuation.Stack, ctx)
}

// resumeChoice continues a resolution suspended on an option choice.
func (r *effectResolver) resumeChoice(p *Player, source *cards.CardInstance, continuation *Continuation, index int) {
	ctx := continuation.Ctx
	if ctx == nil {
		ctx = newEffectContext()
	}
	stack := continuation.Stack
	if choice := continuation.Choice; choice != nil {
		if index < 0 || index >= len(choice.Options) {
			index = 0
		}
		if len(choice.Options) > 0 {
			stack = append(stack, choice.Options[index])
		}
	}
	r.run(p, source, stack, ctx)
}

// run drains the node stack, top (last element) first, until it either
// empties or an action suspends for input.
func (r *effectResolver) run(p *Player, source *cards.CardInstance, stack []cards.EffectNode, ctx *EffectContext) {
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n := node.(type) {
		case *cards.Sequence:
			for i := len(n.Actions) - 1; i >= 0; i-- {
				stack = append(stack, n.Actions[i])
			}

		case *cards.Branch:
			if r.checkCondition(p, n.Condition, source, ctx) {
				if n.IfTrue != nil {
					stack = append(stack, n.IfTrue)
				}
			} else if n.IfFalse != nil {
				stack = append(stack, n.IfFalse)
			}

		case *cards.Choice:
			chooser := p
			if n.Player == cards.ScopeOpponent {
				chooser = r.game.otherPlayer(p)
			}
			message := n.Message
			if message == "" {
				message = msgDefaultChoice
			}
			r.game.Interaction = &Interaction{
				PlayerID: chooser.ID,
				Kind:     InteractionChoice,
				Message:  message,
				Options:  choiceLabels(n),
				Continuation: &Continuation{
					SourceUUID: source.UUID,
					Stack:      append([]cards.EffectNode{}, stack...),
					Ctx:        ctx,
					Choice:     n,
				},
			}
			r.game.logger.Info("effect suspended on choice",
				tag.PlayerID(chooser.ID), tag.CardID(source.Master.ID))
			return

		case *cards.GameAction:
			if suspended := r.executeAction(p, n, source, stack, ctx, nil); suspended {
				return
			}
		}
	}
}

func choiceLabels(n *cards.Choice) []string {
	if len(n.OptionLabels) == len(n.Options) && len(n.OptionLabels) > 0 {
		return n.OptionLabels
	}
	labels := make([]string, len(n.Options))
	for i := range n.Options {
		if action, ok := n.Options[i].(*cards.GameAction); ok && action.RawText != "" {
			labels[i] = action.RawText
		} else {
			labels[i] = msgDefaultChoice
		}
	}
	return labels
}

// executeAction materializes the action's targets, suspending when the
// player must pick, then applies it. remaining is the untouched rest of the
// node stack, captured into the continuation when suspending. preselected
// short-circuits target selection on the resume path.
func (r *effectResolver) executeAction(p *Player, action *cards.GameAction, source *cards.CardInstance, remaining []cards.EffectNode, ctx *EffectContext, preselected []*cards.CardInstance) bool {
	g := r.game

	var targets []*cards.CardInstance
	if preselected != nil {
		targets = preselected
	} else if action.Target != nil {
		candidates := g.findTargets(p, action.Target, source, ctx)
		if action.Target.SelectMode == cards.SelectChoose && len(candidates) > 0 {
			uuids := make([]string, len(candidates))
			for i, c := range candidates {
				uuids[i] = c.UUID
			}
			g.Interaction = &Interaction{
				PlayerID:        p.ID,
				Kind:            InteractionSelectTarget,
				Message:         msgSelectTarget,
				SelectableUUIDs: uuids,
				Candidates:      candidates,
				CanSkip:         action.Target.IsUpTo,
				Continuation: &Continuation{
					SourceUUID:    source.UUID,
					Stack:         append([]cards.EffectNode{}, remaining...),
					Ctx:           ctx,
					PendingAction: action,
				},
			}
			g.logger.Info("effect suspended on target selection",
				tag.PlayerID(p.ID), tag.CardID(source.Master.ID),
				tag.GameAction(string(action.Type)))
			return true
		}
		targets = candidates
		if q := action.Target; q.SaveID != "" {
			ctx.Saved[q.SaveID] = targets
		}
	}
	if len(targets) > 0 {
		ctx.LastTargets = targets
	}

	interactionBefore := g.Interaction
	ctx.LastOK = r.applyAction(p, action, source, targets, ctx)

	// A nested resolution (on-play trigger of a card this action put into
	// play) may have suspended. Splice our remaining work underneath its
	// continuation so both finish.
	if g.Interaction != nil && g.Interaction != interactionBefore {
		if c := g.Interaction.Continuation; c != nil {
			c.Stack = append(append([]cards.EffectNode{}, remaining...), c.Stack...)
		}
		return true
	}
	return false
}

// applyAction performs one primitive action against its targets. The return
// value feeds ContextLastActionSuccess conditions.
func (r *effectResolver) applyAction(p *Player, action *cards.GameAction, source *cards.CardInstance, targets []*cards.CardInstance, ctx *EffectContext) bool {
	g := r.game
	g.logger.Info("applying effect action",
		tag.PlayerID(p.ID), tag.GameAction(string(action.Type)), tag.Value(len(targets)))

	switch action.Type {
	case cards.ActionDraw:
		g.DrawCard(p, r.valueOf(p, action, ctx, 1))
		return true

	case cards.ActionShuffle:
		g.shuffleDeck(p)
		return true

	case cards.ActionLook:
		count := r.valueOf(p, action, ctx, 1)
		if count > len(p.Deck) {
			count = len(p.Deck)
		}
		for i := 0; i < count; i++ {
			card := p.Deck[0]
			p.Deck = p.Deck[1:]
			p.Temp = append(p.Temp, card)
		}
		return count > 0

	case cards.ActionVictory:
		g.setWinner(p)
		return true

	case cards.ActionRampDon:
		count := r.valueOf(p, action, ctx, 1)
		return g.rampDon(p, count, action.Status == cards.StatusRest) > 0

	case cards.ActionReturnDon:
		count := r.valueOf(p, action, ctx, 1)
		return g.returnDon(p, count) >= count

	case cards.ActionRest:
		if action.Target != nil && action.Target.Zone == cards.ZoneCostArea {
			scoped := p
			if action.Target.Player == cards.ScopeOpponent {
				scoped = g.otherPlayer(p)
			}
			return g.restDon(scoped, action.Target.Count) > 0
		}
		for _, t := range targets {
			t.IsRest = true
		}
		return len(targets) > 0

	case cards.ActionActive:
		for _, t := range targets {
			t.IsRest = false
		}
		return len(targets) > 0

	case cards.ActionDealDamage:
		amount := r.valueOf(p, action, ctx, 1)
		victim := g.otherPlayer(p)
		if len(targets) > 0 {
			if owner, _ := g.findCardLocation(targets[0]); owner != nil {
				victim = owner
			}
		}
		g.dealLifeDamage(victim, p, amount, false)
		return true

	case cards.ActionLifeRecover:
		count := r.valueOf(p, action, ctx, 1)
		moved := 0
		for i := 0; i < count && len(p.Deck) > 0; i++ {
			card := p.Deck[0]
			p.Deck = p.Deck[1:]
			card.IsFaceUp = false
			p.Life = append(p.Life, card)
			moved++
		}
		return moved > 0

	case cards.ActionLifeManipulate:
		count := r.valueOf(p, action, ctx, 1)
		moved := 0
		for i := 0; i < count && len(p.Life) > 0; i++ {
			card := p.Life[0]
			g.MoveCard(card, cards.ZoneHand, p, cards.PositionBottom)
			moved++
		}
		return moved > 0

	case cards.ActionSelectOption, cards.ActionRuleProcessing, cards.ActionReplaceEffect,
		cards.ActionPassiveEffect, cards.ActionModifyDonPhase, cards.ActionOther:
		g.logger.Debug("declarative effect noted",
			tag.GameAction(string(action.Type)), tag.CardID(source.Master.ID))
		return true

	case cards.ActionRedirectAttack:
		if g.Battle != nil && len(targets) > 0 {
			g.Battle.Target = targets[0]
			return true
		}
		return false
	}

	return r.applyToTargets(p, action, source, targets, ctx)
}

// applyToTargets handles the action types that touch each target card.
func (r *effectResolver) applyToTargets(p *Player, action *cards.GameAction, source *cards.CardInstance, targets []*cards.CardInstance, ctx *EffectContext) bool {
	g := r.game
	success := false

	for _, target := range targets {
		owner, _ := g.findCardLocation(target)
		if owner == nil {
			continue
		}

		switch action.Type {
		case cards.ActionKO:
			if target.HasFlag(cards.FlagPreventLeave) {
				continue
			}
			g.MoveCard(target, cards.ZoneTrash, owner, cards.PositionBottom)
			g.logger.Info("effect ko", tag.CardUUID(target.UUID))
			success = true

		case cards.ActionTrash, cards.ActionDiscard:
			g.MoveCard(target, cards.ZoneTrash, owner, cards.PositionBottom)
			success = true

		case cards.ActionMoveToHand:
			g.MoveCard(target, cards.ZoneHand, owner, cards.PositionBottom)
			success = true

		case cards.ActionMoveCard:
			destZone := action.DestZone
			if destZone == "" {
				destZone = cards.ZoneTrash
			}
			g.MoveCard(target, destZone, owner, action.DestPosition)
			success = true

		case cards.ActionDeckBottom:
			g.MoveCard(target, cards.ZoneDeck, owner, cards.PositionBottom)
			success = true

		case cards.ActionDeckTop:
			g.MoveCard(target, cards.ZoneDeck, owner, cards.PositionTop)
			success = true

		case cards.ActionBuff:
			value := r.valueOf(p, action, ctx, 0)
			switch action.Status {
			case cards.StatusPowerOverride:
				override := value
				target.BasePowerOverride = &override
			case cards.StatusCostReduction:
				target.CostBuff += value
			default:
				target.PowerBuff += value
			}
			success = true

		case cards.ActionSetCost:
			target.CostBuff = r.valueOf(p, action, ctx, 0) - target.Master.Cost
			success = true

		case cards.ActionCostChange:
			target.CostBuff += r.valueOf(p, action, ctx, 0)
			success = true

		case cards.ActionFreeze:
			target.SetFlag(cards.FlagFreeze)
			success = true

		case cards.ActionAttackDisable, cards.ActionRestriction:
			target.SetFlag(cards.FlagAttackDisable)
			success = true

		case cards.ActionPreventLeave:
			target.SetFlag(cards.FlagPreventLeave)
			success = true

		case cards.ActionNegateEffect:
			target.Negated = true
			target.RefreshKeywords()
			success = true

		case cards.ActionGrantKeyword:
			if action.Keyword != "" {
				target.GrantKeyword(action.Keyword)
				success = true
			}

		case cards.ActionMoveAttachedDon:
			if g.moveAttachedDon(source, target) {
				success = true
			}

		case cards.ActionPlayCard:
			g.MoveCard(target, cards.ZoneField, owner, cards.PositionBottom)
			target.IsNewlyPlayed = true
			target.IsFaceUp = true
			if !target.AbilityDisabled {
				for _, ability := range target.Master.AbilitiesFor(cards.TriggerOnPlay) {
					g.resolveAbility(owner, ability, target)
				}
			}
			g.applyPassiveEffects(owner)
			success = true

		case cards.ActionExecuteMain:
			for _, ability := range target.Master.AbilitiesFor(cards.TriggerActivateMain) {
				g.resolveAbility(owner, ability, target)
			}
			success = true

		default:
			g.logger.Warn("unhandled effect action",
				tag.GameAction(string(action.Type)), tag.CardID(source.Master.ID))
		}

		// A nested resolution suspended; stop touching further targets.
		if g.Interaction != nil {
			break
		}
	}
	return success
}

// valueOf computes the action's numeric amount, def when absent.
func (r *effectResolver) valueOf(p *Player, action *cards.GameAction, ctx *EffectContext, def int) int {
	vs := action.Value
	if vs == nil {
		return def
	}
	value := vs.Base
	switch vs.DynamicSource {
	case dynamicCountReference:
		if vs.RefID != "" {
			value = len(ctx.Saved[vs.RefID])
		} else {
			value = len(p.Trash)
		}
	case dynamicHandCount:
		value = len(p.Hand)
	case dynamicLifeCount:
		value = len(p.Life)
	case dynamicDonCount:
		value = p.DonTotal()
	}
	if vs.Multiplier > 1 {
		value *= vs.Multiplier
	}
	if vs.Divisor > 1 {
		value /= vs.Divisor
	}
	return value
}

// checkCondition evaluates a condition for the resolving player.
func (r *effectResolver) checkCondition(p *Player, cond *cards.Condition, source *cards.CardInstance, ctx *EffectContext) bool {
	if cond == nil || cond.Type == cards.CondNone {
		return true
	}
	g := r.game

	switch cond.Type {
	case cards.CondContext:
		return r.checkContextCondition(cond, ctx)

	case cards.CondLifeCount:
		return compareCount(len(p.Life), cond.Operator, cond.Value)
	case cards.CondHandCount:
		return compareCount(len(p.Hand), cond.Operator, cond.Value)
	case cards.CondTrashCount:
		return compareCount(len(p.Trash), cond.Operator, cond.Value)
	case cards.CondFieldCount:
		return compareCount(len(p.Field), cond.Operator, cond.Value)
	case cards.CondDeckCount:
		return compareCount(len(p.Deck), cond.Operator, cond.Value)
	case cards.CondDonCount:
		return compareCount(p.DonTotal(), cond.Operator, cond.Value)

	case cards.CondHasTrait, cards.CondHasUnit, cards.CondHasAttribute:
		matched := 0
		if cond.Target != nil {
			matched = len(g.findTargets(p, cond.Target, source, ctx))
		} else if cond.StrValue != "" {
			for _, c := range p.AllUnits() {
				if c.Master.HasTrait(cond.StrValue) {
					matched++
				}
			}
		}
		if cond.Value > 0 {
			return compareCount(matched, cond.Operator, cond.Value)
		}
		return matched > 0

	case cards.CondIsRested:
		return source.IsRest

	case cards.CondLeaderName:
		return p.Leader != nil && strings.Contains(p.Leader.Master.Name, cond.StrValue)

	case cards.CondLeaderTrait:
		return p.Leader != nil && p.Leader.Master.HasTrait(cond.StrValue)

	case cards.CondTurnLimit:
		// Once-per-turn limits are enforced where the ability activates.
		return true
	}
	return true
}

func (r *effectResolver) checkContextCondition(cond *cards.Condition, ctx *EffectContext) bool {
	switch cond.StrValue {
	case cards.ContextLastActionSuccess:
		return ctx.LastOK
	case cards.ContextLastActionFailure:
		return !ctx.LastOK

	case cards.ContextTypeEvent:
		return lastTargetType(ctx) == cards.CardTypeEvent
	case cards.ContextTypeCharacter:
		return lastTargetType(ctx) == cards.CardTypeCharacter

	case cards.ContextHasTrait:
		if len(ctx.LastTargets) == 0 || cond.Target == nil {
			return false
		}
		return hasAnyTrait(ctx.LastTargets[0], cond.Target.Traits)

	case cards.ContextCostCheck:
		if len(ctx.LastTargets) == 0 || cond.Target == nil || cond.Target.CostMin == nil {
			return false
		}
		return ctx.LastTargets[0].CurrentCost() >= *cond.Target.CostMin
	}
	return true
}

func lastTargetType(ctx *EffectContext) cards.CardType {
	if len(ctx.LastTargets) == 0 {
		return cards.CardTypeUnknown
	}
	return ctx.LastTargets[0].Master.Type
}

func compareCount(quantity int, op cards.CompareOperator, value int) bool {
	switch op {
	case cards.CompareEQ:
		return quantity == value
	case cards.CompareNEQ:
		return quantity != value
	case cards.CompareGT:
		return quantity > value
	case cards.CompareLT:
		return quantity < value
	case cards.CompareGE:
		return quantity >= value
	case cards.CompareLE:
		return quantity <= value
	case cards.CompareHas:
		return quantity > 0
	}
	return false
}
