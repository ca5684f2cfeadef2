// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
)

// DeclareAttack starts a battle: an active attacker against the enemy
// leader or a rested enemy character. The attacker rests, on-attack
// abilities fire, then the defender gets a block step if they have an
// untapped blocker, otherwise the counter step.
func (g *Game) DeclareAttack(attacker *cards.CardInstance, target *cards.CardInstance) error {
	attackerOwner, _ := g.findCardLocation(attacker)
	targetOwner, _ := g.findCardLocation(target)
	if attackerOwner == nil || targetOwner == nil {
		return NewRuleError(ErrCodeCardNotFound, "対象のカードが見つかりません。")
	}
	if err := g.validateAction(attackerOwner, ActionClassMain); err != nil {
		return err
	}
	if attacker.HasFlag(cards.FlagAttackDisable) {
		return NewRuleError(ErrCodeAttackNotAllowed, "このカードは効果によりアタックできません。")
	}
	if attacker.IsRest {
		return NewRuleError(ErrCodeAttackNotAllowed, "アタックするカードはアクティブ状態でなければなりません。")
	}
	if target.Master.Type == cards.CardTypeCharacter && !target.IsRest {
		return NewRuleError(ErrCodeInvalidTarget, "レスト状態のキャラクターのみ攻撃可能です。")
	}

	g.logger.Info("attack declared",
		tag.PlayerID(attackerOwner.ID),
		tag.CardUUID(attacker.UUID), tag.Value(target.UUID))
	attacker.IsRest = true
	g.Battle = &Battle{
		Attacker:      attacker,
		Target:        target,
		AttackerOwner: attackerOwner,
		TargetOwner:   targetOwner,
	}

	for _, ability := range attacker.Master.AbilitiesFor(cards.TriggerOnAttack) {
		g.resolveAbility(attackerOwner, ability, attacker)
	}

	if g.Battle == nil {
		// An on-attack ability ended the battle outright.
		return nil
	}
	if g.Battle.TargetOwner.HasUntappedBlocker() {
		g.Phase = PhaseBlockStep
	} else {
		g.Phase = PhaseBattleCounter
	}
	g.logger.Info("battle step entered",
		tag.Phase(string(g.Phase)), tag.PlayerID(g.Battle.TargetOwner.ID))
	return nil
}

// HandleBlock resolves the defender's block step. A nil blocker declines;
// otherwise the blocker rests and becomes the attack target. Either way the
// battle moves on to the counter step.
func (g *Game) HandleBlock(blocker *cards.CardInstance) error {
	if g.Battle == nil {
		return nil
	}
	targetOwner := g.Battle.TargetOwner
	if err := g.validateAction(targetOwner, ActionClassBlocker); err != nil {
		return err
	}
	if blocker != nil {
		if blocker.IsRest || !blocker.HasKeyword(cards.KeywordBlocker) {
			return NewRuleError(ErrCodeInvalidTarget, "ブロッカーを持つアクティブのキャラを指定してください。")
		}
		g.logger.Info("block declared",
			tag.PlayerID(targetOwner.ID), tag.CardUUID(blocker.UUID))
		blocker.IsRest = true
		g.Battle.Target = blocker
		for _, ability := range blocker.Master.AbilitiesFor(cards.TriggerOnBlock) {
			g.resolveAbility(targetOwner, ability, blocker)
		}
	} else {
		g.logger.Info("block declined", tag.PlayerID(targetOwner.ID))
	}
	g.Phase = PhaseBattleCounter
	return nil
}

// ApplyCounter resolves one counter-step submission by the defender. A nil
// card passes and resolves the attack. A counter event pays its cost and
// fires its counter abilities; any other card adds its counter value to the
// target, and either way the card is trashed. The defender may keep playing
// counters until they pass.
func (g *Game) ApplyCounter(p *Player, counterCard *cards.CardInstance, donUUIDs []string) error {
	if g.Battle == nil {
		return nil
	}
	if counterCard == nil {
		if err := g.validateAction(p, ActionClassCounter); err != nil {
			return err
		}
		g.logger.Info("counter passed", tag.PlayerID(p.ID))
		g.ResolveAttack()
		return nil
	}
	if err := g.validateAction(p, ActionClassCounter); err != nil {
		return err
	}
	if !containsCard(p.Hand, counterCard) {
		return NewRuleError(ErrCodeCardNotFound, "手札にないカードは使用できません。")
	}

	g.logger.Info("counter played",
		tag.PlayerID(p.ID), tag.CardUUID(counterCard.UUID))
	if counterCard.Master.Type == cards.CardTypeEvent {
		if err := g.PayCost(p, counterCard.Master.Cost, donUUIDs); err != nil {
			return err
		}
		for _, ability := range counterCard.Master.AbilitiesFor(cards.TriggerCounter) {
			g.resolveAbility(p, ability, counterCard)
		}
		g.MoveCard(counterCard, cards.ZoneTrash, p, cards.PositionBottom)
		return nil
	}

	if counterCard.Master.Counter <= 0 {
		return NewRuleError(ErrCodeInvalidTarget, "カウンター値のないカードは使用できません。")
	}
	g.Battle.CounterBuff += counterCard.Master.Counter
	g.MoveCard(counterCard, cards.ZoneTrash, p, cards.PositionBottom)
	return nil
}

// ResolveAttack compares powers and applies the outcome: leader hits deal
// life damage, character hits KO the character. The game returns to the
// main phase afterwards.
func (g *Game) ResolveAttack() {
	battle := g.Battle
	if battle == nil {
		return
	}
	attacker, target := battle.Attacker, battle.Target
	attackerOwner, targetOwner := battle.AttackerOwner, battle.TargetOwner

	attackerPower := attacker.EffectivePower(attackerOwner == g.TurnPlayer)
	targetPower := target.EffectivePower(targetOwner == g.TurnPlayer) + battle.CounterBuff
	g.logger.Info("resolving attack",
		tag.CardUUID(attacker.UUID), tag.Value(attackerPower))

	if target == targetOwner.Leader {
		if attackerPower >= targetPower {
			damage := 1
			if attacker.HasKeyword(cards.KeywordDoubleAttack) {
				damage = 2
			}
			banish := attacker.HasKeyword(cards.KeywordBanish)
			g.dealLifeDamage(targetOwner, attackerOwner, damage, banish)
		}
	} else {
		if attackerPower >= targetPower {
			g.MoveCard(target, cards.ZoneTrash, targetOwner, cards.PositionBottom)
			g.logger.Info("character ko", tag.CardUUID(target.UUID))
		}
	}

	target.ResetTurnStatus()
	g.Battle = nil
	g.Phase = PhaseMain
	g.checkVictory()
}

// dealLifeDamage takes amount life cards off the top of victim's pile. Each
// goes to the hand, or to the trash when the hit banishes. Running out of
// life loses the game.
func (g *Game) dealLifeDamage(victim *Player, dealer *Player, amount int, banish bool) {
	for i := 0; i < amount; i++ {
		if len(victim.Life) == 0 {
			g.setWinner(dealer)
			return
		}
		lifeCard := victim.Life[0]
		destZone := cards.ZoneHand
		if banish {
			destZone = cards.ZoneTrash
		}
		g.MoveCard(lifeCard, destZone, victim, cards.PositionBottom)
		g.logger.Info("life damage dealt",
			tag.PlayerID(victim.ID), tag.Value(string(destZone)))
	}
}
