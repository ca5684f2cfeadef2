// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// ApplyPlayerAction dispatches one submitted action for the given player.
// Rule violations come back as *RuleError; the state is unchanged when an
// error is returned, except for partially paid optional costs.
func (g *Game) ApplyPlayerAction(playerID string, action *data_models.PlayerAction) error {
	if action == nil {
		return NewRuleError(ErrCodeUnsupportedAction, "アクションが指定されていません。")
	}
	if g.Finished() && action.Type != data_models.ActionTypeConcede {
		return NewRuleError(ErrCodeGameFinished, "ゲームは終了しています。")
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return NewRuleError(ErrCodeWrongPlayer, "不明なプレイヤーです: %v", playerID)
	}

	switch action.Type {
	case data_models.ActionTypePlayCard:
		card := g.FindCardByUUID(action.CardUUID)
		if card == nil {
			return NewRuleError(ErrCodeCardNotFound, "対象のカードが見つかりません。")
		}
		if err := g.validateAction(p, ActionClassMain); err != nil {
			return err
		}
		if err := g.PayCost(p, card.CurrentCost(), action.DonUUIDs); err != nil {
			return err
		}
		return g.PlayCard(p, card)

	case data_models.ActionTypeAttack:
		attacker := g.FindCardByUUID(action.AttackerUUID)
		target := g.FindCardByUUID(action.TargetUUID)
		if attacker == nil || target == nil {
			return NewRuleError(ErrCodeCardNotFound, "対象のカードが見つかりません。")
		}
		return g.DeclareAttack(attacker, target)

	case data_models.ActionTypeBlock, data_models.ActionTypeSelectBlocker:
		if action.Skip || action.BlockerUUID == "" {
			return g.HandleBlock(nil)
		}
		blocker := g.FindCardByUUID(action.BlockerUUID)
		if blocker == nil {
			return NewRuleError(ErrCodeCardNotFound, "対象のカードが見つかりません。")
		}
		return g.HandleBlock(blocker)

	case data_models.ActionTypeCounter, data_models.ActionTypeSelectCounter:
		if action.Skip || action.CardUUID == "" {
			return g.ApplyCounter(p, nil, nil)
		}
		card := g.FindCardByUUID(action.CardUUID)
		if card == nil {
			return NewRuleError(ErrCodeCardNotFound, "対象のカードが見つかりません。")
		}
		return g.ApplyCounter(p, card, action.DonUUIDs)

	case data_models.ActionTypePass:
		switch g.Phase {
		case PhaseBlockStep:
			return g.HandleBlock(nil)
		case PhaseBattleCounter:
			return g.ApplyCounter(p, nil, nil)
		}
		return NewRuleError(ErrCodeUnexpectedAction, "現在PASSできる状況ではありません。")

	case data_models.ActionTypeResolveEffectSelection,
		data_models.ActionTypeSearchAndSelect,
		data_models.ActionTypeChoice:
		return g.ResolveInteraction(p, action)

	case data_models.ActionTypeAttachDon:
		return g.AttachDon(p, action.DonUUID, action.CardUUID)

	case data_models.ActionTypeActivateAbility:
		card := g.FindCardByUUID(action.CardUUID)
		if card == nil {
			return NewRuleError(ErrCodeCardNotFound, "対象のカードが見つかりません。")
		}
		index := 0
		if action.AbilityIndex != nil {
			index = *action.AbilityIndex
		} else {
			index = firstMainAbilityIndex(card)
		}
		return g.ActivateAbility(p, card, index)

	case data_models.ActionTypeEndTurn:
		return g.EndTurn()

	case data_models.ActionTypeConcede:
		if g.Finished() {
			return NewRuleError(ErrCodeGameFinished, "ゲームは終了しています。")
		}
		g.Concede(p)
		return nil

	case data_models.ActionTypeMoveCard,
		data_models.ActionTypeToggleRest,
		data_models.ActionTypeDraw,
		data_models.ActionTypeTurnEnd:
		return NewRuleError(ErrCodeUnsupportedAction,
			"このアクションはサンドボックスモードでのみ使用できます: %v", action.Type)
	}

	return NewRuleError(ErrCodeUnsupportedAction, "未対応のアクションです: %v", action.Type)
}

// firstMainAbilityIndex finds the index of the card's first activate-main
// ability, for actions submitted without an explicit index.
func firstMainAbilityIndex(card *cards.CardInstance) int {
	for i, ability := range card.Master.Abilities {
		if ability.Trigger == cards.TriggerActivateMain {
			return i
		}
	}
	return 0
}
