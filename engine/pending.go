// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/uuid"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// Action classes a pending request can expect. Submitted action types are
// validated against these, not compared one to one: PLAY_CARD, ATTACK,
// ATTACH_DON, ACTIVATE_ABILITY and END_TURN all satisfy MAIN_ACTION.
const (
	ActionClassMain    = data_models.ActionTypeMainAction
	ActionClassBlocker = data_models.ActionTypeSelectBlocker
	ActionClassCounter = data_models.ActionTypeSelectCounter
)

// PendingRequest says whose input the game is waiting for and what kind.
// The engine is always waiting on exactly one player; a nil request means
// the game is over.
type PendingRequest struct {
	PlayerID        string
	Action          data_models.PlayerActionType
	Message         string
	SelectableUUIDs []string
	CanSkip         bool
	// Candidates carries full card data for effect selections, where the
	// choices may live in hidden zones the player could not otherwise see.
	Candidates []*cards.CardInstance
	Options    []string
	RequestID  string
}

// PendingRequest computes what the game currently waits on. The request is
// rebuilt from state on every call; only RequestID changes between calls.
func (g *Game) PendingRequest() *PendingRequest {
	if g.Winner != "" {
		return nil
	}

	if g.Interaction != nil {
		action := data_models.ActionTypeChoice
		if g.Interaction.Kind == InteractionSelectTarget {
			action = data_models.ActionTypeSearchAndSelect
		}
		selectable := g.Interaction.SelectableUUIDs
		if selectable == nil {
			for _, c := range g.Interaction.Candidates {
				selectable = append(selectable, c.UUID)
			}
		}
		message := g.Interaction.Message
		if message == "" {
			message = msgDefaultChoice
		}
		return &PendingRequest{
			PlayerID:        g.Interaction.PlayerID,
			Action:          action,
			Message:         message,
			SelectableUUIDs: selectable,
			CanSkip:         g.Interaction.CanSkip,
			Candidates:      g.Interaction.Candidates,
			Options:         g.Interaction.Options,
			RequestID:       uuid.New(),
		}
	}

	if g.Battle == nil && (g.Phase == PhaseBlockStep || g.Phase == PhaseBattleCounter) {
		g.logger.Error("battle missing in battle phase", tag.Phase(string(g.Phase)))
		g.Phase = PhaseMain
	}

	switch {
	case g.Phase == PhaseBlockStep && g.Battle != nil:
		owner := g.Battle.TargetOwner
		var blockers []string
		for _, c := range owner.Field {
			if !c.IsRest && c.HasKeyword(cards.KeywordBlocker) {
				blockers = append(blockers, c.UUID)
			}
		}
		return &PendingRequest{
			PlayerID:        owner.ID,
			Action:          data_models.ActionTypeSelectBlocker,
			Message:         msgSelectBlocker,
			SelectableUUIDs: blockers,
			CanSkip:         true,
			RequestID:       uuid.New(),
		}

	case g.Phase == PhaseBattleCounter && g.Battle != nil:
		owner := g.Battle.TargetOwner
		var counters []string
		for _, c := range owner.Hand {
			if c.Master.Counter > 0 || isCounterEvent(c) {
				counters = append(counters, c.UUID)
			}
		}
		return &PendingRequest{
			PlayerID:        owner.ID,
			Action:          data_models.ActionTypeSelectCounter,
			Message:         msgSelectCounter,
			SelectableUUIDs: counters,
			CanSkip:         true,
			RequestID:       uuid.New(),
		}

	case g.Phase == PhaseMain:
		var selectable []string
		for _, c := range g.TurnPlayer.Hand {
			selectable = append(selectable, c.UUID)
		}
		for _, c := range g.TurnPlayer.Field {
			if !c.IsRest {
				selectable = append(selectable, c.UUID)
			}
		}
		if leader := g.TurnPlayer.Leader; leader != nil && !leader.IsRest {
			selectable = append(selectable, leader.UUID)
		}
		return &PendingRequest{
			PlayerID:        g.TurnPlayer.ID,
			Action:          data_models.ActionTypeMainAction,
			Message:         msgMainAction,
			SelectableUUIDs: selectable,
			CanSkip:         true,
			RequestID:       uuid.New(),
		}
	}
	return nil
}

func isCounterEvent(c *cards.CardInstance) bool {
	if c.Master.Type != cards.CardTypeEvent {
		return false
	}
	return len(c.Master.AbilitiesFor(cards.TriggerCounter)) > 0
}

// validateAction checks that player may submit an action of the given class
// right now.
func (g *Game) validateAction(p *Player, actionType data_models.PlayerActionType) error {
	pending := g.PendingRequest()
	if pending == nil {
		return NewRuleError(ErrCodeNoPendingAction, "現在実行可能なアクションはありません。")
	}
	if pending.PlayerID != p.ID {
		return NewRuleError(ErrCodeWrongPlayer, "現在は %v のターン/フェイズです。", pending.PlayerID)
	}

	expected := pending.Action
	if (expected == ActionClassCounter || expected == ActionClassBlocker) &&
		actionType == data_models.ActionTypePass {
		return nil
	}
	if g.Interaction != nil && actionType == data_models.ActionTypeResolveEffectSelection {
		return nil
	}
	if expected != actionType {
		return NewRuleError(ErrCodeUnexpectedAction,
			"不適切なアクションです。期待されているアクション: %v", expected)
	}
	return nil
}
