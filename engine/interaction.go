// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// InteractionKind is what an effect suspended for.
type InteractionKind string

const (
	// InteractionSelectTarget waits for the player to pick target cards.
	InteractionSelectTarget InteractionKind = "SELECT_TARGET"
	// InteractionChoice waits for the player to pick one listed option.
	InteractionChoice InteractionKind = "CHOICE"
)

// Continuation is the frozen position of a suspended effect resolution. The
// resolver rebuilds itself from this when the selection arrives.
type Continuation struct {
	SourceUUID string
	// Stack holds the effect nodes still to execute, top last.
	Stack []cards.EffectNode
	Ctx   *EffectContext
	// PendingAction is the action whose targets are being selected.
	PendingAction *cards.GameAction
	// Choice is the choice node being decided.
	Choice *cards.Choice
}

// Interaction is a resolution paused for player input.
type Interaction struct {
	PlayerID        string
	Kind            InteractionKind
	Message         string
	SelectableUUIDs []string
	Candidates      []*cards.CardInstance
	CanSkip         bool
	Options         []string
	Continuation    *Continuation
}

// ResolveInteraction feeds a player's selection into the suspended effect
// and resumes it. When the resolution that suspended was a game-start
// ability, finishing it also finishes setup and starts turn one.
func (g *Game) ResolveInteraction(p *Player, action *data_models.PlayerAction) error {
	if err := g.validateAction(p, data_models.ActionTypeResolveEffectSelection); err != nil {
		return err
	}
	interaction := g.Interaction
	if interaction == nil {
		return NewRuleError(ErrCodeNoPendingAction, "現在実行可能なアクションはありません。")
	}
	if interaction.PlayerID != p.ID {
		return NewRuleError(ErrCodeWrongPlayer, "現在は %v のターン/フェイズです。", interaction.PlayerID)
	}

	continuation := interaction.Continuation
	if continuation == nil {
		g.Interaction = nil
		return nil
	}
	source := g.FindCardByUUID(continuation.SourceUUID)
	if source == nil {
		g.logger.Error("suspended effect source card is gone",
			tag.CardUUID(continuation.SourceUUID))
		g.Interaction = nil
		return nil
	}

	resolver := newEffectResolver(g)

	switch interaction.Kind {
	case InteractionSelectTarget:
		selected := g.selectedCandidates(interaction, action.SelectedUUIDs, action.Skip)
		if selected == nil {
			return NewRuleError(ErrCodeInvalidSelection, "選択されたカードが候補に含まれていません。")
		}
		g.logger.Info("resuming target selection",
			tag.PlayerID(p.ID), tag.CardID(source.Master.ID))
		g.Interaction = nil
		resolver.resumeTargets(p, source, continuation, selected)

	case InteractionChoice:
		index := 0
		if action.SelectedOptionIndex != nil {
			index = *action.SelectedOptionIndex
		}
		g.logger.Info("resuming choice",
			tag.PlayerID(p.ID), tag.CardID(source.Master.ID), tag.Value(index))
		g.Interaction = nil
		resolver.resumeChoice(p, source, continuation, index)

	default:
		g.Interaction = nil
	}

	if g.Interaction == nil && g.setupPending {
		g.setupPending = false
		g.finishSetup()
		g.logger.Info("first player decided", tag.PlayerID(g.TurnPlayer.ID))
		g.TurnCount = 1
		g.refreshPhase()
	}
	return nil
}

// selectedCandidates maps the submitted uuids back onto the interaction's
// candidates, preserving candidate order. Returns nil when any uuid is not
// a candidate.
func (g *Game) selectedCandidates(interaction *Interaction, uuids []string, skip bool) []*cards.CardInstance {
	if skip || len(uuids) == 0 {
		return []*cards.CardInstance{}
	}
	allowed := map[string]bool{}
	for _, id := range interaction.SelectableUUIDs {
		allowed[id] = true
	}
	for _, c := range interaction.Candidates {
		allowed[c.UUID] = true
	}
	for _, id := range uuids {
		if !allowed[id] {
			return nil
		}
	}
	picked := map[string]bool{}
	for _, id := range uuids {
		picked[id] = true
	}
	var selected []*cards.CardInstance
	for _, c := range interaction.Candidates {
		if picked[c.UUID] {
			selected = append(selected, c)
		}
	}
	// Selectable uuids may reference board cards that were never copied
	// into the candidate list.
	if len(selected) == 0 {
		for _, id := range uuids {
			if card := g.FindCardByUUID(id); card != nil {
				selected = append(selected, card)
			}
		}
	}
	return selected
}
