// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

func onPlayAbility(effect cards.EffectNode) []*cards.Ability {
	return []*cards.Ability{{Trigger: cards.TriggerOnPlay, Effect: effect}}
}

func mainAbility(effect cards.EffectNode) []*cards.Ability {
	return []*cards.Ability{{Trigger: cards.TriggerActivateMain, Effect: effect}}
}

// playFromHand puts a fresh instance of master into p's hand with enough
// don!! to pay for it and plays it.
func playFromHand(t *testing.T, g *Game, p *Player, master *cards.CardMaster) *cards.CardInstance {
	t.Helper()
	card := putInHand(p, master)
	g.rampDon(p, master.Cost, false)
	require.NoError(t, act(g, p.ID, &data_models.PlayerAction{
		Type:     data_models.ActionTypePlayCard,
		CardUUID: card.UUID,
	}))
	return card
}

func TestOnPlayDraw(t *testing.T) {
	g := newStartedGame(t)

	master := charMaster("TEST-E01", 1, 2000, 0)
	master.Abilities = onPlayAbility(&cards.GameAction{
		Type: cards.ActionDraw, Value: cards.FixedValue(1),
	})

	handBefore := len(g.P1.Hand)
	deckBefore := len(g.P1.Deck)
	playFromHand(t, g, g.P1, master)

	// one card played out, one drawn back
	assert.Len(t, g.P1.Hand, handBefore)
	assert.Len(t, g.P1.Deck, deckBefore-1)
	assert.Nil(t, g.Interaction)
}

func TestSelectTargetSuspendsAndResumes(t *testing.T) {
	g := newStartedGame(t)
	victim := putOnField(g.P2, charMaster("TEST-V01", 2, 3000, 1000))

	master := charMaster("TEST-E02", 1, 2000, 0)
	master.Abilities = onPlayAbility(&cards.GameAction{
		Type: cards.ActionKO,
		Target: &cards.TargetQuery{
			Zone:       cards.ZoneField,
			Player:     cards.ScopeOpponent,
			CardTypes:  []cards.CardType{cards.CardTypeCharacter},
			Count:      1,
			SelectMode: cards.SelectChoose,
		},
	})
	playFromHand(t, g, g.P1, master)

	require.NotNil(t, g.Interaction)
	pending := g.PendingRequest()
	require.NotNil(t, pending)
	assert.Equal(t, "p1", pending.PlayerID)
	assert.Equal(t, data_models.ActionTypeSearchAndSelect, pending.Action)
	assert.Equal(t, []string{victim.UUID}, pending.SelectableUUIDs)

	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:          data_models.ActionTypeResolveEffectSelection,
		SelectedUUIDs: []string{victim.UUID},
	}))

	assert.Nil(t, g.Interaction)
	assert.Contains(t, g.P2.Trash, victim)
	assert.NotContains(t, g.P2.Field, victim)
	assert.Equal(t, PhaseMain, g.Phase)
}

func TestSelectionRejectsForeignCard(t *testing.T) {
	g := newStartedGame(t)
	putOnField(g.P2, charMaster("TEST-V02", 2, 3000, 1000))

	master := charMaster("TEST-E03", 1, 2000, 0)
	master.Abilities = onPlayAbility(&cards.GameAction{
		Type: cards.ActionKO,
		Target: &cards.TargetQuery{
			Zone:       cards.ZoneField,
			Player:     cards.ScopeOpponent,
			CardTypes:  []cards.CardType{cards.CardTypeCharacter},
			Count:      1,
			SelectMode: cards.SelectChoose,
		},
	})
	playFromHand(t, g, g.P1, master)
	require.NotNil(t, g.Interaction)

	err := act(g, "p1", &data_models.PlayerAction{
		Type:          data_models.ActionTypeResolveEffectSelection,
		SelectedUUIDs: []string{g.P1.Leader.UUID},
	})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidSelection, ruleErr.Code)
	// the selection is still pending
	assert.NotNil(t, g.Interaction)
}

func TestUpToSelectionCanBeSkipped(t *testing.T) {
	g := newStartedGame(t)
	victim := putOnField(g.P2, charMaster("TEST-V03", 2, 3000, 1000))

	master := charMaster("TEST-E04", 1, 2000, 0)
	master.Abilities = onPlayAbility(&cards.GameAction{
		Type: cards.ActionKO,
		Target: &cards.TargetQuery{
			Zone:       cards.ZoneField,
			Player:     cards.ScopeOpponent,
			CardTypes:  []cards.CardType{cards.CardTypeCharacter},
			Count:      1,
			IsUpTo:     true,
			SelectMode: cards.SelectChoose,
		},
	})
	playFromHand(t, g, g.P1, master)

	require.NotNil(t, g.Interaction)
	assert.True(t, g.Interaction.CanSkip)

	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type: data_models.ActionTypeResolveEffectSelection,
		Skip: true,
	}))

	assert.Nil(t, g.Interaction)
	assert.Contains(t, g.P2.Field, victim)
}

func TestChoiceSuspendsAndResumes(t *testing.T) {
	g := newStartedGame(t)
	g.P1.Leader.Master.Abilities = mainAbility(&cards.Choice{
		Message: "どちらか選ぶ",
		Options: []cards.EffectNode{
			&cards.GameAction{Type: cards.ActionDraw, Value: cards.FixedValue(1)},
			&cards.GameAction{Type: cards.ActionRampDon, Value: cards.FixedValue(1)},
		},
		OptionLabels: []string{"カードを1枚引く", "ドン!!を1枚追加する"},
	})

	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:     data_models.ActionTypeActivateAbility,
		CardUUID: g.P1.Leader.UUID,
	}))

	require.NotNil(t, g.Interaction)
	pending := g.PendingRequest()
	require.NotNil(t, pending)
	assert.Equal(t, data_models.ActionTypeChoice, pending.Action)
	assert.Equal(t, []string{"カードを1枚引く", "ドン!!を1枚追加する"}, pending.Options)

	donBefore := len(g.P1.DonActive)
	index := 1
	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:                data_models.ActionTypeResolveEffectSelection,
		SelectedOptionIndex: &index,
	}))

	assert.Nil(t, g.Interaction)
	assert.Len(t, g.P1.DonActive, donBefore+1)
}

func TestCostGatesEffect(t *testing.T) {
	ability := &cards.Ability{
		Trigger: cards.TriggerActivateMain,
		Cost: &cards.GameAction{
			Type: cards.ActionTrash,
			Target: &cards.TargetQuery{
				Zone:       cards.ZoneHand,
				Player:     cards.ScopeSelf,
				Count:      1,
				IsUpTo:     true,
				SelectMode: cards.SelectChoose,
			},
		},
		Effect: &cards.GameAction{Type: cards.ActionDraw, Value: cards.FixedValue(2)},
	}

	t.Run("declined cost skips the effect", func(t *testing.T) {
		g := newStartedGame(t)
		g.P1.Leader.Master.Abilities = []*cards.Ability{ability}

		handBefore := len(g.P1.Hand)
		deckBefore := len(g.P1.Deck)
		require.NoError(t, act(g, "p1", &data_models.PlayerAction{
			Type:     data_models.ActionTypeActivateAbility,
			CardUUID: g.P1.Leader.UUID,
		}))
		require.NotNil(t, g.Interaction)

		require.NoError(t, act(g, "p1", &data_models.PlayerAction{
			Type: data_models.ActionTypeResolveEffectSelection,
			Skip: true,
		}))

		assert.Len(t, g.P1.Hand, handBefore)
		assert.Len(t, g.P1.Deck, deckBefore)
	})

	t.Run("paid cost runs the effect", func(t *testing.T) {
		g := newStartedGame(t)
		g.P1.Leader.Master.Abilities = []*cards.Ability{ability}

		handBefore := len(g.P1.Hand)
		deckBefore := len(g.P1.Deck)
		require.NoError(t, act(g, "p1", &data_models.PlayerAction{
			Type:     data_models.ActionTypeActivateAbility,
			CardUUID: g.P1.Leader.UUID,
		}))
		require.NotNil(t, g.Interaction)

		require.NoError(t, act(g, "p1", &data_models.PlayerAction{
			Type:          data_models.ActionTypeResolveEffectSelection,
			SelectedUUIDs: []string{g.P1.Hand[0].UUID},
		}))

		// one trashed for the cost, two drawn
		assert.Len(t, g.P1.Hand, handBefore+1)
		assert.Len(t, g.P1.Deck, deckBefore-2)
		assert.Len(t, g.P1.Trash, 1)
	})
}

func TestAbilityOncePerTurn(t *testing.T) {
	g := newStartedGame(t)
	g.P1.Leader.Master.Abilities = mainAbility(&cards.GameAction{
		Type: cards.ActionDraw, Value: cards.FixedValue(1),
	})

	activate := &data_models.PlayerAction{
		Type:     data_models.ActionTypeActivateAbility,
		CardUUID: g.P1.Leader.UUID,
	}
	require.NoError(t, act(g, "p1", activate))

	err := act(g, "p1", activate)
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeAbilityNotUsable, ruleErr.Code)

	// usable again on the next own turn
	require.NoError(t, act(g, "p1", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn}))
	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn}))
	require.NoError(t, act(g, "p1", activate))
}

func TestConditionBlocksAbility(t *testing.T) {
	g := newStartedGame(t)
	g.P1.Leader.Master.Abilities = []*cards.Ability{{
		Trigger:   cards.TriggerActivateMain,
		Condition: &cards.Condition{Type: cards.CondLifeCount, Operator: cards.CompareLE, Value: 2},
		Effect:    &cards.GameAction{Type: cards.ActionDraw, Value: cards.FixedValue(1)},
	}}

	deckBefore := len(g.P1.Deck)
	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:     data_models.ActionTypeActivateAbility,
		CardUUID: g.P1.Leader.UUID,
	}))
	// four life cards, the <=2 condition fails, nothing happens
	assert.Len(t, g.P1.Deck, deckBefore)
}

func TestDynamicValueFromHandCount(t *testing.T) {
	g := newStartedGame(t)
	g.P1.Leader.Master.Abilities = mainAbility(&cards.GameAction{
		Type:   cards.ActionBuff,
		Target: &cards.TargetQuery{SelectMode: cards.SelectSource},
		Value:  &cards.ValueSource{DynamicSource: dynamicHandCount, Multiplier: 1000, Divisor: 1},
	})

	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:     data_models.ActionTypeActivateAbility,
		CardUUID: g.P1.Leader.UUID,
	}))

	expected := 5000 + len(g.P1.Hand)*1000
	assert.Equal(t, expected, g.P1.Leader.EffectivePower(true))
}

func TestSavedTargetsReferencedLater(t *testing.T) {
	g := newStartedGame(t)
	victim := putOnField(g.P2, charMaster("TEST-V04", 3, 5000, 1000))

	g.P1.Leader.Master.Abilities = mainAbility(&cards.Sequence{Actions: []cards.EffectNode{
		&cards.GameAction{
			Type: cards.ActionRest,
			Target: &cards.TargetQuery{
				Zone:       cards.ZoneField,
				Player:     cards.ScopeOpponent,
				CardTypes:  []cards.CardType{cards.CardTypeCharacter},
				Count:      1,
				SelectMode: cards.SelectChoose,
				SaveID:     "rested",
			},
		},
		&cards.GameAction{
			Type:   cards.ActionBuff,
			Target: &cards.TargetQuery{SelectMode: cards.SelectReference, RefID: "rested"},
			Value:  cards.FixedValue(-2000),
		},
	}})

	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:     data_models.ActionTypeActivateAbility,
		CardUUID: g.P1.Leader.UUID,
	}))
	require.NotNil(t, g.Interaction)

	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:          data_models.ActionTypeResolveEffectSelection,
		SelectedUUIDs: []string{victim.UUID},
	}))

	assert.True(t, victim.IsRest)
	assert.Equal(t, 3000, victim.EffectivePower(false))
}

func TestNestedSuspensionFinishesOuterEffect(t *testing.T) {
	g := newStartedGame(t)
	victim := putOnField(g.P2, charMaster("TEST-V05", 2, 3000, 1000))

	// a character whose arrival KOs a chosen enemy character
	nestedMaster := charMaster("TEST-N01", 2, 4000, 1000)
	nestedMaster.Abilities = onPlayAbility(&cards.GameAction{
		Type: cards.ActionKO,
		Target: &cards.TargetQuery{
			Zone:       cards.ZoneField,
			Player:     cards.ScopeOpponent,
			CardTypes:  []cards.CardType{cards.CardTypeCharacter},
			Count:      1,
			SelectMode: cards.SelectChoose,
		},
	})
	nested := putInHand(g.P1, nestedMaster)

	// an event that plays a character from hand, then draws
	eventMaster := &cards.CardMaster{
		ID: "TEST-EV1", Name: "テストイベント", Type: cards.CardTypeEvent,
		Color: cards.ColorRed, Cost: 1,
	}
	eventMaster.Abilities = onPlayAbility(&cards.Sequence{Actions: []cards.EffectNode{
		&cards.GameAction{
			Type: cards.ActionPlayCard,
			Target: &cards.TargetQuery{
				Zone:       cards.ZoneHand,
				Player:     cards.ScopeSelf,
				CardTypes:  []cards.CardType{cards.CardTypeCharacter},
				Count:      1,
				SelectMode: cards.SelectChoose,
			},
		},
		&cards.GameAction{Type: cards.ActionDraw, Value: cards.FixedValue(1)},
	}})

	deckBefore := len(g.P1.Deck)
	event := playFromHand(t, g, g.P1, eventMaster)
	assert.Contains(t, g.P1.Trash, event)

	// outer suspension: which character to play
	require.NotNil(t, g.Interaction)
	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:          data_models.ActionTypeResolveEffectSelection,
		SelectedUUIDs: []string{nested.UUID},
	}))
	assert.Contains(t, g.P1.Field, nested)

	// nested suspension: the played character's own on-play target
	require.NotNil(t, g.Interaction)
	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:          data_models.ActionTypeResolveEffectSelection,
		SelectedUUIDs: []string{victim.UUID},
	}))

	assert.Nil(t, g.Interaction)
	assert.Contains(t, g.P2.Trash, victim)
	// the draw queued after the nested play still happened
	assert.Len(t, g.P1.Deck, deckBefore-1)
}

func TestRampDonRested(t *testing.T) {
	g := newStartedGame(t)
	g.P1.Leader.Master.Abilities = mainAbility(&cards.GameAction{
		Type:   cards.ActionRampDon,
		Value:  cards.FixedValue(2),
		Status: cards.StatusRest,
	})

	restedBefore := len(g.P1.DonRested)
	deckBefore := len(g.P1.DonDeck)
	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:     data_models.ActionTypeActivateAbility,
		CardUUID: g.P1.Leader.UUID,
	}))

	assert.Len(t, g.P1.DonRested, restedBefore+2)
	assert.Len(t, g.P1.DonDeck, deckBefore-2)
}

func TestLifeRecoverAndManipulate(t *testing.T) {
	g := newStartedGame(t)

	g.P1.Leader.Master.Abilities = mainAbility(&cards.GameAction{
		Type: cards.ActionLifeRecover, Value: cards.FixedValue(1),
	})
	lifeBefore := len(g.P1.Life)
	deckBefore := len(g.P1.Deck)
	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:     data_models.ActionTypeActivateAbility,
		CardUUID: g.P1.Leader.UUID,
	}))
	assert.Len(t, g.P1.Life, lifeBefore+1)
	assert.Len(t, g.P1.Deck, deckBefore-1)
	assert.False(t, g.P1.Life[len(g.P1.Life)-1].IsFaceUp)
}

func TestNegateEffectClearsKeywords(t *testing.T) {
	g := newStartedGame(t)

	blockerMaster := charMaster("TEST-V06", 2, 3000, 1000)
	blockerMaster.Keywords = []string{cards.KeywordBlocker}
	blocker := putOnField(g.P2, blockerMaster)

	g.P1.Leader.Master.Abilities = mainAbility(&cards.GameAction{
		Type: cards.ActionNegateEffect,
		Target: &cards.TargetQuery{
			Zone:       cards.ZoneField,
			Player:     cards.ScopeOpponent,
			CardTypes:  []cards.CardType{cards.CardTypeCharacter},
			Count:      1,
			SelectMode: cards.SelectChoose,
		},
	})
	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:     data_models.ActionTypeActivateAbility,
		CardUUID: g.P1.Leader.UUID,
	}))
	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:          data_models.ActionTypeResolveEffectSelection,
		SelectedUUIDs: []string{blocker.UUID},
	}))

	assert.True(t, blocker.Negated)
	assert.False(t, g.P2.HasUntappedBlocker())
}
