// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

func testLogger() log.Logger {
	return log.NewLogger(zap.NewNop())
}

func leaderMaster(name string, life int) *cards.CardMaster {
	return &cards.CardMaster{
		ID:    "TEST-L01",
		Name:  name,
		Type:  cards.CardTypeLeader,
		Color: cards.ColorRed,
		Power: 5000,
		Life:  life,
	}
}

func charMaster(id string, cost int, power int, counter int) *cards.CardMaster {
	return &cards.CardMaster{
		ID:      id,
		Name:    "キャラ" + id,
		Type:    cards.CardTypeCharacter,
		Color:   cards.ColorRed,
		Cost:    cost,
		Power:   power,
		Counter: counter,
		Traits:  []string{"麦わらの一味"},
	}
}

// vanillaDeck builds size distinct cost-2 characters so that shuffle order
// is observable through master ids.
func vanillaDeck(ownerID string, size int) []*cards.CardInstance {
	deck := make([]*cards.CardInstance, size)
	for i := 0; i < size; i++ {
		deck[i] = cards.NewCardInstance(charMaster(fmt.Sprintf("VAN-%03d", i), 2, 3000, 1000), ownerID)
	}
	return deck
}

func testPlayers() (*Player, *Player) {
	p1 := NewPlayer("p1", "プレイヤー1",
		cards.NewCardInstance(leaderMaster("リーダー1", 4), "p1"), vanillaDeck("p1", 20))
	p2 := NewPlayer("p2", "プレイヤー2",
		cards.NewCardInstance(leaderMaster("リーダー2", 4), "p2"), vanillaDeck("p2", 20))
	return p1, p2
}

func newStartedGame(t *testing.T) *Game {
	t.Helper()
	p1, p2 := testPlayers()
	g := NewGame("game-test", p1, p2, NewGameRand(42), testLogger())
	g.Start("p1")
	require.Nil(t, g.Interaction)
	require.Equal(t, PhaseMain, g.Phase)
	return g
}

// putInHand injects a fresh instance of master into p's hand.
func putInHand(p *Player, master *cards.CardMaster) *cards.CardInstance {
	c := cards.NewCardInstance(master, p.ID)
	c.IsFaceUp = true
	p.Hand = append(p.Hand, c)
	return c
}

// putOnField injects a fresh face-up instance onto p's field, ready to act.
func putOnField(p *Player, master *cards.CardMaster) *cards.CardInstance {
	c := cards.NewCardInstance(master, p.ID)
	c.IsFaceUp = true
	p.Field = append(p.Field, c)
	return c
}

func act(g *Game, playerID string, action *data_models.PlayerAction) error {
	return g.ApplyPlayerAction(playerID, action)
}

func TestGameStartDealsBoard(t *testing.T) {
	g := newStartedGame(t)

	assert.Equal(t, 1, g.TurnCount)
	assert.Equal(t, "p1", g.TurnPlayer.ID)
	assert.Equal(t, "", g.Winner)

	for _, p := range []*Player{g.P1, g.P2} {
		assert.Len(t, p.Life, 4)
		assert.Len(t, p.Hand, InitialHandSize)
		assert.Len(t, p.Deck, 20-4-InitialHandSize)
		assert.True(t, p.Leader.IsFaceUp)
		for _, life := range p.Life {
			assert.False(t, life.IsFaceUp)
		}
	}

	// first turn gives the turn player a single don!! and no draw
	assert.Len(t, g.P1.DonActive, 1)
	assert.Len(t, g.P1.DonDeck, DonDeckSize-1)
	assert.Len(t, g.P2.DonActive, 0)
}

func TestTurnCycle(t *testing.T) {
	g := newStartedGame(t)

	require.NoError(t, act(g, "p1", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn}))
	assert.Equal(t, 2, g.TurnCount)
	assert.Equal(t, "p2", g.TurnPlayer.ID)
	assert.Equal(t, PhaseMain, g.Phase)
	// from turn two on: draw one, gain two don!!
	assert.Len(t, g.P2.Hand, InitialHandSize+1)
	assert.Len(t, g.P2.DonActive, 2)

	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn}))
	assert.Equal(t, 3, g.TurnCount)
	assert.Equal(t, "p1", g.TurnPlayer.ID)
	assert.Len(t, g.P1.Hand, InitialHandSize+1)
	assert.Len(t, g.P1.DonActive, 3)
}

func TestEndTurnByWrongPlayer(t *testing.T) {
	g := newStartedGame(t)

	err := act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeWrongPlayer, ruleErr.Code)
}

func TestRefreshRestoresBoard(t *testing.T) {
	g := newStartedGame(t)

	unit := putOnField(g.P1, charMaster("TEST-C01", 2, 3000, 1000))
	unit.IsRest = true
	g.rampDon(g.P1, 2, true)
	require.NoError(t, g.AttachDon(g.P1, g.P1.DonActive[0].UUID, unit.UUID))

	require.NoError(t, act(g, "p1", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn}))
	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn}))

	assert.False(t, unit.IsRest)
	assert.Equal(t, 0, unit.AttachedDon)
	assert.Empty(t, g.P1.DonRested)
	assert.Empty(t, g.P1.DonAttached)
}

func TestPlayCardPaysCost(t *testing.T) {
	g := newStartedGame(t)
	g.rampDon(g.P1, 3, false)

	card := putInHand(g.P1, charMaster("TEST-C02", 2, 4000, 1000))
	handBefore := len(g.P1.Hand)
	donActiveBefore := len(g.P1.DonActive)

	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:     data_models.ActionTypePlayCard,
		CardUUID: card.UUID,
	}))

	assert.Len(t, g.P1.Hand, handBefore-1)
	assert.Contains(t, g.P1.Field, card)
	assert.True(t, card.IsNewlyPlayed)
	assert.True(t, card.IsFaceUp)
	assert.Len(t, g.P1.DonActive, donActiveBefore-2)
	assert.Len(t, g.P1.DonRested, 2)
}

func TestPlayCardWithExplicitDon(t *testing.T) {
	g := newStartedGame(t)
	g.rampDon(g.P1, 3, false)

	card := putInHand(g.P1, charMaster("TEST-C03", 2, 4000, 1000))
	pay := []string{g.P1.DonActive[1].UUID, g.P1.DonActive[3].UUID}

	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:     data_models.ActionTypePlayCard,
		CardUUID: card.UUID,
		DonUUIDs: pay,
	}))

	assert.Len(t, g.P1.DonRested, 2)
	for _, don := range g.P1.DonRested {
		assert.Contains(t, pay, don.UUID)
	}
}

func TestPlayCardInsufficientDon(t *testing.T) {
	g := newStartedGame(t)

	card := putInHand(g.P1, charMaster("TEST-C04", 5, 6000, 1000))
	err := act(g, "p1", &data_models.PlayerAction{
		Type:     data_models.ActionTypePlayCard,
		CardUUID: card.UUID,
	})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInsufficientDon, ruleErr.Code)
	assert.Contains(t, g.P1.Hand, card)
	assert.Empty(t, g.P1.Field)
}

func TestPlayCardNotInHand(t *testing.T) {
	g := newStartedGame(t)

	err := act(g, "p1", &data_models.PlayerAction{
		Type:     data_models.ActionTypePlayCard,
		CardUUID: "no-such-card",
	})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeCardNotFound, ruleErr.Code)
}

func TestAttachDonBoostsPower(t *testing.T) {
	g := newStartedGame(t)
	g.rampDon(g.P1, 1, false)

	leader := g.P1.Leader
	require.NoError(t, act(g, "p1", &data_models.PlayerAction{
		Type:     data_models.ActionTypeAttachDon,
		DonUUID:  g.P1.DonActive[0].UUID,
		CardUUID: leader.UUID,
	}))

	assert.Equal(t, 1, leader.AttachedDon)
	assert.Len(t, g.P1.DonAttached, 1)
	assert.Equal(t, 6000, leader.EffectivePower(true))
	// the bonus only counts on the owner's own turn
	assert.Equal(t, 5000, leader.EffectivePower(false))
}

func TestStagePlacementReplacesOldStage(t *testing.T) {
	g := newStartedGame(t)

	stageA := cards.NewCardInstance(&cards.CardMaster{
		ID: "TEST-S01", Name: "ステージA", Type: cards.CardTypeStage, Cost: 1,
	}, "p1")
	stageB := cards.NewCardInstance(&cards.CardMaster{
		ID: "TEST-S02", Name: "ステージB", Type: cards.CardTypeStage, Cost: 1,
	}, "p1")

	g.MoveCard(stageA, cards.ZoneField, g.P1, "")
	require.Equal(t, stageA, g.P1.Stage)

	g.MoveCard(stageB, cards.ZoneField, g.P1, "")
	assert.Equal(t, stageB, g.P1.Stage)
	assert.Contains(t, g.P1.Trash, stageA)
}

func TestDeckOutLosesGame(t *testing.T) {
	g := newStartedGame(t)

	g.P2.Deck = g.P2.Deck[:1]
	g.DrawCard(g.P2, 1)

	assert.Equal(t, "p1", g.Winner)
	assert.True(t, g.Finished())
	assert.Nil(t, g.PendingRequest())

	err := act(g, "p1", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeGameFinished, ruleErr.Code)
}

func TestConcede(t *testing.T) {
	g := newStartedGame(t)

	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypeConcede}))
	assert.Equal(t, "p1", g.Winner)
	assert.True(t, g.Finished())
}

func TestFirstWinnerSticks(t *testing.T) {
	g := newStartedGame(t)

	g.setWinner(g.P1)
	g.setWinner(g.P2)
	assert.Equal(t, "p1", g.Winner)
}

func TestSandboxActionRejectedInStandardGame(t *testing.T) {
	g := newStartedGame(t)

	err := act(g, "p1", &data_models.PlayerAction{Type: data_models.ActionTypeDraw})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeUnsupportedAction, ruleErr.Code)
}

func TestPendingRequestMainPhase(t *testing.T) {
	g := newStartedGame(t)
	unit := putOnField(g.P1, charMaster("TEST-C05", 2, 3000, 1000))

	pending := g.PendingRequest()
	require.NotNil(t, pending)
	assert.Equal(t, "p1", pending.PlayerID)
	assert.Equal(t, data_models.ActionTypeMainAction, pending.Action)

	selectable := map[string]bool{}
	for _, id := range pending.SelectableUUIDs {
		selectable[id] = true
	}
	for _, c := range g.P1.Hand {
		assert.True(t, selectable[c.UUID])
	}
	assert.True(t, selectable[unit.UUID])
	assert.True(t, selectable[g.P1.Leader.UUID])
}
