// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

func newTestSandbox(t *testing.T) *SandboxGame {
	t.Helper()
	p1, p2 := testPlayers()
	return NewSandboxGame("sandbox-test", p1, p2, NewGameRand(42), testLogger())
}

func sandboxAct(s *SandboxGame, action *data_models.PlayerAction) error {
	return s.ApplyPlayerAction(s.ActivePlayerID, action)
}

func TestSandboxSetup(t *testing.T) {
	s := newTestSandbox(t)

	assert.Equal(t, 1, s.TurnCount)
	assert.Equal(t, "p1", s.ActivePlayerID)
	for _, p := range []*Player{s.P1, s.P2} {
		assert.Len(t, p.Life, 4)
		assert.Len(t, p.Hand, InitialHandSize)
		assert.Len(t, p.Deck, 20-4-InitialHandSize)
	}
	// the first turn starts immediately with one don!!
	assert.Len(t, s.P1.DonActive, 1)
	assert.Len(t, s.P2.DonActive, 0)
}

func TestSandboxTurnEnd(t *testing.T) {
	s := newTestSandbox(t)

	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{Type: data_models.ActionTypeTurnEnd}))

	assert.Equal(t, 2, s.TurnCount)
	assert.Equal(t, "p2", s.ActivePlayerID)
	assert.Len(t, s.P2.Hand, InitialHandSize+1)
	assert.Len(t, s.P2.DonActive, 2)
}

func TestSandboxMoveCard(t *testing.T) {
	s := newTestSandbox(t)
	card := s.P1.Hand[0]

	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{
		Type:         data_models.ActionTypeMoveCard,
		CardUUID:     card.UUID,
		DestPlayerID: "p1",
		DestZone:     "field",
	}))
	assert.Contains(t, s.P1.Field, card)
	assert.NotContains(t, s.P1.Hand, card)

	// across players too: the sandbox has no ownership rules
	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{
		Type:         data_models.ActionTypeMoveCard,
		CardUUID:     card.UUID,
		DestPlayerID: "p2",
		DestZone:     "trash",
	}))
	assert.Contains(t, s.P2.Trash, card)
}

func TestSandboxMoveCardToDeckIndex(t *testing.T) {
	s := newTestSandbox(t)
	card := s.P1.Hand[0]
	index := 0

	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{
		Type:         data_models.ActionTypeMoveCard,
		CardUUID:     card.UUID,
		DestPlayerID: "p1",
		DestZone:     "deck",
		Index:        &index,
	}))
	require.NotEmpty(t, s.P1.Deck)
	assert.Equal(t, card, s.P1.Deck[0])
}

func TestSandboxLeaderReplacement(t *testing.T) {
	s := newTestSandbox(t)
	oldLeader := s.P1.Leader
	card := s.P1.Hand[0]

	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{
		Type:         data_models.ActionTypeMoveCard,
		CardUUID:     card.UUID,
		DestPlayerID: "p1",
		DestZone:     "leader",
	}))

	assert.Equal(t, card, s.P1.Leader)
	assert.Contains(t, s.P1.Trash, oldLeader)
}

func TestSandboxMoveCardUnknownZone(t *testing.T) {
	s := newTestSandbox(t)
	card := s.P1.Hand[0]

	err := sandboxAct(s, &data_models.PlayerAction{
		Type:         data_models.ActionTypeMoveCard,
		CardUUID:     card.UUID,
		DestPlayerID: "p1",
		DestZone:     "void",
	})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidZone, ruleErr.Code)
	// the card stays findable
	assert.Contains(t, s.P1.Trash, card)
}

func TestSandboxToggleRest(t *testing.T) {
	s := newTestSandbox(t)
	leader := s.P1.Leader

	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{
		Type:     data_models.ActionTypeToggleRest,
		CardUUID: leader.UUID,
	}))
	assert.True(t, leader.IsRest)

	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{
		Type:     data_models.ActionTypeToggleRest,
		CardUUID: leader.UUID,
	}))
	assert.False(t, leader.IsRest)
}

func TestSandboxToggleRestMovesDon(t *testing.T) {
	s := newTestSandbox(t)
	require.NotEmpty(t, s.P1.DonActive)
	don := s.P1.DonActive[0]

	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{
		Type:     data_models.ActionTypeToggleRest,
		CardUUID: don.UUID,
	}))
	assert.True(t, don.IsRest)
	assert.Contains(t, s.P1.DonRested, don)
	assert.NotContains(t, s.P1.DonActive, don)

	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{
		Type:     data_models.ActionTypeToggleRest,
		CardUUID: don.UUID,
	}))
	assert.False(t, don.IsRest)
	assert.Contains(t, s.P1.DonActive, don)
}

func TestSandboxManualDraw(t *testing.T) {
	s := newTestSandbox(t)

	handBefore := len(s.P1.Hand)
	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{Type: data_models.ActionTypeDraw}))
	assert.Len(t, s.P1.Hand, handBefore+1)

	// an explicit player id draws for that player, active or not
	p2Before := len(s.P2.Hand)
	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{
		Type:     data_models.ActionTypeDraw,
		PlayerID: "p2",
	}))
	assert.Len(t, s.P2.Hand, p2Before+1)
}

func TestSandboxDonCapped(t *testing.T) {
	s := newTestSandbox(t)

	// 1 + 2 + 2 + 2 + 2 turns of don!! for p1 would exceed the pool of 10
	for i := 0; i < 10; i++ {
		require.NoError(t, sandboxAct(s, &data_models.PlayerAction{Type: data_models.ActionTypeTurnEnd}))
	}
	assert.LessOrEqual(t, s.P1.DonTotal(), sandboxDonLimit)
	assert.LessOrEqual(t, s.P2.DonTotal(), sandboxDonLimit)
}

func TestSandboxRefreshRestoresBoard(t *testing.T) {
	s := newTestSandbox(t)

	unit := s.P1.Hand[0]
	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{
		Type:         data_models.ActionTypeMoveCard,
		CardUUID:     unit.UUID,
		DestPlayerID: "p1",
		DestZone:     "field",
	}))
	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{
		Type:     data_models.ActionTypeToggleRest,
		CardUUID: unit.UUID,
	}))
	require.True(t, unit.IsRest)

	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{Type: data_models.ActionTypeTurnEnd}))
	require.NoError(t, sandboxAct(s, &data_models.PlayerAction{Type: data_models.ActionTypeTurnEnd}))

	assert.False(t, unit.IsRest)
	assert.Empty(t, s.P1.DonRested)
}

func TestSandboxRejectsRuleActions(t *testing.T) {
	s := newTestSandbox(t)

	err := sandboxAct(s, &data_models.PlayerAction{Type: data_models.ActionTypeAttack})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeUnsupportedAction, ruleErr.Code)
}
