// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

func testFactory() PlayerFactory {
	return func() (*Player, *Player, error) {
		p1, p2 := testPlayers()
		return p1, p2, nil
	}
}

func newTestSession(t *testing.T, mode data_models.GameMode) *Session {
	t.Helper()
	s, err := NewSession("session-test", mode, 42, testFactory(), testLogger())
	require.NoError(t, err)
	return s
}

func TestSessionCreate(t *testing.T) {
	s := newTestSession(t, data_models.GameModeStandard)

	assert.NotEmpty(t, s.CreatorObserverID)
	assert.False(t, s.Finished())
	assert.Equal(t, "", s.Winner())
	assert.Equal(t, int64(42), s.Seed())

	view := s.StateFor(s.CreatorObserverID)
	require.NotNil(t, view)
	assert.Equal(t, "session-test", view.GameID)
	assert.Len(t, view.Players, 2)
	assert.Equal(t, 1, view.TurnInfo.TurnCount)
}

func TestSessionObserverScopes(t *testing.T) {
	s := newTestSession(t, data_models.GameModeStandard)

	creator := s.StateFor(s.CreatorObserverID)
	for _, c := range creator.Players["p2"].Zones.Hand {
		assert.NotEmpty(t, c.CardID)
	}

	seat := s.StateFor("p1")
	for _, c := range seat.Players["p1"].Zones.Hand {
		assert.NotEmpty(t, c.CardID)
	}
	for _, c := range seat.Players["p2"].Zones.Hand {
		assert.Empty(t, c.CardID)
	}

	stranger := s.StateFor("not-an-observer")
	for _, c := range stranger.Players["p1"].Zones.Hand {
		assert.Empty(t, c.CardID)
	}
}

func TestSessionSeatActsAsItself(t *testing.T) {
	s := newTestSession(t, data_models.GameModeStandard)

	view, err := s.Act("p1", "", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.NoError(t, err)
	assert.Equal(t, 2, view.TurnInfo.TurnCount)
	assert.Equal(t, "p2", view.TurnInfo.ActivePlayerID)

	// the p1 seat cannot act during p2's turn
	_, err = s.Act("p1", "", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeWrongPlayer, ruleErr.Code)
}

func TestSessionCreatorDrivesBothSeats(t *testing.T) {
	s := newTestSession(t, data_models.GameModeStandard)

	// with no explicit player the creator acts as whoever must act next
	view, err := s.Act(s.CreatorObserverID, "", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.NoError(t, err)
	assert.Equal(t, "p2", view.TurnInfo.ActivePlayerID)

	view, err = s.Act(s.CreatorObserverID, "", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.NoError(t, err)
	assert.Equal(t, "p1", view.TurnInfo.ActivePlayerID)
	assert.Equal(t, 3, view.TurnInfo.TurnCount)
}

func TestSessionCreatorActsAsNamedPlayer(t *testing.T) {
	s := newTestSession(t, data_models.GameModeStandard)

	_, err := s.Act(s.CreatorObserverID, "", &data_models.PlayerAction{
		Type:     data_models.ActionTypeConcede,
		PlayerID: "p2",
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", s.Winner())
	assert.True(t, s.Finished())
}

func TestSessionIdempotentRequestID(t *testing.T) {
	s := newTestSession(t, data_models.GameModeStandard)

	first, err := s.Act("p1", "req-1", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.NoError(t, err)
	assert.Equal(t, 2, first.TurnInfo.TurnCount)

	// the duplicate is not applied again
	second, err := s.Act("p1", "req-1", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.NoError(t, err)
	assert.Equal(t, 2, second.TurnInfo.TurnCount)
}

func TestSessionIdempotencyReplaysErrors(t *testing.T) {
	s := newTestSession(t, data_models.GameModeStandard)

	_, err := s.Act("p2", "req-bad", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.Error(t, err)

	_, err = s.Act("p2", "req-bad", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeWrongPlayer, ruleErr.Code)
}

func TestSessionResetReplaysSameOpening(t *testing.T) {
	s := newTestSession(t, data_models.GameModeStandard)

	openingHand := func() []string {
		ids := make([]string, 0, len(s.game.P1.Hand))
		for _, c := range s.game.P1.Hand {
			ids = append(ids, c.Master.ID)
		}
		return ids
	}
	before := openingHand()

	_, err := s.Act("p1", "", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.NoError(t, err)
	_, err = s.Act("p2", "", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	assert.Equal(t, before, openingHand())
	assert.Equal(t, 1, s.StateFor(s.CreatorObserverID).TurnInfo.TurnCount)
	assert.False(t, s.Finished())
}

func TestSessionResetClearsIdempotencyCache(t *testing.T) {
	s := newTestSession(t, data_models.GameModeStandard)

	_, err := s.Act("p1", "req-1", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.NoError(t, err)
	require.NoError(t, s.Reset())

	// the same request id applies again after a reset
	view, err := s.Act("p1", "req-1", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.NoError(t, err)
	assert.Equal(t, 2, view.TurnInfo.TurnCount)
}

func TestSessionReplayLog(t *testing.T) {
	s := newTestSession(t, data_models.GameModeStandard)

	_, err := s.Act("p1", "", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.NoError(t, err)
	_, err = s.Act("p2", "", &data_models.PlayerAction{Type: data_models.ActionTypeConcede})
	require.NoError(t, err)

	replay := s.ReplaySnapshot()
	assert.Equal(t, "session-test", replay.GameID)
	assert.Equal(t, data_models.GameModeStandard, replay.Mode)
	assert.Equal(t, int64(42), replay.Seed)
	assert.Equal(t, "p1", replay.Winner)
	assert.NotZero(t, replay.FinishedAtUnix)

	// created, end turn, concede, finished
	require.Len(t, replay.Events, 4)
	for i, event := range replay.Events {
		assert.Equal(t, i+1, event.Seq)
	}
	assert.Equal(t, "game_created", replay.Events[0].Action)
	assert.Equal(t, string(data_models.ActionTypeEndTurn), replay.Events[1].Action)
	assert.Equal(t, "p1", replay.Events[1].PlayerID)
	assert.Equal(t, "game_finished", replay.Events[3].Action)
	assert.Equal(t, "p1", replay.Events[3].Message)
}

func TestSessionRejectedActionNotRecorded(t *testing.T) {
	s := newTestSession(t, data_models.GameModeStandard)

	_, err := s.Act("p2", "", &data_models.PlayerAction{Type: data_models.ActionTypeEndTurn})
	require.Error(t, err)

	replay := s.ReplaySnapshot()
	require.Len(t, replay.Events, 1)
	assert.Equal(t, "game_created", replay.Events[0].Action)
}

func TestSessionSnapshot(t *testing.T) {
	s := newTestSession(t, data_models.GameModeStandard)

	snapshot, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "session-test", snapshot.GameId)
	assert.Equal(t, data_models.GameStatusRunning, snapshot.Status)
	assert.Equal(t, data_models.GameModeStandard, snapshot.Mode)
	assert.Equal(t, int32(1), snapshot.TurnCount)
	assert.Equal(t, string(PhaseMain), snapshot.Phase)
	assert.NotEmpty(t, snapshot.StateJson)

	_, err = s.Act("p1", "", &data_models.PlayerAction{Type: data_models.ActionTypeConcede})
	require.NoError(t, err)

	snapshot, err = s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, data_models.GameStatusFinished, snapshot.Status)
}

func TestSandboxSession(t *testing.T) {
	s := newTestSession(t, data_models.GameModeSandbox)

	view := s.StateFor("anyone")
	assert.Equal(t, data_models.GameModeSandbox, view.Mode)
	// sandbox states are fully visible to every observer
	for _, c := range view.Players["p1"].Zones.Hand {
		assert.NotEmpty(t, c.CardID)
	}

	cardUUID := view.Players["p1"].Zones.Hand[0].UUID
	moved, err := s.Act(s.CreatorObserverID, "", &data_models.PlayerAction{
		Type:         data_models.ActionTypeMoveCard,
		CardUUID:     cardUUID,
		DestPlayerID: "p2",
		DestZone:     "field",
	})
	require.NoError(t, err)

	found := false
	for _, c := range moved.Players["p2"].Zones.Field {
		if c.UUID == cardUUID {
			found = true
		}
	}
	assert.True(t, found)
	assert.False(t, s.Finished())
}
