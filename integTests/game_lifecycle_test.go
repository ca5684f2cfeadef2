// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package integTests

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/uuid"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
	"github.com/gx5gyqe2-art/opcg-sim-backend/service/api"
)

func TestHealth(t *testing.T) {
	resp, err := client.health()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, resp)
}

func TestCreateAndObserveGame(t *testing.T) {
	created, err := client.createGame(data_models.CreateGameRequest{})
	require.NoError(t, err)
	require.True(t, created.Success)
	require.NotEmpty(t, created.GameId)
	require.NotEmpty(t, created.ObserverId)
	require.NotNil(t, created.State)

	assert.Equal(t, created.GameId, created.State.GameID)
	assert.Equal(t, data_models.GameModeStandard, created.State.Mode)
	assert.Equal(t, 1, created.State.TurnInfo.TurnCount)
	assert.Equal(t, "MAIN", created.State.TurnInfo.CurrentPhase)
	assert.Len(t, created.State.Players, 2)

	state, err := client.gameState(created.GameId, created.ObserverId)
	require.NoError(t, err)
	require.True(t, state.Success)
	require.NotNil(t, state.State)
	assert.Equal(t, created.GameId, state.State.GameID)
}

func TestMissingGameEnvelope(t *testing.T) {
	state, err := client.gameState("no-such-game", "")
	require.NoError(t, err)
	assert.False(t, state.Success)
	assert.Nil(t, state.State)

	action, err := client.applyAction("no-such-game", "", data_models.GameActionRequest{
		RequestId: uuid.New(),
		Action:    data_models.PlayerAction{Type: data_models.ActionTypeEndTurn},
	})
	require.NoError(t, err)
	assert.False(t, action.Success)
	assert.Nil(t, action.State)

	reset, err := client.resetGame("no-such-game", "")
	require.NoError(t, err)
	assert.False(t, reset.Success)
	assert.Nil(t, reset.State)
}

func TestTurnPassingAndIdempotency(t *testing.T) {
	created, err := client.createGame(data_models.CreateGameRequest{})
	require.NoError(t, err)
	require.True(t, created.Success)

	requestId := uuid.New()
	first, err := client.applyAction(created.GameId, created.ObserverId, data_models.GameActionRequest{
		RequestId: requestId,
		Action:    data_models.PlayerAction{Type: data_models.ActionTypeEndTurn},
	})
	require.NoError(t, err)
	require.True(t, first.Success)
	require.NotNil(t, first.State)
	assert.Equal(t, 2, first.State.TurnInfo.TurnCount)
	assert.Equal(t, "p2", first.State.TurnInfo.ActivePlayerID)

	// the same request id must not end the turn twice
	repeat, err := client.applyAction(created.GameId, created.ObserverId, data_models.GameActionRequest{
		RequestId: requestId,
		Action:    data_models.PlayerAction{Type: data_models.ActionTypeEndTurn},
	})
	require.NoError(t, err)
	require.True(t, repeat.Success)
	require.NotNil(t, repeat.State)
	assert.Equal(t, 2, repeat.State.TurnInfo.TurnCount)
}

func TestRuleViolationEnvelope(t *testing.T) {
	created, err := client.createGame(data_models.CreateGameRequest{})
	require.NoError(t, err)
	require.True(t, created.Success)

	resp, err := client.applyAction(created.GameId, created.ObserverId, data_models.GameActionRequest{
		RequestId: uuid.New(),
		Action: data_models.PlayerAction{
			Type:         data_models.ActionTypeAttack,
			AttackerUUID: "bogus",
			TargetUUID:   "bogus",
		},
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.NotEmpty(t, resp.Error["code"])
	assert.NotEmpty(t, resp.Error["message"])
	// the state still comes back so the client can re-render
	assert.NotNil(t, resp.State)
}

func TestResetGame(t *testing.T) {
	created, err := client.createGame(data_models.CreateGameRequest{})
	require.NoError(t, err)
	require.True(t, created.Success)

	acted, err := client.applyAction(created.GameId, created.ObserverId, data_models.GameActionRequest{
		RequestId: uuid.New(),
		Action:    data_models.PlayerAction{Type: data_models.ActionTypeEndTurn},
	})
	require.NoError(t, err)
	require.Equal(t, 2, acted.State.TurnInfo.TurnCount)

	reset, err := client.resetGame(created.GameId, created.ObserverId)
	require.NoError(t, err)
	require.True(t, reset.Success)
	require.NotNil(t, reset.State)
	assert.Equal(t, 1, reset.State.TurnInfo.TurnCount)
}

func TestSandboxGame(t *testing.T) {
	created, err := client.createGame(data_models.CreateGameRequest{Sandbox: true})
	require.NoError(t, err)
	require.True(t, created.Success)
	require.NotNil(t, created.State)
	assert.Equal(t, data_models.GameModeSandbox, created.State.Mode)

	before := created.State.Players["p1"].HandCount
	resp, err := client.applyAction(created.GameId, created.ObserverId, data_models.GameActionRequest{
		RequestId: uuid.New(),
		Action:    data_models.PlayerAction{Type: data_models.ActionTypeDraw, PlayerID: "p1"},
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, before+1, resp.State.Players["p1"].HandCount)
}

func TestMalformedActionRejected(t *testing.T) {
	created, err := client.createGame(data_models.CreateGameRequest{})
	require.NoError(t, err)

	resp, err := http.Post(
		client.baseUrl+"/api/game/"+created.GameId+"/action",
		"application/json",
		strings.NewReader("{not json"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsExposed(t *testing.T) {
	resp, err := http.Get(client.baseUrl + api.PathMetrics)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
