// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type Server interface {
	// Start will start running on the background
	Start() error
	Stop(ctx context.Context) error
}

// Service is the interface of API service, which decoupled from REST server framework like Gin
// So that users can choose to use other REST frameworks to serve requests
type Service interface {
	CreateGame(ctx context.Context, request data_models.CreateGameRequest) (
		resp *data_models.CreateGameResponse, err *ErrorWithStatus)
	GetGameState(ctx context.Context, gameId string, observerId string) (
		resp *data_models.GameStateResponse, err *ErrorWithStatus)
	ApplyGameAction(ctx context.Context, gameId string, observerId string, request data_models.GameActionRequest) (
		resp *data_models.GameActionResponse, err *ErrorWithStatus)
	ResetGame(ctx context.Context, gameId string, observerId string) (
		resp *data_models.GameStateResponse, err *ErrorWithStatus)
}
