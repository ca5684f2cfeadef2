// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/uuid"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
)

const PathHealth = "/health"
const PathMetrics = "/metrics"
const PathCreateGame = "/api/game/create"
const PathGameState = "/api/game/:gameId/state"
const PathGameAction = "/api/game/:gameId/action"
const PathGameReset = "/api/game/:gameId/reset"

// HeaderRequestId echoes the caller's request id, or a generated one, on
// every response for log correlation.
const HeaderRequestId = "X-Request-Id"

// NewAPIServiceGinController builds the public API router. It is decoupled
// from the http.Server so that tests can drive it directly.
func NewAPIServiceGinController(cfg config.Config, svc Service, logger log.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIdMiddleware())

	metrics := newHttpMetrics()
	router.Use(metrics.Middleware())
	router.GET(PathMetrics, gin.WrapH(metrics.Handler()))

	handler := newGinHandler(cfg, svc, logger)

	router.GET(PathHealth, handler.Health)
	router.POST(PathCreateGame, handler.CreateGame)
	router.GET(PathGameState, handler.GetGameState)
	router.POST(PathGameAction, handler.ApplyGameAction)
	router.POST(PathGameReset, handler.ResetGame)

	return router
}

func requestIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(HeaderRequestId)
		if requestId == "" {
			requestId = uuid.New()
		}
		c.Writer.Header().Set(HeaderRequestId, requestId)
		c.Next()
	}
}
