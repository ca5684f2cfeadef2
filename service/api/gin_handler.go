// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type ginHandler struct {
	config config.Config
	logger log.Logger
	svc    Service
}

func newGinHandler(cfg config.Config, svc Service, logger log.Logger) *ginHandler {
	return &ginHandler{
		config: cfg,
		logger: logger,
		svc:    svc,
	}
}

func (h *ginHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ginHandler) CreateGame(c *gin.Context) {
	var req data_models.CreateGameRequest
	// create with an empty body is allowed, every field has a default
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidRequestSchema(c)
			return
		}
	}
	h.logger.Debug("received CreateGame API request", tag.Value(h.toJson(req)))

	resp, errResp := h.svc.CreateGame(c.Request.Context(), req)

	if errResp != nil {
		c.JSON(errResp.StatusCode, errResp.Error)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ginHandler) GetGameState(c *gin.Context) {
	gameId := c.Param("gameId")
	observerId := c.Query("observerId")

	resp, errResp := h.svc.GetGameState(c.Request.Context(), gameId, observerId)

	if errResp != nil {
		c.JSON(errResp.StatusCode, errResp.Error)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ginHandler) ApplyGameAction(c *gin.Context) {
	gameId := c.Param("gameId")
	observerId := c.Query("observerId")

	var req data_models.GameActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestSchema(c)
		return
	}
	h.logger.Debug("received GameAction API request",
		tag.GameID(gameId), tag.RequestID(req.RequestId), tag.Value(h.toJson(req)))

	resp, errResp := h.svc.ApplyGameAction(c.Request.Context(), gameId, observerId, req)

	if errResp != nil {
		c.JSON(errResp.StatusCode, errResp.Error)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ginHandler) ResetGame(c *gin.Context) {
	gameId := c.Param("gameId")
	observerId := c.Query("observerId")

	resp, errResp := h.svc.ResetGame(c.Request.Context(), gameId, observerId)

	if errResp != nil {
		c.JSON(errResp.StatusCode, errResp.Error)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ginHandler) toJson(req any) string {
	str, err := json.Marshal(req)
	if err != nil {
		h.logger.Error("error when serializing request", tag.Error(err), tag.DefaultValue(req))
		return ""
	}
	return string(str)
}

func invalidRequestSchema(c *gin.Context) {
	c.JSON(http.StatusBadRequest, data_models.ApiErrorResponse{
		Detail: "invalid request schema",
	})
}
