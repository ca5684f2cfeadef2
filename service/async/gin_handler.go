// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package async

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type ginHandler struct {
	config     config.Config
	logger     log.Logger
	svc        Service
	membership Membership
}

func newGinHandler(cfg config.Config, svc Service, membership Membership, logger log.Logger) *ginHandler {
	return &ginHandler{
		config:     cfg,
		logger:     logger,
		svc:        svc,
		membership: membership,
	}
}

func (h *ginHandler) NotifyArchiveTasks(c *gin.Context) {
	var req data_models.NotifyImmediateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestSchema(c)
		return
	}

	if h.config.AsyncService.Mode == config.AsyncServiceModeCluster {
		targetServerAddress := h.membership.GetAsyncServerAddressForShard(req.ShardId)
		if targetServerAddress != h.membership.GetServerAddress() {
			h.logger.Info(fmt.Sprintf("NotifyRemoteImmediateTaskAsyncInCluster: %s -> %s",
				h.membership.GetServerAddress(), targetServerAddress))

			h.svc.NotifyRemoteImmediateTaskAsyncInCluster(req, targetServerAddress)
			successRespond(c)
			return
		}
	}

	err := h.svc.NotifyPollingImmediateTask(req)
	if err != nil {
		invalidRequestForError(c, err)
		return
	}

	successRespond(c)
}

func (h *ginHandler) NotifySessionExpiryTasks(c *gin.Context) {
	var req data_models.NotifyTimerTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestSchema(c)
		return
	}

	if h.config.AsyncService.Mode == config.AsyncServiceModeCluster {
		targetServerAddress := h.membership.GetAsyncServerAddressForShard(req.ShardId)
		if targetServerAddress != h.membership.GetServerAddress() {
			h.logger.Info(fmt.Sprintf("NotifyRemoteTimerTaskAsyncInCluster: %s -> %s",
				h.membership.GetServerAddress(), targetServerAddress))

			h.svc.NotifyRemoteTimerTaskAsyncInCluster(req, targetServerAddress)
			successRespond(c)
			return
		}
	}

	err := h.svc.NotifyPollingTimerTask(req)
	if err != nil {
		invalidRequestForError(c, err)
		return
	}

	successRespond(c)
}

func successRespond(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]string{
		"message": "success",
	})
}

func invalidRequestSchema(c *gin.Context) {
	c.JSON(http.StatusBadRequest, data_models.ApiErrorResponse{
		Detail: "invalid request schema",
	})
}

func invalidRequestForError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, data_models.ApiErrorResponse{
		Detail: err.Error(),
	})
}
