// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package async

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/engine"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence"
)

const PathNotifyArchiveTasks = "/internal/api/v1/opcgsim/notify-archive-tasks"
const PathNotifySessionExpiry = "/internal/api/v1/opcgsim/notify-session-expiry"

type defaultSever struct {
	rootCtx context.Context
	cfg     config.Config
	logger  log.Logger

	engine     *gin.Engine
	httpServer *http.Server
	svc        Service
	membership Membership
}

// NewDefaultAsyncServerWithGin creates the internal server that consumes the
// archive and session-expiry task queues. In cluster mode it also joins the
// membership ring and owns only its assigned shards; the returned Membership
// is non-nil in that case so an API server in the same process can route
// notifications through the same ring view.
func NewDefaultAsyncServerWithGin(
	rootCtx context.Context, cfg config.Config,
	registry engine.SessionRegistry, taskStore persistence.TaskStore,
	snapshotStore persistence.GameSnapshotStore, archive persistence.ReplayArchive,
	logger log.Logger,
) (Server, Membership) {
	svc := NewAsyncServiceImpl(rootCtx, cfg, registry, taskStore, snapshotStore, archive, logger)

	var membership Membership
	if cfg.AsyncService.Mode == config.AsyncServiceModeCluster {
		membership = NewMembershipImpl(cfg, svc, ServerTypeAsync, logger)
	}

	handler := newGinHandler(cfg, svc, membership, logger)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.POST(PathNotifyArchiveTasks, handler.NotifyArchiveTasks)
	engine.POST(PathNotifySessionExpiry, handler.NotifySessionExpiryTasks)

	svrCfg := cfg.AsyncService.InternalHttpServer
	httpServer := &http.Server{
		Addr:              svrCfg.Address,
		ReadTimeout:       svrCfg.ReadTimeout,
		WriteTimeout:      svrCfg.WriteTimeout,
		ReadHeaderTimeout: svrCfg.ReadHeaderTimeout,
		IdleTimeout:       svrCfg.IdleTimeout,
		MaxHeaderBytes:    svrCfg.MaxHeaderBytes,
		TLSConfig:         svrCfg.TLSConfig,
		Handler:           engine,
		BaseContext: func(listener net.Listener) context.Context {
			// for graceful shutdown
			return rootCtx
		},
	}

	return &defaultSever{
		rootCtx:    rootCtx,
		cfg:        cfg,
		logger:     logger,
		engine:     engine,
		httpServer: httpServer,
		svc:        svc,
		membership: membership,
	}, membership
}

func (s defaultSever) Start() error {
	go func() {
		err := s.httpServer.ListenAndServe()
		s.logger.Info("Internal Http Server for Async service is closed", tag.Error(err))
	}()

	err := s.svc.Start()
	if err != nil {
		return err
	}

	if s.membership != nil {
		// joining last so that the first rebalance lands on running processors
		return s.membership.Start()
	}
	return nil
}

func (s defaultSever) Stop(ctx context.Context) error {
	var membershipErr error
	if s.membership != nil {
		// leaving first hands the shards to the peers before the queues stop
		membershipErr = s.membership.Stop(ctx)
	}
	return multierr.Combine(
		membershipErr,
		s.httpServer.Shutdown(ctx),
		s.svc.Stop(ctx),
	)
}
