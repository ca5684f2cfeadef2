// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"context"
	"fmt"
	rawLog "log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards/carddb"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/engine"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence"
	"github.com/gx5gyqe2-art/opcg-sim-backend/service/api"
	"github.com/gx5gyqe2-art/opcg-sim-backend/service/async"
)

const ApiServiceName = "api"
const AsyncServiceName = "async"

const FlagConfig = "config"
const FlagService = "service"

func StartOpcgSimServerCli(c *cli.Context) {
	// register interrupt signal for graceful shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	configPath := c.String(FlagConfig)
	services := getServices(c)

	// without a config file the server runs on defaults: in-memory stores,
	// demo card set, listening on $PORT or 8080
	cfg := config.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = config.NewConfig(configPath)
		if err != nil {
			rawLog.Fatalf("Unable to load config for path %v because of error %v", configPath, err)
		}
	}

	shutdownFunc := StartOpcgSimServer(rootCtx, cfg, services)
	// wait for os signals
	<-rootCtx.Done()

	ctx, cancF := context.WithTimeout(context.Background(), time.Second*10)
	defer cancF()
	err := shutdownFunc(ctx)
	if err != nil {
		fmt.Println("shutdown error:", err)
	}
}

type GracefulShutdown func(ctx context.Context) error

func StartOpcgSimServer(rootCtx context.Context, cfg *config.Config, services map[string]bool) GracefulShutdown {
	if len(services) == 0 {
		services = map[string]bool{ApiServiceName: true, AsyncServiceName: true}
	}

	zapLogger, err := cfg.Log.NewZapLogger()
	if err != nil {
		rawLog.Fatalf("Unable to create a new zap logger %v", err)
	}
	logger := log.NewLogger(zapLogger)

	err = cfg.ApplyEnvOverrides()
	if err != nil {
		logger.Fatal("environment overrides are invalid", tag.Error(err))
	}
	err = cfg.ValidateAndSetDefaults()
	if err != nil {
		logger.Fatal("config is invalid", tag.Error(err))
	}
	logger.Info("config is loaded", tag.Value(cfg.String()))

	cardLoader, err := carddb.NewLoader(cfg.Game.CardDatabasePath, logger)
	if err != nil {
		logger.Fatal("error on card database setup", tag.Error(err))
	}
	deckLoader := carddb.NewDeckLoader(cardLoader, logger)

	registry := engine.NewSessionRegistry(cfg.Database.Shards, cfg.Game.MaxSessions)

	var taskStore persistence.TaskStore
	var snapshotStore persistence.GameSnapshotStore
	if cfg.Database.SQL != nil {
		taskStore, err = persistence.NewSQLTaskStore(*cfg.Database.SQL, logger)
		if err != nil {
			logger.Fatal("error on task store setup", tag.Error(err))
		}
		snapshotStore, err = persistence.NewSQLGameSnapshotStore(*cfg.Database.SQL, logger)
		if err != nil {
			logger.Fatal("error on snapshot store setup", tag.Error(err))
		}
	} else {
		// snapshotStore stays nil, sessions then live in memory only
		taskStore = persistence.NewMemoryTaskStore(logger)
	}

	archive, err := persistence.NewReplayArchive(cfg.Archive, logger)
	if err != nil {
		logger.Fatal("error on replay archive setup", tag.Error(err))
	}

	eventFeed, err := persistence.NewGameEventFeed(cfg.EventFeed, logger)
	if err != nil {
		logger.Fatal("error on event feed setup", tag.Error(err))
	}

	// the async server starts before the API server so that its membership
	// and task processors are ready when the first action notifies them
	var asyncServer async.Server
	var membership async.Membership
	if services[AsyncServiceName] {
		asyncServer, membership = async.NewDefaultAsyncServerWithGin(
			rootCtx, *cfg, registry, taskStore, snapshotStore, archive,
			logger.WithTags(tag.Service(AsyncServiceName)))
		err = asyncServer.Start()
		if err != nil {
			logger.Fatal("Failed to start async server", tag.Error(err))
		}
	}

	var apiServer api.Server
	var apiMembership async.Membership
	if services[ApiServiceName] {
		if membership == nil && cfg.AsyncService.Mode == config.AsyncServiceModeCluster {
			// API-only process in a cluster joins the ring as an observer
			// to route notifications to the owning async node
			apiMembership = async.NewMembershipImpl(*cfg, nil, async.ServerTypeApi, logger)
			err = apiMembership.Start()
			if err != nil {
				logger.Fatal("Failed to join the membership ring", tag.Error(err))
			}
			membership = apiMembership
		}

		apiServer = api.NewDefaultAPIServerWithGin(
			rootCtx, *cfg, registry, deckLoader, taskStore, snapshotStore, eventFeed, membership,
			logger.WithTags(tag.Service(ApiServiceName)))
		err = apiServer.Start()
		if err != nil {
			logger.Fatal("Failed to start api server", tag.Error(err))
		}
	}

	return func(ctx context.Context) error {
		// graceful shutdown
		var errs error
		// first stop api server
		if apiServer != nil {
			err := apiServer.Stop(ctx)
			if err != nil {
				errs = multierr.Append(errs, err)
			}
		}
		if apiMembership != nil {
			err := apiMembership.Stop(ctx)
			if err != nil {
				errs = multierr.Append(errs, err)
			}
		}
		if asyncServer != nil {
			err := asyncServer.Stop(ctx)
			if err != nil {
				errs = multierr.Append(errs, err)
			}
		}
		// stop the stores after the servers that write to them
		err := taskStore.Close()
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		if snapshotStore != nil {
			err = snapshotStore.Close()
			if err != nil {
				errs = multierr.Append(errs, err)
			}
		}
		eventFeed.Close()
		return errs
	}
}

func getServices(c *cli.Context) map[string]bool {
	val := strings.TrimSpace(c.String(FlagService))
	tokens := strings.Split(val, ",")

	if len(tokens) == 0 {
		rawLog.Fatal("No services specified for starting")
	}

	services := map[string]bool{}
	for _, token := range tokens {
		t := strings.TrimSpace(token)
		services[t] = true
	}

	return services
}
