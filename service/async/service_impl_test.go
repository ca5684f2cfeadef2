// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package async

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/engine"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

func newTestAsyncService(t *testing.T, shards int) Service {
	cfg := config.DefaultConfig()
	cfg.Database.Shards = shards
	cfg.AsyncService.Mode = config.AsyncServiceModeStandalone
	require.NoError(t, cfg.ValidateAndSetDefaults())

	logger := log.NewLogger(zap.NewNop())
	registry := engine.NewSessionRegistry(cfg.Database.Shards, cfg.Game.MaxSessions)
	taskStore := persistence.NewMemoryTaskStore(logger)

	rootCtx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return NewAsyncServiceImpl(
		rootCtx, *cfg, registry, taskStore, nil,
		persistence.NewNoopReplayArchive(), logger)
}

func TestStandaloneStartOwnsEveryShard(t *testing.T) {
	svc := newTestAsyncService(t, 2)
	require.NoError(t, svc.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		assert.NoError(t, svc.Stop(ctx))
	}()

	for shardId := int32(0); shardId < 2; shardId++ {
		assert.NoError(t, svc.NotifyPollingImmediateTask(
			data_models.NotifyImmediateTasksRequest{ShardId: shardId}))
		assert.NoError(t, svc.NotifyPollingTimerTask(
			data_models.NotifyTimerTasksRequest{ShardId: shardId}))
	}

	err := svc.NotifyPollingImmediateTask(
		data_models.NotifyImmediateTasksRequest{ShardId: 5})
	assert.ErrorContains(t, err, "not owned by this instance")
}

func TestReBalanceReleasesAndReacquiresShards(t *testing.T) {
	svc := newTestAsyncService(t, 4)
	require.NoError(t, svc.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		assert.NoError(t, svc.Stop(ctx))
	}()

	svc.ReBalance([]int32{1, 3})

	assert.NoError(t, svc.NotifyPollingImmediateTask(
		data_models.NotifyImmediateTasksRequest{ShardId: 1}))
	assert.NoError(t, svc.NotifyPollingTimerTask(
		data_models.NotifyTimerTasksRequest{ShardId: 3}))
	assert.Error(t, svc.NotifyPollingImmediateTask(
		data_models.NotifyImmediateTasksRequest{ShardId: 0}))
	assert.Error(t, svc.NotifyPollingTimerTask(
		data_models.NotifyTimerTasksRequest{ShardId: 2}))

	// the same shard coming back gets a fresh queue pair
	svc.ReBalance([]int32{0, 1, 2, 3})
	for shardId := int32(0); shardId < 4; shardId++ {
		assert.NoError(t, svc.NotifyPollingImmediateTask(
			data_models.NotifyImmediateTasksRequest{ShardId: shardId}))
	}
}

func TestStopReleasesAllShards(t *testing.T) {
	svc := newTestAsyncService(t, 2)
	require.NoError(t, svc.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, svc.Stop(ctx))

	err := svc.NotifyPollingImmediateTask(
		data_models.NotifyImmediateTasksRequest{ShardId: 0})
	assert.Error(t, err)
}
