// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package async

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/httperror"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/urlautofix"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/engine"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type asyncService struct {
	rootCtx context.Context
	cfg     config.Config
	logger  log.Logger

	taskStore    persistence.TaskStore
	taskNotifier *taskNotifierImpl

	immediateTaskProcessor engine.ImmediateTaskProcessor
	timerTaskProcessor     engine.TimerTaskProcessor

	// queuesLock guards shardQueues. In standalone mode the set is written
	// once at Start; in cluster mode membership events rewrite it.
	queuesLock  sync.Mutex
	shardQueues map[int32]*shardQueueSet
}

// shardQueueSet is the pair of queues serving one owned shard, with the
// cancel of the context their run loops live on.
type shardQueueSet struct {
	cancel             context.CancelFunc
	immediateTaskQueue engine.ImmediateTaskQueue
	timerTaskQueue     engine.TimerTaskQueue
}

func NewAsyncServiceImpl(
	rootCtx context.Context, cfg config.Config,
	registry engine.SessionRegistry, taskStore persistence.TaskStore,
	snapshotStore persistence.GameSnapshotStore, archive persistence.ReplayArchive,
	logger log.Logger,
) Service {
	notifier := newTaskNotifierImpl(logger)

	immediateTaskProcessor := engine.NewImmediateTaskConcurrentProcessor(
		rootCtx, cfg, registry, archive, snapshotStore, logger)
	timerTaskProcessor := engine.NewTimerTaskConcurrentProcessor(
		rootCtx, cfg, notifier, registry, taskStore, logger)

	return &asyncService{
		rootCtx: rootCtx,
		cfg:     cfg,
		logger:  logger,

		taskStore:    taskStore,
		taskNotifier: notifier,

		immediateTaskProcessor: immediateTaskProcessor,
		timerTaskProcessor:     timerTaskProcessor,

		shardQueues: make(map[int32]*shardQueueSet),
	}
}

func (a *asyncService) Start() error {
	err := a.immediateTaskProcessor.Start()
	if err != nil {
		a.logger.Error("fail to start immediate task processor", tag.Error(err))
		return err
	}
	err = a.timerTaskProcessor.Start()
	if err != nil {
		a.logger.Error("fail to start timer task processor", tag.Error(err))
		return err
	}

	if a.cfg.AsyncService.Mode == config.AsyncServiceModeStandalone {
		// a standalone instance owns every shard; in cluster mode the
		// membership events assign shards via ReBalance
		allShards := make([]int32, 0, a.cfg.Database.Shards)
		for i := 0; i < a.cfg.Database.Shards; i++ {
			allShards = append(allShards, int32(i))
		}
		a.ReBalance(allShards)
	}
	return nil
}

func (a *asyncService) ReBalance(assignedShardIds []int32) {
	a.queuesLock.Lock()
	defer a.queuesLock.Unlock()

	assigned := make(map[int32]bool, len(assignedShardIds))
	for _, shardId := range assignedShardIds {
		assigned[shardId] = true
	}

	for shardId, queueSet := range a.shardQueues {
		if assigned[shardId] {
			continue
		}
		a.stopShardLocked(shardId, queueSet)
	}
	for shardId := range assigned {
		if _, ok := a.shardQueues[shardId]; ok {
			continue
		}
		a.startShardLocked(shardId)
	}
}

func (a *asyncService) startShardLocked(shardId int32) {
	queueCtx, cancel := context.WithCancel(a.rootCtx)

	immediateTaskQueue := engine.NewImmediateTaskQueueImpl(
		queueCtx, shardId, a.cfg, a.taskStore, a.immediateTaskProcessor, a.logger)
	timerTaskQueue := engine.NewTimerTaskQueueImpl(
		queueCtx, shardId, a.cfg, a.taskStore, a.timerTaskProcessor, a.logger)

	a.taskNotifier.AddImmediateTaskQueue(shardId, immediateTaskQueue)
	a.taskNotifier.AddTimerTaskQueue(shardId, timerTaskQueue)

	if err := immediateTaskQueue.Start(); err != nil {
		a.logger.Error("fail to start immediate task queue", tag.Shard(shardId), tag.Error(err))
	}
	if err := timerTaskQueue.Start(); err != nil {
		a.logger.Error("fail to start timer task queue", tag.Shard(shardId), tag.Error(err))
	}

	a.shardQueues[shardId] = &shardQueueSet{
		cancel:             cancel,
		immediateTaskQueue: immediateTaskQueue,
		timerTaskQueue:     timerTaskQueue,
	}
	a.logger.Info("took ownership of shard", tag.Shard(shardId))
}

func (a *asyncService) stopShardLocked(shardId int32, queueSet *shardQueueSet) {
	// cancel ends the queue run loops before Stop closes their timers
	queueSet.cancel()

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err := multierr.Combine(
		queueSet.immediateTaskQueue.Stop(stopCtx),
		queueSet.timerTaskQueue.Stop(stopCtx),
	)
	if err != nil {
		a.logger.Error("fail to stop task queues of shard", tag.Shard(shardId), tag.Error(err))
	}

	a.taskNotifier.RemoveImmediateTaskQueue(shardId)
	a.taskNotifier.RemoveTimerTaskQueue(shardId)
	a.immediateTaskProcessor.RemoveImmediateTaskQueue(shardId)
	a.timerTaskProcessor.RemoveTimerTaskQueue(shardId)

	delete(a.shardQueues, shardId)
	a.logger.Info("released ownership of shard", tag.Shard(shardId))
}

func (a *asyncService) NotifyPollingImmediateTask(request data_models.NotifyImmediateTasksRequest) error {
	a.queuesLock.Lock()
	queueSet, ok := a.shardQueues[request.ShardId]
	a.queuesLock.Unlock()
	if !ok {
		return fmt.Errorf("the shardId %v is not owned by this instance", request.ShardId)
	}
	queueSet.immediateTaskQueue.TriggerPollingTasks(request)
	return nil
}

func (a *asyncService) NotifyPollingTimerTask(request data_models.NotifyTimerTasksRequest) error {
	a.queuesLock.Lock()
	queueSet, ok := a.shardQueues[request.ShardId]
	a.queuesLock.Unlock()
	if !ok {
		return fmt.Errorf("the shardId %v is not owned by this instance", request.ShardId)
	}
	queueSet.timerTaskQueue.TriggerPollingTasks(request)
	return nil
}

func (a *asyncService) NotifyRemoteImmediateTaskAsyncInCluster(
	request data_models.NotifyImmediateTasksRequest, targetAddress string,
) {
	a.forwardNotification(PathNotifyArchiveTasks, request, targetAddress)
}

func (a *asyncService) NotifyRemoteTimerTaskAsyncInCluster(
	request data_models.NotifyTimerTasksRequest, targetAddress string,
) {
	a.forwardNotification(PathNotifySessionExpiry, request, targetAddress)
}

func (a *asyncService) forwardNotification(path string, body any, targetAddress string) {
	go func() {
		url := urlautofix.FixAsyncServiceUrl(targetAddress) + path

		payload, err := json.Marshal(body)
		if err != nil {
			a.logger.Error("failed to serialize forwarded notification", tag.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			a.logger.Error("failed to create forwarded notification request",
				tag.Value(url), tag.Error(err))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if resp != nil {
			defer func() { _ = resp.Body.Close() }()
		}
		if httperror.CheckHttpResponseAndError(err, resp, a.logger) {
			a.logger.Error("failed to forward notification to owning node",
				tag.Value(url), tag.Error(err))
		}
	}()
}

func (a *asyncService) Stop(ctx context.Context) error {
	a.queuesLock.Lock()
	var queueErr error
	for _, queueSet := range a.shardQueues {
		queueSet.cancel()
		queueErr = multierr.Append(queueErr, queueSet.immediateTaskQueue.Stop(ctx))
		queueErr = multierr.Append(queueErr, queueSet.timerTaskQueue.Stop(ctx))
	}
	a.shardQueues = make(map[int32]*shardQueueSet)
	a.queuesLock.Unlock()

	return multierr.Combine(
		queueErr,
		a.immediateTaskProcessor.Stop(ctx),
		a.timerTaskProcessor.Stop(ctx),
	)
}
