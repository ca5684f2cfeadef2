// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"sync"
	"time"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type immediateTaskConcurrentProcessor struct {
	rootCtx           context.Context
	cfg               config.Config
	taskToProcessChan chan data_models.ImmediateTask

	// shardsLock guards the two maps below. Queues register and deregister
	// while worker goroutines are consuming, e.g. on a cluster rebalance.
	shardsLock sync.RWMutex
	// for quickly checking if the shardId is being processed
	currentShards map[int32]bool
	// shardId to the channel
	taskToCommitChans map[int32]chan<- data_models.ImmediateTask

	registry      SessionRegistry
	archive       persistence.ReplayArchive
	snapshotStore persistence.GameSnapshotStore

	logger log.Logger
}

// NewImmediateTaskConcurrentProcessor archives game replays off the
// immediate task queues. snapshotStore may be nil when no database is
// configured.
func NewImmediateTaskConcurrentProcessor(
	ctx context.Context, cfg config.Config, registry SessionRegistry,
	archive persistence.ReplayArchive, snapshotStore persistence.GameSnapshotStore, logger log.Logger,
) ImmediateTaskProcessor {
	bufferSize := cfg.AsyncService.ArchiveTaskQueue.ProcessorBufferSize
	return &immediateTaskConcurrentProcessor{
		rootCtx:           ctx,
		cfg:               cfg,
		taskToProcessChan: make(chan data_models.ImmediateTask, bufferSize),
		currentShards:     map[int32]bool{},
		taskToCommitChans: make(map[int32]chan<- data_models.ImmediateTask),
		registry:          registry,
		archive:           archive,
		snapshotStore:     snapshotStore,
		logger:            logger,
	}
}

func (w *immediateTaskConcurrentProcessor) Stop(context.Context) error {
	return nil
}

func (w *immediateTaskConcurrentProcessor) GetTasksToProcessChan() chan<- data_models.ImmediateTask {
	return w.taskToProcessChan
}

func (w *immediateTaskConcurrentProcessor) AddImmediateTaskQueue(
	shardId int32, tasksToCommitChan chan<- data_models.ImmediateTask,
) (alreadyExisted bool) {
	w.shardsLock.Lock()
	defer w.shardsLock.Unlock()
	exists := w.currentShards[shardId]
	w.currentShards[shardId] = true
	w.taskToCommitChans[shardId] = tasksToCommitChan
	return exists
}

func (w *immediateTaskConcurrentProcessor) RemoveImmediateTaskQueue(shardId int32) {
	w.shardsLock.Lock()
	defer w.shardsLock.Unlock()
	w.currentShards[shardId] = false
	delete(w.taskToCommitChans, shardId)
}

func (w *immediateTaskConcurrentProcessor) commitChanFor(shardId int32) (chan<- data_models.ImmediateTask, bool) {
	w.shardsLock.RLock()
	defer w.shardsLock.RUnlock()
	if !w.currentShards[shardId] {
		return nil, false
	}
	return w.taskToCommitChans[shardId], true
}

func (w *immediateTaskConcurrentProcessor) Start() error {
	concurrency := w.cfg.AsyncService.ArchiveTaskQueue.ProcessorConcurrency

	for i := 0; i < concurrency; i++ {
		go func() {
			for {
				select {
				case <-w.rootCtx.Done():
					return
				case task, ok := <-w.taskToProcessChan:
					if !ok {
						return
					}
					if _, owned := w.commitChanFor(task.ShardId); !owned {
						w.logger.Info("skip the stale task that is due to shard movement",
							tag.Shard(task.ShardId), tag.ID(task.GetTaskId()))
						continue
					}

					err := w.processImmediateTask(w.rootCtx, task)

					if commitChan, owned := w.commitChanFor(task.ShardId); owned { // check again
						if err != nil {
							w.logger.Info("failed to process immediate task, will retry with backoff",
								tag.Error(err), tag.ID(task.GetTaskId()))
							w.retryWithBackoff(task, commitChan)
						} else {
							commitChan <- task
						}
					}
				}
			}
		}()
	}
	return nil
}

// retryWithBackoff re-enqueues the failed task after the policy interval.
// When the policy gives up the task is committed anyway so that the queue
// does not hold its page open forever.
func (w *immediateTaskConcurrentProcessor) retryWithBackoff(
	task data_models.ImmediateTask, commitChan chan<- data_models.ImmediateTask,
) {
	if task.ImmediateTaskInfo.TaskBackoffInfo == nil {
		task.ImmediateTaskInfo.TaskBackoffInfo = &data_models.TaskBackoffInfoJson{
			FirstAttemptTimestampSeconds: time.Now().Unix(),
		}
	}
	backoffInfo := task.ImmediateTaskInfo.TaskBackoffInfo
	backoffInfo.CompletedAttempts++

	nextIntervalSecs, shouldRetry := GetNextBackoff(
		backoffInfo.CompletedAttempts, backoffInfo.FirstAttemptTimestampSeconds, nil)
	if !shouldRetry {
		w.logger.Error("giving up retrying immediate task", tag.ID(task.GetTaskId()))
		commitChan <- task
		return
	}

	time.AfterFunc(time.Duration(nextIntervalSecs)*time.Second, func() {
		select {
		case w.taskToProcessChan <- task:
		case <-w.rootCtx.Done():
		}
	})
}

func (w *immediateTaskConcurrentProcessor) processImmediateTask(
	ctx context.Context, task data_models.ImmediateTask,
) error {
	w.logger.Debug("start executing immediate task",
		tag.ID(task.GetTaskId()), tag.ArchiveTaskType(task.TaskType.String()))

	switch task.TaskType {
	case data_models.ImmediateTaskTypeArchiveReplay:
		return w.processArchiveReplayTask(ctx, task)
	default:
		w.logger.Warn("noop for immediate task of unknown type",
			tag.ID(task.GetTaskId()), tag.ArchiveTaskType(task.TaskType.String()))
		return nil
	}
}

func (w *immediateTaskConcurrentProcessor) processArchiveReplayTask(
	ctx context.Context, task data_models.ImmediateTask,
) error {
	session, ok := w.registry.Get(task.GameId)
	if !ok {
		// already archived and removed, e.g. by a redelivered task
		return nil
	}

	replay := session.ReplaySnapshot()
	if err := w.archive.Store(ctx, replay); err != nil {
		return err
	}

	if w.snapshotStore != nil {
		snapshot, err := session.Snapshot()
		if err != nil {
			return err
		}
		snapshot.ShardId = task.ShardId
		if task.ImmediateTaskInfo.Reason == data_models.ArchiveReasonExpired &&
			snapshot.Status == data_models.GameStatusRunning {
			snapshot.Status = data_models.GameStatusExpired
		}
		err = w.snapshotStore.UpsertGameSnapshot(ctx, data_models.UpsertGameSnapshotRequest{
			Snapshot: *snapshot,
		})
		if err != nil {
			return err
		}
	}

	w.registry.Delete(task.GameId)
	w.logger.Info("archived game replay",
		tag.GameID(task.GameId), tag.Value(string(task.ImmediateTaskInfo.Reason)))
	return nil
}
