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

type timerTaskConcurrentProcessor struct {
	rootCtx           context.Context
	cfg               config.Config
	taskToProcessChan chan data_models.TimerTask

	// shardsLock guards the two maps below. Queues register and deregister
	// while worker goroutines are consuming, e.g. on a cluster rebalance.
	shardsLock sync.RWMutex
	// for quickly checking if the shardId is being processed
	currentShards map[int32]bool
	// shardId to the channel
	taskToCommitChans map[int32]chan<- data_models.TimerTask

	taskNotifier TaskNotifier
	registry     SessionRegistry
	store        persistence.TaskStore

	logger log.Logger
}

// NewTimerTaskConcurrentProcessor expires idle sessions off the timer task
// queues. An expired session is handed to the archive queue; the archive
// task is what finally removes it from the registry.
func NewTimerTaskConcurrentProcessor(
	ctx context.Context, cfg config.Config, notifier TaskNotifier,
	registry SessionRegistry, store persistence.TaskStore, logger log.Logger,
) TimerTaskProcessor {
	bufferSize := cfg.AsyncService.SessionTimerQueue.ProcessorBufferSize
	return &timerTaskConcurrentProcessor{
		rootCtx:           ctx,
		cfg:               cfg,
		taskToProcessChan: make(chan data_models.TimerTask, bufferSize),
		currentShards:     map[int32]bool{},
		taskToCommitChans: make(map[int32]chan<- data_models.TimerTask),
		taskNotifier:      notifier,
		registry:          registry,
		store:             store,
		logger:            logger,
	}
}

func (w *timerTaskConcurrentProcessor) Stop(context.Context) error {
	return nil
}

func (w *timerTaskConcurrentProcessor) GetTasksToProcessChan() chan<- data_models.TimerTask {
	return w.taskToProcessChan
}

func (w *timerTaskConcurrentProcessor) AddTimerTaskQueue(
	shardId int32, tasksToCommitChan chan<- data_models.TimerTask,
) (alreadyExisted bool) {
	w.shardsLock.Lock()
	defer w.shardsLock.Unlock()
	exists := w.currentShards[shardId]
	w.currentShards[shardId] = true
	w.taskToCommitChans[shardId] = tasksToCommitChan
	return exists
}

func (w *timerTaskConcurrentProcessor) RemoveTimerTaskQueue(shardId int32) {
	w.shardsLock.Lock()
	defer w.shardsLock.Unlock()
	w.currentShards[shardId] = false
	delete(w.taskToCommitChans, shardId)
}

func (w *timerTaskConcurrentProcessor) commitChanFor(shardId int32) (chan<- data_models.TimerTask, bool) {
	w.shardsLock.RLock()
	defer w.shardsLock.RUnlock()
	if !w.currentShards[shardId] {
		return nil, false
	}
	return w.taskToCommitChans[shardId], true
}

func (w *timerTaskConcurrentProcessor) Start() error {
	concurrency := w.cfg.AsyncService.SessionTimerQueue.ProcessorConcurrency

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
							tag.Shard(task.ShardId), tag.GameID(task.GameId))
						continue
					}

					err := w.processTimerTask(w.rootCtx, task)

					if commitChan, owned := w.commitChanFor(task.ShardId); owned { // check again
						if err != nil {
							w.logger.Info("failed to process timer task, will retry with backoff",
								tag.Error(err), tag.GameID(task.GameId))
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

func (w *timerTaskConcurrentProcessor) retryWithBackoff(
	task data_models.TimerTask, commitChan chan<- data_models.TimerTask,
) {
	if task.TimerTaskInfo.TaskBackoffInfo == nil {
		task.TimerTaskInfo.TaskBackoffInfo = &data_models.TaskBackoffInfoJson{
			FirstAttemptTimestampSeconds: time.Now().Unix(),
		}
	}
	backoffInfo := task.TimerTaskInfo.TaskBackoffInfo
	backoffInfo.CompletedAttempts++

	nextIntervalSecs, shouldRetry := GetNextBackoff(
		backoffInfo.CompletedAttempts, backoffInfo.FirstAttemptTimestampSeconds, nil)
	if !shouldRetry {
		w.logger.Error("giving up retrying timer task", tag.GameID(task.GameId))
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

func (w *timerTaskConcurrentProcessor) processTimerTask(
	ctx context.Context, task data_models.TimerTask,
) error {
	w.logger.Debug("start executing timer task",
		tag.GameID(task.GameId), tag.Value(task.TaskType.String()))

	switch task.TaskType {
	case data_models.TimerTaskTypeSessionExpiry:
		return w.processSessionExpiryTask(ctx, task)
	default:
		w.logger.Warn("noop for timer task of unknown type",
			tag.GameID(task.GameId), tag.Value(task.TaskType.String()))
		return w.deleteTimerTask(ctx, task)
	}
}

func (w *timerTaskConcurrentProcessor) processSessionExpiryTask(
	ctx context.Context, task data_models.TimerTask,
) error {
	session, ok := w.registry.Get(task.GameId)
	if !ok {
		// session is already archived and removed
		return w.deleteTimerTask(ctx, task)
	}

	currentDeadline := session.LastActiveAt().Add(w.cfg.Game.IdleSessionTimeout).Unix()
	if currentDeadline > time.Now().Unix() {
		// the session was touched after this timer was scheduled,
		// so reschedule the expiry at its current deadline
		err := w.store.AddTimerTask(ctx, data_models.AddTimerTaskRequest{
			Task: data_models.TimerTask{
				ShardId:              task.ShardId,
				FireTimestampSeconds: currentDeadline,
				TaskType:             data_models.TimerTaskTypeSessionExpiry,
				GameId:               task.GameId,
				TimerTaskInfo:        data_models.TimerTaskInfoJson{IdleDeadlineUnix: currentDeadline},
			},
		})
		if err != nil {
			return err
		}
		w.taskNotifier.NotifyNewTimerTasks(data_models.NotifyTimerTasksRequest{
			ShardId:        task.ShardId,
			FireTimestamps: []int64{currentDeadline},
		})
		w.logger.Debug("rescheduled session expiry",
			tag.GameID(task.GameId), tag.UnixTimestamp(currentDeadline))
		return w.deleteTimerTask(ctx, task)
	}

	reason := data_models.ArchiveReasonExpired
	if session.Finished() {
		// the finish hook already queued an archive task; queueing another
		// is harmless because archiving is idempotent
		reason = data_models.ArchiveReasonFinished
	}
	err := w.store.AddImmediateTask(ctx, data_models.AddImmediateTaskRequest{
		Task: data_models.ImmediateTask{
			ShardId:  task.ShardId,
			TaskType: data_models.ImmediateTaskTypeArchiveReplay,
			GameId:   task.GameId,
			ImmediateTaskInfo: data_models.ImmediateTaskInfoJson{
				Reason: reason,
			},
		},
	})
	if err != nil {
		return err
	}
	w.taskNotifier.NotifyNewImmediateTasks(data_models.NotifyImmediateTasksRequest{
		ShardId: task.ShardId,
		GameIds: []string{task.GameId},
	})
	w.logger.Info("expiring idle session", tag.GameID(task.GameId))
	return w.deleteTimerTask(ctx, task)
}

func (w *timerTaskConcurrentProcessor) deleteTimerTask(
	ctx context.Context, task data_models.TimerTask,
) error {
	return w.store.DeleteTimerTasks(ctx, data_models.DeleteTimerTasksRequest{
		ShardId:                          task.ShardId,
		MinFireTimestampSecondsInclusive: task.FireTimestampSeconds,
		MinTaskSequenceInclusive:         task.GetTaskSequence(),
		MaxFireTimestampSecondsInclusive: task.FireTimestampSeconds,
		MaxTaskSequenceInclusive:         task.GetTaskSequence(),
	})
}
