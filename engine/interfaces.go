// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// SessionRegistry is the primary store of live game sessions, partitioned
// into shards for async-task ownership. Sessions exist in memory only: a
// session removed from the registry is gone, and only its archived replay
// remains.
type SessionRegistry interface {
	Add(session *Session) error
	Get(gameId string) (*Session, bool)
	Delete(gameId string)
	List() []*Session
	Count() int
	// ShardOf maps a game id onto a shard. The same mapping is computed
	// independently by the API service and the async service.
	ShardOf(gameId string) int32
}

// TaskNotifier is to notify the poller(taskQueue) that there are new
// immediate/timer tasks so that the poller can poll earlier than its next
// scheduled interval. This is needed because adding a new task and polling
// tasks happen in different goroutines, and in cluster mode on different
// nodes. The notification is best effort: a missed one is repaired by the
// next scheduled poll.
type TaskNotifier interface {
	AddImmediateTaskQueue(shardId int32, queue ImmediateTaskQueue)
	AddTimerTaskQueue(shardId int32, queue TimerTaskQueue)
	NotifyNewImmediateTasks(request data_models.NotifyImmediateTasksRequest)
	NotifyNewTimerTasks(request data_models.NotifyTimerTasksRequest)
}

// ImmediateTaskQueue polls the archive tasks of one shard and dispatches
// them to a processor
type ImmediateTaskQueue interface {
	Start() error
	// TriggerPollingTasks exposes an API to be called by TaskNotifier
	TriggerPollingTasks(request data_models.NotifyImmediateTasksRequest)
	Stop(ctx context.Context) error
}

// TimerTaskQueue preloads the session expiry timers of one shard and fires
// them at their deadline
type TimerTaskQueue interface {
	Start() error
	// TriggerPollingTasks exposes an API to be called by TaskNotifier
	TriggerPollingTasks(request data_models.NotifyTimerTasksRequest)
	Stop(ctx context.Context) error
}

type ImmediateTaskProcessor interface {
	Start() error
	Stop(context.Context) error

	// GetTasksToProcessChan exposed a channel for the queue to send tasks to processor
	GetTasksToProcessChan() chan<- data_models.ImmediateTask

	AddImmediateTaskQueue(
		shardId int32, tasksToCommitChan chan<- data_models.ImmediateTask,
	) (alreadyExisted bool)

	// RemoveImmediateTaskQueue detaches the shard when its ownership moves to
	// another node. In-flight tasks of the shard are skipped as stale.
	RemoveImmediateTaskQueue(shardId int32)
}

type TimerTaskProcessor interface {
	Start() error
	Stop(context.Context) error

	// GetTasksToProcessChan exposed a channel for the queue to send tasks to processor
	GetTasksToProcessChan() chan<- data_models.TimerTask

	AddTimerTaskQueue(
		shardId int32, tasksToCommitChan chan<- data_models.TimerTask,
	) (alreadyExisted bool)

	// RemoveTimerTaskQueue detaches the shard when its ownership moves to
	// another node. In-flight tasks of the shard are skipped as stale.
	RemoveTimerTaskQueue(shardId int32)
}
