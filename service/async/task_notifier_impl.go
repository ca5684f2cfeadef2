// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package async

import (
	"sync"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/engine"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// taskNotifierImpl routes in-process notifications to the queue owning the
// shard. Queues come and go on cluster rebalances while processors keep
// notifying, hence the lock and the tolerant notify paths.
type taskNotifierImpl struct {
	sync.RWMutex
	shardIdToImmediateTaskQueue map[int32]engine.ImmediateTaskQueue
	shardIdToTimerTaskQueue     map[int32]engine.TimerTaskQueue

	logger log.Logger
}

func newTaskNotifierImpl(logger log.Logger) *taskNotifierImpl {
	return &taskNotifierImpl{
		shardIdToImmediateTaskQueue: make(map[int32]engine.ImmediateTaskQueue),
		shardIdToTimerTaskQueue:     make(map[int32]engine.TimerTaskQueue),
		logger:                      logger,
	}
}

func (t *taskNotifierImpl) NotifyNewImmediateTasks(request data_models.NotifyImmediateTasksRequest) {
	t.RLock()
	queue, ok := t.shardIdToImmediateTaskQueue[request.ShardId]
	t.RUnlock()
	if !ok {
		// the shard moved away since the task was picked up; the new owner's
		// next poll covers the tasks
		t.logger.Warn("dropping immediate task notification for unowned shard",
			tag.Shard(request.ShardId))
		return
	}
	queue.TriggerPollingTasks(request)
}

func (t *taskNotifierImpl) NotifyNewTimerTasks(request data_models.NotifyTimerTasksRequest) {
	t.RLock()
	queue, ok := t.shardIdToTimerTaskQueue[request.ShardId]
	t.RUnlock()
	if !ok {
		t.logger.Warn("dropping timer task notification for unowned shard",
			tag.Shard(request.ShardId))
		return
	}
	queue.TriggerPollingTasks(request)
}

func (t *taskNotifierImpl) AddImmediateTaskQueue(shardId int32, queue engine.ImmediateTaskQueue) {
	t.Lock()
	defer t.Unlock()
	_, ok := t.shardIdToImmediateTaskQueue[shardId]
	if ok {
		panic("the shard is already registered")
	}
	t.shardIdToImmediateTaskQueue[shardId] = queue
}

func (t *taskNotifierImpl) AddTimerTaskQueue(shardId int32, queue engine.TimerTaskQueue) {
	t.Lock()
	defer t.Unlock()
	_, ok := t.shardIdToTimerTaskQueue[shardId]
	if ok {
		panic("the shard is already registered")
	}
	t.shardIdToTimerTaskQueue[shardId] = queue
}

func (t *taskNotifierImpl) RemoveImmediateTaskQueue(shardId int32) {
	t.Lock()
	defer t.Unlock()
	delete(t.shardIdToImmediateTaskQueue, shardId)
}

func (t *taskNotifierImpl) RemoveTimerTaskQueue(shardId int32) {
	t.Lock()
	defer t.Unlock()
	delete(t.shardIdToTimerTaskQueue, shardId)
}
