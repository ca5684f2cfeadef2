// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// memoryTaskStoreImpl keeps the async task queues in process memory. It is
// the backing store when no SQL database is configured; tasks do not survive
// a restart, matching the lifetime of the in-memory session registry.
type memoryTaskStoreImpl struct {
	sync.Mutex
	logger log.Logger

	immediateSeq   map[int32]int64
	immediateTasks map[int32][]data_models.ImmediateTask

	timerSeq   map[int32]int64
	timerTasks map[int32][]data_models.TimerTask
}

func NewMemoryTaskStore(logger log.Logger) TaskStore {
	return &memoryTaskStoreImpl{
		logger:         logger,
		immediateSeq:   make(map[int32]int64),
		immediateTasks: make(map[int32][]data_models.ImmediateTask),
		timerSeq:       make(map[int32]int64),
		timerTasks:     make(map[int32][]data_models.TimerTask),
	}
}

func (s *memoryTaskStoreImpl) Close() error {
	return nil
}

func (s *memoryTaskStoreImpl) AddImmediateTask(
	_ context.Context, request data_models.AddImmediateTaskRequest,
) error {
	s.Lock()
	defer s.Unlock()

	task := request.Task
	seq := s.immediateSeq[task.ShardId] + 1
	s.immediateSeq[task.ShardId] = seq
	task.TaskSequence = &seq
	s.immediateTasks[task.ShardId] = append(s.immediateTasks[task.ShardId], task)
	return nil
}

func (s *memoryTaskStoreImpl) GetImmediateTasks(
	_ context.Context, request data_models.GetImmediateTasksRequest,
) (*data_models.GetImmediateTasksResponse, error) {
	s.Lock()
	defer s.Unlock()

	resp := &data_models.GetImmediateTasksResponse{}
	for _, task := range s.immediateTasks[request.ShardId] {
		if *task.TaskSequence < request.StartSequenceInclusive {
			continue
		}
		if request.PageSize > 0 && len(resp.Tasks) >= int(request.PageSize) {
			break
		}
		if len(resp.Tasks) == 0 {
			resp.MinSequenceInclusive = *task.TaskSequence
		}
		resp.MaxSequenceInclusive = *task.TaskSequence
		resp.Tasks = append(resp.Tasks, task)
	}
	return resp, nil
}

func (s *memoryTaskStoreImpl) DeleteImmediateTasks(
	_ context.Context, request data_models.DeleteImmediateTasksRequest,
) error {
	s.Lock()
	defer s.Unlock()

	kept := s.immediateTasks[request.ShardId][:0]
	for _, task := range s.immediateTasks[request.ShardId] {
		if *task.TaskSequence >= request.MinTaskSequenceInclusive &&
			*task.TaskSequence <= request.MaxTaskSequenceInclusive {
			continue
		}
		kept = append(kept, task)
	}
	s.immediateTasks[request.ShardId] = kept
	return nil
}

func (s *memoryTaskStoreImpl) AddTimerTask(
	_ context.Context, request data_models.AddTimerTaskRequest,
) error {
	s.Lock()
	defer s.Unlock()

	task := request.Task
	seq := s.timerSeq[task.ShardId] + 1
	s.timerSeq[task.ShardId] = seq
	task.TaskSequence = &seq
	s.timerTasks[task.ShardId] = append(s.timerTasks[task.ShardId], task)
	return nil
}

func (s *memoryTaskStoreImpl) GetTimerTasksUpToTimestamp(
	_ context.Context, request data_models.GetTimerTasksRequest,
) (*data_models.GetTimerTasksResponse, error) {
	s.Lock()
	defer s.Unlock()

	var matched []data_models.TimerTask
	for _, task := range s.timerTasks[request.ShardId] {
		if task.FireTimestampSeconds <= request.MaxFireTimestampSecondsInclusive {
			matched = append(matched, task)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].FireTimestampSeconds != matched[j].FireTimestampSeconds {
			return matched[i].FireTimestampSeconds < matched[j].FireTimestampSeconds
		}
		return *matched[i].TaskSequence < *matched[j].TaskSequence
	})

	if request.PageSize > 0 && len(matched) > int(request.PageSize) {
		matched = matched[:request.PageSize]
	}
	fullPage := request.PageSize > 0 && len(matched) == int(request.PageSize)
	return buildTimerTasksResponse(matched, fullPage), nil
}

func (s *memoryTaskStoreImpl) GetTimerTasksForTimestamps(
	_ context.Context, request data_models.GetTimerTasksForTimestampsRequest,
) (*data_models.GetTimerTasksResponse, error) {
	s.Lock()
	defer s.Unlock()

	wanted := map[int64]bool{}
	for _, req := range request.DetailedRequests {
		for _, ts := range req.FireTimestamps {
			wanted[ts] = true
		}
	}

	var matched []data_models.TimerTask
	for _, task := range s.timerTasks[request.ShardId] {
		if *task.TaskSequence >= request.MinSequenceInclusive && wanted[task.FireTimestampSeconds] {
			matched = append(matched, task)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].FireTimestampSeconds != matched[j].FireTimestampSeconds {
			return matched[i].FireTimestampSeconds < matched[j].FireTimestampSeconds
		}
		return *matched[i].TaskSequence < *matched[j].TaskSequence
	})
	return buildTimerTasksResponse(matched, false), nil
}

func buildTimerTasksResponse(tasks []data_models.TimerTask, fullPage bool) *data_models.GetTimerTasksResponse {
	resp := &data_models.GetTimerTasksResponse{
		Tasks:    tasks,
		FullPage: fullPage,
	}
	for i, task := range tasks {
		if i == 0 {
			resp.MinFireTimestampSecondsInclusive = task.FireTimestampSeconds
			resp.MinSequenceInclusive = *task.TaskSequence
			resp.MaxFireTimestampSecondsInclusive = task.FireTimestampSeconds
			resp.MaxSequenceInclusive = *task.TaskSequence
			continue
		}
		if task.FireTimestampSeconds > resp.MaxFireTimestampSecondsInclusive {
			resp.MaxFireTimestampSecondsInclusive = task.FireTimestampSeconds
		}
		if *task.TaskSequence < resp.MinSequenceInclusive {
			resp.MinSequenceInclusive = *task.TaskSequence
		}
		if *task.TaskSequence > resp.MaxSequenceInclusive {
			resp.MaxSequenceInclusive = *task.TaskSequence
		}
	}
	return resp
}

func (s *memoryTaskStoreImpl) DeleteTimerTasks(
	_ context.Context, request data_models.DeleteTimerTasksRequest,
) error {
	s.Lock()
	defer s.Unlock()

	kept := s.timerTasks[request.ShardId][:0]
	for _, task := range s.timerTasks[request.ShardId] {
		if task.FireTimestampSeconds >= request.MinFireTimestampSecondsInclusive &&
			task.FireTimestampSeconds <= request.MaxFireTimestampSecondsInclusive &&
			*task.TaskSequence >= request.MinTaskSequenceInclusive &&
			*task.TaskSequence <= request.MaxTaskSequenceInclusive {
			continue
		}
		kept = append(kept, task)
	}
	s.timerTasks[request.ShardId] = kept
	return nil
}

func (s *memoryTaskStoreImpl) CleanUpTasksForTest(_ context.Context, shardId int32) error {
	s.Lock()
	defer s.Unlock()

	delete(s.immediateTasks, shardId)
	delete(s.timerTasks, shardId)
	return nil
}
