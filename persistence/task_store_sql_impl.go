// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package persistence

import (
	"context"
	"math"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/ptr"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/extensions"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type sqlTaskStoreImpl struct {
	session extensions.SQLDBSession
	logger  log.Logger
}

func NewSQLTaskStore(sqlConfig config.SQL, logger log.Logger) (TaskStore, error) {
	session, err := extensions.NewSQLSession(&sqlConfig)
	return &sqlTaskStoreImpl{
		session: session,
		logger:  logger,
	}, err
}

func (p sqlTaskStoreImpl) Close() error {
	return p.session.Close()
}

func (p sqlTaskStoreImpl) AddImmediateTask(
	ctx context.Context, request data_models.AddImmediateTaskRequest,
) error {
	task := request.Task
	infoBytes, err := data_models.FromImmediateTaskInfoIntoBytes(task.ImmediateTaskInfo)
	if err != nil {
		return err
	}
	return p.session.InsertImmediateTask(ctx, extensions.ImmediateTaskRowForInsert{
		ShardId:  task.ShardId,
		TaskType: task.TaskType,
		GameId:   task.GameId,
		Info:     infoBytes,
	})
}

func (p sqlTaskStoreImpl) GetImmediateTasks(
	ctx context.Context, request data_models.GetImmediateTasksRequest,
) (*data_models.GetImmediateTasksResponse, error) {
	rows, err := p.session.BatchSelectImmediateTasks(
		ctx, request.ShardId, request.StartSequenceInclusive, request.PageSize)
	if err != nil {
		return nil, err
	}
	var tasks []data_models.ImmediateTask
	for _, row := range rows {
		info, err := data_models.BytesToImmediateTaskInfo(row.Info)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, data_models.ImmediateTask{
			ShardId:           row.ShardId,
			TaskSequence:      ptr.Any(row.TaskSequence),
			TaskType:          row.TaskType,
			GameId:            row.GameId,
			ImmediateTaskInfo: info,
		})
	}
	resp := &data_models.GetImmediateTasksResponse{
		Tasks: tasks,
	}
	if len(rows) > 0 {
		firstRow := rows[0]
		lastRow := rows[len(rows)-1]
		resp.MinSequenceInclusive = firstRow.TaskSequence
		resp.MaxSequenceInclusive = lastRow.TaskSequence
	}
	return resp, nil
}

func (p sqlTaskStoreImpl) DeleteImmediateTasks(
	ctx context.Context, request data_models.DeleteImmediateTasksRequest,
) error {
	return p.session.BatchDeleteImmediateTasks(ctx, extensions.ImmediateTaskRangeDeleteFilter{
		ShardId:                  request.ShardId,
		MinTaskSequenceInclusive: request.MinTaskSequenceInclusive,
		MaxTaskSequenceInclusive: request.MaxTaskSequenceInclusive,
	})
}

func (p sqlTaskStoreImpl) AddTimerTask(
	ctx context.Context, request data_models.AddTimerTaskRequest,
) error {
	task := request.Task
	infoBytes, err := task.TimerTaskInfo.ToBytes()
	if err != nil {
		return err
	}
	return p.session.InsertTimerTask(ctx, extensions.TimerTaskRowForInsert{
		ShardId:             task.ShardId,
		FireTimeUnixSeconds: task.FireTimestampSeconds,
		TaskType:            task.TaskType,
		GameId:              task.GameId,
		Info:                infoBytes,
	})
}

func (p sqlTaskStoreImpl) GetTimerTasksUpToTimestamp(
	ctx context.Context, request data_models.GetTimerTasksRequest,
) (*data_models.GetTimerTasksResponse, error) {
	rows, err := p.session.BatchSelectTimerTasks(ctx, extensions.TimerTaskRangeSelectFilter{
		ShardId:                         request.ShardId,
		MaxFireTimeUnixSecondsInclusive: request.MaxFireTimestampSecondsInclusive,
		PageSize:                        request.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return createGetTimerTasksResponse(rows, &request.PageSize)
}

func (p sqlTaskStoreImpl) GetTimerTasksForTimestamps(
	ctx context.Context, request data_models.GetTimerTasksForTimestampsRequest,
) (*data_models.GetTimerTasksResponse, error) {
	var fireTimestamps []int64
	for _, req := range request.DetailedRequests {
		fireTimestamps = append(fireTimestamps, req.FireTimestamps...)
	}
	rows, err := p.session.SelectTimerTasksByTimestamps(ctx, extensions.TimerTaskSelectByTimestampsFilter{
		ShardId:                  request.ShardId,
		FireTimeUnixSeconds:      fireTimestamps,
		MinTaskSequenceInclusive: request.MinSequenceInclusive,
	})
	if err != nil {
		return nil, err
	}
	return createGetTimerTasksResponse(rows, nil)
}

func createGetTimerTasksResponse(
	rows []extensions.TimerTaskRow, reqPageSize *int32,
) (*data_models.GetTimerTasksResponse, error) {
	var tasks []data_models.TimerTask
	for _, row := range rows {
		info, err := data_models.BytesToTimerTaskInfo(row.Info)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, data_models.TimerTask{
			ShardId:              row.ShardId,
			FireTimestampSeconds: row.FireTimeUnixSeconds,
			TaskSequence:         ptr.Any(row.TaskSequence),
			TaskType:             row.TaskType,
			GameId:               row.GameId,
			TimerTaskInfo:        info,
		})
	}
	resp := &data_models.GetTimerTasksResponse{
		Tasks: tasks,
	}
	if len(rows) > 0 {
		firstRow := rows[0]
		lastRow := rows[len(rows)-1]
		resp.MinFireTimestampSecondsInclusive = firstRow.FireTimeUnixSeconds
		resp.MaxFireTimestampSecondsInclusive = lastRow.FireTimeUnixSeconds

		// rows are ordered by fire time first, so the sequence bounds have
		// to be searched rather than taken from the first and last row
		resp.MinSequenceInclusive = math.MaxInt64
		resp.MaxSequenceInclusive = math.MinInt64
		for _, row := range rows {
			if row.TaskSequence < resp.MinSequenceInclusive {
				resp.MinSequenceInclusive = row.TaskSequence
			}
			if row.TaskSequence > resp.MaxSequenceInclusive {
				resp.MaxSequenceInclusive = row.TaskSequence
			}
		}
	}
	if reqPageSize != nil {
		if len(rows) == int(*reqPageSize) {
			resp.FullPage = true
		}
	}
	return resp, nil
}

func (p sqlTaskStoreImpl) DeleteTimerTasks(
	ctx context.Context, request data_models.DeleteTimerTasksRequest,
) error {
	return p.session.BatchDeleteTimerTasks(ctx, extensions.TimerTaskRangeDeleteFilter{
		ShardId:                         request.ShardId,
		MinFireTimeUnixSecondsInclusive: request.MinFireTimestampSecondsInclusive,
		MinTaskSequenceInclusive:        request.MinTaskSequenceInclusive,
		MaxFireTimeUnixSecondsInclusive: request.MaxFireTimestampSecondsInclusive,
		MaxTaskSequenceInclusive:        request.MaxTaskSequenceInclusive,
	})
}

func (p sqlTaskStoreImpl) CleanUpTasksForTest(ctx context.Context, shardId int32) error {
	return p.session.CleanUpTasksForTest(ctx, shardId)
}
