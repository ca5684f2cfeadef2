// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gx5gyqe2-art/opcg-sim-backend/extensions"
)

const insertImmediateTaskQuery = `INSERT INTO immediate_tasks
	(shard_id, task_type, game_id, info) VALUES
	(:shard_id, :task_type, :game_id, :info)`

func (d dbSession) InsertImmediateTask(ctx context.Context, row extensions.ImmediateTaskRowForInsert) error {
	_, err := d.db.NamedExecContext(ctx, insertImmediateTaskQuery, row)
	return err
}

const batchSelectImmediateTasksQuery = `SELECT
    shard_id, task_sequence, task_type, game_id, info
	FROM immediate_tasks WHERE shard_id = ? AND task_sequence >= ? ORDER BY task_sequence ASC LIMIT ?`

func (d dbSession) BatchSelectImmediateTasks(
	ctx context.Context, shardId int32, startSequenceInclusive int64, pageSize int32,
) ([]extensions.ImmediateTaskRow, error) {
	var rows []extensions.ImmediateTaskRow
	err := d.db.SelectContext(ctx, &rows, batchSelectImmediateTasksQuery, shardId, startSequenceInclusive, pageSize)
	return rows, err
}

const batchDeleteImmediateTasksQuery = `DELETE
	FROM immediate_tasks WHERE shard_id = ? AND task_sequence >= ? AND task_sequence <= ?`

func (d dbSession) BatchDeleteImmediateTasks(
	ctx context.Context, filter extensions.ImmediateTaskRangeDeleteFilter,
) error {
	_, err := d.db.ExecContext(ctx, batchDeleteImmediateTasksQuery,
		filter.ShardId, filter.MinTaskSequenceInclusive, filter.MaxTaskSequenceInclusive)
	return err
}

const insertTimerTaskQuery = `INSERT INTO timer_tasks
	(shard_id, fire_time_unix_seconds, task_type, game_id, info) VALUES
	(:shard_id, :fire_time_unix_seconds, :task_type, :game_id, :info)`

func (d dbSession) InsertTimerTask(ctx context.Context, row extensions.TimerTaskRowForInsert) error {
	_, err := d.db.NamedExecContext(ctx, insertTimerTaskQuery, row)
	return err
}

const batchSelectTimerTasksQuery = `SELECT
    shard_id, fire_time_unix_seconds, task_sequence, task_type, game_id, info
	FROM timer_tasks WHERE shard_id = ? AND fire_time_unix_seconds <= ?
	ORDER BY fire_time_unix_seconds ASC, task_sequence ASC LIMIT ?`

func (d dbSession) BatchSelectTimerTasks(
	ctx context.Context, filter extensions.TimerTaskRangeSelectFilter,
) ([]extensions.TimerTaskRow, error) {
	var rows []extensions.TimerTaskRow
	err := d.db.SelectContext(ctx, &rows, batchSelectTimerTasksQuery,
		filter.ShardId, filter.MaxFireTimeUnixSecondsInclusive, filter.PageSize)
	return rows, err
}

const selectTimerTasksByTimestampsQuery = `SELECT
    shard_id, fire_time_unix_seconds, task_sequence, task_type, game_id, info
	FROM timer_tasks WHERE shard_id = ? AND fire_time_unix_seconds IN (?) AND task_sequence >= ?
	ORDER BY fire_time_unix_seconds ASC, task_sequence ASC`

func (d dbSession) SelectTimerTasksByTimestamps(
	ctx context.Context, filter extensions.TimerTaskSelectByTimestampsFilter,
) ([]extensions.TimerTaskRow, error) {
	query, args, err := sqlx.In(selectTimerTasksByTimestampsQuery,
		filter.ShardId, filter.FireTimeUnixSeconds, filter.MinTaskSequenceInclusive)
	if err != nil {
		return nil, err
	}

	var rows []extensions.TimerTaskRow
	err = d.db.SelectContext(ctx, &rows, query, args...)
	return rows, err
}

const batchDeleteTimerTasksQuery = `DELETE
	FROM timer_tasks WHERE shard_id = ?
	AND fire_time_unix_seconds >= ? AND fire_time_unix_seconds <= ?
	AND task_sequence >= ? AND task_sequence <= ?`

func (d dbSession) BatchDeleteTimerTasks(
	ctx context.Context, filter extensions.TimerTaskRangeDeleteFilter,
) error {
	_, err := d.db.ExecContext(ctx, batchDeleteTimerTasksQuery,
		filter.ShardId,
		filter.MinFireTimeUnixSecondsInclusive, filter.MaxFireTimeUnixSecondsInclusive,
		filter.MinTaskSequenceInclusive, filter.MaxTaskSequenceInclusive)
	return err
}

const cleanUpImmediateTasksQuery = `DELETE FROM immediate_tasks WHERE shard_id = ?`
const cleanUpTimerTasksQuery = `DELETE FROM timer_tasks WHERE shard_id = ?`

func (d dbSession) CleanUpTasksForTest(ctx context.Context, shardId int32) error {
	if _, err := d.db.ExecContext(ctx, cleanUpImmediateTasksQuery, shardId); err != nil {
		return err
	}
	_, err := d.db.ExecContext(ctx, cleanUpTimerTasksQuery, shardId)
	return err
}
