// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package extensions

import (
	"context"

	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
)

type SQLDBExtension interface {
	// StartDBSession starts the session for regular business logic
	StartDBSession(cfg *config.SQL) (SQLDBSession, error)
	// StartAdminDBSession starts the session for admin operation like DDL
	StartAdminDBSession(cfg *config.SQL) (SQLAdminDBSession, error)
}

// SQLDBSession is the CRUD surface the persistence layer runs on. All the
// operations are single statements, so there is no transaction API.
type SQLDBSession interface {
	gameSnapshotCRUD
	taskQueueCRUD
	ErrorChecker

	Close() error
}

type SQLAdminDBSession interface {
	CreateDatabase(ctx context.Context, database string) error
	DropDatabase(ctx context.Context, database string) error
	ExecuteSchemaDDL(ctx context.Context, ddlQuery string) error
	Close() error
}

type gameSnapshotCRUD interface {
	UpsertGameSnapshot(ctx context.Context, row GameSnapshotRow) error
	SelectGameSnapshot(ctx context.Context, gameId string) (*GameSnapshotRow, error)
	SelectGameSnapshots(ctx context.Context, filter GameSnapshotSelectFilter) ([]GameSnapshotRow, error)
}

type taskQueueCRUD interface {
	InsertImmediateTask(ctx context.Context, row ImmediateTaskRowForInsert) error
	BatchSelectImmediateTasks(
		ctx context.Context, shardId int32, startSequenceInclusive int64, pageSize int32,
	) ([]ImmediateTaskRow, error)
	BatchDeleteImmediateTasks(ctx context.Context, filter ImmediateTaskRangeDeleteFilter) error

	InsertTimerTask(ctx context.Context, row TimerTaskRowForInsert) error
	BatchSelectTimerTasks(ctx context.Context, filter TimerTaskRangeSelectFilter) ([]TimerTaskRow, error)
	SelectTimerTasksByTimestamps(ctx context.Context, filter TimerTaskSelectByTimestampsFilter) ([]TimerTaskRow, error)
	BatchDeleteTimerTasks(ctx context.Context, filter TimerTaskRangeDeleteFilter) error

	CleanUpTasksForTest(ctx context.Context, shardId int32) error
}

type ErrorChecker interface {
	IsDupEntryError(err error) bool
	IsNotFoundError(err error) bool
	IsTimeoutError(err error) bool
	IsThrottlingError(err error) bool
}
