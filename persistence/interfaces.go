// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package persistence

import (
	"context"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

const DefaultShardId = int32(0)

type (
	// TaskStore is the durable queue behind the async service: immediate
	// tasks carry replays to archive, timer tasks carry session expiry
	// deadlines. Backed by SQL when a database is configured, otherwise by
	// process memory.
	TaskStore interface {
		Close() error

		AddImmediateTask(ctx context.Context, request data_models.AddImmediateTaskRequest) error
		GetImmediateTasks(ctx context.Context, request data_models.GetImmediateTasksRequest) (*data_models.GetImmediateTasksResponse, error)
		DeleteImmediateTasks(ctx context.Context, request data_models.DeleteImmediateTasksRequest) error

		AddTimerTask(ctx context.Context, request data_models.AddTimerTaskRequest) error
		GetTimerTasksUpToTimestamp(ctx context.Context, request data_models.GetTimerTasksRequest) (*data_models.GetTimerTasksResponse, error)
		GetTimerTasksForTimestamps(ctx context.Context, request data_models.GetTimerTasksForTimestampsRequest) (*data_models.GetTimerTasksResponse, error)
		DeleteTimerTasks(ctx context.Context, request data_models.DeleteTimerTasksRequest) error

		CleanUpTasksForTest(ctx context.Context, shardId int32) error
	}

	// GameSnapshotStore persists one row per game session, written through
	// after every applied action. It is an operational mirror of the
	// in-memory registry, not the source of truth.
	GameSnapshotStore interface {
		Close() error

		UpsertGameSnapshot(ctx context.Context, request data_models.UpsertGameSnapshotRequest) error
		GetGameSnapshot(ctx context.Context, request data_models.GetGameSnapshotRequest) (*data_models.GetGameSnapshotResponse, error)
		ListGameSnapshots(ctx context.Context, request data_models.ListGameSnapshotsRequest) (*data_models.ListGameSnapshotsResponse, error)
	}

	// ReplayArchive stores the compressed replay log of a finished or
	// expired game.
	ReplayArchive interface {
		Store(ctx context.Context, replay *data_models.ReplayLog) error
		// Read fetches one archived replay back, mainly for tooling and tests.
		Read(ctx context.Context, gameId string) (*data_models.ReplayLog, error)
	}

	// GameEventFeed publishes game lifecycle events to a message broker.
	GameEventFeed interface {
		Publish(ctx context.Context, message data_models.GameEventMessage) error
		Close()
	}
)
