// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

// Package persistencetest holds store contract tests shared by every
// backend. The in-memory store runs them directly, the SQL extensions run
// them against a real database from their own test packages.
package persistencetest

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// ImmediateTasksTest covers the append/poll/delete cycle of the archive
// task queue, including pagination and shard isolation.
func ImmediateTasksTest(ass *assert.Assertions, store persistence.TaskStore) {
	ctx := context.Background()
	shardId := persistence.DefaultShardId
	ass.Nil(store.CleanUpTasksForTest(ctx, shardId))

	resp, err := store.GetImmediateTasks(ctx, data_models.GetImmediateTasksRequest{
		ShardId:                shardId,
		StartSequenceInclusive: 0,
		PageSize:               10,
	})
	ass.Nil(err)
	ass.Empty(resp.Tasks)

	for i := 0; i < 3; i++ {
		err := store.AddImmediateTask(ctx, data_models.AddImmediateTaskRequest{
			Task: data_models.ImmediateTask{
				ShardId:  shardId,
				TaskType: data_models.ImmediateTaskTypeArchiveReplay,
				GameId:   fmt.Sprintf("game-%v", i),
				ImmediateTaskInfo: data_models.ImmediateTaskInfoJson{
					Reason:         data_models.ArchiveReasonFinished,
					FinishedAtUnix: time.Now().Unix(),
				},
			},
		})
		ass.Nil(err)
	}

	resp, err = store.GetImmediateTasks(ctx, data_models.GetImmediateTasksRequest{
		ShardId:                shardId,
		StartSequenceInclusive: 0,
		PageSize:               10,
	})
	ass.Nil(err)
	ass.Equal(3, len(resp.Tasks))
	firstTask := resp.Tasks[0]
	lastTask := resp.Tasks[2]
	ass.Equal("game-0", firstTask.GameId)
	ass.Equal("game-2", lastTask.GameId)
	ass.Equal(data_models.ImmediateTaskTypeArchiveReplay, firstTask.TaskType)
	ass.Equal(data_models.ArchiveReasonFinished, firstTask.ImmediateTaskInfo.Reason)
	ass.NotNil(firstTask.TaskSequence)
	ass.Equal(*firstTask.TaskSequence, resp.MinSequenceInclusive)
	ass.Equal(*lastTask.TaskSequence, resp.MaxSequenceInclusive)
	ass.True(*firstTask.TaskSequence < *lastTask.TaskSequence)

	// first page of two, then resume after it
	page1, err := store.GetImmediateTasks(ctx, data_models.GetImmediateTasksRequest{
		ShardId:                shardId,
		StartSequenceInclusive: 0,
		PageSize:               2,
	})
	ass.Nil(err)
	ass.Equal(2, len(page1.Tasks))
	ass.Equal("game-0", page1.Tasks[0].GameId)
	ass.Equal("game-1", page1.Tasks[1].GameId)

	page2, err := store.GetImmediateTasks(ctx, data_models.GetImmediateTasksRequest{
		ShardId:                shardId,
		StartSequenceInclusive: page1.MaxSequenceInclusive + 1,
		PageSize:               2,
	})
	ass.Nil(err)
	ass.Equal(1, len(page2.Tasks))
	ass.Equal("game-2", page2.Tasks[0].GameId)

	// tasks of another shard are invisible here
	otherShard := shardId + 1
	ass.Nil(store.CleanUpTasksForTest(ctx, otherShard))
	err = store.AddImmediateTask(ctx, data_models.AddImmediateTaskRequest{
		Task: data_models.ImmediateTask{
			ShardId:  otherShard,
			TaskType: data_models.ImmediateTaskTypeArchiveReplay,
			GameId:   "other-shard-game",
			ImmediateTaskInfo: data_models.ImmediateTaskInfoJson{
				Reason: data_models.ArchiveReasonExpired,
			},
		},
	})
	ass.Nil(err)

	resp, err = store.GetImmediateTasks(ctx, data_models.GetImmediateTasksRequest{
		ShardId:                shardId,
		StartSequenceInclusive: 0,
		PageSize:               10,
	})
	ass.Nil(err)
	ass.Equal(3, len(resp.Tasks))
	for _, task := range resp.Tasks {
		ass.NotEqual("other-shard-game", task.GameId)
	}

	otherResp, err := store.GetImmediateTasks(ctx, data_models.GetImmediateTasksRequest{
		ShardId:                otherShard,
		StartSequenceInclusive: 0,
		PageSize:               10,
	})
	ass.Nil(err)
	ass.Equal(1, len(otherResp.Tasks))
	ass.Equal("other-shard-game", otherResp.Tasks[0].GameId)
	ass.Equal(data_models.ArchiveReasonExpired, otherResp.Tasks[0].ImmediateTaskInfo.Reason)

	// delete the first page and verify only the last task remains
	err = store.DeleteImmediateTasks(ctx, data_models.DeleteImmediateTasksRequest{
		ShardId:                  shardId,
		MinTaskSequenceInclusive: page1.MinSequenceInclusive,
		MaxTaskSequenceInclusive: page1.MaxSequenceInclusive,
	})
	ass.Nil(err)

	resp, err = store.GetImmediateTasks(ctx, data_models.GetImmediateTasksRequest{
		ShardId:                shardId,
		StartSequenceInclusive: 0,
		PageSize:               10,
	})
	ass.Nil(err)
	ass.Equal(1, len(resp.Tasks))
	ass.Equal("game-2", resp.Tasks[0].GameId)

	ass.Nil(store.CleanUpTasksForTest(ctx, shardId))
	ass.Nil(store.CleanUpTasksForTest(ctx, otherShard))

	resp, err = store.GetImmediateTasks(ctx, data_models.GetImmediateTasksRequest{
		ShardId:                shardId,
		StartSequenceInclusive: 0,
		PageSize:               10,
	})
	ass.Nil(err)
	ass.Empty(resp.Tasks)
}

// TimerTasksTest covers the expiry queue: windowed loading ordered by fire
// time, full-page detection, loading by exact timestamps, and range delete.
func TimerTasksTest(ass *assert.Assertions, store persistence.TaskStore) {
	ctx := context.Background()
	shardId := persistence.DefaultShardId
	ass.Nil(store.CleanUpTasksForTest(ctx, shardId))

	now := time.Now().Unix()
	// inserted out of fire-time order on purpose
	fireTimes := []int64{now + 30, now + 10, now + 20}
	for i, fireTime := range fireTimes {
		err := store.AddTimerTask(ctx, data_models.AddTimerTaskRequest{
			Task: data_models.TimerTask{
				ShardId:              shardId,
				FireTimestampSeconds: fireTime,
				TaskType:             data_models.TimerTaskTypeSessionExpiry,
				GameId:               fmt.Sprintf("game-%v", i),
				TimerTaskInfo: data_models.TimerTaskInfoJson{
					IdleDeadlineUnix: fireTime,
				},
			},
		})
		ass.Nil(err)
	}

	// window covering the two earliest fire times
	windowResp, err := store.GetTimerTasksUpToTimestamp(ctx, data_models.GetTimerTasksRequest{
		ShardId:                          shardId,
		MaxFireTimestampSecondsInclusive: now + 20,
		PageSize:                         10,
	})
	ass.Nil(err)
	ass.Equal(2, len(windowResp.Tasks))
	ass.Equal("game-1", windowResp.Tasks[0].GameId)
	ass.Equal("game-2", windowResp.Tasks[1].GameId)
	ass.Equal(now+10, windowResp.MinFireTimestampSecondsInclusive)
	ass.Equal(now+20, windowResp.MaxFireTimestampSecondsInclusive)
	ass.Equal(data_models.TimerTaskTypeSessionExpiry, windowResp.Tasks[0].TaskType)
	ass.Equal(now+10, windowResp.Tasks[0].TimerTaskInfo.IdleDeadlineUnix)
	ass.False(windowResp.FullPage)

	fullResp, err := store.GetTimerTasksUpToTimestamp(ctx, data_models.GetTimerTasksRequest{
		ShardId:                          shardId,
		MaxFireTimestampSecondsInclusive: now + 60,
		PageSize:                         2,
	})
	ass.Nil(err)
	ass.Equal(2, len(fullResp.Tasks))
	ass.True(fullResp.FullPage)

	allResp, err := store.GetTimerTasksUpToTimestamp(ctx, data_models.GetTimerTasksRequest{
		ShardId:                          shardId,
		MaxFireTimestampSecondsInclusive: now + 60,
		PageSize:                         10,
	})
	ass.Nil(err)
	ass.Equal(3, len(allResp.Tasks))
	ass.Equal("game-0", allResp.Tasks[2].GameId)
	ass.False(allResp.FullPage)

	// load by exact fire timestamps
	byTsResp, err := store.GetTimerTasksForTimestamps(ctx, data_models.GetTimerTasksForTimestampsRequest{
		ShardId:              shardId,
		MinSequenceInclusive: 0,
		DetailedRequests: []data_models.NotifyTimerTasksRequest{
			{ShardId: shardId, FireTimestamps: []int64{now + 10, now + 30}},
		},
	})
	ass.Nil(err)
	ass.Equal(2, len(byTsResp.Tasks))
	ass.Equal("game-1", byTsResp.Tasks[0].GameId)
	ass.Equal("game-0", byTsResp.Tasks[1].GameId)

	// game-0 was inserted first and carries the smallest sequence,
	// raising the floor above it must leave game-1 only
	byTsResp2, err := store.GetTimerTasksForTimestamps(ctx, data_models.GetTimerTasksForTimestampsRequest{
		ShardId:              shardId,
		MinSequenceInclusive: byTsResp.MinSequenceInclusive + 1,
		DetailedRequests: []data_models.NotifyTimerTasksRequest{
			{ShardId: shardId, FireTimestamps: []int64{now + 10, now + 30}},
		},
	})
	ass.Nil(err)
	ass.Equal(1, len(byTsResp2.Tasks))
	ass.Equal("game-1", byTsResp2.Tasks[0].GameId)

	// delete the loaded window, the later-firing task must survive
	err = store.DeleteTimerTasks(ctx, data_models.DeleteTimerTasksRequest{
		ShardId:                          shardId,
		MinFireTimestampSecondsInclusive: windowResp.MinFireTimestampSecondsInclusive,
		MinTaskSequenceInclusive:         windowResp.MinSequenceInclusive,
		MaxFireTimestampSecondsInclusive: windowResp.MaxFireTimestampSecondsInclusive,
		MaxTaskSequenceInclusive:         windowResp.MaxSequenceInclusive,
	})
	ass.Nil(err)

	allResp, err = store.GetTimerTasksUpToTimestamp(ctx, data_models.GetTimerTasksRequest{
		ShardId:                          shardId,
		MaxFireTimestampSecondsInclusive: now + 60,
		PageSize:                         10,
	})
	ass.Nil(err)
	ass.Equal(1, len(allResp.Tasks))
	ass.Equal("game-0", allResp.Tasks[0].GameId)

	ass.Nil(store.CleanUpTasksForTest(ctx, shardId))
}

// GameSnapshotsTest covers upsert-as-insert, upsert-as-update, point get
// and status-filtered listing.
func GameSnapshotsTest(ass *assert.Assertions, store persistence.GameSnapshotStore) {
	ctx := context.Background()
	gameId := fmt.Sprintf("test-game-%v", time.Now().UnixNano())

	getResp, err := store.GetGameSnapshot(ctx, data_models.GetGameSnapshotRequest{GameId: gameId})
	ass.Nil(err)
	ass.True(getResp.NotExists)

	now := time.Now()
	snapshot := data_models.GameSnapshot{
		GameId:    gameId,
		ShardId:   persistence.DefaultShardId,
		Status:    data_models.GameStatusRunning,
		Mode:      data_models.GameModeStandard,
		TurnCount: 1,
		Phase:     "MAIN",
		StateJson: []byte(`{"turn":1}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = store.UpsertGameSnapshot(ctx, data_models.UpsertGameSnapshotRequest{Snapshot: snapshot})
	ass.Nil(err)

	getResp, err = store.GetGameSnapshot(ctx, data_models.GetGameSnapshotRequest{GameId: gameId})
	ass.Nil(err)
	ass.False(getResp.NotExists)
	got := getResp.Snapshot
	ass.Equal(gameId, got.GameId)
	ass.Equal(data_models.GameStatusRunning, got.Status)
	ass.Equal(data_models.GameModeStandard, got.Mode)
	ass.Equal(int32(1), got.TurnCount)
	ass.Equal("MAIN", got.Phase)
	ass.JSONEq(`{"turn":1}`, string(got.StateJson))

	snapshot.Status = data_models.GameStatusFinished
	snapshot.TurnCount = 9
	snapshot.Phase = "END"
	snapshot.StateJson = []byte(`{"turn":9}`)
	snapshot.UpdatedAt = now.Add(time.Second)
	err = store.UpsertGameSnapshot(ctx, data_models.UpsertGameSnapshotRequest{Snapshot: snapshot})
	ass.Nil(err)

	getResp, err = store.GetGameSnapshot(ctx, data_models.GetGameSnapshotRequest{GameId: gameId})
	ass.Nil(err)
	ass.False(getResp.NotExists)
	ass.Equal(data_models.GameStatusFinished, getResp.Snapshot.Status)
	ass.Equal(int32(9), getResp.Snapshot.TurnCount)
	ass.Equal("END", getResp.Snapshot.Phase)
	ass.JSONEq(`{"turn":9}`, string(getResp.Snapshot.StateJson))

	listResp, err := store.ListGameSnapshots(ctx, data_models.ListGameSnapshotsRequest{
		PageSize:     100,
		StatusFilter: data_models.GameStatusFinished,
	})
	ass.Nil(err)
	found := false
	for _, s := range listResp.Snapshots {
		if s.GameId == gameId {
			found = true
			ass.Equal(data_models.GameStatusFinished, s.Status)
		}
	}
	ass.True(found)

	listResp, err = store.ListGameSnapshots(ctx, data_models.ListGameSnapshotsRequest{
		PageSize:     100,
		StatusFilter: data_models.GameStatusRunning,
	})
	ass.Nil(err)
	for _, s := range listResp.Snapshots {
		ass.NotEqual(gameId, s.GameId)
	}
}
