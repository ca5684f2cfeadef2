// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package data_models

// NotifyImmediateTasksRequest wakes the archive task queue of a shard so that
// it polls earlier than its next scheduled interval.
type NotifyImmediateTasksRequest struct {
	ShardId int32    `json:"shardId"`
	GameIds []string `json:"gameIds,omitempty"`
}

// NotifyTimerTasksRequest tells the session timer queue of a shard about
// newly written expiry deadlines, so near ones can be pulled into the
// preloaded window without waiting for the next preload.
type NotifyTimerTasksRequest struct {
	ShardId        int32   `json:"shardId"`
	FireTimestamps []int64 `json:"fireTimestamps"`
}
