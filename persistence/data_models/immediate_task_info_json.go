// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package data_models

import "encoding/json"

type ImmediateTaskInfoJson struct {
	// Reason says why the replay is being archived.
	Reason ArchiveReason `json:"reason"`
	// FinishedAtUnix is when the game reached its terminal state.
	FinishedAtUnix int64 `json:"finishedAtUnix"`
	// TaskBackoffInfo tracks retry attempts of this task.
	TaskBackoffInfo *TaskBackoffInfoJson `json:"taskBackoffInfo,omitempty"`
}

func BytesToImmediateTaskInfo(bytes []byte) (ImmediateTaskInfoJson, error) {
	var obj ImmediateTaskInfoJson
	err := json.Unmarshal(bytes, &obj)
	return obj, err
}

func FromImmediateTaskInfoIntoBytes(obj ImmediateTaskInfoJson) ([]byte, error) {
	return json.Marshal(obj)
}

type TaskBackoffInfoJson struct {
	// CompletedAttempts is the number of attempts that have been completed
	// for calculating next backoff interval
	CompletedAttempts int32 `json:"completedAttempts"`
	// FirstAttemptTimestampSeconds is the timestamp of the first attempt
	// for calculating next backoff interval
	FirstAttemptTimestampSeconds int64 `json:"firstAttemptTimestampSeconds"`
}
