// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package data_models

import (
	"encoding/json"
)

type TimerTaskInfoJson struct {
	// IdleDeadlineUnix is the idle deadline the session had when this
	// expiry timer was scheduled. A session touched after scheduling
	// carries a later deadline and the stale timer is skipped.
	IdleDeadlineUnix int64 `json:"idleDeadlineUnix"`
	// TaskBackoffInfo tracks retry attempts of this task.
	TaskBackoffInfo *TaskBackoffInfoJson `json:"taskBackoffInfo,omitempty"`
}

func (s *TimerTaskInfoJson) ToBytes() ([]byte, error) {
	return json.Marshal(s)
}

func BytesToTimerTaskInfo(bytes []byte) (TimerTaskInfoJson, error) {
	var obj TimerTaskInfoJson
	err := json.Unmarshal(bytes, &obj)
	return obj, err
}
