// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package data_models

import "encoding/json"

// ReplayEvent is one appended entry of a session's replay log. Payload holds
// the raw submitted action or the engine event detail.
type ReplayEvent struct {
	Seq         int             `json:"seq"`
	TimestampMs int64           `json:"ts"`
	PlayerID    string          `json:"player"`
	Action      string          `json:"action"`
	Message     string          `json:"msg,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// ReplayLog is the archive payload of a finished or expired session. With
// the recorded seed the whole game can be replayed deterministically.
type ReplayLog struct {
	GameID         string        `json:"game_id"`
	Mode           GameMode      `json:"mode"`
	Seed           int64         `json:"seed"`
	CreatedAtUnix  int64         `json:"created_at_unix"`
	FinishedAtUnix int64         `json:"finished_at_unix,omitempty"`
	Winner         string        `json:"winner,omitempty"`
	Events         []ReplayEvent `json:"events"`
}

func (r *ReplayLog) ToBytes() ([]byte, error) {
	return json.Marshal(r)
}

func BytesToReplayLog(bytes []byte) (ReplayLog, error) {
	var obj ReplayLog
	err := json.Unmarshal(bytes, &obj)
	return obj, err
}
