// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package data_models

import "encoding/json"

const (
	GameEventTypeCreated  = "created"
	GameEventTypeAction   = "action"
	GameEventTypeFinished = "finished"
)

// GameEventMessage is one message published to the game event feed broker.
type GameEventMessage struct {
	GameId      string   `json:"gameId"`
	Mode        GameMode `json:"mode"`
	EventType   string   `json:"eventType"`
	PlayerId    string   `json:"playerId,omitempty"`
	Action      string   `json:"action,omitempty"`
	Winner      string   `json:"winner,omitempty"`
	TimestampMs int64    `json:"timestampMs"`
}

func (m *GameEventMessage) ToBytes() ([]byte, error) {
	return json.Marshal(m)
}
