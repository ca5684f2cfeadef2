// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package data_models

import "time"

// GameSnapshot is the durable record of one game session, written through
// after every applied action when a SQL database is configured.
type GameSnapshot struct {
	GameId    string
	ShardId   int32
	Status    GameStatus
	Mode      GameMode
	TurnCount int32
	Phase     string
	// StateJson is the full observer-less GameStateView, serialized.
	StateJson []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

type (
	UpsertGameSnapshotRequest struct {
		Snapshot GameSnapshot
	}

	GetGameSnapshotRequest struct {
		GameId string
	}

	GetGameSnapshotResponse struct {
		Snapshot GameSnapshot
		// NotExists is true when no row was found for the game id.
		NotExists bool
	}

	ListGameSnapshotsRequest struct {
		PageSize int32
		// StatusFilter limits results to one status when non-zero.
		StatusFilter GameStatus
	}

	ListGameSnapshotsResponse struct {
		Snapshots []GameSnapshot
	}
)
