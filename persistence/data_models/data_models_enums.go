// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package data_models

type GameStatus int32

const (
	GameStatusUndefined GameStatus = 0
	GameStatusRunning   GameStatus = 1
	GameStatusFinished  GameStatus = 2
	// GameStatusExpired marks a session that was archived for idleness
	// before reaching a winner.
	GameStatusExpired GameStatus = 3
)

func (e GameStatus) String() string {
	switch e {
	case GameStatusRunning:
		return "RUNNING"
	case GameStatusFinished:
		return "FINISHED"
	case GameStatusExpired:
		return "EXPIRED"
	case GameStatusUndefined:
		return "UNDEFINED"
	default:
		panic("this is not supported")
	}
}

// GameMode selects the rules engine for a session. The values are what the
// state view serializes into the "mode" field.
type GameMode string

const (
	GameModeStandard GameMode = "standard"
	GameModeSandbox  GameMode = "sandbox"
)

type ImmediateTaskType int32

const (
	ImmediateTaskTypeArchiveReplay ImmediateTaskType = 1
)

func (e ImmediateTaskType) String() string {
	switch e {
	case ImmediateTaskTypeArchiveReplay:
		return "ArchiveReplay"
	default:
		panic("this is not supported")
	}
}

type TimerTaskType int32

const (
	TimerTaskTypeSessionExpiry TimerTaskType = 1
)

func (e TimerTaskType) String() string {
	switch e {
	case TimerTaskTypeSessionExpiry:
		return "SessionExpiry"
	default:
		panic("this is not supported")
	}
}

// ArchiveReason says why a replay was queued for archival.
type ArchiveReason string

const (
	ArchiveReasonFinished ArchiveReason = "finished"
	ArchiveReasonExpired  ArchiveReason = "expired"
)
