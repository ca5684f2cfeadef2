// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package extensions

import (
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// Row structs map 1:1 onto table columns. Field names are converted to
// snake_case column names by the sqlx mapper, so no db struct tags are needed.

type (
	GameSnapshotRow struct {
		GameId    string
		ShardId   int32
		Status    data_models.GameStatus
		Mode      string
		TurnCount int32
		Phase     string
		StateJson types.JSONText
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	GameSnapshotSelectFilter struct {
		// OptionalStatus filters by status when non-nil
		OptionalStatus *data_models.GameStatus
		PageSize       int32
	}

	ImmediateTaskRowForInsert struct {
		ShardId  int32
		TaskType data_models.ImmediateTaskType
		GameId   string

		Info types.JSONText
	}

	ImmediateTaskRow struct {
		ShardId      int32
		TaskSequence int64
		TaskType     data_models.ImmediateTaskType
		GameId       string

		Info types.JSONText
	}

	ImmediateTaskRangeDeleteFilter struct {
		ShardId int32

		MinTaskSequenceInclusive int64
		MaxTaskSequenceInclusive int64
	}

	TimerTaskRowForInsert struct {
		ShardId             int32
		FireTimeUnixSeconds int64
		TaskType            data_models.TimerTaskType
		GameId              string

		Info types.JSONText
	}

	TimerTaskRow struct {
		ShardId             int32
		FireTimeUnixSeconds int64
		TaskSequence        int64
		TaskType            data_models.TimerTaskType
		GameId              string

		Info types.JSONText
	}

	TimerTaskRangeSelectFilter struct {
		ShardId int32

		MaxFireTimeUnixSecondsInclusive int64
		PageSize                        int32
	}

	TimerTaskSelectByTimestampsFilter struct {
		ShardId int32

		FireTimeUnixSeconds      []int64
		MinTaskSequenceInclusive int64
	}

	TimerTaskRangeDeleteFilter struct {
		ShardId int32

		MinFireTimeUnixSecondsInclusive int64
		MaxFireTimeUnixSecondsInclusive int64
		MinTaskSequenceInclusive        int64
		MaxTaskSequenceInclusive        int64
	}
)
