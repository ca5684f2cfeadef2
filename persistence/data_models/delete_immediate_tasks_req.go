// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package data_models

type DeleteImmediateTasksRequest struct {
	ShardId int32

	MinTaskSequenceInclusive int64
	MaxTaskSequenceInclusive int64
}
