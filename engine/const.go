// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/ptr"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// Default: infinite retry with 1 second initial interval, 120 seconds max interval, and 2 backoff factor,
var defaultArchiveTaskRetryPolicy = data_models.RetryPolicy{
	InitialIntervalSeconds:         ptr.Any(int32(1)),
	BackoffCoefficient:             ptr.Any(float32(2)),
	MaximumIntervalSeconds:         ptr.Any(int32(120)),
	MaximumAttempts:                ptr.Any(int32(0)),
	MaximumAttemptsDurationSeconds: ptr.Any(int32(0)),
}
