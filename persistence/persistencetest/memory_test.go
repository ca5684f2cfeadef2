// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package persistencetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence"
)

func TestMemoryImmediateTasks(t *testing.T) {
	store := persistence.NewMemoryTaskStore(log.NewLogger(zap.NewNop()))
	ImmediateTasksTest(assert.New(t), store)
}

func TestMemoryTimerTasks(t *testing.T) {
	store := persistence.NewMemoryTaskStore(log.NewLogger(zap.NewNop()))
	TimerTasksTest(assert.New(t), store)
}
