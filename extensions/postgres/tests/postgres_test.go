// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/persistencetest"
)

func TestPostgresImmediateTasks(t *testing.T) {
	persistencetest.ImmediateTasksTest(assert.New(t), taskStore)
}

func TestPostgresTimerTasks(t *testing.T) {
	persistencetest.TimerTasksTest(assert.New(t), taskStore)
}

func TestPostgresGameSnapshots(t *testing.T) {
	persistencetest.GameSnapshotsTest(assert.New(t), snapshotStore)
}
