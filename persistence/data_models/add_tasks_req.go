// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package data_models

type AddImmediateTaskRequest struct {
	// Task to append. TaskSequence must be empty, the store assigns it.
	Task ImmediateTask
}

type AddTimerTaskRequest struct {
	// Task to append. TaskSequence must be empty, the store assigns it.
	Task TimerTask
}
