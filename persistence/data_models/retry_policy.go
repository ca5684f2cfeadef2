// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package data_models

// RetryPolicy controls how a failed async task is retried. Nil fields fall
// back to the defaults applied by the backoff calculation.
type RetryPolicy struct {
	// InitialIntervalSeconds is the interval before the first retry
	InitialIntervalSeconds *int32 `json:"initialIntervalSeconds,omitempty"`
	// BackoffCoefficient multiplies the interval after every attempt
	BackoffCoefficient *float32 `json:"backoffCoefficient,omitempty"`
	// MaximumIntervalSeconds caps the growing interval
	MaximumIntervalSeconds *int32 `json:"maximumIntervalSeconds,omitempty"`
	// MaximumAttempts stops retrying after this many attempts, 0 means unlimited
	MaximumAttempts *int32 `json:"maximumAttempts,omitempty"`
	// MaximumAttemptsDurationSeconds stops retrying this long after the first
	// attempt, 0 means unlimited
	MaximumAttemptsDurationSeconds *int32 `json:"maximumAttemptsDurationSeconds,omitempty"`
}
