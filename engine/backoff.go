// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"math"
	"time"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

func GetNextBackoff(
	completedAttempts int32, firstAttemptStartTimestampSeconds int64, policy *data_models.RetryPolicy,
) (nextBackoffSeconds int32, shouldRetry bool) {
	policy = setDefaultRetryPolicyValue(policy)
	if *policy.MaximumAttempts > 0 && completedAttempts >= *policy.MaximumAttempts {
		return 0, false
	}
	nowSeconds := time.Now().Unix()
	if *policy.MaximumAttemptsDurationSeconds > 0 && firstAttemptStartTimestampSeconds+int64(*policy.MaximumAttemptsDurationSeconds) < nowSeconds {
		return 0, false
	}
	initInterval := *policy.InitialIntervalSeconds
	nextInterval := int32(float64(initInterval) * math.Pow(float64(*policy.BackoffCoefficient), float64(completedAttempts-1)))
	if nextInterval > *policy.MaximumIntervalSeconds {
		nextInterval = *policy.MaximumIntervalSeconds
	}
	return nextInterval, true
}

func setDefaultRetryPolicyValue(policy *data_models.RetryPolicy) *data_models.RetryPolicy {
	if policy == nil {
		policy = &data_models.RetryPolicy{}
	}
	if policy.InitialIntervalSeconds == nil {
		policy.InitialIntervalSeconds = defaultArchiveTaskRetryPolicy.InitialIntervalSeconds
	}
	if policy.BackoffCoefficient == nil {
		policy.BackoffCoefficient = defaultArchiveTaskRetryPolicy.BackoffCoefficient
	}
	if policy.MaximumIntervalSeconds == nil {
		policy.MaximumIntervalSeconds = defaultArchiveTaskRetryPolicy.MaximumIntervalSeconds
	}
	if policy.MaximumAttempts == nil {
		policy.MaximumAttempts = defaultArchiveTaskRetryPolicy.MaximumAttempts
	}
	if policy.MaximumAttemptsDurationSeconds == nil {
		policy.MaximumAttemptsDurationSeconds = defaultArchiveTaskRetryPolicy.MaximumAttemptsDurationSeconds
	}
	return policy
}
