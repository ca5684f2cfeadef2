// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type ErrorWithStatus struct {
	StatusCode int
	Error      data_models.ApiErrorResponse
}

func NewErrorWithStatus(code int, details string) *ErrorWithStatus {
	return &ErrorWithStatus{
		StatusCode: code,
		Error: data_models.ApiErrorResponse{
			Detail: details,
		},
	}
}
