// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package httperror

import (
	"net/http"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
)

// CheckHttpResponseAndError returns true when the request failed, either by
// transport error or by a non-200 status. Used for best-effort internal calls.
func CheckHttpResponseAndError(err error, httpResp *http.Response, logger log.Logger) bool {
	status := 0
	if httpResp != nil {
		status = httpResp.StatusCode
	}
	logger.Debug("check http response and error", tag.Error(err), tag.StatusCode(status))

	if err != nil || (httpResp != nil && httpResp.StatusCode != http.StatusOK) {
		return true
	}
	return false
}
