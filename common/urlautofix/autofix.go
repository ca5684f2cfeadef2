// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package urlautofix

import (
	"os"
	"strings"
)

type FixAsyncUrlFunc func(url string) string

var asyncUrlFixer FixAsyncUrlFunc = DefaultFixAsyncUrlFunc

func SetAsyncUrlFixer(fixer FixAsyncUrlFunc) {
	asyncUrlFixer = fixer
}

// FixAsyncServiceUrl rewrites the async-service client address when the API
// service runs inside a container and "localhost" points at the wrong host.
func FixAsyncServiceUrl(url string) string {
	return asyncUrlFixer(url)
}

func DefaultFixAsyncUrlFunc(url string) string {
	autofixUrl := os.Getenv("AUTO_FIX_LOCALHOST_ASYNC_URL")
	if autofixUrl != "" {
		url = strings.Replace(url, "localhost", autofixUrl, 1)
		url = strings.Replace(url, "127.0.0.1", autofixUrl, 1)
	}

	return url
}
