// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"modernc.org/sqlite"
)

// primary result codes, see https://www.sqlite.org/rescode.html
const (
	errBusy       = 5
	errLocked     = 6
	errConstraint = 19
)

func primaryCode(err error) (int, bool) {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return 0, false
	}
	// extended result codes carry the primary code in the low byte
	return sqlErr.Code() & 0xff, true
}

func (d dbSession) IsDupEntryError(err error) bool {
	code, ok := primaryCode(err)
	return ok && code == errConstraint
}

func (d dbSession) IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func (d dbSession) IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func (d dbSession) IsThrottlingError(err error) bool {
	code, ok := primaryCode(err)
	return ok && (code == errBusy || code == errLocked)
}
