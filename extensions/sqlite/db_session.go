// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gx5gyqe2-art/opcg-sim-backend/extensions"
)

type dbSession struct {
	db *sqlx.DB
}

var _ extensions.SQLDBSession = (*dbSession)(nil)

func newDBSession(db *sqlx.DB) *dbSession {
	return &dbSession{
		db: db,
	}
}

func (d dbSession) Close() error {
	return d.db.Close()
}

// ToSQLiteDateTime normalizes to UTC so that string-encoded timestamps
// compare and round-trip consistently
func ToSQLiteDateTime(t time.Time) time.Time {
	return t.UTC().Round(time.Microsecond)
}

// FromSQLiteDateTime converts a scanned timestamp back to UTC
func FromSQLiteDateTime(t time.Time) time.Time {
	return t.UTC()
}
