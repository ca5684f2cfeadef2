// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package postgres

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

// ToPostgresDateTime converts to time to Postgres datetime
func ToPostgresDateTime(t time.Time) time.Time {
	return t.UTC().Round(time.Microsecond)
}

// FromPostgresDateTime converts postgres datetime and returns go time
func FromPostgresDateTime(t time.Time) time.Time {
	return t.UTC()
}
