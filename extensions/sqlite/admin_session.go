// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/gx5gyqe2-art/opcg-sim-backend/extensions"
)

// adminDBSession treats the database name as a file path. db is nil when the
// session was started without a database file.
type adminDBSession struct {
	db *sqlx.DB
}

var _ extensions.SQLAdminDBSession = (*adminDBSession)(nil)

func newAdminDBSession(db *sqlx.DB) *adminDBSession {
	return &adminDBSession{
		db: db,
	}
}

func (a adminDBSession) CreateDatabase(_ context.Context, database string) error {
	// opening the file creates it
	db, err := sqlx.Connect(ExtensionName, buildDSN(database))
	if err != nil {
		return err
	}
	return db.Close()
}

func (a adminDBSession) DropDatabase(_ context.Context, database string) error {
	return os.Remove(database)
}

func (a adminDBSession) ExecuteSchemaDDL(ctx context.Context, ddlQuery string) error {
	if a.db == nil {
		return fmt.Errorf("schema DDL requires a database file, none was configured")
	}
	_, err := a.db.ExecContext(ctx, ddlQuery)
	return err
}

func (a adminDBSession) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
