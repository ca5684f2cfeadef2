// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // load the pure-go SQL driver for sqlite

	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/extensions"
)

const ExtensionName = "sqlite"

type extension struct{}

var _ extensions.SQLDBExtension = (*extension)(nil)

func init() {
	extensions.RegisterSQLDBExtension(ExtensionName, &extension{})
}

func (d *extension) StartDBSession(cfg *config.SQL) (extensions.SQLDBSession, error) {
	db, err := createSingleDBConn(cfg.DatabaseName)
	if err != nil {
		return nil, err
	}
	return newDBSession(db), nil
}

func (d *extension) StartAdminDBSession(cfg *config.SQL) (extensions.SQLAdminDBSession, error) {
	// a sqlite database is just a file, so an admin session without a
	// database is valid; it can still create or drop database files
	if cfg.DatabaseName == "" {
		return newAdminDBSession(nil), nil
	}
	db, err := createSingleDBConn(cfg.DatabaseName)
	if err != nil {
		return nil, err
	}
	return newAdminDBSession(db), nil
}

// createSingleDBConn opens the database file, creating it when absent.
// ConnectAddr, User and Password are not used by sqlite.
func createSingleDBConn(filePath string) (*sqlx.DB, error) {
	if filePath == "" {
		return nil, fmt.Errorf("sqlite requires DatabaseName to be the database file path")
	}
	db, err := sqlx.Connect(ExtensionName, buildDSN(filePath))
	if err != nil {
		return nil, err
	}

	// a single writer avoids SQLITE_BUSY under concurrent task inserts
	db.SetMaxOpenConns(1)

	// Maps struct names in CamelCase to snake without need for db struct tags.
	db.MapperFunc(strcase.ToSnake)
	return db, nil
}

func buildDSN(filePath string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", filePath)
}
