// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package config

type (
	// SQL is the configuration for connecting to a SQL backed datastore
	SQL struct {
		// User is the username to be used for connecting to database.
		// Not used by the sqlite extension.
		User string `yaml:"user"`
		// Password is the password corresponding to the username
		Password string `yaml:"password"`
		// DatabaseName is the name of SQL database to connect to.
		// For the sqlite extension this is the database file path.
		DatabaseName string `yaml:"databaseName"`
		// ConnectAddr is the remote addr of the database.
		// Not used by the sqlite extension.
		ConnectAddr string `yaml:"connectAddr"`
		// DBExtensionName is the name of the extension, e.g. postgres or sqlite
		DBExtensionName string `yaml:"dbExtensionName"`
	}
)
