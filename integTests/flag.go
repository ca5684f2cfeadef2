// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package integTests

import "flag"

var useLocalServer = flag.Bool("useLocalServer", false,
	"run integ test against local server")

var createServerWithSqlite = flag.Bool("createServerWithSqlite", false,
	"when not useLocalServer, back the created server with a sqlite database instead of memory")
