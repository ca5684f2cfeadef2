// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log"
	"os"

	"github.com/gx5gyqe2-art/opcg-sim-backend/extensions/sqlite/sqlitetool"
)

func main() {
	app := sqlitetool.BuildCLIOptions()

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
