// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitetool

import (
	"github.com/urfave/cli/v2"

	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/extensions"
	"github.com/gx5gyqe2-art/opcg-sim-backend/extensions/sqlite"
)

const DefaultDatabaseFile = "opcgsim.db"
const DefaultSchemaFilePath = "./extensions/sqlite/schema/all_in_one.sql"

// BuildCLIOptions builds the options for cli
func BuildCLIOptions() *cli.App {

	app := cli.NewApp()

	app.Name = "opcg-sim sqlite tool"
	app.Usage = "tool for opcg-sim-backend operation on sqlite"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    extensions.CLIFlagDatabase,
			Aliases: []string{"db"},
			Value:   DefaultDatabaseFile,
			Usage:   "path of the sqlite database file",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:    "create-database",
			Aliases: []string{"create"},
			Usage:   "creates the database file",
			Action: func(c *cli.Context) error {
				cfg := config.SQL{DBExtensionName: sqlite.ExtensionName}
				return extensions.CreateDatabase(cfg, c.String(extensions.CLIFlagDatabase))
			},
		},
		{
			Name:    "install-schema",
			Aliases: []string{"install"},
			Usage:   "install schema into the database file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    extensions.CLIFlagFile,
					Aliases: []string{"f"},
					Value:   DefaultSchemaFilePath,
					Usage:   "file path of the schema file to install",
				},
			},
			Action: func(c *cli.Context) error {
				cfg := config.SQL{
					DBExtensionName: sqlite.ExtensionName,
					DatabaseName:    c.String(extensions.CLIFlagDatabase),
				}
				return extensions.SetupSchema(&cfg, c.String(extensions.CLIFlagFile))
			},
		},
	}

	return app
}
