// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload" // load .env before flags and config
	"github.com/urfave/cli/v2"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cmd/server/bootstrap"

	_ "github.com/gx5gyqe2-art/opcg-sim-backend/extensions/postgres" // import postgres extension
	_ "github.com/gx5gyqe2-art/opcg-sim-backend/extensions/sqlite"   // import sqlite extension
)

func main() {
	app := &cli.App{
		Name:  "opcg-sim server",
		Usage: "start the card game simulator server",
		Action: func(c *cli.Context) error {
			bootstrap.StartOpcgSimServerCli(c)
			return nil
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  bootstrap.FlagConfig,
				Value: "",
				Usage: "the config to start the server, empty runs on defaults",
			},
			&cli.StringFlag{
				Name:  bootstrap.FlagService,
				Value: fmt.Sprintf("%v,%v", bootstrap.ApiServiceName, bootstrap.AsyncServiceName),
				Usage: "the services to start, separated by comma",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
