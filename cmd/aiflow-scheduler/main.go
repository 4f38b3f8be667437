// Package main provides the aiflow scheduler: it registers cron entries for
// active workflow definitions and enqueues scheduled execution requests.
package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "aiflow-scheduler",
		Usage:                 "Run workflows on their cron schedules",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewRunCommand(),
			NewValidateCommand(),
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
