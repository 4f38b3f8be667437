package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/cmd"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/log"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/triggers/schedule"
)

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Check the cron expressions of stored active workflows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL (postgres://... or file://<dir>)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("aiflow-scheduler")

			p, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := p.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "failed to close persistence", "error", err)
				}
			}()

			active := models.WorkflowStatusActive

			result, err := p.WorkflowRepository().ListWorkflows(ctx, persistence.ListWorkflowsOptions{
				Status: &active,
			})
			if err != nil {
				return err
			}

			invalid := 0

			for _, definition := range result.Workflows {
				if !definition.HasSchedule() {
					continue
				}

				expr := definition.Settings.Schedule

				if err := schedule.ValidateSpec(expr); err != nil {
					invalid++

					logger.ErrorContext(ctx, "invalid schedule",
						"workflow_id", definition.ID, "cron", expr, "error", err)

					continue
				}

				logger.InfoContext(ctx, "schedule ok", "workflow_id", definition.ID, "cron", expr)
			}

			if invalid > 0 {
				return fmt.Errorf("%d workflow(s) have invalid schedules", invalid)
			}

			logger.InfoContext(ctx, "all schedules valid")

			return nil
		},
	}
}
