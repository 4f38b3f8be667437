package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/cmd"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/log"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/triggers/queue"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/triggers/schedule"
)

func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Start the scheduler",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL (postgres://... or file://<dir>)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "redis-url",
				Usage:    "Redis URL for the execution queue",
				Required: true,
				Sources:  cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "queue-key",
				Usage:   "Redis list key for execution requests",
				Value:   queue.DefaultKey,
				Sources: cli.EnvVars("QUEUE_KEY"),
			},
			&cli.DurationFlag{
				Name:    "sync-interval",
				Usage:   "How often to re-read the stored definitions",
				Value:   schedule.DefaultSyncInterval,
				Sources: cli.EnvVars("SYNC_INTERVAL"),
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
			logger.InfoContext(ctx, "initializing aiflow scheduler")

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "failed to close persistence", "error", err)
				}
			}()

			producer, err := queue.NewProducer(ctx, command.String("redis-url"),
				command.String("queue-key"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := producer.Close(); err != nil {
					logger.ErrorContext(ctx, "failed to close queue producer", "error", err)
				}
			}()

			scheduler := schedule.NewScheduler(
				persistence.WorkflowRepository(),
				logger,
				command.Duration("sync-interval"),
			)

			err = scheduler.Start(ctx, func(ctx context.Context, workflowID string) error {
				return producer.Enqueue(ctx, queue.Request{
					WorkflowID: workflowID,
					Mode:       string(models.ExecutionModeScheduled),
					Timestamp:  time.Now().UTC().Format(time.RFC3339),
				})
			})
			if err != nil {
				return err
			}

			logger.InfoContext(ctx, "scheduler started")

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			<-sigChan
			logger.InfoContext(ctx, "shutting down scheduler")

			return scheduler.Stop(ctx)
		},
	}
}
