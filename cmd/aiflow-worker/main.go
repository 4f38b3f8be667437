package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/cmd"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/log"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/triggers/queue"
)

func main() {
	command := &cli.Command{
		Name:                  "aiflow-worker",
		Usage:                 "Consume execution requests and run workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "worker-id",
				Aliases: []string{"id"},
				Usage:   "Custom worker ID (auto-generated if not provided)",
				Sources: cli.EnvVars("WORKER_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL (postgres://... or file://<dir>)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus transport (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma-separated Kafka brokers (event-bus kafka only)",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
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
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "OpenAI API key for ai_processing nodes",
				Sources: cli.EnvVars("OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "openai-model",
				Usage:   "Default OpenAI model",
				Sources: cli.EnvVars("OPENAI_MODEL"),
			},
			&cli.StringFlag{
				Name:    "script-workdir",
				Usage:   "Working directory for sandboxed script execution",
				Sources: cli.EnvVars("SCRIPT_WORKDIR"),
			},
			&cli.StringFlag{
				Name:    "software-install-dir",
				Usage:   "Install directory for software integrations",
				Sources: cli.EnvVars("SOFTWARE_INSTALL_DIR"),
			},
			&cli.StringFlag{
				Name:    "software-catalog",
				Usage:   "Path to the software catalog JSON file",
				Sources: cli.EnvVars("SOFTWARE_CATALOG"),
			},
			&cli.StringFlag{
				Name:    "files-dir",
				Usage:   "Sandbox base directory for file_operation nodes",
				Sources: cli.EnvVars("FILES_DIR"),
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

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = "worker-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("aiflow-worker").With("worker_id", workerID)
			logger.InfoContext(ctx, "initializing aiflow worker")

			registry, err := cmd.NewRegistry(logger, cmd.CollaboratorConfig{
				OpenAIKey:           command.String("openai-api-key"),
				OpenAIModel:         command.String("openai-model"),
				ScriptWorkDir:       command.String("script-workdir"),
				SoftwareInstallDir:  command.String("software-install-dir"),
				SoftwareCatalogPath: command.String("software-catalog"),
				FilesBaseDir:        command.String("files-dir"),
			})
			if err != nil {
				return err
			}

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"),
				"aiflow-worker", command.String("kafka-brokers"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "failed to close event bus", "error", err)
				}
			}()

			consumer, err := queue.NewConsumer(ctx, command.String("redis-url"),
				command.String("queue-key"), logger)
			if err != nil {
				return err
			}

			worker := NewWorkerManager(workerID, persistence, eventBus, consumer, registry, logger)

			return worker.Start(ctx)
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
