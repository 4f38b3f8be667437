package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/cmd"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/log"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/triggers/queue"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/web"
)

const defaultPort = 9091

func main() {
	command := &cli.Command{
		Name:                  "aiflow-api",
		Usage:                 "Create, manage and execute workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL (postgres://... or file://<dir>)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the async execution queue (optional)",
				Sources: cli.EnvVars("REDIS_URL"),
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

			logger := log.WithModule("aiflow-api")
			logger.InfoContext(ctx, "initializing aiflow API")

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

			// The enqueuer stays a nil interface when redis is not
			// configured, which disables the async endpoint.
			var enqueuer web.ExecutionEnqueuer

			if redisURL := command.String("redis-url"); redisURL != "" {
				producer, err := queue.NewProducer(ctx, redisURL, command.String("queue-key"), logger)
				if err != nil {
					return err
				}

				defer func() {
					if err := producer.Close(); err != nil {
						logger.ErrorContext(ctx, "failed to close queue producer", "error", err)
					}
				}()

				enqueuer = producer
			}

			api, err := NewAPI(logger, persistence, registry, enqueuer)
			if err != nil {
				return err
			}

			return api.Start(command.Int("port"))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
