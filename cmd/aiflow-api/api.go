// Package main provides the aiflow API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/engine"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/registry"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/services"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	enqueuer    web.ExecutionEnqueuer
	validate    *validator.Validate
}

// NewAPI assembles the server. A nil enqueuer disables the async execution
// endpoint.
func NewAPI(
	logger *slog.Logger,
	p persistence.Persistence,
	reg *registry.Registry,
	enqueuer web.ExecutionEnqueuer,
) (*API, error) {
	return &API{
		logger:      logger,
		persistence: p,
		registry:    reg,
		enqueuer:    enqueuer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

func (a *API) App() (*fiber.App, error) {
	workflowService, err := services.NewWorkflow(a.persistence, a.logger)
	if err != nil {
		return nil, err
	}

	executionService := services.NewExecution(a.persistence, a.logger)
	executor := engine.New(
		a.persistence.WorkflowRepository(),
		a.persistence.ExecutionRepository(),
		a.registry,
		a.logger,
	)

	handlers := web.NewAPIHandlers(
		workflowService,
		executionService,
		executor,
		a.enqueuer,
		a.validate,
		a.registry,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("aiflow API")
	})

	web.Router(app, handlers)

	return app, nil
}

func (a *API) Start(port int) error {
	app, err := a.App()
	if err != nil {
		return err
	}

	return app.Listen(":" + strconv.Itoa(port))
}
