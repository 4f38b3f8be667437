// Package cmd provides common initialization shared by the aiflow binaries.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/ai"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/fileops"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/registry"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/script"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/software"
)

// CollaboratorConfig selects which external collaborators to wire up. Empty
// fields leave the matching collaborator nil; nodes that need it then fail
// with a configuration error when reached.
type CollaboratorConfig struct {
	OpenAIKey           string
	OpenAIModel         string
	ScriptWorkDir       string
	SoftwareInstallDir  string
	SoftwareCatalogPath string
	FilesBaseDir        string
}

// NewRegistry builds the node registry with the configured collaborators.
func NewRegistry(logger *slog.Logger, cfg CollaboratorConfig) (*registry.Registry, error) {
	collaborators, err := newCollaborators(logger, cfg)
	if err != nil {
		return nil, err
	}

	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultNodes(collaborators)

	return reg, nil
}

func newCollaborators(logger *slog.Logger, cfg CollaboratorConfig) (registry.Collaborators, error) {
	var collaborators registry.Collaborators

	if cfg.OpenAIKey != "" {
		provider, err := ai.NewOpenAIProviderFromKey(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			return collaborators, fmt.Errorf("failed to create AI provider: %w", err)
		}

		collaborators.AI = provider
	}

	if cfg.ScriptWorkDir != "" {
		runner, err := script.NewRunner(logger, cfg.ScriptWorkDir, script.DefaultTimeout, script.DefaultOutputCap)
		if err != nil {
			return collaborators, fmt.Errorf("failed to create script runner: %w", err)
		}

		collaborators.Scripts = runner
	}

	if cfg.SoftwareInstallDir != "" {
		var catalog []software.CatalogEntry

		if cfg.SoftwareCatalogPath != "" {
			loaded, err := software.LoadCatalog(cfg.SoftwareCatalogPath)
			if err != nil {
				return collaborators, err
			}

			catalog = loaded
		}

		integrator, err := software.NewIntegrator(logger, cfg.SoftwareInstallDir, catalog, nil)
		if err != nil {
			return collaborators, fmt.Errorf("failed to create software integrator: %w", err)
		}

		collaborators.Software = integrator
	}

	if cfg.FilesBaseDir != "" {
		manager, err := fileops.NewManager(logger, cfg.FilesBaseDir)
		if err != nil {
			return collaborators, fmt.Errorf("failed to create file manager: %w", err)
		}

		collaborators.Files = manager
	}

	return collaborators, nil
}
