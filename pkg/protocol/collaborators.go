package protocol

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

// DefinitionLoader loads workflow definitions for the engine.
type DefinitionLoader interface {
	WorkflowByID(ctx context.Context, id string) (*models.WorkflowDefinition, error)
}

// ExecutionRecorder persists execution snapshots. Every update is a
// full-snapshot overwrite; the engine logs recorder failures and never lets
// them abort a run.
type ExecutionRecorder interface {
	CreateExecution(ctx context.Context, execution *models.Execution) error
	UpdateExecution(ctx context.Context, execution *models.Execution) error
}

// AIRequest is one inference call.
type AIRequest struct {
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model,omitempty"`
	MaxTokens   int     `json:"maxTokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// AIResult carries the model output plus usage accounting.
type AIResult struct {
	Message    string  `json:"message"`
	Model      string  `json:"model"`
	TokensUsed int     `json:"tokensUsed"`
	Cost       float64 `json:"cost"`
}

// AIProvider is the AI Inference collaborator used by ai_processing nodes.
type AIProvider interface {
	Chat(ctx context.Context, req AIRequest) (*AIResult, error)
}

// ScriptResult is the outcome of one sandboxed script run.
type ScriptResult struct {
	Success       bool   `json:"success"`
	Output        string `json:"output"`
	Error         string `json:"error,omitempty"`
	ExitCode      int    `json:"exitCode"`
	ExecutionTime int64  `json:"executionTime"` // milliseconds
}

// ScriptValidation is the outcome of static script validation.
type ScriptValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ScriptRunner is the Script Execution collaborator. Implementations run
// scripts in a restricted working directory with a timeout and an output cap.
type ScriptRunner interface {
	Execute(ctx context.Context, scriptIDOrSource string, params map[string]any) (*ScriptResult, error)
	ExecuteTypeScript(ctx context.Context, source string, params map[string]any) (*ScriptResult, error)
	ExecutePython(ctx context.Context, source string, params map[string]any) (*ScriptResult, error)
	ValidateScript(source, language string) *ScriptValidation
}

// IntegrationResult reports a software integration: detect, download,
// install, verify.
type IntegrationResult struct {
	Success       bool     `json:"success"`
	InstalledPath string   `json:"installedPath"`
	Version       string   `json:"version"`
	Steps         []string `json:"steps,omitempty"`
}

// SoftwareIntegrator is the Software Integration collaborator used by
// operation nodes carrying a softwareId.
type SoftwareIntegrator interface {
	Integrate(ctx context.Context, softwareID string) (*IntegrationResult, error)
}

// FileResult is the outcome of one file operation.
type FileResult struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
	Size    int64  `json:"size,omitempty"`
}

// FileManager is the File Operations collaborator, sandboxed to a base
// directory.
type FileManager interface {
	ReadFile(ctx context.Context, path string) (*FileResult, error)
	WriteFile(ctx context.Context, path, content string) (*FileResult, error)
	DeleteFile(ctx context.Context, path string) (*FileResult, error)
	CreateFolder(ctx context.Context, path string) (*FileResult, error)
	DeleteFolder(ctx context.Context, path string) (*FileResult, error)
}
