// Package script implements the Script Execution collaborator: user scripts
// run as subprocesses inside a restricted working directory, with a timeout
// and a cap on captured output.
package script

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

const (
	// LanguageTypeScript runs through node; transpilation is the caller's
	// problem, plain JavaScript sources work as-is.
	LanguageTypeScript = "typescript"
	LanguagePython     = "python"

	DefaultTimeout   = 30 * time.Second
	DefaultOutputCap = 64 * 1024
)

// denylist holds static patterns rejected before any execution. The sandbox
// is best-effort: scripts must not spawn processes, eval dynamic code, or
// import raw filesystem/process modules.
var denylist = map[string][]string{
	LanguageTypeScript: {
		"child_process",
		"require('fs')",
		"require(\"fs\")",
		"from 'fs'",
		"from \"fs\"",
		"process.exit",
		"eval(",
		"Function(",
	},
	LanguagePython: {
		"import os",
		"import subprocess",
		"import sys",
		"from os",
		"from subprocess",
		"eval(",
		"exec(",
		"__import__",
	},
}

// interpreter maps a language to its executable and source file extension.
var interpreter = map[string]struct {
	command   string
	extension string
}{
	LanguageTypeScript: {command: "node", extension: ".js"},
	LanguagePython:     {command: "python3", extension: ".py"},
}

// Runner implements protocol.ScriptRunner. Each run gets a throwaway
// directory under workDir as its working directory and sole writable path.
type Runner struct {
	workDir   string
	timeout   time.Duration
	outputCap int
	logger    *slog.Logger
}

// NewRunner creates a runner rooted at workDir.
func NewRunner(logger *slog.Logger, workDir string, timeout time.Duration, outputCap int) (*Runner, error) {
	if workDir == "" {
		return nil, errors.New("script work directory is required")
	}

	if err := os.MkdirAll(workDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create script work directory: %w", err)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if outputCap <= 0 {
		outputCap = DefaultOutputCap
	}

	return &Runner{
		workDir:   workDir,
		timeout:   timeout,
		outputCap: outputCap,
		logger:    logger.With("module", "script_runner"),
	}, nil
}

// Execute runs a script, defaulting to the TypeScript entrypoint. A
// scriptIDOrSource that contains no newline and matches a file under the
// runner's script library is loaded from disk; anything else is treated as
// inline source.
func (r *Runner) Execute(ctx context.Context, scriptIDOrSource string, params map[string]any) (*protocol.ScriptResult, error) {
	source, err := r.resolveSource(scriptIDOrSource)
	if err != nil {
		return nil, err
	}

	return r.run(ctx, source, LanguageTypeScript, params)
}

// ExecuteTypeScript runs inline TypeScript/JavaScript source.
func (r *Runner) ExecuteTypeScript(ctx context.Context, source string, params map[string]any) (*protocol.ScriptResult, error) {
	return r.run(ctx, source, LanguageTypeScript, params)
}

// ExecutePython runs inline Python source.
func (r *Runner) ExecutePython(ctx context.Context, source string, params map[string]any) (*protocol.ScriptResult, error) {
	return r.run(ctx, source, LanguagePython, params)
}

// ValidateScript statically checks source against the language denylist.
func (r *Runner) ValidateScript(source, language string) *protocol.ScriptValidation {
	patterns, known := denylist[language]
	if !known {
		return &protocol.ScriptValidation{
			Valid:  false,
			Errors: []string{fmt.Sprintf("unsupported script language %q", language)},
		}
	}

	if strings.TrimSpace(source) == "" {
		return &protocol.ScriptValidation{
			Valid:  false,
			Errors: []string{"script source is empty"},
		}
	}

	var violations []string

	for _, pattern := range patterns {
		if strings.Contains(source, pattern) {
			violations = append(violations, fmt.Sprintf("forbidden pattern %q", pattern))
		}
	}

	if len(violations) > 0 {
		return &protocol.ScriptValidation{Valid: false, Errors: violations}
	}

	return &protocol.ScriptValidation{Valid: true}
}

// resolveSource loads a stored script when the argument looks like an id,
// otherwise returns the argument as inline source.
func (r *Runner) resolveSource(scriptIDOrSource string) (string, error) {
	if strings.ContainsAny(scriptIDOrSource, "\n;{}() ") {
		return scriptIDOrSource, nil
	}

	if scriptIDOrSource == "" || scriptIDOrSource != filepath.Base(scriptIDOrSource) {
		return "", fmt.Errorf("invalid script id %q", scriptIDOrSource)
	}

	path := filepath.Join(r.workDir, "library", scriptIDOrSource+".js")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("script %q not found", scriptIDOrSource)
		}

		return "", fmt.Errorf("failed to read script %q: %w", scriptIDOrSource, err)
	}

	return string(data), nil
}

func (r *Runner) run(ctx context.Context, source, language string, params map[string]any) (*protocol.ScriptResult, error) {
	lang, known := interpreter[language]
	if !known {
		return nil, fmt.Errorf("unsupported script language %q", language)
	}

	if validation := r.ValidateScript(source, language); !validation.Valid {
		return &protocol.ScriptResult{
			Success: false,
			Error:   strings.Join(validation.Errors, "; "),
		}, nil
	}

	runDir, err := os.MkdirTemp(r.workDir, "run-")
	if err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	defer os.RemoveAll(runDir)

	scriptPath := filepath.Join(runDir, "script"+lang.extension)
	if err := os.WriteFile(scriptPath, []byte(source), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write script file: %w", err)
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal script params: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(runCtx, lang.command, scriptPath)
	cmd.Dir = runDir
	cmd.Env = []string{
		"PATH=" + os.Getenv("PATH"),
		"SCRIPT_PARAMS=" + string(paramsJSON),
		"SCRIPT_RUN_ID=" + uuid.New().String(),
	}
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(started)

	result := &protocol.ScriptResult{
		Success:       runErr == nil,
		Output:        capOutput(stdout.String(), r.outputCap),
		ExecutionTime: elapsed.Milliseconds(),
	}

	switch {
	case runCtx.Err() != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.Success = false
		result.Error = fmt.Sprintf("script timed out after %s", r.timeout)
		result.ExitCode = -1

	case runErr != nil:
		result.Error = capOutput(stderr.String(), r.outputCap)
		if result.Error == "" {
			result.Error = runErr.Error()
		}

		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}

	r.logger.InfoContext(ctx, "script executed",
		"language", language,
		"success", result.Success,
		"exit_code", result.ExitCode,
		"duration_ms", result.ExecutionTime)

	return result, nil
}

func capOutput(output string, limit int) string {
	if len(output) <= limit {
		return output
	}

	return output[:limit] + "\n... [output truncated]"
}
