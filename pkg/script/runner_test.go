package script_test

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/script"
)

func newTestRunner(t *testing.T) *script.Runner {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	runner, err := script.NewRunner(logger, t.TempDir(), 5*time.Second, 1024)
	require.NoError(t, err)

	return runner
}

func TestValidateScript(t *testing.T) {
	runner := newTestRunner(t)

	tests := []struct {
		name     string
		source   string
		language string
		valid    bool
	}{
		{"clean javascript", "console.log('hi')", script.LanguageTypeScript, true},
		{"clean python", "print('hi')", script.LanguagePython, true},
		{"spawns process", "require('child_process').exec('ls')", script.LanguageTypeScript, false},
		{"raw fs import", "const fs = require('fs')", script.LanguageTypeScript, false},
		{"dynamic eval", "eval('1+1')", script.LanguageTypeScript, false},
		{"python subprocess", "import subprocess", script.LanguagePython, false},
		{"python dunder import", "__import__('os')", script.LanguagePython, false},
		{"empty source", "   ", script.LanguagePython, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validation := runner.ValidateScript(tt.source, tt.language)
			assert.Equal(t, tt.valid, validation.Valid)

			if !tt.valid {
				assert.NotEmpty(t, validation.Errors)
			}
		})
	}
}

func TestValidateScript_UnknownLanguage(t *testing.T) {
	runner := newTestRunner(t)

	validation := runner.ValidateScript("puts 'hi'", "ruby")
	assert.False(t, validation.Valid)
	assert.Contains(t, validation.Errors[0], "unsupported")
}

func TestExecute_DenylistedSourceFailsWithoutRunning(t *testing.T) {
	runner := newTestRunner(t)

	result, err := runner.ExecuteTypeScript(context.Background(),
		"require('child_process').exec('rm -rf /')", nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "child_process")
	assert.Empty(t, result.Output)
}

func TestExecute_UnknownScriptID(t *testing.T) {
	runner := newTestRunner(t)

	_, err := runner.Execute(context.Background(), "no-such-script", nil)
	assert.ErrorContains(t, err, "not found")
}

func TestExecute_RejectsPathTraversalID(t *testing.T) {
	runner := newTestRunner(t)

	_, err := runner.Execute(context.Background(), "../etc/passwd", nil)
	assert.ErrorContains(t, err, "invalid script id")
}

func TestExecutePython(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not installed")
	}

	runner := newTestRunner(t)

	result, err := runner.ExecutePython(context.Background(), "print('hello from python')", nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Contains(t, result.Output, "hello from python")
	assert.Equal(t, 0, result.ExitCode)
}

func TestExecutePython_NonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not installed")
	}

	runner := newTestRunner(t)

	result, err := runner.ExecutePython(context.Background(), "raise ValueError('boom')", nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.NotEqual(t, 0, result.ExitCode)
	assert.Contains(t, result.Error, "boom")
}

func TestExecute_LoadsLibraryScript(t *testing.T) {
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("node not installed")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	workDir := t.TempDir()

	runner, err := script.NewRunner(logger, workDir, 5*time.Second, 1024)
	require.NoError(t, err)

	libraryDir := filepath.Join(workDir, "library")
	require.NoError(t, os.MkdirAll(libraryDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(libraryDir, "greet.js"),
		[]byte("console.log('hello from library')"), 0o600))

	result, err := runner.Execute(context.Background(), "greet", nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Contains(t, result.Output, "hello from library")
}
