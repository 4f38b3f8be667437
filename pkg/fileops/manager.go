// Package fileops implements the File Operations collaborator: file and
// folder primitives sandboxed to a base directory. Paths are relative to the
// base; anything resolving outside it is rejected.
package fileops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// ErrOutsideSandbox marks a path escaping the base directory.
var ErrOutsideSandbox = errors.New("path escapes the sandbox")

// Manager implements protocol.FileManager.
type Manager struct {
	baseDir string
	logger  *slog.Logger
}

// NewManager creates a manager rooted at baseDir, creating it if needed.
func NewManager(logger *slog.Logger, baseDir string) (*Manager, error) {
	if baseDir == "" {
		return nil, errors.New("file operations base directory is required")
	}

	absolute, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	if err := os.MkdirAll(absolute, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Manager{
		baseDir: absolute,
		logger:  logger.With("module", "file_manager"),
	}, nil
}

// resolve joins a relative path onto the base and rejects escapes.
func (m *Manager) resolve(path string) (string, error) {
	if path == "" {
		return "", errors.New("path is required")
	}

	cleaned := filepath.Clean(filepath.Join(m.baseDir, path))

	if cleaned != m.baseDir && !strings.HasPrefix(cleaned, m.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideSandbox, path)
	}

	return cleaned, nil
}

// ReadFile returns a file's content.
func (m *Manager) ReadFile(ctx context.Context, path string) (*protocol.FileResult, error) {
	resolved, err := m.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	m.logger.InfoContext(ctx, "file read", "path", path, "size", len(data))

	return &protocol.FileResult{
		Status:  "read",
		Path:    path,
		Content: string(data),
		Size:    int64(len(data)),
	}, nil
}

// WriteFile writes content, creating parent folders as needed.
func (m *Manager) WriteFile(ctx context.Context, path, content string) (*protocol.FileResult, error) {
	resolved, err := m.resolve(path)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create parent folder for %q: %w", path, err)
	}

	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file %q: %w", path, err)
	}

	m.logger.InfoContext(ctx, "file written", "path", path, "size", len(content))

	return &protocol.FileResult{
		Status: "written",
		Path:   path,
		Size:   int64(len(content)),
	}, nil
}

// DeleteFile removes a single file.
func (m *Manager) DeleteFile(ctx context.Context, path string) (*protocol.FileResult, error) {
	resolved, err := m.resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to delete file %q: %w", path, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%q is a folder, not a file", path)
	}

	if err := os.Remove(resolved); err != nil {
		return nil, fmt.Errorf("failed to delete file %q: %w", path, err)
	}

	m.logger.InfoContext(ctx, "file deleted", "path", path)

	return &protocol.FileResult{Status: "deleted", Path: path}, nil
}

// CreateFolder creates a folder and any missing parents.
func (m *Manager) CreateFolder(ctx context.Context, path string) (*protocol.FileResult, error) {
	resolved, err := m.resolve(path)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create folder %q: %w", path, err)
	}

	m.logger.InfoContext(ctx, "folder created", "path", path)

	return &protocol.FileResult{Status: "created", Path: path}, nil
}

// DeleteFolder removes a folder and its contents. The base directory itself
// cannot be deleted.
func (m *Manager) DeleteFolder(ctx context.Context, path string) (*protocol.FileResult, error) {
	resolved, err := m.resolve(path)
	if err != nil {
		return nil, err
	}

	if resolved == m.baseDir {
		return nil, errors.New("cannot delete the sandbox root")
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to delete folder %q: %w", path, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%q is a file, not a folder", path)
	}

	if err := os.RemoveAll(resolved); err != nil {
		return nil, fmt.Errorf("failed to delete folder %q: %w", path, err)
	}

	m.logger.InfoContext(ctx, "folder deleted", "path", path)

	return &protocol.FileResult{Status: "deleted", Path: path}, nil
}
