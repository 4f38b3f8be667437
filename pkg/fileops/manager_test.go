package fileops_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/fileops"
)

func newTestManager(t *testing.T) *fileops.Manager {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	manager, err := fileops.NewManager(logger, t.TempDir())
	require.NoError(t, err)

	return manager
}

func TestWriteAndReadFile(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	written, err := manager.WriteFile(ctx, "reports/summary.txt", "all good")
	require.NoError(t, err)

	assert.Equal(t, "written", written.Status)
	assert.Equal(t, int64(8), written.Size)

	read, err := manager.ReadFile(ctx, "reports/summary.txt")
	require.NoError(t, err)

	assert.Equal(t, "read", read.Status)
	assert.Equal(t, "all good", read.Content)
	assert.Equal(t, int64(8), read.Size)
}

func TestReadFile_Missing(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.ReadFile(context.Background(), "missing.txt")
	assert.Error(t, err)
}

func TestDeleteFile(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	_, err := manager.WriteFile(ctx, "scratch.txt", "x")
	require.NoError(t, err)

	deleted, err := manager.DeleteFile(ctx, "scratch.txt")
	require.NoError(t, err)
	assert.Equal(t, "deleted", deleted.Status)

	_, err = manager.ReadFile(ctx, "scratch.txt")
	assert.Error(t, err)
}

func TestDeleteFile_RejectsFolder(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	_, err := manager.CreateFolder(ctx, "stuff")
	require.NoError(t, err)

	_, err = manager.DeleteFile(ctx, "stuff")
	assert.ErrorContains(t, err, "folder")
}

func TestCreateAndDeleteFolder(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	created, err := manager.CreateFolder(ctx, "assets/images")
	require.NoError(t, err)
	assert.Equal(t, "created", created.Status)

	_, err = manager.WriteFile(ctx, "assets/images/logo.svg", "<svg/>")
	require.NoError(t, err)

	deleted, err := manager.DeleteFolder(ctx, "assets")
	require.NoError(t, err)
	assert.Equal(t, "deleted", deleted.Status)

	_, err = manager.ReadFile(ctx, "assets/images/logo.svg")
	assert.Error(t, err)
}

func TestSandboxEscapesRejected(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	_, err := manager.ReadFile(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, fileops.ErrOutsideSandbox)

	_, err = manager.WriteFile(ctx, "../outside.txt", "nope")
	assert.ErrorIs(t, err, fileops.ErrOutsideSandbox)

	_, err = manager.DeleteFolder(ctx, "..")
	assert.ErrorIs(t, err, fileops.ErrOutsideSandbox)
}

func TestDeleteFolder_SandboxRootProtected(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.DeleteFolder(context.Background(), ".")
	assert.ErrorContains(t, err, "sandbox root")
}
