package software_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/software"
)

func newTestIntegrator(t *testing.T, catalog []software.CatalogEntry) *software.Integrator {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	integrator, err := software.NewIntegrator(logger, t.TempDir(), catalog, nil)
	require.NoError(t, err)

	return integrator
}

func TestIntegrate(t *testing.T) {
	var downloads atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		downloads.Add(1)
		_, _ = w.Write([]byte("#!/bin/sh\necho tool\n"))
	}))
	t.Cleanup(server.Close)

	integrator := newTestIntegrator(t, []software.CatalogEntry{{
		ID:          "render-tool",
		Name:        "Render Tool",
		Version:     "2.1.0",
		DownloadURL: server.URL,
		Executable:  "render",
	}})

	result, err := integrator.Integrate(context.Background(), "render-tool")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "2.1.0", result.Version)
	assert.FileExists(t, result.InstalledPath)
	assert.Equal(t, int32(1), downloads.Load())
	assert.Contains(t, result.Steps, "detect: not installed")
	assert.Contains(t, result.Steps, "verify: ok")

	// A second integration detects the install and skips the download.
	result, err = integrator.Integrate(context.Background(), "render-tool")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, int32(1), downloads.Load())
	assert.Contains(t, result.Steps, "detect: already installed")
}

func TestIntegrate_UnknownSoftware(t *testing.T) {
	integrator := newTestIntegrator(t, nil)

	_, err := integrator.Integrate(context.Background(), "ghost-tool")
	assert.ErrorContains(t, err, "not in the catalog")
}

func TestIntegrate_DownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	integrator := newTestIntegrator(t, []software.CatalogEntry{{
		ID:          "broken-tool",
		Version:     "1.0.0",
		DownloadURL: server.URL,
		Executable:  "broken",
	}})

	_, err := integrator.Integrate(context.Background(), "broken-tool")
	assert.ErrorContains(t, err, "download")
}

func TestIntegrate_EmptyArtifactFailsVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	t.Cleanup(server.Close)

	integrator := newTestIntegrator(t, []software.CatalogEntry{{
		ID:          "empty-tool",
		Version:     "1.0.0",
		DownloadURL: server.URL,
		Executable:  "empty",
	}})

	_, err := integrator.Integrate(context.Background(), "empty-tool")
	assert.ErrorContains(t, err, "verify")
}
