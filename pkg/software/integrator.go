// Package software implements the Software Integration collaborator: a
// catalog-driven detect, download, install, verify pipeline for external
// tools referenced by operation nodes.
package software

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

const DefaultDownloadTimeout = 2 * time.Minute

// CatalogEntry describes one installable tool.
type CatalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	DownloadURL string `json:"download_url"`
	Executable  string `json:"executable"`
}

// Integrator implements protocol.SoftwareIntegrator. Tools install under
// installDir/<id>/<executable>; a tool already present there is detected and
// the download/install steps are skipped.
type Integrator struct {
	catalog    map[string]CatalogEntry
	installDir string
	client     *http.Client
	logger     *slog.Logger
}

// NewIntegrator creates an integrator over a catalog. A nil client gets a
// default with the download timeout.
func NewIntegrator(logger *slog.Logger, installDir string, catalog []CatalogEntry, client *http.Client) (*Integrator, error) {
	if installDir == "" {
		return nil, errors.New("software install directory is required")
	}

	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create install directory: %w", err)
	}

	if client == nil {
		client = &http.Client{Timeout: DefaultDownloadTimeout}
	}

	byID := make(map[string]CatalogEntry, len(catalog))

	for _, entry := range catalog {
		if entry.ID == "" {
			return nil, errors.New("catalog entry without id")
		}

		byID[entry.ID] = entry
	}

	return &Integrator{
		catalog:    byID,
		installDir: installDir,
		client:     client,
		logger:     logger.With("module", "software_integrator"),
	}, nil
}

// Integrate runs the detect, download, install, verify pipeline for one
// catalog entry. Already-satisfied steps are skipped and recorded as such.
func (i *Integrator) Integrate(ctx context.Context, softwareID string) (*protocol.IntegrationResult, error) {
	entry, known := i.catalog[softwareID]
	if !known {
		return nil, fmt.Errorf("software %q is not in the catalog", softwareID)
	}

	result := &protocol.IntegrationResult{Version: entry.Version}
	installedPath := filepath.Join(i.installDir, entry.ID, entry.Executable)

	if i.detect(installedPath) {
		result.Steps = append(result.Steps, "detect: already installed")
	} else {
		result.Steps = append(result.Steps, "detect: not installed")

		downloaded, err := i.download(ctx, entry)
		if err != nil {
			return nil, fmt.Errorf("failed to download %q: %w", softwareID, err)
		}

		defer os.Remove(downloaded)

		result.Steps = append(result.Steps, "download: fetched "+entry.DownloadURL)

		if err := i.install(downloaded, installedPath); err != nil {
			return nil, fmt.Errorf("failed to install %q: %w", softwareID, err)
		}

		result.Steps = append(result.Steps, "install: "+installedPath)
	}

	if err := i.verify(installedPath); err != nil {
		return nil, fmt.Errorf("failed to verify %q: %w", softwareID, err)
	}

	result.Steps = append(result.Steps, "verify: ok")
	result.Success = true
	result.InstalledPath = installedPath

	i.logger.InfoContext(ctx, "software integrated",
		"software_id", softwareID,
		"version", entry.Version,
		"path", installedPath)

	return result, nil
}

func (i *Integrator) detect(installedPath string) bool {
	info, err := os.Stat(installedPath)

	return err == nil && !info.IsDir() && info.Size() > 0
}

func (i *Integrator) download(ctx context.Context, entry CatalogEntry) (string, error) {
	if entry.DownloadURL == "" {
		return "", errors.New("catalog entry has no download URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.DownloadURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected download status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(i.installDir, "download-")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return "", err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return "", err
	}

	return tmp.Name(), nil
}

func (i *Integrator) install(downloaded, installedPath string) error {
	if err := os.MkdirAll(filepath.Dir(installedPath), 0o755); err != nil {
		return err
	}

	if err := os.Rename(downloaded, installedPath); err != nil {
		return err
	}

	return os.Chmod(installedPath, 0o755)
}

func (i *Integrator) verify(installedPath string) error {
	info, err := os.Stat(installedPath)
	if err != nil {
		return err
	}

	if info.IsDir() || info.Size() == 0 {
		return fmt.Errorf("installed artifact %q is empty", installedPath)
	}

	return nil
}
