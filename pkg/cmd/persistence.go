package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence/file"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence/postgresql"
)

// NewPersistence selects a store from the database URL scheme:
// postgres://... for PostgreSQL, file://<dir> (or a bare path) for the
// JSON file store.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	case strings.HasPrefix(databaseURL, "file://"):
		return file.NewPersistence(logger, strings.TrimPrefix(databaseURL, "file://")), nil
	default:
		return file.NewPersistence(logger, databaseURL), nil
	}
}
