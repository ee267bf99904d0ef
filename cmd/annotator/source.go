package main

import (
	"context"
	"fmt"

	"github.com/teebox/annotator/internal/api"
	"github.com/teebox/annotator/internal/config"
	"github.com/teebox/annotator/internal/database"
	"github.com/teebox/annotator/internal/storage"
	"github.com/teebox/annotator/internal/storage/gormstore"
)

func noopClose() error { return nil }

// openSource creates the configured course source. The returned func
// releases it.
func openSource(ctx context.Context, cfg config.SourceConfig) (storage.CourseSource, func() error, error) {
	switch cfg.Type {
	case "api", "":
		Logger.Debug("Using REST course source", "url", cfg.ServerURL)
		return api.New(cfg.ServerURL), noopClose, nil
	case "sqlite", "postgres":
		return openStore(ctx, cfg.Type, cfg.SqlitePath)
	default:
		return nil, nil, fmt.Errorf("unknown source type %q", cfg.Type)
	}
}

// openStore connects the local mirror. A postgres mirror that cannot be
// reached falls back to the sqlite file.
func openStore(ctx context.Context, driver, sqlitePath string) (*gormstore.Store, func() error, error) {
	m := database.NewManager(ZLogger.With().Str("component", "database").Logger(), sqlitePath)
	if err := m.Connect(driver); err != nil {
		return nil, nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if m.ShouldSaveLocal && driver != "sqlite" {
		Logger.Warn("Using local SQLite mirror instead of Postgres", "path", sqlitePath)
	}

	if err := m.Setup(); err != nil {
		m.Close()
		return nil, nil, err
	}
	return gormstore.New(m.DB.WithContext(ctx), ZLogger.With().Str("component", "gormstore").Logger()), m.Close, nil
}
