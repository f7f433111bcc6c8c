package main

import (
	"context"
	"fmt"
	"strings"

	"lorebook/internal/book"
	"lorebook/internal/config"
	"lorebook/internal/store"
	"lorebook/internal/store/postgres"
	"lorebook/internal/store/sqlite"
)

func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	dsn := cfg.Database.DSN

	var (
		db  store.Store
		err error
	)
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		db, err = sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err = postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database DSN scheme in %q", dsn)
	}
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}
	return db, nil
}

func loadBooks(cfg *config.ProjectConfig) (*book.Set, error) {
	return book.LoadSet(cfg.Books, cfg.Exclude)
}
