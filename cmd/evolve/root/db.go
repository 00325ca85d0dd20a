package root

import (
	"context"
	"database/sql"

	"github.com/KemboiK/evolve-bot/internal/engine"
	"github.com/KemboiK/evolve-bot/internal/storage"
)

func resolveDBPath() (string, error) {
	if flagDBPath != "" {
		return flagDBPath, nil
	}
	return storage.DefaultDBPath()
}

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	return openDBAt(ctx, path)
}

func openDBAt(ctx context.Context, path string) (*sql.DB, func(), error) {
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func openService(ctx context.Context, opts ...engine.Option) (*engine.Service, func(), error) {
	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	return engine.NewService(db, opts...), cleanup, nil
}
