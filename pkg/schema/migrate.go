package schema

import (
	"context"
	"database/sql"
	"embed"

	gerrors "github.com/go-faster/errors"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

// migrationsDir is where every module keeps its embedded goose files,
// relative to the module's module.go.
const migrationsDir = "infrastructure/persistence/migrations"

// Migrate applies each registered module's migrations in order. Version
// numbers are global, so a module's files must slot after the modules it
// depends on.
func Migrate(ctx context.Context, dsn string, filesystems []*embed.FS, log *logrus.Logger) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return gerrors.Wrap(err, "failed to open migration connection")
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("failed to close migration connection")
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	goose.SetLogger(log)

	for _, fsys := range filesystems {
		goose.SetBaseFS(fsys)
		if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
			return gerrors.Wrap(err, "migration failed")
		}
	}
	goose.SetBaseFS(nil)
	return nil
}

// Rollback walks module migrations back one step each, newest module first.
func Rollback(ctx context.Context, dsn string, filesystems []*embed.FS, log *logrus.Logger) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return gerrors.Wrap(err, "failed to open migration connection")
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("failed to close migration connection")
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	goose.SetLogger(log)

	for i := len(filesystems) - 1; i >= 0; i-- {
		goose.SetBaseFS(filesystems[i])
		if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
			return gerrors.Wrap(err, "rollback failed")
		}
	}
	goose.SetBaseFS(nil)
	return nil
}
