// Package migrations embeds the schema and applies it in file order.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"chiblets_lite/internal/logger"

	"github.com/jackc/pgx/v5"
)

//go:embed *.sql
var files embed.FS

// Beginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Names lists the embedded migrations in apply order.
func Names() ([]string, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Apply runs every migration in its own transaction. Migrations are
// written to be re-runnable.
func Apply(ctx context.Context, db Beginner) error {
	names, err := Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		sql, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx, string(sql))
			return err
		}); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		logger.Info("migration applied", "name", name)
	}
	return nil
}
