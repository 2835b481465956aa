// Package migrations applies the embedded SQL files in lexical order and
// records each one in public.schema_migrations_schedule.
package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed *.sql
var files embed.FS

// Names lists the embedded migrations in apply order.
func Names() ([]string, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list embedded migrations: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Up applies every migration not yet recorded. It returns how many ran.
func Up(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	if pool == nil {
		return 0, errors.New("pool is required")
	}

	if _, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS public.schema_migrations_schedule (
	filename text PRIMARY KEY,
	applied_at timestamptz NOT NULL DEFAULT now()
)`); err != nil {
		return 0, fmt.Errorf("ensure migration table: %w", err)
	}

	names, err := Names()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, name := range names {
		var done bool
		if err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM public.schema_migrations_schedule WHERE filename = $1)`, name,
		).Scan(&done); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", name, err)
		}
		if done {
			continue
		}

		sqlBytes, err := files.ReadFile(name)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}

		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO public.schema_migrations_schedule (filename) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			if !isIgnorable(err) {
				return applied, fmt.Errorf("apply migration %s: %w", name, err)
			}
			slog.Warn("migration already applied out of band", "file", name, "error", err)
			if _, err := pool.Exec(ctx,
				`INSERT INTO public.schema_migrations_schedule (filename) VALUES ($1) ON CONFLICT (filename) DO NOTHING`, name,
			); err != nil {
				return applied, fmt.Errorf("record migration %s after ignored error: %w", name, err)
			}
			continue
		}

		slog.Info("applied migration", "file", name)
		applied++
	}

	return applied, nil
}

func isIgnorable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case "42P07", // duplicate_table
		"42710", // duplicate_object
		"42P06", // duplicate_schema
		"42701": // duplicate_column
		return true
	default:
		return false
	}
}
