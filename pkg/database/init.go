package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/thanhyclinic/schedule_backend/config"
)

// maintenanceDB is always present on a Postgres server and is where
// CREATE DATABASE is issued from.
const maintenanceDB = "postgres"

// databaseNames lists the schedule database, the casbin policy database and
// any extra server.databases, in that order and without duplicates.
func databaseNames(cfg *config.Config) []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	add(cfg.Database.DBName)
	add(cfg.CasbinDatabase.DBName)
	for _, n := range cfg.Server.Databases {
		add(n)
	}
	return out
}

// InitializeDatabases creates every database the service needs that does
// not exist yet. It returns the names it created.
func InitializeDatabases(ctx context.Context, cfg *config.Config) ([]string, error) {
	names := databaseNames(cfg)
	if len(names) == 0 {
		return nil, errors.New("no database names configured")
	}

	admin := FromCentralConfig(cfg.Database)
	admin.DBName = maintenanceDB

	conn, err := openSQLDB(admin)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", maintenanceDB, err)
	}
	defer conn.Close()

	var created []string
	for _, name := range names {
		ok, err := createDatabaseIfNotExists(ctx, conn, name)
		if err != nil {
			return created, fmt.Errorf("database %q: %w", name, err)
		}
		if ok {
			slog.InfoContext(ctx, "created database", "name", name)
			created = append(created, name)
		}
	}
	return created, nil
}

func createDatabaseIfNotExists(ctx context.Context, conn *sql.DB, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var exists bool
	if err := conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, name).Scan(&exists); err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	// CREATE DATABASE takes no bind parameters
	if _, err := conn.ExecContext(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return false, err
	}
	return true, nil
}
