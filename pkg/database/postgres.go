package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

// buildDSN creates a PostgreSQL connection string. Values are quoted so an
// empty password does not swallow the next keyword.
func buildDSN(host string, port int, user, password, dbname, sslmode string) string {
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		quote(host), port, quote(user), quote(password), quote(dbname), quote(sslmode),
	)
}

func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// NewPool opens the pgx connection pool used by the repository layer.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pcfg.MinConns = int32(cfg.MaxIdleConns)
	}
	pcfg.MaxConnLifetime = cfg.ConnMaxLifetime()

	if cfg.EnableLogging {
		pcfg.ConnConfig.Tracer = &slowQueryTracer{threshold: cfg.SlowQueryThreshold()}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// openSQLDB is used for maintenance connections (database creation) that
// must not run inside the pool.
func openSQLDB(cfg Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

type ctxKeyQueryStart struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// slowQueryTracer logs statements that exceed the configured threshold.
type slowQueryTracer struct {
	threshold time.Duration
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, ctxKeyQueryStart{}, queryStart{sql: data.SQL, start: time.Now()})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(ctxKeyQueryStart{}).(queryStart)
	if !ok {
		return
	}
	elapsed := time.Since(qs.start)
	if data.Err != nil {
		slog.DebugContext(ctx, "query failed", "sql", qs.sql, "duration_ms", elapsed.Milliseconds(), "error", data.Err)
		return
	}
	if elapsed >= t.threshold {
		slog.WarnContext(ctx, "slow query", "sql", qs.sql, "duration_ms", elapsed.Milliseconds(), "rows", data.CommandTag.RowsAffected())
	}
}
