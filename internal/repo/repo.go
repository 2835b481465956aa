// Package repo is the Postgres persistence layer for slots and accounts.
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Client owns the pool and embeds a Store bound to it.
type Client struct {
	pool *pgxpool.Pool
	*Store
}

func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool, Store: NewStore(pool)}
}

func (c *Client) Close() { c.pool.Close() }

func (c *Client) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

// Store runs queries against whatever Querier it was built with.
type Store struct {
	db Querier
}

func NewStore(db Querier) *Store {
	return &Store{db: db}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
