// Package store holds the hand-written pgx repositories and row models shared
// by the domain services. Each service declares its own narrow interface over
// the repository it needs, so tests can substitute fakes without a database.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the repositories use. *pgxpool.Pool
// and pgx.Tx both satisfy it, so repositories can run inside transactions.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
