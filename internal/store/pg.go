// Package store is the PostgreSQL adapter: table-existence
// introspection for the registry and transactional DDL execution for
// the orchestrator.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hurou927/pg-parting/internal/config"
	"github.com/hurou927/pg-parting/internal/ddl"
	"github.com/hurou927/pg-parting/internal/schema"
)

// duplicateTable is the SQLSTATE PostgreSQL raises when a CREATE TABLE
// loses a race with another session.
const duplicateTable = "42P07"

// PG executes against a PostgreSQL database through a pgx pool.
type PG struct {
	pool   *pgxpool.Pool
	schema string
}

// Connect builds a pooled connection from config and verifies it with
// a ping.
func Connect(ctx context.Context, cfg *config.Connection) (*PG, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PG{pool: pool, schema: "public"}, nil
}

// NewWithPool wraps an existing pool; searchSchema defaults to public.
func NewWithPool(pool *pgxpool.Pool, searchSchema string) *PG {
	if searchSchema == "" {
		searchSchema = "public"
	}
	return &PG{pool: pool, schema: searchSchema}
}

// Close releases the underlying pool.
func (s *PG) Close() {
	s.pool.Close()
}

// TableExists checks pg_catalog for an ordinary table with the given
// name in the configured schema.
func (s *PG) TableExists(ctx context.Context, table string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM pg_class c
			JOIN pg_namespace n ON n.oid = c.relnamespace
			WHERE c.relkind = 'r'
				AND n.nspname = $1
				AND c.relname = $2
		)
	`
	var exists bool
	if err := s.pool.QueryRow(ctx, query, s.schema, table).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking existence of %s: %w", table, err)
	}
	return exists, nil
}

// TablesWithPrefix lists ordinary tables whose names start with the
// given prefix, sorted by name. Used to enumerate the partitions of an
// entity that exist in the database.
func (s *PG) TablesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	const query = `
		SELECT c.relname
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relkind = 'r'
			AND n.nspname = $1
			AND c.relname LIKE $2 || '%'
		ORDER BY c.relname
	`
	rows, err := s.pool.Query(ctx, query, s.schema, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing tables with prefix %s: %w", prefix, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ExecDDL runs one partition's statement batch inside a single
// transaction, so a failure never leaves a half-created table visible.
// A duplicate-table rejection is reported as *schema.AlreadyExistsError
// for the caller to treat as benign; any other rejection is wrapped in
// *schema.DDLExecutionError carrying the offending statement.
func (s *PG) ExecDDL(ctx context.Context, stmts []ddl.Statement) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning DDL transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt.SQL); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == duplicateTable {
				return &schema.AlreadyExistsError{Table: stmt.Table, Err: err}
			}
			return &schema.DDLExecutionError{Statement: stmt.SQL, Err: err}
		}
	}

	return tx.Commit(ctx)
}
