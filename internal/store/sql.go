package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/site-payouts/internal/allocation"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names a database/sql driver supported by SQL.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// SQL stores each tenant's data as a JSON document in one row.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQL connects to the database, verifies the connection and creates the
// schema.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string) (*SQL, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// one writer at a time, and :memory: stays a single database
		db.SetMaxOpenConns(1)
	}

	s, err := NewSQL(ctx, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQL wraps an open database and creates the schema.
func NewSQL(ctx context.Context, db *sql.DB, dialect Dialect) (*SQL, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	s := &SQL{db: db, dialect: dialect}
	if err := s.CreateSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func (s *SQL) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS tenant_data (
    tenant_id TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at BIGINT NOT NULL
);
`

func (s *SQL) Get(ctx context.Context, tenantID string) (allocation.Data, error) {
	if err := checkTenant(tenantID); err != nil {
		return allocation.Data{}, err
	}

	var payload string
	query := s.bind(`SELECT payload FROM tenant_data WHERE tenant_id = ?`)
	err := s.db.QueryRowContext(ctx, query, tenantID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return allocation.Data{}, ErrNotFound
	}
	if err != nil {
		return allocation.Data{}, fmt.Errorf("failed to load tenant data: %w", err)
	}
	return decode([]byte(payload))
}

func (s *SQL) Put(ctx context.Context, tenantID string, data allocation.Data) error {
	if err := checkTenant(tenantID); err != nil {
		return err
	}
	payload, err := encode(data)
	if err != nil {
		return err
	}

	query := s.bind(`
INSERT INTO tenant_data (tenant_id, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT (tenant_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`)
	if _, err := s.db.ExecContext(ctx, query, tenantID, string(payload), time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save tenant data: %w", err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}

// bind rewrites ? placeholders to $n for postgres.
func (s *SQL) bind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
