// Package store persists tenant data. Every backend keys one
// allocation.Data document by an opaque tenant id and is safe for
// concurrent use.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/site-payouts/internal/allocation"
	"github.com/iwvelando/site-payouts/pkg/constants"
)

var (
	// ErrNotFound is returned by Get when a tenant has saved nothing yet.
	ErrNotFound = errors.New("tenant data not found")

	// ErrInvalidTenant is returned for an empty tenant id.
	ErrInvalidTenant = errors.New("tenant id is required")
)

// Store is a tenantID -> Data key-value store.
type Store interface {
	Get(ctx context.Context, tenantID string) (allocation.Data, error)
	Put(ctx context.Context, tenantID string, data allocation.Data) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Type          string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// Open builds the backend named by opts.Type.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Type)) {
	case constants.StoreMemory:
		return NewMemory(), nil
	case constants.StoreSQLite, "":
		dsn := opts.DSN
		if dsn == "" {
			dsn = constants.DefaultSQLiteDSN
		}
		return openSQL(ctx, DialectSQLite, dsn)
	case constants.StorePostgres:
		if opts.DSN == "" {
			return nil, errors.New("postgres store requires a dsn")
		}
		return openSQL(ctx, DialectPostgres, opts.DSN)
	case constants.StoreRedis:
		r, err := OpenRedis(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			TTL:      opts.TTL,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("unsupported store type %q", opts.Type)
}

func openSQL(ctx context.Context, dialect Dialect, dsn string) (Store, error) {
	s, err := OpenSQL(ctx, dialect, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func checkTenant(tenantID string) error {
	if strings.TrimSpace(tenantID) == "" {
		return ErrInvalidTenant
	}
	return nil
}

func encode(data allocation.Data) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tenant data: %w", err)
	}
	return payload, nil
}

func decode(payload []byte) (allocation.Data, error) {
	var data allocation.Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return allocation.Data{}, fmt.Errorf("failed to decode tenant data: %w", err)
	}
	return data, nil
}
