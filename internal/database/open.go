// Package database opens the connections the importer executes statements
// against. The driver is chosen from the URL scheme.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/sheet2db/internal/core"
)

// Conn is an open database handle the importer can execute against.
type Conn interface {
	core.Executor
	Ping(ctx context.Context) error
	Close() error
}

// Driver names returned by DriverFor.
const (
	DriverPostgres = "postgres"
	DriverLibSQL   = "libsql"
	DriverDuckDB   = "duckdb"
)

// ErrUnsupportedURL is returned for URLs whose scheme no driver handles.
var ErrUnsupportedURL = errors.New("unsupported database url")

// Options tunes connection setup. Zero values fall back to driver defaults.
type Options struct {
	ConnectTimeout  time.Duration
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DriverFor maps a database URL to a driver name.
//
//	postgres://, postgresql://        -> postgres (pgx)
//	libsql://, http(s)://, ws(s)://   -> libsql
//	duckdb:<path>                     -> duckdb
func DriverFor(dsn string) (string, error) {
	scheme, _, ok := strings.Cut(dsn, ":")
	if !ok {
		return "", fmt.Errorf("%w: missing scheme", ErrUnsupportedURL)
	}
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "libsql", "http", "https", "ws", "wss":
		return DriverLibSQL, nil
	case "duckdb":
		return DriverDuckDB, nil
	default:
		return "", fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, scheme)
	}
}

// Open connects to dsn and verifies the connection with a ping bounded by
// opts.ConnectTimeout. The caller owns the returned Conn and must Close it.
func Open(ctx context.Context, dsn string, opts Options) (Conn, error) {
	driver, err := DriverFor(dsn)
	if err != nil {
		return nil, err
	}

	var conn Conn
	switch driver {
	case DriverPostgres:
		conn, err = openPostgres(ctx, dsn, opts)
	case DriverLibSQL:
		conn, err = openSQL("libsql", dsn, opts)
	case DriverDuckDB:
		conn, err = openSQL("duckdb", duckDBPath(dsn), opts)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	pingCtx := ctx
	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}
	if err := conn.Ping(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return conn, nil
}

// duckDBPath strips the scheme; "duckdb:" alone opens an in-memory database.
func duckDBPath(dsn string) string {
	path := dsn[len("duckdb:"):]
	return strings.TrimPrefix(path, "//")
}
