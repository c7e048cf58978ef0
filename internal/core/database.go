package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/duynhne/user-profile-service/config"
	"github.com/duynhne/user-profile-service/internal/core/domain"
)

// ErrPoolClosed is returned by queries issued on a nil pool.
var ErrPoolClosed = fmt.Errorf("database pool is closed: %w", domain.ErrDatabaseUnavailable)

// Pool is the bounded set of PostgreSQL connections shared by all requests.
// It is constructed once in main and handed to the repository.
type Pool struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// ConnectionCheck is the outcome of a single round-trip to the database.
type ConnectionCheck struct {
	Connected bool       `json:"connected"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// PoolStatus reports pool counters without touching the database.
type PoolStatus struct {
	TotalCount        int32 `json:"totalCount"`
	IdleCount         int32 `json:"idleCount"`
	AcquiredCount     int32 `json:"acquiredCount"`
	ConstructingCount int32 `json:"constructingCount"`
	MaxConns          int32 `json:"maxConns"`
	EmptyAcquireCount int64 `json:"emptyAcquireCount"`
}

// Connect builds the connection pool using pgx/v5. The pool connects lazily;
// call CheckConnection to verify the database is reachable.
//
// IMPORTANT: We use SimpleProtocol mode and disable statement caching to work correctly
// with transaction-mode connection poolers (PgCat/PgBouncer). Without this, you may see:
//
//	"prepared statement stmtcache_* does not exist"
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	if cfg.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.IdleTimeout > 0 {
		poolCfg.MaxConnIdleTime = cfg.IdleTimeout
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.StatementCacheCapacity = 0
	poolCfg.ConnConfig.DescriptionCacheCapacity = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &Pool{pool: pool, acquireTimeout: cfg.ConnectTimeout}, nil
}

// CheckConnection runs SELECT NOW() on a pooled connection.
// Failures are reported in the result, never returned as an error.
func (p *Pool) CheckConnection(ctx context.Context) ConnectionCheck {
	var now time.Time
	if err := p.QueryRow(ctx, "SELECT NOW()").Scan(&now); err != nil {
		return ConnectionCheck{
			Connected: false,
			Message:   "Database connection failed",
			Error:     err.Error(),
		}
	}
	return ConnectionCheck{
		Connected: true,
		Message:   "Database connection is healthy",
		Timestamp: &now,
	}
}

// Status returns current pool counters.
func (p *Pool) Status() PoolStatus {
	if p == nil || p.pool == nil {
		return PoolStatus{}
	}
	stat := p.pool.Stat()
	return PoolStatus{
		TotalCount:        stat.TotalConns(),
		IdleCount:         stat.IdleConns(),
		AcquiredCount:     stat.AcquiredConns(),
		ConstructingCount: stat.ConstructingConns(),
		MaxConns:          stat.MaxConns(),
		EmptyAcquireCount: stat.EmptyAcquireCount(),
	}
}

// Close waits for acquired connections to be released and closes the pool.
func (p *Pool) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

// SQLDB exposes the pool through database/sql for tooling such as goose.
// Closing the returned *sql.DB does not close the pool.
func (p *Pool) SQLDB() *sql.DB {
	return stdlib.OpenDBFromPool(p.pool)
}

// Exec acquires a connection (bounded wait) and executes query on it.
func (p *Pool) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	conn, err := p.acquire(ctx)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	defer conn.Release()
	return conn.Exec(context.WithoutCancel(ctx), query, args...)
}

// Query acquires a connection (bounded wait) and runs query on it. The connection
// returns to the pool when the rows are closed.
func (p *Pool) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	conn, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(context.WithoutCancel(ctx), query, args...)
	if err != nil {
		conn.Release()
		return nil, err
	}
	return &connRows{Rows: rows, conn: conn}, nil
}

// QueryRow acquires a connection (bounded wait) and runs query on it. The connection
// returns to the pool after Scan.
func (p *Pool) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	conn, err := p.acquire(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return &connRow{row: conn.QueryRow(context.WithoutCancel(ctx), query, args...), conn: conn}
}

// acquire waits at most acquireTimeout for a free connection. A client
// disconnect does not abort the wait or the statement that follows.
func (p *Pool) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	if p == nil || p.pool == nil {
		return nil, ErrPoolClosed
	}
	acquireCtx := context.WithoutCancel(ctx)
	if p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(acquireCtx, p.acquireTimeout)
		defer cancel()
	}
	conn, err := p.pool.Acquire(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout acquiring connection after %s: %w", p.acquireTimeout, err)
		}
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}

type connRows struct {
	pgx.Rows
	conn *pgxpool.Conn
}

func (r *connRows) Next() bool {
	if r.Rows.Next() {
		return true
	}
	r.Close()
	return false
}

func (r *connRows) Close() {
	r.Rows.Close()
	r.conn.Release()
}

type connRow struct {
	row  pgx.Row
	conn *pgxpool.Conn
}

func (r *connRow) Scan(dest ...any) error {
	defer r.conn.Release()
	return r.row.Scan(dest...)
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
