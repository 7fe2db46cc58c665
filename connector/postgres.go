package connector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Konsultn-Engineering/eager/database"
	"github.com/Konsultn-Engineering/eager/dialect"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

func init() {
	Register("postgres", &postgresProvider{dialect: dialect.NewPostgresDialect()})
}

type postgresProvider struct {
	dialect dialect.Dialect
}

func (p *postgresProvider) Dialect() dialect.Dialect {
	return p.dialect
}

func (p *postgresProvider) Connect(ctx context.Context, cfg Config) (Connection, error) {
	conn := &PostgresConnection{config: cfg, dialect: p.dialect}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if cfg.Retry != nil {
		if err := retryConnect(ctx, cfg.Retry, conn.connect); err != nil {
			return nil, fmt.Errorf("failed to connect after %d retries: %w", cfg.Retry.MaxRetries, err)
		}
	} else if err := conn.connect(ctx); err != nil {
		return nil, err
	}

	return conn, nil
}

// PostgresConnection represents a PostgreSQL database connection.
type PostgresConnection struct {
	config  Config
	pool    *pgxpool.Pool
	dialect dialect.Dialect
}

func (p *PostgresConnection) connect(ctx context.Context) error {
	if p.pool != nil {
		return nil
	}

	cfg := p.config
	cfg.Pool.applyDefaults()

	poolCfg, err := pgxpool.ParseConfig(p.buildDSN())
	if err != nil {
		return err
	}

	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MinConns = int32(cfg.Pool.MaxIdle)
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return err
	}

	p.pool = pool
	return nil
}

func (p *PostgresConnection) buildDSN() string {
	return NewDSNBuilder("postgres").
		Auth(p.config.Username, p.config.Password).
		Host(p.config.Host, p.config.Port).
		Database(p.config.Database).
		Param("sslmode", p.config.SSLMode).
		Params(p.config.Params).
		Build()
}

// DB returns a *sql.DB backed by the pgx pool, used for the prepared
// statement path which needs database/sql statements.
func (p *PostgresConnection) DB() *sql.DB {
	return stdlib.OpenDBFromPool(p.pool)
}

// Database returns a database abstraction interface.
func (p *PostgresConnection) Database() database.Database {
	return database.NewPgxDatabase(p.pool)
}

// Dialect returns the PostgreSQL dialect.
func (p *PostgresConnection) Dialect() dialect.Dialect {
	return p.dialect
}

// Health checks the connection health.
func (p *PostgresConnection) Health(ctx context.Context) error {
	if p.pool == nil {
		return fmt.Errorf("not connected")
	}
	return p.pool.Ping(ctx)
}

// Stats returns connection pool statistics.
func (p *PostgresConnection) Stats() ConnectionStats {
	if p.pool == nil {
		return ConnectionStats{}
	}
	s := p.pool.Stat()
	return ConnectionStats{
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
	}
}

// Close closes the connection pool.
func (p *PostgresConnection) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}

var _ Connection = (*PostgresConnection)(nil)
