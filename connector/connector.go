package connector

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/eager/database"
	"github.com/Konsultn-Engineering/eager/dialect"
)

type Connection interface {
	DB() *sql.DB
	Database() database.Database
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

type Connector interface {
	Connect(ctx context.Context) (Connection, error)
	Close() error
}

type Provider interface {
	Connect(ctx context.Context, config Config) (Connection, error)
	Dialect() dialect.Dialect
}
