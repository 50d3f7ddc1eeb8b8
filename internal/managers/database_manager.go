package managers

import (
	"context"
	"time"

	"url-shrinker/internal/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// DatabaseMgr hands out the shared connection pool of the server.
type DatabaseMgr interface {
	GetPool() interfaces.PgxPoolIface
}

// DatabaseManager owns the pool created at boot.
type DatabaseManager struct {
	Pool interfaces.PgxPoolIface
}

// GetPool returns the database connection pool managed by the DatabaseManager.
func (dbMgr *DatabaseManager) GetPool() interfaces.PgxPoolIface {
	return dbMgr.Pool
}

// NewDatabaseManager wraps an existing pool, tests pass a pgxmock pool here.
func NewDatabaseManager(pool interfaces.PgxPoolIface) DatabaseMgr {
	log.Info("Initializing database manager")
	return &DatabaseManager{Pool: pool}
}

// NewPool parses databaseURL, applies the pool limits of the server and verifies connectivity.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = 30
	poolConfig.MinConns = 5
	poolConfig.MaxConnIdleTime = 2 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("Connected to database")
	return pool, nil
}
