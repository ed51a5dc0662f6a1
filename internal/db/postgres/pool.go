// Package postgres serves grid pages from a PostgreSQL table.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// Pool wraps pgxpool with our configuration
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool creates a new connection pool and checks that the server answers.
// A DSN without a password is completed from passwords when it is non-nil.
func NewPool(ctx context.Context, dsn string, passwords *PasswordStore) (*Pool, error) {
	poolConfig, err := ParseConfig(dsn, passwords)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// ParseConfig parses a DSN and applies the pool limits
func ParseConfig(dsn string, passwords *PasswordStore) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	if passwords != nil {
		if _, err := passwords.fill(&poolConfig.ConnConfig.Config); err != nil {
			return nil, err
		}
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	return poolConfig, nil
}

// Close closes the connection pool
func (p *Pool) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Query executes a query and returns each row keyed by column name
func (p *Pool) Query(ctx context.Context, sql string, args ...any) ([]models.Row, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.Row{}
	fieldDescriptions := rows.FieldDescriptions()

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		row := make(models.Row, len(fieldDescriptions))
		for i, fd := range fieldDescriptions {
			row[fd.Name] = values[i]
		}
		results = append(results, row)
	}

	return results, rows.Err()
}
