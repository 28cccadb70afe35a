// Package pgstore keeps cart blobs in a single Postgres table, one JSONB
// payload per session, upserted last-writer-wins.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bethys-backend/config"
	"bethys-backend/internal/domain"
	"bethys-backend/internal/repository/blob"
)

// NewPgxPool creates a new pgx connection pool
func NewPgxPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	// Configure pool settings from config
	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MinConns = cfg.DBMinConns
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

type pgStore struct {
	pool *pgxpool.Pool
}

// New creates a Postgres-backed cart store and bootstraps its schema.
func New(ctx context.Context, pool *pgxpool.Pool) (domain.CartRepository, error) {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS carts (
			session_id TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create carts table: %w", err)
	}
	return &pgStore{pool: pool}, nil
}

func (s *pgStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM carts WHERE session_id = $1`, sessionID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select cart failed: %w", err)
	}
	return blob.Decode(payload)
}

func (s *pgStore) Put(ctx context.Context, sessionID string, cart *domain.Cart) error {
	payload, err := blob.Encode(cart)
	if err != nil {
		return fmt.Errorf("encode cart failed: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO carts (session_id, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		sessionID, payload)
	if err != nil {
		return fmt.Errorf("upsert cart failed: %w", err)
	}
	return nil
}

func (s *pgStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM carts WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete cart failed: %w", err)
	}
	return nil
}
