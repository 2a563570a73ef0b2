package store

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL is embedded so the relay can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// Delivery is one row of the delivery log: a summary of a send attempt.
// The hit itself is not stored and is never replayed.
type Delivery struct {
	ID         uuid.UUID
	Source     string
	HitType    string
	TrackingID string
	Outcome    string
	StatusCode int
	CreatedAt  time.Time
}

// PostgresStore persists the delivery log.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// RecordDelivery inserts d.
func (p *PostgresStore) RecordDelivery(ctx context.Context, d Delivery) error {
	if d.ID == uuid.Nil || d.Source == "" || d.Outcome == "" {
		return errors.New("delivery id/source/outcome required")
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO hit_deliveries(id, source, hit_type, tracking_id, outcome, status_code, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, d.ID, d.Source, d.HitType, d.TrackingID, d.Outcome, d.StatusCode, d.CreatedAt.UTC())

	return err
}

// CountDeliveries returns the number of deliveries for (source, hitType, outcome)
// in the time window [from,to).
func (p *PostgresStore) CountDeliveries(
	ctx context.Context,
	source string,
	hitType string,
	outcome string,
	from time.Time,
	to time.Time,
) (int64, error) {

	var count int64
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM hit_deliveries
		WHERE source=$1
		  AND hit_type=$2
		  AND outcome=$3
		  AND created_at >= $4
		  AND created_at <  $5
	`, source, hitType, outcome, from, to).Scan(&count)

	return count, err
}
