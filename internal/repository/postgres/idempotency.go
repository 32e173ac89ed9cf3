package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/repository"
)

type idempotencyKeyRepository struct {
	db DBTX
}

func NewIdempotencyKeyRepository(db DBTX) repository.IdempotencyKeyRepository {
	return &idempotencyKeyRepository{db: db}
}

func (r *idempotencyKeyRepository) Get(ctx context.Context, key string) (int32, error) {
	var reservationID int32
	err := r.db.QueryRowContext(ctx, `SELECT reservation_id FROM idempotency_keys WHERE key = $1`, key).Scan(&reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get idempotency key: %w", err)
	}
	return reservationID, nil
}

func (r *idempotencyKeyRepository) Put(ctx context.Context, key string, reservationID int32) error {
	query := `INSERT INTO idempotency_keys (key, reservation_id, created_on) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, key, reservationID, time.Now().UTC())
	if err != nil {
		return mapError(fmt.Errorf("put idempotency key: %w", err))
	}
	return nil
}

func (r *idempotencyKeyRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM idempotency_keys WHERE created_on < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge idempotency keys: %w", err)
	}
	return res.RowsAffected()
}
