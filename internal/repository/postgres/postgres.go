package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository works
// unchanged inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.SpotRepository
	repository.ReservationRepository
	repository.CustomerRepository
	repository.VehicleRepository
	repository.UserRepository
	repository.NotificationRepository
	repository.IdempotencyKeyRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                       db,
		SpotRepository:           NewSpotRepository(db),
		ReservationRepository:    NewReservationRepository(db),
		CustomerRepository:       NewCustomerRepository(db),
		VehicleRepository:        NewVehicleRepository(db),
		UserRepository:           NewUserRepository(db),
		NotificationRepository:   NewNotificationRepository(db),
		IdempotencyKeyRepository: NewIdempotencyKeyRepository(db),
	}
}

type txStore struct {
	spots        repository.SpotRepository
	reservations repository.ReservationRepository
	idempotency  repository.IdempotencyKeyRepository
}

func (t *txStore) Spots() repository.SpotRepository                   { return t.spots }
func (t *txStore) Reservations() repository.ReservationRepository     { return t.reservations }
func (t *txStore) IdempotencyKeys() repository.IdempotencyKeyRepository { return t.idempotency }

// WithinTx runs fn in a single database transaction. The locking contract of
// the parking service (SELECT ... FOR UPDATE on the spot aggregate) only
// holds inside this scope.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.TxStore) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	store := &txStore{
		spots:        NewSpotRepository(tx),
		reservations: NewReservationRepository(tx),
		idempotency:  NewIdempotencyKeyRepository(tx),
	}

	if err := fn(store); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError(err)
	}
	return nil
}

// mapError translates driver-level failures into domain errors. Unique
// violations and serialization failures mean a concurrent request won the
// race, which callers may retry.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505", "40001", "55P03":
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
	}
	return err
}
