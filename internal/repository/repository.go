package repository

import (
	"context"
	"time"

	"parkwise-backend/internal/domain"
)

type SpotRepository interface {
	Create(ctx context.Context, spot *domain.ParkingSpot) error
	GetByID(ctx context.Context, id int32) (*domain.ParkingSpot, error)
	// GetByIDForUpdate locks the spot row for the duration of the enclosing
	// transaction. Only meaningful inside WithinTx.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.ParkingSpot, error)
	Update(ctx context.Context, spot *domain.ParkingSpot) error
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.ParkingSpot, int32, error)
	ListByOperator(ctx context.Context, operatorID int32) ([]domain.ParkingSpot, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, rsv *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Reservation, error)
	Update(ctx context.Context, rsv *domain.Reservation) error
	// FindActiveBySpot and FindActiveByVehicle return (nil, nil) when no
	// active reservation exists.
	FindActiveBySpot(ctx context.Context, spotID int32) (*domain.Reservation, error)
	FindActiveByVehicle(ctx context.Context, vehicleID int32) (*domain.Reservation, error)
	SearchByPlate(ctx context.Context, plate string) ([]domain.Reservation, error)
	ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListActivePastExpectedExit(ctx context.Context, asOf time.Time) ([]domain.Reservation, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
	ListByCustomer(ctx context.Context, customerID int32) ([]domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, customerID int32) error
}

// IdempotencyKeyRepository maps client-supplied idempotency keys to the
// reservation they produced, so a retried StartParking returns the original
// outcome instead of double-booking.
type IdempotencyKeyRepository interface {
	Get(ctx context.Context, key string) (int32, error)
	Put(ctx context.Context, key string, reservationID int32) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// TxStore is the slice of the store visible inside one transaction. Every
// read-check-write sequence of the parking service runs through it so that
// spot and reservation changes commit as a single atomic unit.
type TxStore interface {
	Spots() SpotRepository
	Reservations() ReservationRepository
	IdempotencyKeys() IdempotencyKeyRepository
}

// Transactor runs fn inside a database transaction. A returned error rolls
// the transaction back; serialization failures and unique violations surface
// as domain.ErrConflict.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(TxStore) error) error
}
