package service

import (
	"context"
	"time"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/utils"
)

// StartParkingInput carries everything needed to admit a vehicle to a spot.
// EntryTime defaults to the injected clock when nil. IdempotencyKey, when
// set, lets a client retry a timed-out request and get the original
// reservation back instead of a double booking.
type StartParkingInput struct {
	CustomerID       int32
	VehicleID        int32
	SpotID           int32
	EntryTime        *time.Time
	ExpectedExitTime *time.Time
	IdempotencyKey   string
}

// ParkingService is the single authority over reservation and spot state.
// No other component flips a spot's or reservation's status.
type ParkingService interface {
	StartParking(ctx context.Context, in StartParkingInput) (*domain.Reservation, error)
	CompleteParking(ctx context.Context, reservationID int32, exitTime *time.Time) (*domain.Reservation, error)
	CancelParking(ctx context.Context, reservationID int32) (*domain.Reservation, error)
	OperatorFinalize(ctx context.Context, operatorID, reservationID int32, exitTime *time.Time, overrideAmountCents *int64) (*domain.Reservation, error)
	SearchByPlate(ctx context.Context, plate string) ([]domain.Reservation, error)
	ActiveReservationForSpot(ctx context.Context, spotID int32) (*domain.Reservation, error)
	EstimateParkingFee(ctx context.Context, reservationID int32) (utils.ParkingFeeBreakdown, error)
}

type SpotService interface {
	CreateSpot(ctx context.Context, operatorID int32, number string, spotType domain.SpotType, hourlyRateCents int64) (*domain.ParkingSpot, error)
	GetSpot(ctx context.Context, id int32) (*domain.ParkingSpot, error)
	ListSpots(ctx context.Context, status string, page, pageSize int32) ([]domain.ParkingSpot, int32, error)
	ListSpotsByOperator(ctx context.Context, operatorID int32) ([]domain.ParkingSpot, error)
	UpdateHourlyRate(ctx context.Context, operatorID, spotID int32, hourlyRateCents int64) (*domain.ParkingSpot, error)
	SetSpotStatus(ctx context.Context, operatorID, spotID int32, status domain.SpotStatus) (*domain.ParkingSpot, error)
}

type CustomerService interface {
	RegisterCustomer(ctx context.Context, name, email, phone string) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id int32) (*domain.Customer, error)
	AddVehicle(ctx context.Context, customerID int32, plate, model string, vehicleType domain.VehicleType) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, customerID int32) ([]domain.Vehicle, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	CreateOperator(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, error)
}

type NotificationService interface {
	ListNotifications(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, customerID, notificationID int32) error
}

type EmailService interface {
	SendReservationConfirmation(ctx context.Context, email, name, spotNumber, plate string) error
	SendParkingReceipt(ctx context.Context, email, name, spotNumber string, amountCents int64, entryTime, exitTime time.Time) error
	SendOverstayReminder(ctx context.Context, email, name, spotNumber string, expectedExit time.Time) error
}

// Clock abstracts the current time so the core stays deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
