package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/logger"
	"parkwise-backend/internal/repository"
	"parkwise-backend/internal/utils"
)

// BillingPolicy is the fraction-block configuration applied at checkout. The
// hourly rate itself comes from the spot, snapshotted onto the reservation.
type BillingPolicy struct {
	FractionBlockMinutes   int
	FractionBlockRateCents int64
}

type parkingService struct {
	tx           repository.Transactor
	spotRepo     repository.SpotRepository
	rsvRepo      repository.ReservationRepository
	customerRepo repository.CustomerRepository
	vehicleRepo  repository.VehicleRepository
	noteRepo     repository.NotificationRepository
	emailSvc     EmailService
	billing      BillingPolicy
	clock        Clock
}

func NewParkingService(
	tx repository.Transactor,
	spotRepo repository.SpotRepository,
	rsvRepo repository.ReservationRepository,
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	billing BillingPolicy,
	clock Clock,
) ParkingService {
	return &parkingService{
		tx:           tx,
		spotRepo:     spotRepo,
		rsvRepo:      rsvRepo,
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		noteRepo:     noteRepo,
		emailSvc:     emailSvc,
		billing:      billing,
		clock:        clock,
	}
}

func (s *parkingService) StartParking(ctx context.Context, in StartParkingInput) (*domain.Reservation, error) {
	entryTime := s.clock.Now()
	if in.EntryTime != nil {
		entryTime = in.EntryTime.UTC()
	}

	var rsv *domain.Reservation
	var replayed bool
	err := s.tx.WithinTx(ctx, func(store repository.TxStore) error {
		if in.IdempotencyKey != "" {
			reservationID, err := store.IdempotencyKeys().Get(ctx, in.IdempotencyKey)
			if err == nil {
				existing, err := store.Reservations().GetByID(ctx, reservationID)
				if err != nil {
					return err
				}
				rsv = existing
				replayed = true
				return nil
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}

		// Lock the spot row first; every mutation of this spot serializes here.
		spot, err := store.Spots().GetByIDForUpdate(ctx, in.SpotID)
		if err != nil {
			return err
		}

		active, err := store.Reservations().FindActiveByVehicle(ctx, in.VehicleID)
		if err != nil {
			return err
		}
		if active != nil {
			return domain.ErrVehicleAlreadyParked
		}

		if err := spot.Occupy(); err != nil {
			return err
		}

		r := &domain.Reservation{
			Code:             uuid.NewString(),
			CustomerID:       in.CustomerID,
			VehicleID:        in.VehicleID,
			SpotID:           spot.ID,
			HourlyRateCents:  spot.HourlyRateCents,
			EntryTime:        entryTime,
			ExpectedExitTime: in.ExpectedExitTime,
			Status:           domain.ReservationStatusActive,
		}
		if err := store.Reservations().Create(ctx, r); err != nil {
			return err
		}
		if err := store.Spots().Update(ctx, spot); err != nil {
			return err
		}
		if in.IdempotencyKey != "" {
			if err := store.IdempotencyKeys().Put(ctx, in.IdempotencyKey, r.ID); err != nil {
				return err
			}
		}
		rsv = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !replayed {
		s.notifyStarted(ctx, rsv)
	}
	return rsv, nil
}

func (s *parkingService) CompleteParking(ctx context.Context, reservationID int32, exitTime *time.Time) (*domain.Reservation, error) {
	return s.finalize(ctx, reservationID, exitTime, nil, nil)
}

func (s *parkingService) OperatorFinalize(ctx context.Context, operatorID, reservationID int32, exitTime *time.Time, overrideAmountCents *int64) (*domain.Reservation, error) {
	if overrideAmountCents != nil && *overrideAmountCents < 0 {
		return nil, domain.ErrInvalidRate
	}
	return s.finalize(ctx, reservationID, exitTime, overrideAmountCents, &operatorID)
}

// finalize is the shared checkout path for CompleteParking and
// OperatorFinalize. Reservation and spot transition in one transaction.
func (s *parkingService) finalize(ctx context.Context, reservationID int32, exitTime *time.Time, overrideAmountCents *int64, operatorID *int32) (*domain.Reservation, error) {
	exit := s.clock.Now()
	if exitTime != nil {
		exit = exitTime.UTC()
	}

	var rsv *domain.Reservation
	err := s.tx.WithinTx(ctx, func(store repository.TxStore) error {
		r, err := store.Reservations().GetByIDForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if !r.IsActive() {
			return domain.ErrReservationAlreadyFinalized
		}
		spot, err := store.Spots().GetByIDForUpdate(ctx, r.SpotID)
		if err != nil {
			return err
		}
		if exit.Before(r.EntryTime) {
			return domain.ErrInvalidExit
		}

		amount, err := s.amountFor(r, exit, overrideAmountCents)
		if err != nil {
			return err
		}

		if operatorID != nil {
			err = r.CompleteByOperator(exit, amount, *operatorID)
		} else {
			err = r.Complete(exit, amount)
		}
		if err != nil {
			return err
		}
		if err := spot.Release(); err != nil {
			return err
		}

		if err := store.Reservations().Update(ctx, r); err != nil {
			return err
		}
		if err := store.Spots().Update(ctx, spot); err != nil {
			return err
		}
		rsv = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCompleted(ctx, rsv)
	return rsv, nil
}

// amountFor prices a stay. A zero-length stay owes nothing; any longer stay
// goes through the fraction-block calculation.
func (s *parkingService) amountFor(r *domain.Reservation, exit time.Time, overrideAmountCents *int64) (int64, error) {
	if overrideAmountCents != nil {
		return *overrideAmountCents, nil
	}
	if !exit.After(r.EntryTime) {
		return 0, nil
	}
	return utils.CalculateParkingFee(r.EntryTime, exit, r.HourlyRateCents, s.billing.FractionBlockMinutes, s.billing.FractionBlockRateCents)
}

func (s *parkingService) CancelParking(ctx context.Context, reservationID int32) (*domain.Reservation, error) {
	cancelledAt := s.clock.Now()

	var rsv *domain.Reservation
	err := s.tx.WithinTx(ctx, func(store repository.TxStore) error {
		r, err := store.Reservations().GetByIDForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if !r.IsActive() {
			return domain.ErrReservationAlreadyFinalized
		}
		spot, err := store.Spots().GetByIDForUpdate(ctx, r.SpotID)
		if err != nil {
			return err
		}

		if err := r.Cancel(cancelledAt); err != nil {
			return err
		}
		if err := spot.Release(); err != nil {
			return err
		}

		if err := store.Reservations().Update(ctx, r); err != nil {
			return err
		}
		if err := store.Spots().Update(ctx, spot); err != nil {
			return err
		}
		rsv = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rsv, nil
}

func (s *parkingService) SearchByPlate(ctx context.Context, plate string) ([]domain.Reservation, error) {
	return s.rsvRepo.SearchByPlate(ctx, plate)
}

func (s *parkingService) ActiveReservationForSpot(ctx context.Context, spotID int32) (*domain.Reservation, error) {
	rsv, err := s.rsvRepo.FindActiveBySpot(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if rsv == nil {
		return nil, domain.ErrNotFound
	}
	return rsv, nil
}

func (s *parkingService) EstimateParkingFee(ctx context.Context, reservationID int32) (utils.ParkingFeeBreakdown, error) {
	rsv, err := s.rsvRepo.GetByID(ctx, reservationID)
	if err != nil {
		return utils.ParkingFeeBreakdown{}, err
	}
	if !rsv.IsActive() {
		return utils.ParkingFeeBreakdown{}, domain.ErrReservationAlreadyFinalized
	}
	now := s.clock.Now()
	if !now.After(rsv.EntryTime) {
		return utils.ParkingFeeBreakdown{}, nil
	}
	return utils.CalculateParkingFeeBreakdown(rsv.EntryTime, now, rsv.HourlyRateCents, s.billing.FractionBlockMinutes, s.billing.FractionBlockRateCents)
}

// Notifications are best effort. A failed email never fails the checkout that
// already committed.
func (s *parkingService) notifyStarted(ctx context.Context, rsv *domain.Reservation) {
	customer, err := s.customerRepo.GetByID(ctx, rsv.CustomerID)
	if err != nil {
		logger.Warn("Skipping start notification", "reservation_id", rsv.ID, "error", err)
		return
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, rsv.VehicleID)
	if err != nil {
		logger.Warn("Skipping start notification", "reservation_id", rsv.ID, "error", err)
		return
	}
	spot, err := s.spotRepo.GetByID(ctx, rsv.SpotID)
	if err != nil {
		logger.Warn("Skipping start notification", "reservation_id", rsv.ID, "error", err)
		return
	}

	_ = s.emailSvc.SendReservationConfirmation(ctx, customer.Email, customer.Name, spot.Number, vehicle.Plate)
	_ = s.noteRepo.Create(ctx, &domain.Notification{
		CustomerID: customer.ID,
		Title:      "Parking started",
		Message:    fmt.Sprintf("Vehicle %s parked at spot %s", vehicle.Plate, spot.Number),
		Attributes: map[string]string{
			"type":           "PARKING_STARTED",
			"reservation_id": fmt.Sprintf("%d", rsv.ID),
		},
	})
}

func (s *parkingService) notifyCompleted(ctx context.Context, rsv *domain.Reservation) {
	customer, err := s.customerRepo.GetByID(ctx, rsv.CustomerID)
	if err != nil {
		logger.Warn("Skipping receipt notification", "reservation_id", rsv.ID, "error", err)
		return
	}
	spot, err := s.spotRepo.GetByID(ctx, rsv.SpotID)
	if err != nil {
		logger.Warn("Skipping receipt notification", "reservation_id", rsv.ID, "error", err)
		return
	}

	var amount int64
	if rsv.TotalAmountCents != nil {
		amount = *rsv.TotalAmountCents
	}
	_ = s.emailSvc.SendParkingReceipt(ctx, customer.Email, customer.Name, spot.Number, amount, rsv.EntryTime, *rsv.ExitTime)
	_ = s.noteRepo.Create(ctx, &domain.Notification{
		CustomerID: customer.ID,
		Title:      "Parking completed",
		Message:    fmt.Sprintf("Checkout from spot %s, total %s", spot.Number, utils.FormatCents(amount)),
		Attributes: map[string]string{
			"type":           "PARKING_COMPLETED",
			"reservation_id": fmt.Sprintf("%d", rsv.ID),
		},
	})
}
