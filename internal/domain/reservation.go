package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Reservation binds one vehicle to one spot for a time interval. It is
// created ACTIVE with no exit time and becomes immutable once completed or
// cancelled. The hourly rate is snapshotted from the spot at creation time so
// later rate changes never affect an in-flight stay.
type Reservation struct {
	ID               int32             `json:"id"`
	Code             string            `json:"code"`
	CustomerID       int32             `json:"customer_id"`
	VehicleID        int32             `json:"vehicle_id"`
	SpotID           int32             `json:"spot_id"`
	HourlyRateCents  int64             `json:"hourly_rate_cents"`
	EntryTime        time.Time         `json:"entry_time"`
	ExpectedExitTime *time.Time        `json:"expected_exit_time,omitempty"`
	ExitTime         *time.Time        `json:"exit_time,omitempty"`
	TotalAmountCents *int64            `json:"total_amount_cents,omitempty"`
	Status           ReservationStatus `json:"status"`
	CompletedBy      *int32            `json:"completed_by,omitempty"`
	CreatedOn        time.Time         `json:"created_on"`
	UpdatedOn        time.Time         `json:"updated_on"`
}

func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// Complete closes the reservation at exitTime with the billed amount.
func (r *Reservation) Complete(exitTime time.Time, amountCents int64) error {
	if r.Status != ReservationStatusActive {
		return ErrReservationAlreadyFinalized
	}
	if exitTime.Before(r.EntryTime) {
		return ErrInvalidExit
	}
	r.ExitTime = &exitTime
	r.TotalAmountCents = &amountCents
	r.Status = ReservationStatusCompleted
	return nil
}

// CompleteByOperator is the staff checkout path. It behaves like Complete and
// additionally records which operator closed the reservation.
func (r *Reservation) CompleteByOperator(exitTime time.Time, amountCents int64, operatorID int32) error {
	if err := r.Complete(exitTime, amountCents); err != nil {
		return err
	}
	r.CompletedBy = &operatorID
	return nil
}

// Cancel closes the reservation without billing. The cancellation instant is
// recorded as the exit time.
func (r *Reservation) Cancel(at time.Time) error {
	if r.Status != ReservationStatusActive {
		return ErrReservationAlreadyFinalized
	}
	zero := int64(0)
	r.ExitTime = &at
	r.TotalAmountCents = &zero
	r.Status = ReservationStatusCancelled
	return nil
}
