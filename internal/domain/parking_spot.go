package domain

import "time"

type SpotStatus string

const (
	SpotStatusAvailable   SpotStatus = "AVAILABLE"
	SpotStatusOccupied    SpotStatus = "OCCUPIED"
	SpotStatusReserved    SpotStatus = "RESERVED"
	SpotStatusMaintenance SpotStatus = "MAINTENANCE"
)

type SpotType string

const (
	SpotTypeRegular    SpotType = "REGULAR"
	SpotTypePremium    SpotType = "PREMIUM"
	SpotTypeRestricted SpotType = "RESTRICTED"
)

// ParkingSpot is a uniquely identified, physically exclusive parking location.
// Status is OCCUPIED exactly when one active reservation references the spot;
// only the parking service flips it through Occupy/Release.
type ParkingSpot struct {
	ID              int32      `json:"id"`
	Number          string     `json:"number"`
	Type            SpotType   `json:"type"`
	HourlyRateCents int64      `json:"hourly_rate_cents"`
	Status          SpotStatus `json:"status"`
	OperatorID      int32      `json:"operator_id"`
	CreatedOn       time.Time  `json:"created_on"`
	UpdatedOn       time.Time  `json:"updated_on"`
}

// Occupy transitions the spot from AVAILABLE to OCCUPIED. RESERVED and
// MAINTENANCE spots are outside the allocation flow and refuse occupancy.
func (s *ParkingSpot) Occupy() error {
	if s.Status != SpotStatusAvailable {
		return ErrSpotNotAvailable
	}
	s.Status = SpotStatusOccupied
	return nil
}

// Release transitions the spot from OCCUPIED back to AVAILABLE.
func (s *ParkingSpot) Release() error {
	if s.Status != SpotStatusOccupied {
		return ErrSpotNotOccupied
	}
	s.Status = SpotStatusAvailable
	return nil
}
