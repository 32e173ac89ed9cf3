package service

import (
	"context"
	"errors"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/repository"
)

var errSpotOccupied = errors.New("spot status cannot be changed while occupied")

type spotService struct {
	spotRepo repository.SpotRepository
	rsvRepo  repository.ReservationRepository
}

func NewSpotService(spotRepo repository.SpotRepository, rsvRepo repository.ReservationRepository) SpotService {
	return &spotService{spotRepo: spotRepo, rsvRepo: rsvRepo}
}

func (s *spotService) CreateSpot(ctx context.Context, operatorID int32, number string, spotType domain.SpotType, hourlyRateCents int64) (*domain.ParkingSpot, error) {
	if hourlyRateCents < 0 {
		return nil, domain.ErrInvalidRate
	}
	spot := &domain.ParkingSpot{
		Number:          number,
		Type:            spotType,
		HourlyRateCents: hourlyRateCents,
		Status:          domain.SpotStatusAvailable,
		OperatorID:      operatorID,
	}
	if err := s.spotRepo.Create(ctx, spot); err != nil {
		return nil, err
	}
	return spot, nil
}

func (s *spotService) GetSpot(ctx context.Context, id int32) (*domain.ParkingSpot, error) {
	return s.spotRepo.GetByID(ctx, id)
}

func (s *spotService) ListSpots(ctx context.Context, status string, page, pageSize int32) ([]domain.ParkingSpot, int32, error) {
	return s.spotRepo.List(ctx, status, page, pageSize)
}

func (s *spotService) ListSpotsByOperator(ctx context.Context, operatorID int32) ([]domain.ParkingSpot, error) {
	return s.spotRepo.ListByOperator(ctx, operatorID)
}

func (s *spotService) UpdateHourlyRate(ctx context.Context, operatorID, spotID int32, hourlyRateCents int64) (*domain.ParkingSpot, error) {
	if hourlyRateCents < 0 {
		return nil, domain.ErrInvalidRate
	}
	spot, err := s.spotRepo.GetByID(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if spot.OperatorID != operatorID {
		return nil, errors.New("unauthorized")
	}
	// In-flight reservations keep the rate snapshotted at entry time.
	spot.HourlyRateCents = hourlyRateCents
	if err := s.spotRepo.Update(ctx, spot); err != nil {
		return nil, err
	}
	return spot, nil
}

// SetSpotStatus moves a spot between the operator-controlled states
// (AVAILABLE, RESERVED, MAINTENANCE). OCCUPIED belongs to the allocation flow
// and can be neither the source nor the target here.
func (s *spotService) SetSpotStatus(ctx context.Context, operatorID, spotID int32, status domain.SpotStatus) (*domain.ParkingSpot, error) {
	if status == domain.SpotStatusOccupied {
		return nil, errSpotOccupied
	}
	spot, err := s.spotRepo.GetByID(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if spot.OperatorID != operatorID {
		return nil, errors.New("unauthorized")
	}
	if spot.Status == domain.SpotStatusOccupied {
		return nil, errSpotOccupied
	}
	// The status flag can lag behind the reservation table; the reservation
	// is authoritative.
	active, err := s.rsvRepo.FindActiveBySpot(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, errSpotOccupied
	}
	spot.Status = status
	if err := s.spotRepo.Update(ctx, spot); err != nil {
		return nil, err
	}
	return spot, nil
}
