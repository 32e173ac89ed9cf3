package service

import (
	"context"
	"strings"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/repository"
)

type customerService struct {
	customerRepo repository.CustomerRepository
	vehicleRepo  repository.VehicleRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository, vehicleRepo repository.VehicleRepository) CustomerService {
	return &customerService{customerRepo: customerRepo, vehicleRepo: vehicleRepo}
}

func (s *customerService) RegisterCustomer(ctx context.Context, name, email, phone string) (*domain.Customer, error) {
	customer := &domain.Customer{
		Name:  name,
		Email: strings.ToLower(strings.TrimSpace(email)),
		Phone: phone,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id int32) (*domain.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) AddVehicle(ctx context.Context, customerID int32, plate, model string, vehicleType domain.VehicleType) (*domain.Vehicle, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	vehicle := &domain.Vehicle{
		CustomerID: customerID,
		Plate:      strings.ToUpper(strings.TrimSpace(plate)),
		Model:      model,
		Type:       vehicleType,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *customerService) ListVehicles(ctx context.Context, customerID int32) ([]domain.Vehicle, error) {
	return s.vehicleRepo.ListByCustomer(ctx, customerID)
}
