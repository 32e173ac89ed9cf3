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

type vehicleRepository struct {
	db DBTX
}

func NewVehicleRepository(db DBTX) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (customer_id, plate, model, type, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now().UTC()
	v.CreatedOn = now
	v.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query, v.CustomerID, v.Plate, v.Model, v.Type, v.CreatedOn, v.UpdatedOn).Scan(&v.ID)
	if err != nil {
		return mapError(fmt.Errorf("create vehicle: %w", err))
	}
	return nil
}

func (r *vehicleRepository) getBy(ctx context.Context, where string, arg interface{}) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT id, customer_id, plate, model, type, created_on, updated_on FROM vehicles WHERE ` + where
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&v.ID, &v.CustomerID, &v.Plate, &v.Model, &v.Type, &v.CreatedOn, &v.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	return r.getBy(ctx, "plate = $1", plate)
}

func (r *vehicleRepository) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Vehicle, error) {
	query := `SELECT id, customer_id, plate, model, type, created_on, updated_on FROM vehicles WHERE customer_id = $1 ORDER BY plate`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.CustomerID, &v.Plate, &v.Model, &v.Type, &v.CreatedOn, &v.UpdatedOn); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET plate=$1, model=$2, type=$3, updated_on=$4 WHERE id=$5`
	v.UpdatedOn = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, v.Plate, v.Model, v.Type, v.UpdatedOn, v.ID)
	if err != nil {
		return mapError(fmt.Errorf("update vehicle: %w", err))
	}
	return nil
}
