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

type spotRepository struct {
	db DBTX
}

func NewSpotRepository(db DBTX) repository.SpotRepository {
	return &spotRepository{db: db}
}

const spotColumns = `id, number, type, hourly_rate_cents, status, operator_id, created_on, updated_on`

func scanSpot(row *sql.Row) (*domain.ParkingSpot, error) {
	spot := &domain.ParkingSpot{}
	err := row.Scan(&spot.ID, &spot.Number, &spot.Type, &spot.HourlyRateCents, &spot.Status, &spot.OperatorID, &spot.CreatedOn, &spot.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan parking spot: %w", err)
	}
	return spot, nil
}

func (r *spotRepository) Create(ctx context.Context, spot *domain.ParkingSpot) error {
	query := `INSERT INTO parking_spots (number, type, hourly_rate_cents, status, operator_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now().UTC()
	spot.CreatedOn = now
	spot.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query, spot.Number, spot.Type, spot.HourlyRateCents, spot.Status, spot.OperatorID, spot.CreatedOn, spot.UpdatedOn).Scan(&spot.ID)
	if err != nil {
		return mapError(fmt.Errorf("create parking spot: %w", err))
	}
	return nil
}

func (r *spotRepository) GetByID(ctx context.Context, id int32) (*domain.ParkingSpot, error) {
	query := `SELECT ` + spotColumns + ` FROM parking_spots WHERE id = $1`
	return scanSpot(r.db.QueryRowContext(ctx, query, id))
}

func (r *spotRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.ParkingSpot, error) {
	query := `SELECT ` + spotColumns + ` FROM parking_spots WHERE id = $1 FOR UPDATE`
	return scanSpot(r.db.QueryRowContext(ctx, query, id))
}

func (r *spotRepository) Update(ctx context.Context, spot *domain.ParkingSpot) error {
	query := `UPDATE parking_spots SET number=$1, type=$2, hourly_rate_cents=$3, status=$4, updated_on=$5 WHERE id=$6`
	spot.UpdatedOn = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, spot.Number, spot.Type, spot.HourlyRateCents, spot.Status, spot.UpdatedOn, spot.ID)
	if err != nil {
		return mapError(fmt.Errorf("update parking spot: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update parking spot: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *spotRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.ParkingSpot, int32, error) {
	query := `SELECT ` + spotColumns + ` FROM parking_spots`
	countQuery := `SELECT count(*) FROM parking_spots`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		countQuery += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count parking spots: %w", err)
	}

	offset := (page - 1) * pageSize
	query += fmt.Sprintf(` ORDER BY number LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list parking spots: %w", err)
	}
	defer rows.Close()

	var spots []domain.ParkingSpot
	for rows.Next() {
		var spot domain.ParkingSpot
		if err := rows.Scan(&spot.ID, &spot.Number, &spot.Type, &spot.HourlyRateCents, &spot.Status, &spot.OperatorID, &spot.CreatedOn, &spot.UpdatedOn); err != nil {
			return nil, 0, fmt.Errorf("scan parking spot: %w", err)
		}
		spots = append(spots, spot)
	}
	return spots, count, rows.Err()
}

func (r *spotRepository) ListByOperator(ctx context.Context, operatorID int32) ([]domain.ParkingSpot, error) {
	query := `SELECT ` + spotColumns + ` FROM parking_spots WHERE operator_id = $1 ORDER BY number`
	rows, err := r.db.QueryContext(ctx, query, operatorID)
	if err != nil {
		return nil, fmt.Errorf("list parking spots by operator: %w", err)
	}
	defer rows.Close()

	var spots []domain.ParkingSpot
	for rows.Next() {
		var spot domain.ParkingSpot
		if err := rows.Scan(&spot.ID, &spot.Number, &spot.Type, &spot.HourlyRateCents, &spot.Status, &spot.OperatorID, &spot.CreatedOn, &spot.UpdatedOn); err != nil {
			return nil, fmt.Errorf("scan parking spot: %w", err)
		}
		spots = append(spots, spot)
	}
	return spots, rows.Err()
}
