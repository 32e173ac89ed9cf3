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

type reservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, code, customer_id, vehicle_id, spot_id, hourly_rate_cents, entry_time,
	expected_exit_time, exit_time, total_amount_cents, status, completed_by, created_on, updated_on`

func scanReservation(scan func(dest ...interface{}) error) (*domain.Reservation, error) {
	rsv := &domain.Reservation{}
	var expectedExit, exit sql.NullTime
	var amount sql.NullInt64
	var completedBy sql.NullInt32
	err := scan(&rsv.ID, &rsv.Code, &rsv.CustomerID, &rsv.VehicleID, &rsv.SpotID, &rsv.HourlyRateCents,
		&rsv.EntryTime, &expectedExit, &exit, &amount, &rsv.Status, &completedBy, &rsv.CreatedOn, &rsv.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if expectedExit.Valid {
		t := expectedExit.Time.UTC()
		rsv.ExpectedExitTime = &t
	}
	if exit.Valid {
		t := exit.Time.UTC()
		rsv.ExitTime = &t
	}
	if amount.Valid {
		a := amount.Int64
		rsv.TotalAmountCents = &a
	}
	if completedBy.Valid {
		c := completedBy.Int32
		rsv.CompletedBy = &c
	}
	rsv.EntryTime = rsv.EntryTime.UTC()
	return rsv, nil
}

func (r *reservationRepository) Create(ctx context.Context, rsv *domain.Reservation) error {
	query := `INSERT INTO reservations (code, customer_id, vehicle_id, spot_id, hourly_rate_cents, entry_time,
	            expected_exit_time, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now().UTC()
	rsv.CreatedOn = now
	rsv.UpdatedOn = now
	var expectedExit sql.NullTime
	if rsv.ExpectedExitTime != nil {
		expectedExit = sql.NullTime{Time: *rsv.ExpectedExitTime, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, query, rsv.Code, rsv.CustomerID, rsv.VehicleID, rsv.SpotID,
		rsv.HourlyRateCents, rsv.EntryTime, expectedExit, rsv.Status, rsv.CreatedOn, rsv.UpdatedOn).Scan(&rsv.ID)
	if err != nil {
		return mapError(fmt.Errorf("create reservation: %w", err))
	}
	return nil
}

func (r *reservationRepository) getByID(ctx context.Context, id int32, forUpdate bool) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rsv, err := scanReservation(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return rsv, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	return r.getByID(ctx, id, false)
}

func (r *reservationRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Reservation, error) {
	return r.getByID(ctx, id, true)
}

func (r *reservationRepository) Update(ctx context.Context, rsv *domain.Reservation) error {
	query := `UPDATE reservations SET exit_time=$1, total_amount_cents=$2, status=$3, completed_by=$4,
	            expected_exit_time=$5, updated_on=$6 WHERE id=$7`
	rsv.UpdatedOn = time.Now().UTC()
	var exit, expectedExit sql.NullTime
	var amount sql.NullInt64
	var completedBy sql.NullInt32
	if rsv.ExitTime != nil {
		exit = sql.NullTime{Time: *rsv.ExitTime, Valid: true}
	}
	if rsv.ExpectedExitTime != nil {
		expectedExit = sql.NullTime{Time: *rsv.ExpectedExitTime, Valid: true}
	}
	if rsv.TotalAmountCents != nil {
		amount = sql.NullInt64{Int64: *rsv.TotalAmountCents, Valid: true}
	}
	if rsv.CompletedBy != nil {
		completedBy = sql.NullInt32{Int32: *rsv.CompletedBy, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, query, exit, amount, rsv.Status, completedBy, expectedExit, rsv.UpdatedOn, rsv.ID)
	if err != nil {
		return mapError(fmt.Errorf("update reservation: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) findActive(ctx context.Context, column string, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE ` + column + ` = $1 AND status = $2`
	rsv, err := scanReservation(r.db.QueryRowContext(ctx, query, id, domain.ReservationStatusActive).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active reservation: %w", err)
	}
	return rsv, nil
}

func (r *reservationRepository) FindActiveBySpot(ctx context.Context, spotID int32) (*domain.Reservation, error) {
	return r.findActive(ctx, "spot_id", spotID)
}

func (r *reservationRepository) FindActiveByVehicle(ctx context.Context, vehicleID int32) (*domain.Reservation, error) {
	return r.findActive(ctx, "vehicle_id", vehicleID)
}

func (r *reservationRepository) SearchByPlate(ctx context.Context, plate string) ([]domain.Reservation, error) {
	query := `SELECT r.id, r.code, r.customer_id, r.vehicle_id, r.spot_id, r.hourly_rate_cents, r.entry_time,
	            r.expected_exit_time, r.exit_time, r.total_amount_cents, r.status, r.completed_by, r.created_on, r.updated_on
	          FROM reservations r
	          JOIN vehicles v ON v.id = r.vehicle_id
	          WHERE v.plate = $1
	          ORDER BY r.entry_time DESC`
	rows, err := r.db.QueryContext(ctx, query, plate)
	if err != nil {
		return nil, fmt.Errorf("search reservations by plate: %w", err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *reservationRepository) ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE customer_id = $1`
	args := []interface{}{customerID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}

	var count int32
	countQuery := `SELECT count(*) FROM (` + query + `) AS sub`
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	offset := (page - 1) * pageSize
	query += fmt.Sprintf(` ORDER BY entry_time DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	reservations, err := collectReservations(rows)
	if err != nil {
		return nil, 0, err
	}
	return reservations, count, nil
}

func (r *reservationRepository) ListActivePastExpectedExit(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE status = $1 AND expected_exit_time IS NOT NULL AND expected_exit_time < $2
	          ORDER BY expected_exit_time`
	rows, err := r.db.QueryContext(ctx, query, domain.ReservationStatusActive, asOf)
	if err != nil {
		return nil, fmt.Errorf("list overstayed reservations: %w", err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	for rows.Next() {
		rsv, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, *rsv)
	}
	return reservations, rows.Err()
}
