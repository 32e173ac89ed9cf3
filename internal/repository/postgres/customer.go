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

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (name, email, phone, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	now := time.Now().UTC()
	c.CreatedOn = now
	c.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Email, c.Phone, c.CreatedOn, c.UpdatedOn).Scan(&c.ID)
	if err != nil {
		return mapError(fmt.Errorf("create customer: %w", err))
	}
	return nil
}

func (r *customerRepository) getBy(ctx context.Context, where string, arg interface{}) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT id, name, email, phone, created_on, updated_on FROM customers WHERE ` + where
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET name=$1, email=$2, phone=$3, updated_on=$4 WHERE id=$5`
	c.UpdatedOn = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, c.Name, c.Email, c.Phone, c.UpdatedOn, c.ID)
	if err != nil {
		return mapError(fmt.Errorf("update customer: %w", err))
	}
	return nil
}
