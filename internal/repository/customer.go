package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samber/mo"

	"github.com/tuanvumaihuynh/brewery-api/internal/model"
	"github.com/tuanvumaihuynh/brewery-api/internal/storage/db"
)

type CustomerRepository interface {
	WithDB(db db.DB) CustomerRepository
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	FindCustomerByID(ctx context.Context, id int32) (mo.Option[model.Customer], error)
	// SaveCustomer inserts the customer when its ID is zero and updates it otherwise.
	// Updating a missing row returns ErrNotFound.
	SaveCustomer(ctx context.Context, customer model.Customer) (model.Customer, error)
	// DeleteCustomerByID reports whether a row was removed.
	DeleteCustomerByID(ctx context.Context, id int32) (bool, error)
}

type customerRepository struct {
	db db.DB
}

func NewCustomerRepository(db db.DB) CustomerRepository {
	return &customerRepository{
		db: db,
	}
}

func (r customerRepository) WithDB(db db.DB) CustomerRepository {
	return &customerRepository{
		db: db,
	}
}

const customerColumns = `id, customer_name, created_date, last_modified_date`

func (r customerRepository) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customer ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}

	customers, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Customer])
	if err != nil {
		return nil, fmt.Errorf("collect customers: %w", err)
	}

	return customers, nil
}

func (r customerRepository) FindCustomerByID(ctx context.Context, id int32) (mo.Option[model.Customer], error) {
	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customer WHERE id = @id`, pgx.NamedArgs{
		"id": id,
	})
	if err != nil {
		return mo.None[model.Customer](), fmt.Errorf("query customer: %w", err)
	}

	customer, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Customer])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[model.Customer](), nil
		}
		return mo.None[model.Customer](), fmt.Errorf("collect customer: %w", err)
	}

	return mo.Some(customer), nil
}

func (r customerRepository) SaveCustomer(ctx context.Context, customer model.Customer) (model.Customer, error) {
	if customer.ID == 0 {
		return r.insertCustomer(ctx, customer)
	}
	return r.updateCustomer(ctx, customer)
}

func (r customerRepository) insertCustomer(ctx context.Context, customer model.Customer) (model.Customer, error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO customer (customer_name)
		VALUES (@customer_name)
		RETURNING `+customerColumns, pgx.NamedArgs{
		"customer_name": customer.CustomerName,
	})
	if err != nil {
		return model.Customer{}, fmt.Errorf("insert customer: %w", err)
	}

	saved, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Customer])
	if err != nil {
		return model.Customer{}, fmt.Errorf("collect inserted customer: %w", err)
	}

	return saved, nil
}

func (r customerRepository) updateCustomer(ctx context.Context, customer model.Customer) (model.Customer, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE customer
		SET
			customer_name      = @customer_name,
			last_modified_date = NOW() AT TIME ZONE 'UTC'
		WHERE id = @id
		RETURNING `+customerColumns, pgx.NamedArgs{
		"id":            customer.ID,
		"customer_name": customer.CustomerName,
	})
	if err != nil {
		return model.Customer{}, fmt.Errorf("update customer: %w", err)
	}

	saved, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Customer])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Customer{}, ErrNotFound
		}
		return model.Customer{}, fmt.Errorf("collect updated customer: %w", err)
	}

	return saved, nil
}

func (r customerRepository) DeleteCustomerByID(ctx context.Context, id int32) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM customer WHERE id = @id`, pgx.NamedArgs{
		"id": id,
	})
	if err != nil {
		return false, fmt.Errorf("delete customer: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
