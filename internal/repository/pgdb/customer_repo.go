package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CustomerRepo реализует репозиторий клиентов поверх PostgreSQL.
type CustomerRepo struct {
	pool *pgxpool.Pool
	conv converter.CustomerConverter
}

func NewCustomerRepo(pool *pgxpool.Pool, conv converter.CustomerConverter) *CustomerRepo {
	return &CustomerRepo{pool: pool, conv: conv}
}

// Create вставляет клиента. Работает и внутри транзакции, и вне её:
// привязка клиента к котировке выполняется до открытия транзакции коммита.
func (c *CustomerRepo) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	model := c.conv.ToModel(customer)
	query := `
		INSERT INTO customers (name, email, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`

	if err := tr.From(ctx, c.pool).QueryRow(ctx, query,
		model.Name, model.Email, model.Phone, model.Address,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, fmt.Errorf("%s: customer with email %s already exists", whereami.WhereAmI(), customer.Email)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(model), nil
}

func (c *CustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM customers
		WHERE email = $1
	`

	var model converter.CustomerModel
	err := c.pool.QueryRow(ctx, query, email).Scan(
		&model.ID, &model.Name, &model.Email, &model.Phone,
		&model.Address, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrCustomerNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

// List возвращает клиентов по алфавиту, search ищется по имени и email.
func (c *CustomerRepo) List(ctx context.Context, search string) ([]domain.Customer, error) {
	query := `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM customers
	`

	var args []any
	if search != "" {
		query += " WHERE name ILIKE $1 OR email ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY name"

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.CustomerModel
	for rows.Next() {
		var model converter.CustomerModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Email, &model.Phone,
			&model.Address, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToArrEntity(models), nil
}

func (c *CustomerRepo) Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := c.conv.ToModel(customer)
	query := `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, address = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at;
	`

	if err := tx.QueryRow(ctx, query,
		model.ID, model.Name, model.Email, model.Phone, model.Address,
	).Scan(&model.CreatedAt, &model.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrCustomerNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(model), nil
}

func (c *CustomerRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		return e.ErrCustomerNotFound
	}

	return nil
}
