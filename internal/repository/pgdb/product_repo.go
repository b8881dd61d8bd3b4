package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/quotes-backend/internal/usecase"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (name, price, category, stock, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at;
	`

	if err := tx.QueryRow(ctx, query,
		model.Name, model.Price, model.Category, model.Stock, model.Status,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, fmt.Errorf("%s: product %q already exists", whereami.WhereAmI(), product.Name)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, price, category, stock, status, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var model converter.ProductModel
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&model.ID, &model.Name, &model.Price, &model.Category,
		&model.Stock, &model.Status, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &e.ProductNotFoundError{ProductID: id}
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// List возвращает продукты с учётом поиска, фильтров и сортировки.
// Поиск идёт по имени и категории без учёта регистра.
func (p *ProductRepo) List(ctx context.Context, req *usecase.ListProductsReq) ([]domain.Product, error) {
	query := `
		SELECT id, name, price, category, stock, status, created_at, updated_at
		FROM products
	`

	var conds []string
	var args []any
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR category ILIKE $%d)", len(args), len(args)))
	}
	if req.Category != "" {
		args = append(args, req.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if req.Status != "" {
		args = append(args, req.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// Сортировка только по белому списку колонок
	switch req.SortBy {
	case "price":
		query += " ORDER BY price"
	case "stock":
		query += " ORDER BY stock"
	default:
		query += " ORDER BY name"
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models, err := scanProductModels(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := p.conv.ToModel(product)
	query := `
		UPDATE products
		SET name = $2, price = $3, category = $4, stock = $5, status = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at;
	`

	if err := tx.QueryRow(ctx, query,
		model.ID, model.Name, model.Price, model.Category, model.Stock, model.Status,
	).Scan(&model.CreatedAt, &model.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &e.ProductNotFoundError{ProductID: product.ID}
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) Delete(ctx context.Context, ids []int64) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return result.RowsAffected(), nil
}

// GetProductsInfo возвращает информацию о продуктах по их идентификаторам.
func (p *ProductRepo) GetProductsInfo(ctx context.Context, ids []int64) ([]usecase.ProductInfo, error) {
	query := `
		SELECT id, name, category, price, stock, status
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.ProductInfo, 0)
	for rows.Next() {
		var product usecase.ProductInfo
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Category,
			&product.Price, &product.Stock, &product.Status,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, product)
	}

	return result, nil
}

// Stats считает агрегаты каталога одним запросом.
func (p *ProductRepo) Stats(ctx context.Context, lowStockThreshold int) (*usecase.ProductStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE stock < $1),
			COALESCE(SUM(price * stock), 0)
		FROM products
	`

	var stats usecase.ProductStats
	if err := p.pool.QueryRow(ctx, query, lowStockThreshold).
		Scan(&stats.TotalProducts, &stats.LowStockCount, &stats.InventoryValue); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &stats, nil
}

// GetForUpdate читает продукты батчем внутри текущей транзакции с блокировкой строк.
// Блокировка уменьшает число serialization failure при конкурентных коммитах.
func (p *ProductRepo) GetForUpdate(ctx context.Context, ids []int64) ([]domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		SELECT id, name, price, category, stock, status, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models, err := scanProductModels(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

// ApplyStock записывает новый остаток и статус продукта внутри текущей транзакции.
func (p *ProductRepo) ApplyStock(ctx context.Context, id int64, stock int, status domain.ProductStatus) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET stock = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query, id, stock, string(status))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		return &e.ProductNotFoundError{ProductID: id}
	}

	return nil
}

func scanProductModels(rows pgx.Rows) ([]*converter.ProductModel, error) {
	var models []*converter.ProductModel
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Price, &model.Category,
			&model.Stock, &model.Status, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, err
		}

		models = append(models, &model)
	}

	return models, rows.Err()
}
