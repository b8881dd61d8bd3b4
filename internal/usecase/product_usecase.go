package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductUseCase реализует бизнес-логику каталога продуктов и дашборда.
type ProductUseCase struct {
	productRepo  ProductRepository
	quoteRepo    QuoteRepository
	activityRepo ActivityRepository
	cacheRepo    CacheRepository
	dbPool       transaction.Transactional
	logger       logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	quoteRepo QuoteRepository,
	activityRepo ActivityRepository,
	cacheRepo CacheRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		quoteRepo:    quoteRepo,
		activityRepo: activityRepo,
		cacheRepo:    cacheRepo,
		dbPool:       dbPool,
		logger:       logger,
	}
}

// lowStockThreshold — порог «мало на складе» для карточки дашборда.
const lowStockThreshold = 10

// AddProduct создаёт продукт. Нулевой остаток принудительно даёт статус Out of Stock.
func (p *ProductUseCase) AddProduct(ctx context.Context, req *SaveProductReq) (*ProductRes, error) {
	const op = "ProductUseCase.AddProduct"

	if err := p.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		created *domain.Product
		err     error
	)

	err = p.inTx(ctx, func(ctx context.Context) error {
		created, err = p.productRepo.Create(ctx, domain.NewProduct(req.Name, req.Price, req.Category, req.Stock, req.Status))
		if err != nil {
			return err
		}

		return p.recordActivity(ctx, domain.ActionAddProduct,
			fmt.Sprintf("Added product %s", req.Name), req.Actor, created)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewProductRes(created), nil
}

func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*ProductRes, error) {
	const op = "ProductUseCase.GetProduct"

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewProductRes(product), nil
}

func (p *ProductUseCase) ListProducts(ctx context.Context, req *ListProductsReq) ([]ProductRes, error) {
	const op = "ProductUseCase.ListProducts"

	products, err := p.productRepo.List(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]ProductRes, 0, len(products))
	for i := range products {
		result = append(result, *NewProductRes(&products[i]))
	}

	return result, nil
}

// UpdateProduct обновляет продукт с нормализацией статуса по остатку.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, id int64, req *SaveProductReq) (*ProductRes, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := p.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(req.Name, req.Price, req.Category, req.Stock, req.Status)
	product.ID = id

	var (
		updated *domain.Product
		err     error
	)

	err = p.inTx(ctx, func(ctx context.Context) error {
		updated, err = p.productRepo.Update(ctx, product)
		if err != nil {
			return err
		}

		return p.recordActivity(ctx, domain.ActionUpdateProduct,
			fmt.Sprintf("Updated product %s", req.Name), req.Actor, updated)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCache(ctx, []int64{id})

	return NewProductRes(updated), nil
}

// DeleteProducts удаляет один или несколько продуктов и возвращает число удалённых.
func (p *ProductUseCase) DeleteProducts(ctx context.Context, req *DeleteProductsReq) (int64, error) {
	const op = "ProductUseCase.DeleteProducts"

	if len(req.IDs) == 0 {
		return 0, e.Wrap(op, e.ErrMissingFields)
	}

	var deleted int64

	err := p.inTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = p.productRepo.Delete(ctx, req.IDs)
		if err != nil {
			return err
		}

		return p.recordActivity(ctx, domain.ActionDeleteProduct,
			fmt.Sprintf("Deleted %d product(s)", deleted), req.Actor, req.IDs)
	})
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	p.invalidateCache(ctx, req.IDs)

	return deleted, nil
}

// GetProductsInfo возвращает информацию о продуктах по их идентификаторам,
// сначала из кэша, промахи — из БД с фоновым дозаполнением кэша.
func (p *ProductUseCase) GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "ProductUseCase.GetProductsInfo"

	if len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	cacheProductsMap, err := p.cacheRepo.GetProducts(ctx, req.IDs)
	var nonCacheable []int64
	if err != nil {
		nonCacheable = append(nonCacheable, req.IDs...)
		cacheProductsMap = nil
	} else {
		for _, productID := range req.IDs {
			if _, ok := cacheProductsMap[productID]; !ok {
				nonCacheable = append(nonCacheable, productID)
			}
		}
	}

	var productsInfoFromDB []ProductInfo
	if len(nonCacheable) > 0 {
		productsInfoFromDB, err = p.productRepo.GetProductsInfo(ctx, nonCacheable)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		// Фоновое добавление продуктов в кэш
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := p.cacheRepo.SetProducts(bgCtx, productsInfoFromDB); err != nil {
				p.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
			}
		}()
	}

	dbProductsMap := make(map[int64]ProductInfo, len(productsInfoFromDB))
	for _, productInfo := range productsInfoFromDB {
		dbProductsMap[productInfo.ID] = productInfo
	}

	result := make([]ProductInfo, 0, len(req.IDs))
	notFoundProducts := make([]int64, 0)
	for _, id := range req.IDs {
		if pr, ok := cacheProductsMap[id]; ok {
			result = append(result, pr)
		} else if pr, ok := dbProductsMap[id]; ok {
			result = append(result, pr)
		} else {
			notFoundProducts = append(notFoundProducts, id)
		}
	}

	return NewGetProductsRes(result, notFoundProducts), nil
}

// ExportProductsCSV выгружает весь каталог в CSV.
func (p *ProductUseCase) ExportProductsCSV(ctx context.Context) ([]byte, error) {
	const op = "ProductUseCase.ExportProductsCSV"

	products, err := p.productRepo.List(ctx, &ListProductsReq{})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"ID", "Name", "Category", "Price", "Stock", "Status"}); err != nil {
		return nil, e.Wrap(op, err)
	}

	for i := range products {
		pr := &products[i]
		row := []string{
			fmt.Sprintf("%d", pr.ID),
			pr.Name,
			pr.Category,
			FormatCents(pr.Price),
			fmt.Sprintf("%d", pr.Stock),
			string(pr.Status),
		}
		if err := w.Write(row); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return []byte(buf.String()), nil
}

// DashboardStats собирает карточки дашборда: каталожные агрегаты и число
// котировок в ожидании.
func (p *ProductUseCase) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	const op = "ProductUseCase.DashboardStats"

	stats, err := p.productRepo.Stats(ctx, lowStockThreshold)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	pending, err := p.quoteRepo.CountByStatus(ctx, domain.QuoteStatusPending)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &DashboardStats{
		TotalProducts:  stats.TotalProducts,
		LowStockCount:  stats.LowStockCount,
		InventoryValue: stats.InventoryValue,
		PendingQuotes:  pending,
	}, nil
}

// RecentActivity возвращает последние записи журнала активности.
func (p *ProductUseCase) RecentActivity(ctx context.Context, limit int) ([]ActivityRes, error) {
	const (
		op           = "ProductUseCase.RecentActivity"
		defaultLimit = 10
	)

	if limit <= 0 {
		limit = defaultLimit
	}

	events, err := p.activityRepo.Recent(ctx, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]ActivityRes, 0, len(events))
	for i := range events {
		result = append(result, NewActivityRes(&events[i]))
	}

	return result, nil
}

// inTx выполняет fn внутри транзакции, передавая её репозиториям через контекст.
func (p *ProductUseCase) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = fn(ctx); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

func (p *ProductUseCase) recordActivity(ctx context.Context, action domain.ActivityAction, description, actor string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = p.activityRepo.Create(ctx, &domain.ActivityEvent{
		EventID:     uuid.NewString(),
		Action:      action,
		Description: description,
		Actor:       actor,
		Payload:     data,
	})

	return err
}

// invalidateCache удаляет продукты из кэша, логируя сбой вместо возврата ошибки.
func (p *ProductUseCase) invalidateCache(ctx context.Context, ids []int64) {
	if err := p.cacheRepo.DeleteProducts(ctx, ids); err != nil {
		p.logger.Warnf("Failed to invalidate product cache: %v", err)
	}
}

// validateProduct проверяет корректность входных данных продукта.
func (p *ProductUseCase) validateProduct(req *SaveProductReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if req.Price < 0 {
		return e.ErrInvalidPrice
	}

	if req.Stock < 0 {
		return e.ErrNegativeStock
	}

	if req.Status != "" && !domain.ValidProductStatus(string(req.Status)) {
		return e.ErrInvalidStatus
	}

	return nil
}
