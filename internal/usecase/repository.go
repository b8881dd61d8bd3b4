package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, req *ListProductsReq) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
	GetProductsInfo(ctx context.Context, ids []int64) ([]ProductInfo, error)
	Stats(ctx context.Context, lowStockThreshold int) (*ProductStats, error)

	// GetForUpdate читает продукты батчем внутри текущей транзакции.
	// Порядок результата не гарантируется, отсутствующие ID не являются ошибкой.
	GetForUpdate(ctx context.Context, ids []int64) ([]domain.Product, error)
	// ApplyStock записывает новый остаток и статус продукта внутри текущей транзакции.
	ApplyStock(ctx context.Context, id int64, stock int, status domain.ProductStatus) error
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context, search string) ([]domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type QuoteRepository interface {
	// Create вставляет котировку вместе со строками внутри текущей транзакции.
	Create(ctx context.Context, quote *domain.Quote) (*domain.Quote, error)
	GetByID(ctx context.Context, id int64) (*domain.Quote, error)
	List(ctx context.Context, req *ListQuotesReq) ([]domain.Quote, error)
	// SetStatus выполняет переход Pending -> status. Возвращает e.ErrQuoteNotPending,
	// если котировка уже покинула статус Pending, и e.ErrQuoteNotFound, если её нет.
	SetStatus(ctx context.Context, quoteID int64, status domain.QuoteStatus, reason string, at time.Time) error
	CountByStatus(ctx context.Context, status domain.QuoteStatus) (int64, error)
}

type ActivityRepository interface {
	// Create вставляет событие журнала внутри текущей транзакции (outbox).
	Create(ctx context.Context, event *domain.ActivityEvent) (*domain.ActivityEvent, error)
	Recent(ctx context.Context, limit int) ([]domain.ActivityEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*ActivityOutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]ProductInfo, error)
	SetProducts(ctx context.Context, products []ProductInfo) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

type SnapshotRepository interface {
	Store(ctx context.Context, key string, png []byte) (string, error)
	PresignedURL(ctx context.Context, key string) (string, error)
}
