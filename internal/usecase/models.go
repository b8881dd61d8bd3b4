package usecase

import (
	"time"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
)

// PRODUCT USECASE

// SaveProductReq — запрос на создание или обновление продукта.
type SaveProductReq struct {
	Name     string
	Price    int64 // копейки
	Category string
	Stock    int
	Status   domain.ProductStatus
	Actor    string
}

// ProductRes — продукт для внешнего использования.
type ProductRes struct {
	ID        int64
	Name      string
	Price     int64
	Category  string
	Stock     int
	Status    domain.ProductStatus
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ListProductsReq — фильтры и сортировка списка продуктов.
// Search ищется по имени и категории без учёта регистра.
type ListProductsReq struct {
	Search   string
	Category string
	Status   string
	SortBy   string // name | price | stock
}

// DeleteProductsReq — запрос на удаление одного или нескольких продуктов.
type DeleteProductsReq struct {
	IDs   []int64
	Actor string
}

// GetProductsReq — запрос информации о продуктах по их идентификаторам.
type GetProductsReq struct {
	IDs []int64
}

// GetProductsRes — ответ с данными запрошенных продуктов.
type GetProductsRes struct {
	Products         []ProductInfo
	NotFoundProducts []int64
}

// ProductInfo — DTO с информацией о продукте, пригодной для кэширования.
type ProductInfo struct {
	ID       int64
	Name     string
	Category string
	Price    int64
	Stock    int
	Status   string
}

// ProductStats — агрегаты каталога для дашборда.
type ProductStats struct {
	TotalProducts  int64
	LowStockCount  int64
	InventoryValue int64 // Σ price*stock, копейки
}

// DashboardStats — карточки дашборда.
type DashboardStats struct {
	TotalProducts  int64
	LowStockCount  int64
	InventoryValue int64
	PendingQuotes  int64
}

// CUSTOMER USECASE

// SaveCustomerReq — запрос на создание (ID == 0) или обновление клиента.
type SaveCustomerReq struct {
	ID      int64
	Name    string
	Email   string
	Phone   string
	Address string
	Actor   string
}

type CustomerRes struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
}

// QUOTE USECASE

// LineItemReq — запрошенная пара (продукт, количество).
type LineItemReq struct {
	ProductID int64
	Quantity  int
}

// CommitQuoteReq — запрос на создание котировки.
// Валидация формы (непустые строки, положительные количества) — на вызывающей
// стороне; коммиттер повторно проверяет только остатки.
type CommitQuoteReq struct {
	BuyerName    string
	BuyerEmail   string
	BuyerPhone   string
	BuyerAddress string
	Items        []LineItemReq
	Actor        string
}

type CommitQuoteRes struct {
	QuoteID     int64
	UID         string
	TotalAmount int64
}

// ListQuotesReq — фильтры списка котировок.
// Status "All" или пустая строка отключает фильтр по статусу.
type ListQuotesReq struct {
	Status     string
	Search     string // по имени покупателя, без учёта регистра
	DatePrefix string // YYYY-MM-DD по createdAt
}

type QuoteItemRes struct {
	ProductID int64
	Name      string
	Category  string
	Price     int64
	Quantity  int
	Total     int64
}

type QuoteRes struct {
	ID              int64
	UID             string
	CustomerID      int64
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	Items           []QuoteItemRes
	TotalAmount     int64
	Status          domain.QuoteStatus
	CreatedAt       time.Time
	AcceptedAt      *time.Time
	RejectedAt      *time.Time
	RejectionReason string
}

// SetQuoteStatusReq — переход статуса котировки. Reason учитывается только
// при отклонении.
type SetQuoteStatusReq struct {
	QuoteID int64
	Status  domain.QuoteStatus
	Reason  string
	Actor   string
}

// ANALYTICS USECASE

// ChartKind — вид графика, отрисовываемого внешним сервисом.
type ChartKind string

const (
	ChartProductCategory ChartKind = "product_category"
	ChartProductStock    ChartKind = "product_stock"
	ChartQuoteStatus     ChartKind = "quote_status"
	ChartRevenueTrend    ChartKind = "revenue_trend"
	ChartTopProducts     ChartKind = "top_products"
)

// ValidChartKind проверяет вид графика.
func ValidChartKind(s string) bool {
	switch ChartKind(s) {
	case ChartProductCategory, ChartProductStock, ChartQuoteStatus, ChartRevenueTrend, ChartTopProducts:
		return true
	default:
		return false
	}
}

// RenderChartReq — датасет для внешнего сервиса отрисовки.
type RenderChartReq struct {
	Kind    ChartKind
	Payload any // сериализуется в JSON тела запроса
}

// SnapshotRes — результат архивирования графика.
type SnapshotRes struct {
	Key string
	URL string
}

// ACTIVITY / OUTBOX

type ActivityRes struct {
	Action      domain.ActivityAction
	Description string
	Actor       string
	CreatedAt   time.Time
}

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

// ActivityOutboxEvent — событие журнала с outbox-полями для воркера публикации.
type ActivityOutboxEvent struct {
	ID          int64
	EventID     string
	Action      domain.ActivityAction
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

type WriteRawMessageReq struct {
	EventID string
	Payload []byte
}

// MAPPERS

func NewProductRes(p *domain.Product) *ProductRes {
	return &ProductRes{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Stock:     p.Stock,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewProductInfo(id int64, name, category string, price int64, stock int, status string) ProductInfo {
	return ProductInfo{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    price,
		Stock:    stock,
		Status:   status,
	}
}

func NewGetProductsReq(ids []int64) *GetProductsReq {
	return &GetProductsReq{ids}
}

func NewGetProductsRes(pr []ProductInfo, notFoundProducts []int64) *GetProductsRes {
	return &GetProductsRes{
		Products:         pr,
		NotFoundProducts: notFoundProducts,
	}
}

func NewCustomerRes(c *domain.Customer) *CustomerRes {
	return &CustomerRes{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

func NewQuoteRes(q *domain.Quote) *QuoteRes {
	items := make([]QuoteItemRes, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, QuoteItemRes{
			ProductID: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Total:     item.Total(),
		})
	}

	return &QuoteRes{
		ID:              q.ID,
		UID:             q.UID,
		CustomerID:      q.Buyer.CustomerID,
		CustomerName:    q.Buyer.Name,
		CustomerEmail:   q.Buyer.Email,
		CustomerPhone:   q.Buyer.Phone,
		CustomerAddress: q.Buyer.Address,
		Items:           items,
		TotalAmount:     q.TotalAmount,
		Status:          q.Status,
		CreatedAt:       q.CreatedAt,
		AcceptedAt:      q.AcceptedAt,
		RejectedAt:      q.RejectedAt,
		RejectionReason: q.RejectionReason,
	}
}

func NewActivityRes(ev *domain.ActivityEvent) ActivityRes {
	return ActivityRes{
		Action:      ev.Action,
		Description: ev.Description,
		Actor:       ev.Actor,
		CreatedAt:   ev.CreatedAt,
	}
}

func NewRenderChartReq(kind ChartKind, payload any) *RenderChartReq {
	return &RenderChartReq{Kind: kind, Payload: payload}
}

func NewWriteRawMessageReq(eventID string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		EventID: eventID,
		Payload: payload,
	}
}
