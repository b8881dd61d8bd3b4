package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnalyticsUseCase готовит датасеты для внешнего сервиса отрисовки графиков
// и архивирует отрисованные снапшоты в объектное хранилище.
type AnalyticsUseCase struct {
	productRepo  ProductRepository
	quoteRepo    QuoteRepository
	renderer     ChartRenderer
	snapshotRepo SnapshotRepository
	logger       logger.Logger
}

func NewAnalyticsUC(
	productRepo ProductRepository,
	quoteRepo QuoteRepository,
	renderer ChartRenderer,
	snapshotRepo SnapshotRepository,
	logger logger.Logger,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		productRepo:  productRepo,
		quoteRepo:    quoteRepo,
		renderer:     renderer,
		snapshotRepo: snapshotRepo,
		logger:       logger,
	}
}

// chartProduct и chartQuote повторяют форму JSON, которую ожидает сервис отрисовки.
type chartProduct struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Status   string  `json:"status"`
}

type chartQuoteItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type chartQuote struct {
	Status      string           `json:"status"`
	CreatedAt   string           `json:"createdAt"`
	TotalAmount float64          `json:"totalAmount"`
	Products    []chartQuoteItem `json:"products"`
}

// RenderChart собирает датасет нужного вида и возвращает PNG от внешнего сервиса.
func (a *AnalyticsUseCase) RenderChart(ctx context.Context, kind ChartKind) ([]byte, error) {
	const op = "AnalyticsUseCase.RenderChart"

	payload, err := a.buildPayload(ctx, kind)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	png, err := a.renderer.Render(ctx, NewRenderChartReq(kind, payload))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return png, nil
}

// SnapshotChart отрисовывает график и сохраняет PNG в объектное хранилище,
// возвращая ключ и presigned-ссылку.
func (a *AnalyticsUseCase) SnapshotChart(ctx context.Context, kind ChartKind) (*SnapshotRes, error) {
	const op = "AnalyticsUseCase.SnapshotChart"

	png, err := a.RenderChart(ctx, kind)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	key := fmt.Sprintf("charts/%s/%s-%s.png", kind, time.Now().UTC().Format("2006-01-02"), uuid.NewString())

	storedKey, err := a.snapshotRepo.Store(ctx, key, png)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	url, err := a.snapshotRepo.PresignedURL(ctx, storedKey)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	a.logger.Infof("chart snapshot stored: %s", storedKey)

	return &SnapshotRes{Key: storedKey, URL: url}, nil
}

func (a *AnalyticsUseCase) buildPayload(ctx context.Context, kind ChartKind) (any, error) {
	switch kind {
	case ChartProductCategory, ChartProductStock:
		products, err := a.productRepo.List(ctx, &ListProductsReq{})
		if err != nil {
			return nil, err
		}

		return map[string]any{"products": toChartProducts(products)}, nil

	case ChartQuoteStatus, ChartRevenueTrend, ChartTopProducts:
		quotes, err := a.quoteRepo.List(ctx, &ListQuotesReq{})
		if err != nil {
			return nil, err
		}

		return map[string]any{"quotes": toChartQuotes(quotes)}, nil

	default:
		return nil, e.ErrStatusBadRequest
	}
}

func toChartProducts(products []domain.Product) []chartProduct {
	result := make([]chartProduct, 0, len(products))
	for i := range products {
		p := &products[i]
		result = append(result, chartProduct{
			Name:     p.Name,
			Category: p.Category,
			Price:    centsToFloat(p.Price),
			Stock:    p.Stock,
			Status:   string(p.Status),
		})
	}

	return result
}

func toChartQuotes(quotes []domain.Quote) []chartQuote {
	result := make([]chartQuote, 0, len(quotes))
	for i := range quotes {
		q := &quotes[i]
		items := make([]chartQuoteItem, 0, len(q.Items))
		for _, item := range q.Items {
			items = append(items, chartQuoteItem{
				Name:     item.Name,
				Price:    centsToFloat(item.Price),
				Quantity: item.Quantity,
			})
		}

		result = append(result, chartQuote{
			Status:      string(q.Status),
			CreatedAt:   q.CreatedAt.Format(time.RFC3339),
			TotalAmount: centsToFloat(q.TotalAmount),
			Products:    items,
		})
	}

	return result
}

func centsToFloat(cents int64) float64 {
	f, _ := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Float64()
	return f
}
