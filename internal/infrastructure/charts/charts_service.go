package charts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DRSN-tech/quotes-backend/internal/cfg"
	"github.com/DRSN-tech/quotes-backend/internal/usecase"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/jitter"
	"github.com/DRSN-tech/quotes-backend/pkg/logger"
)

// ChartsService клиент внешнего сервиса отрисовки графиков.
// Отправляет JSON-датасет и получает PNG.
type ChartsService struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	logger     logger.Logger
}

func NewChartsService(cfg *cfg.ChartsCfg, logger logger.Logger) *ChartsService {
	return &ChartsService{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

// Render отрисовывает график с retry-логикой и экспоненциальной задержкой.
func (c *ChartsService) Render(ctx context.Context, req *usecase.RenderChartReq) ([]byte, error) {
	const (
		op         = "ChartsService.Render"
		baseJitter = 500 * time.Millisecond
		maxJitter  = 10 * time.Second
	)

	body, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		png, err := c.renderOnce(ctx, req.Kind, body)
		if err == nil {
			return png, nil
		}

		if attempt == c.maxRetries-1 {
			return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", c.maxRetries, err))
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		c.logger.Warnf("chart render failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("unreachable"))
}

// renderOnce выполняет один HTTP-запрос к сервису отрисовки.
func (c *ChartsService) renderOnce(ctx context.Context, kind usecase.ChartKind, body []byte) ([]byte, error) {
	const op = "ChartsService.renderOnce"

	url := fmt.Sprintf("%s/render/%s", c.baseURL, kind)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "image/png")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Тело ошибки короткое, читаем его целиком для диагностики
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, e.Wrap(op, fmt.Errorf("renderer returned %d: %s", resp.StatusCode, msg))
	}

	png, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(png) == 0 {
		return nil, e.Wrap(op, fmt.Errorf("renderer returned empty body"))
	}

	return png, nil
}
