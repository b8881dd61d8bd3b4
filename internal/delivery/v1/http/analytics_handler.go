package http

import (
	"net/http"

	"github.com/DRSN-tech/quotes-backend/internal/usecase"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type AnalyticsHandler struct {
	analyticsUsecase usecase.AnalyticsUC
	logger           logger.Logger
}

func NewAnalyticsHandler(analyticsUsecase usecase.AnalyticsUC, logger logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUsecase: analyticsUsecase, logger: logger}
}

// renderChart
//
//	@Summary	Отрисовка графика
//	@Description	Собирает датасет и запрашивает PNG у внешнего сервиса отрисовки
//	@Tags		analytics
//	@Produce	image/png
//	@Param		kind	path		string	true	"product_category | product_stock | quote_status | revenue_trend | top_products"
//	@Success	200		{string}	string
//	@Failure	400		{object}	ErrorResponse
//	@Router		/analytics/charts/{kind} [get]
func (a *AnalyticsHandler) renderChart(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !usecase.ValidChartKind(kind) {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	png, err := a.analyticsUsecase.RenderChart(r.Context(), usecase.ChartKind(kind))
	if err != nil {
		a.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WritePNG(w, png)
}

// snapshotChart
//
//	@Summary	Архивирование графика
//	@Description	Отрисовывает график, сохраняет PNG в объектное хранилище и возвращает presigned-ссылку
//	@Tags		analytics
//	@Produce	json
//	@Param		kind	path		string	true	"product_category | product_stock | quote_status | revenue_trend | top_products"
//	@Success	201		{object}	usecase.SnapshotRes
//	@Failure	400		{object}	ErrorResponse
//	@Router		/analytics/charts/{kind}/snapshot [post]
func (a *AnalyticsHandler) snapshotChart(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !usecase.ValidChartKind(kind) {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	res, err := a.analyticsUsecase.SnapshotChart(r.Context(), usecase.ChartKind(kind))
	if err != nil {
		a.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, res)
}
