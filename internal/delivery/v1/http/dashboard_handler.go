package http

import (
	"net/http"
	"strconv"

	"github.com/DRSN-tech/quotes-backend/internal/usecase"
	"github.com/DRSN-tech/quotes-backend/pkg/logger"
)

type DashboardHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewDashboardHandler(productUsecase usecase.ProductUC, logger logger.Logger) *DashboardHandler {
	return &DashboardHandler{productUsecase: productUsecase, logger: logger}
}

// stats
//
//	@Summary	Карточки дашборда
//	@Description	Всего продуктов, низкий остаток, стоимость склада, ожидающие котировки
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	usecase.DashboardStats
//	@Router		/dashboard/stats [get]
func (d *DashboardHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := d.productUsecase.DashboardStats(r.Context())
	if err != nil {
		d.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, stats)
}

// activity
//
//	@Summary	Последние события журнала активности
//	@Tags		dashboard
//	@Produce	json
//	@Param		limit	query		int	false	"Число событий, по умолчанию 10"
//	@Success	200		{array}		usecase.ActivityRes
//	@Router		/dashboard/activity [get]
func (d *DashboardHandler) activity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := d.productUsecase.RecentActivity(r.Context(), limit)
	if err != nil {
		d.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, events)
}
