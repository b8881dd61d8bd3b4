package http

import (
	"net/http"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/internal/usecase"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type QuoteHandler struct {
	quoteUsecase usecase.QuoteUC
	logger       logger.Logger
}

func NewQuoteHandler(quoteUsecase usecase.QuoteUC, logger logger.Logger) *QuoteHandler {
	return &QuoteHandler{quoteUsecase: quoteUsecase, logger: logger}
}

type quoteLineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type commitQuoteRequest struct {
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	Items           []quoteLineItem `json:"items"`
	Actor           string          `json:"actor"`
}

// validate проверяет форму запроса до обращения к бизнес-логике.
func (req *commitQuoteRequest) validate() error {
	if req.CustomerName == "" || req.CustomerEmail == "" ||
		req.CustomerPhone == "" || req.CustomerAddress == "" {
		return e.ErrMissingFields
	}
	if len(req.Items) == 0 {
		return e.ErrNoLineItems
	}
	for _, item := range req.Items {
		if item.ProductID <= 0 || item.Quantity <= 0 {
			return e.ErrInvalidQuantity
		}
	}

	return nil
}

type quoteStatusRequest struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor"`
}

// commitQuote
//
//	@Summary		Создание котировки
//	@Description	Атомарно списывает остатки и сохраняет котировку со снапшотом цен
//	@Tags			quotes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		commitQuoteRequest	true	"Котировка"
//	@Success		201		{object}	usecase.CommitQuoteRes
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse	"Продукт не найден"
//	@Failure		409		{object}	ErrorResponse	"Недостаточно остатка или конфликт транзакции"
//	@Router			/quotes [post]
func (q *QuoteHandler) commitQuote(w http.ResponseWriter, r *http.Request) {
	var req commitQuoteRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := req.validate(); err != nil {
		q.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	items := make([]usecase.LineItemReq, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.LineItemReq{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	res, err := q.quoteUsecase.CommitQuote(r.Context(), &usecase.CommitQuoteReq{
		BuyerName:    req.CustomerName,
		BuyerEmail:   req.CustomerEmail,
		BuyerPhone:   req.CustomerPhone,
		BuyerAddress: req.CustomerAddress,
		Items:        items,
		Actor:        req.Actor,
	})
	if err != nil {
		q.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, res)
}

// getQuote
//
//	@Summary	Котировка по ID
//	@Tags		quotes
//	@Produce	json
//	@Param		id	path		int	true	"ID котировки"
//	@Success	200	{object}	usecase.QuoteRes
//	@Failure	404	{object}	ErrorResponse
//	@Router		/quotes/{id} [get]
func (q *QuoteHandler) getQuote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	quote, err := q.quoteUsecase.GetQuote(r.Context(), id)
	if err != nil {
		q.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, quote)
}

// listQuotes
//
//	@Summary	Список котировок
//	@Tags		quotes
//	@Produce	json
//	@Param		status	query		string	false	"All | Pending | Accepted | Rejected"
//	@Param		search	query		string	false	"Поиск по имени покупателя"
//	@Param		date	query		string	false	"Фильтр по дате создания YYYY-MM-DD"
//	@Success	200		{array}		usecase.QuoteRes
//	@Router		/quotes [get]
func (q *QuoteHandler) listQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := q.quoteUsecase.ListQuotes(r.Context(), listQuotesReqFromQuery(r))
	if err != nil {
		q.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, quotes)
}

// acceptQuote
//
//	@Summary	Принятие котировки
//	@Tags		quotes
//	@Accept		json
//	@Produce	json
//	@Param		id		path	int					true	"ID котировки"
//	@Param		request	body	quoteStatusRequest	false	"Актор"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse	"Котировка уже обработана"
//	@Router		/quotes/{id}/accept [post]
func (q *QuoteHandler) acceptQuote(w http.ResponseWriter, r *http.Request) {
	q.setStatus(w, r, domain.QuoteStatusAccepted)
}

// rejectQuote
//
//	@Summary		Отклонение котировки
//	@Description	Остатки при отклонении не восстанавливаются
//	@Tags			quotes
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int					true	"ID котировки"
//	@Param			request	body	quoteStatusRequest	false	"Причина отклонения"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse	"Котировка уже обработана"
//	@Router			/quotes/{id}/reject [post]
func (q *QuoteHandler) rejectQuote(w http.ResponseWriter, r *http.Request) {
	q.setStatus(w, r, domain.QuoteStatusRejected)
}

func (q *QuoteHandler) setStatus(w http.ResponseWriter, r *http.Request, status domain.QuoteStatus) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	// Тело опционально: accept обычно приходит без него
	var req quoteStatusRequest
	_ = decodeJSONBody(r, &req)

	if err := q.quoteUsecase.SetQuoteStatus(r.Context(), &usecase.SetQuoteStatusReq{
		QuoteID: id,
		Status:  status,
		Reason:  req.Reason,
		Actor:   req.Actor,
	}); err != nil {
		q.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// exportQuotes
//
//	@Summary	Экспорт котировок в CSV
//	@Tags		quotes
//	@Produce	text/csv
//	@Param		status	query		string	false	"All | Pending | Accepted | Rejected"
//	@Param		search	query		string	false	"Поиск по имени покупателя"
//	@Param		date	query		string	false	"Фильтр по дате создания YYYY-MM-DD"
//	@Success	200		{string}	string
//	@Router		/quotes/export [get]
func (q *QuoteHandler) exportQuotes(w http.ResponseWriter, r *http.Request) {
	data, err := q.quoteUsecase.ExportQuotesCSV(r.Context(), listQuotesReqFromQuery(r))
	if err != nil {
		q.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteCSV(w, "quotes.csv", data)
}

func listQuotesReqFromQuery(r *http.Request) *usecase.ListQuotesReq {
	return &usecase.ListQuotesReq{
		Status:     r.URL.Query().Get("status"),
		Search:     r.URL.Query().Get("search"),
		DatePrefix: r.URL.Query().Get("date"),
	}
}
