package http

import (
	"net/http"

	"github.com/DRSN-tech/quotes-backend/internal/usecase"
	"github.com/DRSN-tech/quotes-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	customerUsecase usecase.CustomerUC
	logger          logger.Logger
}

func NewCustomerHandler(customerUsecase usecase.CustomerUC, logger logger.Logger) *CustomerHandler {
	return &CustomerHandler{customerUsecase: customerUsecase, logger: logger}
}

type customerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Actor   string `json:"actor"`
}

// addCustomer
//
//	@Summary	Создание клиента
//	@Tags		customers
//	@Accept		json
//	@Produce	json
//	@Param		request	body		customerRequest	true	"Клиент"
//	@Success	201		{object}	usecase.CustomerRes
//	@Failure	400		{object}	ErrorResponse
//	@Router		/customers [post]
func (c *CustomerHandler) addCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	customer, err := c.customerUsecase.SaveCustomer(r.Context(), &usecase.SaveCustomerReq{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Actor:   req.Actor,
	})
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, customer)
}

// updateCustomer
//
//	@Summary	Обновление клиента
//	@Tags		customers
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"ID клиента"
//	@Param		request	body		customerRequest	true	"Клиент"
//	@Success	200		{object}	usecase.CustomerRes
//	@Failure	404		{object}	ErrorResponse
//	@Router		/customers/{id} [put]
func (c *CustomerHandler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	var req customerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	customer, err := c.customerUsecase.SaveCustomer(r.Context(), &usecase.SaveCustomerReq{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Actor:   req.Actor,
	})
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, customer)
}

// listCustomers
//
//	@Summary	Список клиентов
//	@Tags		customers
//	@Produce	json
//	@Param		search	query		string	false	"Поиск по имени и email"
//	@Success	200		{array}		usecase.CustomerRes
//	@Router		/customers [get]
func (c *CustomerHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := c.customerUsecase.ListCustomers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, customers)
}

// deleteCustomer
//
//	@Summary	Удаление клиента
//	@Tags		customers
//	@Produce	json
//	@Param		id	path	int	true	"ID клиента"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/customers/{id} [delete]
func (c *CustomerHandler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := c.customerUsecase.DeleteCustomer(r.Context(), id, r.URL.Query().Get("actor")); err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
