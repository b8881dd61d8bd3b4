package http

import (
	"net/http"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/internal/usecase"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// productRequest — тело запроса создания/обновления продукта.
// Цена приходит строкой в рублях и конвертируется в копейки.
type productRequest struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Stock    int    `json:"stock"`
	Status   string `json:"status"`
	Actor    string `json:"actor"`
}

func (pr *productRequest) toSaveReq() (*usecase.SaveProductReq, error) {
	if pr.Name == "" || pr.Category == "" || pr.Price == "" {
		return nil, e.ErrMissingFields
	}

	priceCents, err := parsePriceToCents(pr.Price)
	if err != nil {
		return nil, err
	}

	return &usecase.SaveProductReq{
		Name:     pr.Name,
		Price:    priceCents,
		Category: pr.Category,
		Stock:    pr.Stock,
		Status:   domain.ProductStatus(pr.Status),
		Actor:    pr.Actor,
	}, nil
}

// addProduct
//
//	@Summary		Создание продукта
//	@Description	Добавляет продукт в каталог. Нулевой остаток переводит статус в Out of Stock
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		productRequest	true	"Продукт"
//	@Success		201		{object}	usecase.ProductRes
//	@Failure		400		{object}	ErrorResponse
//	@Router			/products [post]
func (p *ProductHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	saveReq, err := req.toSaveReq()
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.AddProduct(r.Context(), saveReq)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, product)
}

// getProduct
//
//	@Summary	Продукт по ID
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID продукта"
//	@Success	200	{object}	usecase.ProductRes
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, product)
}

// listProducts
//
//	@Summary	Список продуктов
//	@Tags		products
//	@Produce	json
//	@Param		search		query		string	false	"Поиск по имени и категории"
//	@Param		category	query		string	false	"Фильтр по категории"
//	@Param		status		query		string	false	"Фильтр по статусу"
//	@Param		sort_by		query		string	false	"Сортировка: name | price | stock"
//	@Success	200			{array}		usecase.ProductRes
//	@Router		/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req := &usecase.ListProductsReq{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
		SortBy:   r.URL.Query().Get("sort_by"),
	}

	products, err := p.productUsecase.ListProducts(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, products)
}

// updateProduct
//
//	@Summary	Обновление продукта
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"ID продукта"
//	@Param		request	body		productRequest	true	"Продукт"
//	@Success	200		{object}	usecase.ProductRes
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	var req productRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	saveReq, err := req.toSaveReq()
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), id, saveReq)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, product)
}

// deleteProducts
//
//	@Summary	Удаление продуктов
//	@Description	Удаляет один или несколько продуктов по списку ID
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		request	body		object{ids=[]int,actor=string}	true	"ID продуктов"
//	@Success	200		{object}	map[string]interface{}
//	@Router		/products/bulk-delete [post]
func (p *ProductHandler) deleteProducts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs   []int64 `json:"ids"`
		Actor string  `json:"actor"`
	}
	if err := decodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if len(req.IDs) == 0 {
		WriteError(w, e.ErrMissingFields)
		return
	}

	deleted, err := p.productUsecase.DeleteProducts(r.Context(), &usecase.DeleteProductsReq{IDs: req.IDs, Actor: req.Actor})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"Deleted": deleted,
	})
}

// deleteProduct
//
//	@Summary	Удаление продукта
//	@Tags		products
//	@Produce	json
//	@Param		id	path	int	true	"ID продукта"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	deleted, err := p.productUsecase.DeleteProducts(r.Context(), &usecase.DeleteProductsReq{
		IDs:   []int64{id},
		Actor: r.URL.Query().Get("actor"),
	})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}
	if deleted == 0 {
		WriteError(w, &e.ProductNotFoundError{ProductID: id})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getProductsInfo
//
//	@Summary	Информация о продуктах по списку ID
//	@Tags		products
//	@Produce	json
//	@Param		ids	query		string	true	"ID через запятую: 1,2,3"
//	@Success	200	{object}	usecase.GetProductsRes
//	@Router		/products/info [get]
func (p *ProductHandler) getProductsInfo(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.GetProductsInfo(r.Context(), usecase.NewGetProductsReq(ids))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}

// exportProducts
//
//	@Summary	Экспорт каталога в CSV
//	@Tags		products
//	@Produce	text/csv
//	@Success	200	{string}	string
//	@Router		/products/export [get]
func (p *ProductHandler) exportProducts(w http.ResponseWriter, r *http.Request) {
	data, err := p.productUsecase.ExportProductsCSV(r.Context())
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteCSV(w, "products.csv", data)
}
