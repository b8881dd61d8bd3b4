package http

import (
	_ "github.com/DRSN-tech/quotes-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/quotes-backend/internal/usecase"
	"github.com/DRSN-tech/quotes-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(prUC usecase.ProductUC, custUC usecase.CustomerUC, quoteUC usecase.QuoteUC, analyticsUC usecase.AnalyticsUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerProductRoutes(v1, NewProductHandler(prUC, r.logger))
		registerCustomerRoutes(v1, NewCustomerHandler(custUC, r.logger))
		registerQuoteRoutes(v1, NewQuoteHandler(quoteUC, r.logger))
		registerDashboardRoutes(v1, NewDashboardHandler(prUC, r.logger))
		registerAnalyticsRoutes(v1, NewAnalyticsHandler(analyticsUC, r.logger))
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", h.addProduct)
		pr.Get("/", h.listProducts)
		pr.Get("/info", h.getProductsInfo)
		pr.Get("/export", h.exportProducts)
		pr.Post("/bulk-delete", h.deleteProducts)
		pr.Get("/{id}", h.getProduct)
		pr.Put("/{id}", h.updateProduct)
		pr.Delete("/{id}", h.deleteProduct)
	})
}

func registerCustomerRoutes(router chi.Router, h *CustomerHandler) {
	router.Route("/customers", func(c chi.Router) {
		c.Post("/", h.addCustomer)
		c.Get("/", h.listCustomers)
		c.Put("/{id}", h.updateCustomer)
		c.Delete("/{id}", h.deleteCustomer)
	})
}

func registerQuoteRoutes(router chi.Router, h *QuoteHandler) {
	router.Route("/quotes", func(q chi.Router) {
		q.Post("/", h.commitQuote)
		q.Get("/", h.listQuotes)
		q.Get("/export", h.exportQuotes)
		q.Get("/{id}", h.getQuote)
		q.Post("/{id}/accept", h.acceptQuote)
		q.Post("/{id}/reject", h.rejectQuote)
	})
}

func registerDashboardRoutes(router chi.Router, h *DashboardHandler) {
	router.Route("/dashboard", func(d chi.Router) {
		d.Get("/stats", h.stats)
		d.Get("/activity", h.activity)
	})
}

func registerAnalyticsRoutes(router chi.Router, h *AnalyticsHandler) {
	router.Route("/analytics", func(a chi.Router) {
		a.Get("/charts/{kind}", h.renderChart)
		a.Post("/charts/{kind}/snapshot", h.snapshotChart)
	})
}
