package usecase

import "context"

type ProductUC interface {
	AddProduct(ctx context.Context, req *SaveProductReq) (*ProductRes, error)
	GetProduct(ctx context.Context, id int64) (*ProductRes, error)
	ListProducts(ctx context.Context, req *ListProductsReq) ([]ProductRes, error)
	UpdateProduct(ctx context.Context, id int64, req *SaveProductReq) (*ProductRes, error)
	DeleteProducts(ctx context.Context, req *DeleteProductsReq) (int64, error)
	GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
	ExportProductsCSV(ctx context.Context) ([]byte, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	RecentActivity(ctx context.Context, limit int) ([]ActivityRes, error)
}

type CustomerUC interface {
	SaveCustomer(ctx context.Context, req *SaveCustomerReq) (*CustomerRes, error)
	ListCustomers(ctx context.Context, search string) ([]CustomerRes, error)
	DeleteCustomer(ctx context.Context, id int64, actor string) error
}

type QuoteUC interface {
	CommitQuote(ctx context.Context, req *CommitQuoteReq) (*CommitQuoteRes, error)
	GetQuote(ctx context.Context, id int64) (*QuoteRes, error)
	ListQuotes(ctx context.Context, req *ListQuotesReq) ([]QuoteRes, error)
	SetQuoteStatus(ctx context.Context, req *SetQuoteStatusReq) error
	ExportQuotesCSV(ctx context.Context, req *ListQuotesReq) ([]byte, error)
}

type AnalyticsUC interface {
	RenderChart(ctx context.Context, kind ChartKind) ([]byte, error)
	SnapshotChart(ctx context.Context, kind ChartKind) (*SnapshotRes, error)
}
