package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/jitter"
	"github.com/DRSN-tech/quotes-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// QuoteUseCase реализует коммит котировок и переходы их статусов.
type QuoteUseCase struct {
	quoteRepo    QuoteRepository
	productRepo  ProductRepository
	customerRepo CustomerRepository
	activityRepo ActivityRepository
	cacheRepo    CacheRepository
	dbPool       transaction.Transactional
	logger       logger.Logger
	maxRetries   int
}

func NewQuoteUC(
	quoteRepo QuoteRepository,
	productRepo ProductRepository,
	customerRepo CustomerRepository,
	activityRepo ActivityRepository,
	cacheRepo CacheRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *QuoteUseCase {
	const defaultMaxRetries = 5

	return &QuoteUseCase{
		quoteRepo:    quoteRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		activityRepo: activityRepo,
		cacheRepo:    cacheRepo,
		dbPool:       dbPool,
		logger:       logger,
		maxRetries:   defaultMaxRetries,
	}
}

// stagedUpdate — вычисленное новое состояние продукта; применяется только
// после того, как все строки котировки прошли проверку остатков.
type stagedUpdate struct {
	productID int64
	newStock  int
	newStatus domain.ProductStatus
}

// CommitQuote атомарно проверяет остатки по всем строкам, списывает их,
// обновляет производный статус продуктов и сохраняет котировку.
// Либо применяются все эффекты, либо ни одного.
//
// Привязка клиента по email выполняется отдельным шагом до транзакции и её
// атомарностью не защищена: сбой привязки логируется и коммит не блокирует.
func (u *QuoteUseCase) CommitQuote(ctx context.Context, req *CommitQuoteReq) (*CommitQuoteRes, error) {
	const (
		op          = "QuoteUseCase.CommitQuote"
		baseBackoff = 50 * time.Millisecond
		maxBackoff  = time.Second
	)

	customerID := u.resolveBuyer(ctx, req)

	for attempt := 0; attempt < u.maxRetries; attempt++ {
		res, err := u.commitOnce(ctx, req, customerID)
		if err == nil {
			return res, nil
		}

		if !isSerializationFailure(err) {
			return nil, e.Wrap(op, err)
		}

		// Конкурентная транзакция изменила те же продукты: повторяем весь цикл
		// чтение-проверка-применение заново, решения прошлой попытки не переиспользуются.
		sleepTime := jitter.ExponentialBackoff(baseBackoff, maxBackoff, attempt, jitter.DefaultJitter)
		u.logger.Warnf("quote commit conflict, retrying in %v (attempt %d)", sleepTime, attempt+1)

		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, e.ErrTransactionConflict)
}

// commitOnce выполняет одну попытку транзакции чтение-проверка-применение.
func (u *QuoteUseCase) commitOnce(ctx context.Context, req *CommitQuoteReq, customerID int64) (*CommitQuoteRes, error) {
	var err error

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, u.dbPool)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	ids := distinctProductIDs(req.Items)

	// Фаза 1: батч-чтение текущего состояния всех продуктов
	products, err := u.productRepo.GetForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	// Фаза 2: проверка строк в порядке их передачи; эффекты не применяются,
	// пока не пройдут все проверки
	var (
		items   = make([]domain.QuoteItem, 0, len(req.Items))
		staged  = make(map[int64]*stagedUpdate, len(ids))
		total   int64
		remains = make(map[int64]int, len(ids))
	)

	for _, line := range req.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			err = &e.ProductNotFoundError{ProductID: line.ProductID}
			return nil, err
		}

		if _, seen := remains[product.ID]; !seen {
			remains[product.ID] = product.Stock
		}

		if remains[product.ID] < line.Quantity {
			err = &e.InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: line.Quantity,
				Available: remains[product.ID],
			}
			return nil, err
		}

		remains[product.ID] -= line.Quantity

		// Нулевой остаток даёт Out of Stock; прочие статусы сохраняются как есть
		// (Discontinued с остатком не превращается в Available).
		newStatus := product.Status
		if remains[product.ID] == 0 {
			newStatus = domain.StatusOutOfStock
		}

		staged[product.ID] = &stagedUpdate{
			productID: product.ID,
			newStock:  remains[product.ID],
			newStatus: newStatus,
		}

		items = append(items, domain.QuoteItem{
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
			Price:     product.Price,
			Quantity:  line.Quantity,
		})
		total += product.Price * int64(line.Quantity)
	}

	// Фаза 3: применение списаний и сохранение котировки
	for _, id := range ids {
		up := staged[id]
		if err = u.productRepo.ApplyStock(ctx, up.productID, up.newStock, up.newStatus); err != nil {
			return nil, err
		}
	}

	quote := &domain.Quote{
		UID: uuid.NewString(),
		Buyer: domain.BuyerInfo{
			CustomerID: customerID,
			Name:       req.BuyerName,
			Email:      req.BuyerEmail,
			Phone:      req.BuyerPhone,
			Address:    req.BuyerAddress,
		},
		Items:       items,
		TotalAmount: total,
		Status:      domain.QuoteStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := u.quoteRepo.Create(ctx, quote)
	if err != nil {
		return nil, err
	}

	if err = u.recordActivity(ctx, domain.ActionCreateQuote,
		fmt.Sprintf("Created quote for %s", req.BuyerName), req.Actor, created); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	if cacheErr := u.cacheRepo.DeleteProducts(ctx, ids); cacheErr != nil {
		u.logger.Warnf("Failed to invalidate product cache after quote commit: %v", cacheErr)
	}

	return &CommitQuoteRes{
		QuoteID:     created.ID,
		UID:         created.UID,
		TotalAmount: created.TotalAmount,
	}, nil
}

// resolveBuyer связывает котировку с клиентом по email, создавая клиента при
// необходимости. Возвращает 0, если привязка не удалась.
func (u *QuoteUseCase) resolveBuyer(ctx context.Context, req *CommitQuoteReq) int64 {
	const op = "QuoteUseCase.resolveBuyer"

	customer, err := u.customerRepo.GetByEmail(ctx, req.BuyerEmail)
	if err == nil && customer != nil {
		return customer.ID
	}
	if err != nil && !errors.Is(err, e.ErrCustomerNotFound) {
		u.logger.Warnf("%s: customer lookup failed: %v", op, err)
		return 0
	}

	created, err := u.customerRepo.Create(ctx, domain.NewCustomer(req.BuyerName, req.BuyerEmail, req.BuyerPhone, req.BuyerAddress))
	if err != nil {
		u.logger.Warnf("%s: customer auto-create failed: %v", op, err)
		return 0
	}

	u.logger.Infof("%s: auto-created customer %d for %s", op, created.ID, req.BuyerEmail)
	return created.ID
}

// SetQuoteStatus выполняет переход Pending -> Accepted | Rejected.
// Переход защищён проверкой исходного статуса: повторное принятие или смена
// уже принятой котировки возвращает e.ErrQuoteNotPending.
// Остатки при отклонении не восстанавливаются.
func (u *QuoteUseCase) SetQuoteStatus(ctx context.Context, req *SetQuoteStatusReq) error {
	const op = "QuoteUseCase.SetQuoteStatus"

	if req.Status != domain.QuoteStatusAccepted && req.Status != domain.QuoteStatusRejected {
		return e.Wrap(op, e.ErrInvalidStatus)
	}

	var err error
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, u.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = u.quoteRepo.SetStatus(ctx, req.QuoteID, req.Status, req.Reason, time.Now().UTC()); err != nil {
		return e.Wrap(op, err)
	}

	description := fmt.Sprintf("Quote %d %s", req.QuoteID, strings.ToLower(string(req.Status)))
	if err = u.recordActivity(ctx, domain.ActionUpdateQuote, description, req.Actor, map[string]any{
		"quote_id": req.QuoteID,
		"status":   req.Status,
		"reason":   req.Reason,
	}); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (u *QuoteUseCase) GetQuote(ctx context.Context, id int64) (*QuoteRes, error) {
	const op = "QuoteUseCase.GetQuote"

	quote, err := u.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewQuoteRes(quote), nil
}

func (u *QuoteUseCase) ListQuotes(ctx context.Context, req *ListQuotesReq) ([]QuoteRes, error) {
	const op = "QuoteUseCase.ListQuotes"

	quotes, err := u.quoteRepo.List(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]QuoteRes, 0, len(quotes))
	for i := range quotes {
		result = append(result, *NewQuoteRes(&quotes[i]))
	}

	return result, nil
}

// ExportQuotesCSV выгружает котировки текущей вкладки в CSV.
func (u *QuoteUseCase) ExportQuotesCSV(ctx context.Context, req *ListQuotesReq) ([]byte, error) {
	const op = "QuoteUseCase.ExportQuotesCSV"

	quotes, err := u.quoteRepo.List(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := []string{"Quote ID", "Date", "Customer Name", "Email", "Mobile", "Status", "Total Amount", "Items Count"}
	if err := w.Write(header); err != nil {
		return nil, e.Wrap(op, err)
	}

	for i := range quotes {
		q := &quotes[i]
		row := []string{
			q.UID,
			q.CreatedAt.Format("2006-01-02"),
			q.Buyer.Name,
			q.Buyer.Email,
			q.Buyer.Phone,
			string(q.Status),
			FormatCents(q.TotalAmount),
			fmt.Sprintf("%d", len(q.Items)),
		}
		if err := w.Write(row); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return []byte(buf.String()), nil
}

// recordActivity пишет событие журнала в текущую транзакцию (outbox).
func (u *QuoteUseCase) recordActivity(ctx context.Context, action domain.ActivityAction, description, actor string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = u.activityRepo.Create(ctx, &domain.ActivityEvent{
		EventID:     uuid.NewString(),
		Action:      action,
		Description: description,
		Actor:       actor,
		Payload:     data,
	})

	return err
}

// FormatCents форматирует сумму в копейках как строку с двумя знаками.
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// isSerializationFailure распознаёт конфликт сериализации или дедлок PostgreSQL,
// после которых транзакцию безопасно повторить целиком.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}

	return false
}

// distinctProductIDs возвращает уникальные ID продуктов в порядке первого упоминания.
func distinctProductIDs(items []LineItemReq) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	return ids
}
