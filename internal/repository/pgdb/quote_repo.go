package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/internal/usecase"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// QuoteRepo реализует репозиторий котировок поверх PostgreSQL.
// Котировка хранится в двух таблицах: quotes и quote_items (замороженные строки).
type QuoteRepo struct {
	pool *pgxpool.Pool
}

func NewQuoteRepo(pool *pgxpool.Pool) *QuoteRepo {
	return &QuoteRepo{pool: pool}
}

// Create вставляет котировку вместе со строками внутри текущей транзакции.
func (q *QuoteRepo) Create(ctx context.Context, quote *domain.Quote) (*domain.Quote, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO quotes (
			uid,
			customer_id,
			customer_name,
			customer_email,
			customer_phone,
			customer_address,
			total_amount,
			status,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
	`

	// Нулевой CustomerID означает, что привязка клиента не удалась
	var customerID sql.NullInt64
	if quote.Buyer.CustomerID != 0 {
		customerID = sql.NullInt64{Int64: quote.Buyer.CustomerID, Valid: true}
	}

	if err := tx.QueryRow(ctx, query,
		quote.UID,
		customerID,
		quote.Buyer.Name,
		quote.Buyer.Email,
		quote.Buyer.Phone,
		quote.Buyer.Address,
		quote.TotalAmount,
		string(quote.Status),
		quote.CreatedAt,
	).Scan(&quote.ID); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	itemQuery := `
		INSERT INTO quote_items (quote_id, product_id, name, category, price, quantity, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for i, item := range quote.Items {
		if _, err := tx.Exec(ctx, itemQuery,
			quote.ID, item.ProductID, item.Name, item.Category, item.Price, item.Quantity, i,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return quote, nil
}

func (q *QuoteRepo) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	query := `
		SELECT id, uid, customer_id, customer_name, customer_email, customer_phone,
		       customer_address, total_amount, status, created_at, accepted_at,
		       rejected_at, rejection_reason
		FROM quotes
		WHERE id = $1
	`

	quote, err := scanQuote(q.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrQuoteNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items, err := q.loadItems(ctx, []int64{quote.ID})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	quote.Items = items[quote.ID]

	return quote, nil
}

// List возвращает котировки по фильтрам, свежие первыми.
func (q *QuoteRepo) List(ctx context.Context, req *usecase.ListQuotesReq) ([]domain.Quote, error) {
	query := `
		SELECT id, uid, customer_id, customer_name, customer_email, customer_phone,
		       customer_address, total_amount, status, created_at, accepted_at,
		       rejected_at, rejection_reason
		FROM quotes
		WHERE 1=1
	`

	var args []any
	if req.Status != "" && req.Status != "All" {
		args = append(args, req.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		query += fmt.Sprintf(" AND customer_name ILIKE $%d", len(args))
	}
	if req.DatePrefix != "" {
		args = append(args, req.DatePrefix)
		query += fmt.Sprintf(" AND to_char(created_at, 'YYYY-MM-DD') = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := q.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var quotes []domain.Quote
	var ids []int64
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		quotes = append(quotes, *quote)
		ids = append(ids, quote.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(ids) == 0 {
		return quotes, nil
	}

	items, err := q.loadItems(ctx, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	for i := range quotes {
		quotes[i].Items = items[quotes[i].ID]
	}

	return quotes, nil
}

// SetStatus выполняет переход Pending -> status. Защита от повторного перехода
// встроена в условие WHERE: ушедшая из Pending котировка не обновляется.
func (q *QuoteRepo) SetStatus(ctx context.Context, quoteID int64, status domain.QuoteStatus, reason string, at time.Time) error {
	var query string
	var args []any
	switch status {
	case domain.QuoteStatusAccepted:
		query = `
			UPDATE quotes
			SET status = $2, accepted_at = $3
			WHERE id = $1 AND status = 'Pending'
		`
		args = []any{quoteID, string(status), at}
	case domain.QuoteStatusRejected:
		query = `
			UPDATE quotes
			SET status = $2, rejected_at = $3, rejection_reason = $4
			WHERE id = $1 AND status = 'Pending'
		`
		args = []any{quoteID, string(status), at, reason}
	default:
		return e.ErrInvalidStatus
	}

	result, err := tr.From(ctx, q.pool).Exec(ctx, query, args...)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		var exists bool
		if err := q.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quotes WHERE id = $1)`, quoteID).
			Scan(&exists); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
		if !exists {
			return e.ErrQuoteNotFound
		}

		return e.ErrQuoteNotPending
	}

	return nil
}

func (q *QuoteRepo) CountByStatus(ctx context.Context, status domain.QuoteStatus) (int64, error) {
	var count int64
	err := q.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotes WHERE status = $1`, string(status)).
		Scan(&count)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return count, nil
}

// loadItems загружает строки для набора котировок одним запросом.
func (q *QuoteRepo) loadItems(ctx context.Context, quoteIDs []int64) (map[int64][]domain.QuoteItem, error) {
	query := `
		SELECT quote_id, product_id, name, category, price, quantity
		FROM quote_items
		WHERE quote_id = ANY($1)
		ORDER BY quote_id, position
	`

	rows, err := q.pool.Query(ctx, query, quoteIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]domain.QuoteItem, len(quoteIDs))
	for rows.Next() {
		var quoteID int64
		var item domain.QuoteItem
		if err := rows.Scan(
			&quoteID, &item.ProductID, &item.Name, &item.Category, &item.Price, &item.Quantity,
		); err != nil {
			return nil, err
		}

		result[quoteID] = append(result[quoteID], item)
	}

	return result, rows.Err()
}

func scanQuote(row pgx.Row) (*domain.Quote, error) {
	var quote domain.Quote
	var customerID sql.NullInt64
	var status string
	var reason sql.NullString

	err := row.Scan(
		&quote.ID, &quote.UID, &customerID,
		&quote.Buyer.Name, &quote.Buyer.Email, &quote.Buyer.Phone, &quote.Buyer.Address,
		&quote.TotalAmount, &status, &quote.CreatedAt,
		&quote.AcceptedAt, &quote.RejectedAt, &reason,
	)
	if err != nil {
		return nil, err
	}

	quote.Buyer.CustomerID = customerID.Int64
	quote.Status = domain.QuoteStatus(status)
	quote.RejectionReason = reason.String

	return &quote, nil
}
