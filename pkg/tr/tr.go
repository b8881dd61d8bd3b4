package tr

import (
	"context"

	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier — общий срез pgx.Tx и pgxpool.Pool, достаточный репозиториям.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	txAny := ctx.Value("tx")
	tx, ok := txAny.(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}

// From возвращает транзакцию из контекста, если она открыта, иначе пул.
// Позволяет репозиториям работать и внутри, и вне транзакций.
func From(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, err := TxFromCtx(ctx); err == nil {
		return tx
	}

	return pool
}
