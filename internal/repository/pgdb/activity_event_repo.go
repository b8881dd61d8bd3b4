package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/quotes-backend/internal/usecase"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/tr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ActivityEventRepo хранит журнал активности. Таблица одновременно служит
// transactional outbox: воркер забирает pending-строки и публикует их в Kafka.
type ActivityEventRepo struct {
	pool       *pgxpool.Pool
	conv       converter.ActivityEventConverter
	outboxConv converter.ActivityOutboxConverter
}

func NewActivityEventRepo(
	pool *pgxpool.Pool,
	conv converter.ActivityEventConverter,
	outboxConv converter.ActivityOutboxConverter,
) *ActivityEventRepo {
	return &ActivityEventRepo{
		pool:       pool,
		conv:       conv,
		outboxConv: outboxConv,
	}
}

// Create вставляет событие журнала внутри текущей транзакции и будит воркер.
func (a *ActivityEventRepo) Create(ctx context.Context, event *domain.ActivityEvent) (*domain.ActivityEvent, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO activity_events (event_id, action, description, actor, payload, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`

	if err := tx.QueryRow(ctx, query,
		event.EventID,
		string(event.Action),
		event.Description,
		event.Actor,
		event.Payload,
		usecase.Pending,
	).Scan(&event.ID, &event.CreatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, fmt.Errorf("%s: event with id %s already exists", whereami.WhereAmI(), event.EventID)
		}

		return nil, fmt.Errorf("%s: failed to insert event: %w", whereami.WhereAmI(), err)
	}

	_, err = tx.Exec(ctx, "NOTIFY outbox_pending;")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return event, nil
}

// Recent возвращает последние события журнала для дашборда.
func (a *ActivityEventRepo) Recent(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	query := `
		SELECT id, event_id, action, description, actor, payload, created_at
		FROM activity_events
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := a.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.ActivityEventModel
	for rows.Next() {
		var model converter.ActivityEventModel
		if err := rows.Scan(
			&model.ID, &model.EventID, &model.Action, &model.Description,
			&model.Actor, &model.Payload, &model.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a.conv.ToArrEntity(models), nil
}

// GetAndMarkAsProcessing атомарно забирает пачку pending-событий.
// SKIP LOCKED позволяет нескольким воркерам работать без конфликтов.
func (a *ActivityEventRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*usecase.ActivityOutboxEvent, error) {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", whereami.WhereAmI(), err)
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	query := `
		UPDATE activity_events
        SET status = $1, processing_started_at = now()
        WHERE id IN (
            SELECT id FROM activity_events
            WHERE status = $2
            ORDER BY created_at
            LIMIT $3
            FOR UPDATE SKIP LOCKED
        )
        RETURNING id, event_id, action, description, actor, payload, status, created_at, processed_at
	`

	rows, err := tx.Query(ctx, query, usecase.Processing, usecase.Pending, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query pending events: %w", whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.ActivityEventModel
	for rows.Next() {
		var model converter.ActivityEventModel
		var processedAt sql.NullTime

		err := rows.Scan(
			&model.ID,
			&model.EventID,
			&model.Action,
			&model.Description,
			&model.Actor,
			&model.Payload,
			&model.Status,
			&model.CreatedAt,
			&processedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan event: %w", whereami.WhereAmI(), err)
		}

		if processedAt.Valid {
			model.ProcessedAt = &processedAt.Time
		}

		models = append(models, &model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iterator error: %w", whereami.WhereAmI(), err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", whereami.WhereAmI(), err)
	}

	return a.outboxConv.ToArrEntity(models), nil
}

func (a *ActivityEventRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	query := `
		UPDATE activity_events
		SET status = $1, processed_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := a.pool.Exec(ctx, query, usecase.Processed, id, usecase.Processing)
	if err != nil {
		return fmt.Errorf("%s: failed to mark event %d as processed: %w", whereami.WhereAmI(), id, err)
	}

	rowsAffected := result.RowsAffected()
	if rowsAffected == 0 {
		// Событие уже было обработано другим worker'ом или не существует
		return nil
	}

	return nil
}

// postgresDuplicate распознаёт нарушение уникального ограничения.
func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
