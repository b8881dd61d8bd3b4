package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DRSN-tech/quotes-backend/internal/domain"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CustomerUseCase реализует справочник клиентов.
type CustomerUseCase struct {
	customerRepo CustomerRepository
	activityRepo ActivityRepository
	dbPool       transaction.Transactional
	logger       logger.Logger
}

func NewCustomerUC(
	customerRepo CustomerRepository,
	activityRepo ActivityRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *CustomerUseCase {
	return &CustomerUseCase{
		customerRepo: customerRepo,
		activityRepo: activityRepo,
		dbPool:       dbPool,
		logger:       logger,
	}
}

// SaveCustomer создаёт клиента при нулевом ID, иначе обновляет существующего.
func (c *CustomerUseCase) SaveCustomer(ctx context.Context, req *SaveCustomerReq) (*CustomerRes, error) {
	const op = "CustomerUseCase.SaveCustomer"

	if err := c.validateCustomer(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	customer := domain.NewCustomer(req.Name, req.Email, req.Phone, req.Address)
	customer.ID = req.ID

	var saved *domain.Customer

	err := c.inTx(ctx, func(ctx context.Context) error {
		var err error
		action := domain.ActionAddCustomer
		description := fmt.Sprintf("Added customer %s", req.Name)

		if req.ID == 0 {
			saved, err = c.customerRepo.Create(ctx, customer)
		} else {
			saved, err = c.customerRepo.Update(ctx, customer)
			action = domain.ActionUpdateCustomer
			description = fmt.Sprintf("Updated customer %s", req.Name)
		}
		if err != nil {
			return err
		}

		return c.recordActivity(ctx, action, description, req.Actor, saved)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCustomerRes(saved), nil
}

func (c *CustomerUseCase) ListCustomers(ctx context.Context, search string) ([]CustomerRes, error) {
	const op = "CustomerUseCase.ListCustomers"

	customers, err := c.customerRepo.List(ctx, search)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]CustomerRes, 0, len(customers))
	for i := range customers {
		result = append(result, *NewCustomerRes(&customers[i]))
	}

	return result, nil
}

func (c *CustomerUseCase) DeleteCustomer(ctx context.Context, id int64, actor string) error {
	const op = "CustomerUseCase.DeleteCustomer"

	err := c.inTx(ctx, func(ctx context.Context) error {
		if err := c.customerRepo.Delete(ctx, id); err != nil {
			return err
		}

		return c.recordActivity(ctx, domain.ActionDeleteCustomer, "Deleted a customer", actor, id)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (c *CustomerUseCase) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = fn(ctx); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

func (c *CustomerUseCase) recordActivity(ctx context.Context, action domain.ActivityAction, description, actor string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = c.activityRepo.Create(ctx, &domain.ActivityEvent{
		EventID:     uuid.NewString(),
		Action:      action,
		Description: description,
		Actor:       actor,
		Payload:     data,
	})

	return err
}

func (c *CustomerUseCase) validateCustomer(req *SaveCustomerReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrCustomerNameRequired
	}

	if strings.TrimSpace(req.Email) == "" {
		return e.ErrEmailRequired
	}

	return nil
}
