package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")
	ErrTransactionConflict = fmt.Errorf("transaction conflict: retries exhausted")

	// Ошибки бизнес-логики котировок
	ErrProductNotFound   = fmt.Errorf("product not found")
	ErrInsufficientStock = fmt.Errorf("insufficient stock")
	ErrQuoteNotFound     = fmt.Errorf("quote not found")
	ErrQuoteNotPending   = fmt.Errorf("quote is not pending")
	ErrCustomerNotFound  = fmt.Errorf("customer not found")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidQuantity      = fmt.Errorf("quantity must be a positive integer")
	ErrNoLineItems          = fmt.Errorf("no line items provided")
	ErrNegativeStock        = fmt.Errorf("stock must be non-negative")
	ErrInvalidStatus        = fmt.Errorf("invalid status value")
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrCustomerNameRequired = fmt.Errorf("customer name is required")
	ErrEmailRequired        = fmt.Errorf("customer email is required")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// InsufficientStockError несёт данные для отображения пользователю:
// сколько запрошено и сколько доступно на момент чтения.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Requested int
	Available int
}

func (i *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %d (%s): requested %d, available %d",
		ErrInsufficientStock.Error(), i.ProductID, i.Name, i.Requested, i.Available)
}

func (i *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// ProductNotFoundError — строка котировки ссылается на несуществующий продукт.
type ProductNotFoundError struct {
	ProductID int64
}

func (p *ProductNotFoundError) Error() string {
	return fmt.Sprintf("%s: product %d", ErrProductNotFound.Error(), p.ProductID)
}

func (p *ProductNotFoundError) Unwrap() error {
	return ErrProductNotFound
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
