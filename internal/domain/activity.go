package domain

import "time"

// ActivityAction — тип действия в журнале активности.
type ActivityAction string

const (
	ActionAddProduct     ActivityAction = "add_product"
	ActionUpdateProduct  ActivityAction = "update_product"
	ActionDeleteProduct  ActivityAction = "delete_product"
	ActionAddCustomer    ActivityAction = "add_customer"
	ActionUpdateCustomer ActivityAction = "update_customer"
	ActionDeleteCustomer ActivityAction = "delete_customer"
	ActionCreateQuote    ActivityAction = "create_quote"
	ActionUpdateQuote    ActivityAction = "update_quote"
)

// ActivityEvent — запись журнала активности. Одновременно служит outbox-событием
// для публикации в Kafka: строки со статусом pending забирает воркер.
type ActivityEvent struct {
	ID          int64
	EventID     string // uuid
	Action      ActivityAction
	Description string
	Actor       string
	Payload     []byte // JSON с деталями события
	CreatedAt   time.Time
}
