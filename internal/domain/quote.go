package domain

import "time"

// QuoteStatus — статус котировки в процессе согласования.
type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "Pending"
	QuoteStatusAccepted QuoteStatus = "Accepted"
	QuoteStatusRejected QuoteStatus = "Rejected"
)

// QuoteItem — строка котировки со снапшотом данных продукта.
// Название, категория и цена фиксируются в момент чтения внутри транзакции
// и не зависят от последующих изменений продукта.
type QuoteItem struct {
	ProductID int64
	Name      string
	Category  string
	Price     int64 // копейки, на момент снапшота
	Quantity  int
}

// Total возвращает стоимость строки в копейках.
func (i QuoteItem) Total() int64 {
	return i.Price * int64(i.Quantity)
}

// BuyerInfo — снапшот контактных данных покупателя, привязанный к котировке.
// CustomerID может быть нулевым, если привязка клиента не удалась.
type BuyerInfo struct {
	CustomerID int64
	Name       string
	Email      string
	Phone      string
	Address    string
}

// Quote — котировка. Создаётся единожды коммиттером, далее допускается
// только переход статуса Pending -> Accepted | Rejected.
type Quote struct {
	ID              int64
	UID             string // публичный идентификатор (uuid)
	Buyer           BuyerInfo
	Items           []QuoteItem
	TotalAmount     int64 // копейки, зафиксировано при создании
	Status          QuoteStatus
	CreatedAt       time.Time
	AcceptedAt      *time.Time
	RejectedAt      *time.Time
	RejectionReason string
}
