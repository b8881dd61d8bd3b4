package domain

import "time"

// ProductStatus — статус доступности продукта в каталоге.
type ProductStatus string

const (
	StatusAvailable    ProductStatus = "Available"
	StatusOutOfStock   ProductStatus = "Out of Stock"
	StatusDiscontinued ProductStatus = "Discontinued"
)

// ValidProductStatus проверяет, что строка является допустимым статусом продукта.
func ValidProductStatus(s string) bool {
	switch ProductStatus(s) {
	case StatusAvailable, StatusOutOfStock, StatusDiscontinued:
		return true
	default:
		return false
	}
}

// Product описывает продукт каталога.
// Инвариант: stock == 0 влечёт Status == StatusOutOfStock.
type Product struct {
	ID        int64
	Name      string
	Price     int64 // Цена хранится в копейках
	Category  string
	Stock     int
	Status    ProductStatus
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewProduct(name string, price int64, category string, stock int, status ProductStatus) *Product {
	p := &Product{
		Name:     name,
		Price:    price,
		Category: category,
		Stock:    stock,
		Status:   status,
	}
	p.NormalizeStatus()

	return p
}

// NormalizeStatus приводит статус в соответствие инварианту по остатку:
// нулевой остаток всегда означает Out of Stock, а продукт со статусом
// Out of Stock и ненулевым остатком возвращается в Available.
// Статус Discontinued остаток не трогает.
func (p *Product) NormalizeStatus() {
	if p.Stock == 0 {
		p.Status = StatusOutOfStock
		return
	}

	if p.Status == StatusOutOfStock {
		p.Status = StatusAvailable
	}
}
