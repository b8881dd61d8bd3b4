package domain

import "time"

// Customer описывает клиента. Email служит естественным ключом дедупликации.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewCustomer(name, email, phone, address string) *Customer {
	return &Customer{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Address: address,
	}
}
