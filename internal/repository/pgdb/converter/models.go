package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Price     int64      `db:"price"`
	Category  string     `db:"category"`
	Stock     int        `db:"stock"`
	Status    string     `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// CustomerModel представляет запись таблицы customers в PostgreSQL.
type CustomerModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Email     string     `db:"email"`
	Phone     string     `db:"phone"`
	Address   string     `db:"address"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// ActivityEventModel представляет запись таблицы activity_events в PostgreSQL.
type ActivityEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	Action      string     `db:"action"`
	Description string     `db:"description"`
	Actor       string     `db:"actor"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
