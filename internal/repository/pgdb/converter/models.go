package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
// CategoryCode приходит из join на categories.
type ProductModel struct {
	ID           int64      `db:"id"`
	Code         string     `db:"code"`
	Name         string     `db:"name"`
	Description  string     `db:"description"`
	CategoryID   int64      `db:"category_id"`
	CategoryCode string     `db:"category_code"`
	Price        int64      `db:"price"`
	Stock        int32      `db:"stock"`
	Color        string     `db:"color"`
	Size         string     `db:"size"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// CartLineModel представляет запись таблицы shopping_cart в PostgreSQL.
type CartLineModel struct {
	CartID    int64      `db:"cart_id"`
	ProductID int64      `db:"product_id"`
	Quantity  int32      `db:"quantity"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ProductID   int64      `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
