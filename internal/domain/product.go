package domain

import "time"

// Product описывает товар маркетплейса.
// CategoryCode заполняется репозиторием из связанной категории при чтении.
type Product struct {
	ID           int64
	Code         string // уникальный код товара, не длиннее 6 символов
	Name         string
	Description  string
	CategoryID   int64
	CategoryCode string
	Price        int64 // Цена хранится в центах
	Stock        int32 // Инвариант: никогда не уходит в минус
	Color        string
	Size         string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func NewProduct(code, name, description string, categoryID int64, price int64, stock int32, color, size string) *Product {
	return &Product{
		Code:        code,
		Name:        name,
		Description: description,
		CategoryID:  categoryID,
		Price:       price,
		Stock:       stock,
		Color:       color,
		Size:        size,
	}
}
