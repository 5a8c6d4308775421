package domain

import "time"

// Category описывает категорию товара
type Category struct {
	ID        int64
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewCategory(code, name string) *Category {
	return &Category{
		Code: code,
		Name: name,
	}
}
