package domain

import "time"

// CartLine — строка общей корзины: товар и его количество.
// Корзина одна на всю систему, поэтому на товар приходится не более одной строки.
type CartLine struct {
	CartID    int64
	ProductID int64
	Quantity  int32 // Инвариант: всегда больше нуля
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewCartLine(productID int64, quantity int32) *CartLine {
	return &CartLine{
		ProductID: productID,
		Quantity:  quantity,
	}
}
