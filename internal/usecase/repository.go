package usecase

import (
	"context"

	"github.com/drosan-dev/marketplace-backend/internal/domain"
)

type ProductRepository interface {
	// FindByCode возвращает e.ErrProductNotFound, если товара с таким кодом нет.
	FindByCode(ctx context.Context, code string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategoryCode(ctx context.Context, categoryCode string) ([]domain.Product, error)
	// DecrementStock уменьшает остаток с проверкой stock >= qty на стороне базы.
	// Возвращает e.ErrInsufficientStock, если остатка не хватает.
	DecrementStock(ctx context.Context, productID int64, qty int32) error
	// RestoreStock безусловно возвращает qty на остаток товара.
	RestoreStock(ctx context.Context, productID int64, qty int32) error
}

type CartRepository interface {
	// FindLineByProductID возвращает e.ErrProductNotInCart, если строки нет.
	FindLineByProductID(ctx context.Context, productID int64) (*domain.CartLine, error)
	// ListLines возвращает содержимое корзины с кодами товаров (join на products).
	ListLines(ctx context.Context) ([]CartLineView, error)
	// UpsertLine создает строку или увеличивает количество существующей.
	UpsertLine(ctx context.Context, productID int64, qty int32) (*domain.CartLine, error)
	DeleteLine(ctx context.Context, cartID int64) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	// GetProduct возвращает (nil, nil) при промахе кэша.
	GetProduct(ctx context.Context, code string) (*ProductDetail, error)
	SetProduct(ctx context.Context, product *ProductDetail) error
	DeleteProducts(ctx context.Context, codes []string) error
}

// TxManager выполняет fn внутри одной транзакции базы данных.
// Транзакция пробрасывается репозиториям через контекст (pkg/tr).
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
