package usecase

import "context"

// MarketplaceUC — публичный контракт маркетплейса: запросы каталога
// и операции над общей корзиной.
type MarketplaceUC interface {
	ListProducts(ctx context.Context) ([]ProductSummary, error)
	SearchProductWithCode(ctx context.Context, code string) (*ProductSummary, error)
	SearchProductDetailWithCode(ctx context.Context, code string) (*ProductDetail, error)
	SearchProductsByCategoryCode(ctx context.Context, categoryCode string) ([]ProductSummary, error)
	DetailShoppingCart(ctx context.Context) ([]CartLineView, error)
	AddProductToCart(ctx context.Context, req *AddToCartReq) error
	DeleteProductFromCart(ctx context.Context, code string) error
}
