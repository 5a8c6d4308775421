package http

import (
	_ "github.com/drosan-dev/marketplace-backend/docs" // Импорт сгенерированных файлов
	"github.com/drosan-dev/marketplace-backend/internal/usecase"
	"github.com/drosan-dev/marketplace-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(mpUC usecase.MarketplaceUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	mpHandler := NewMarketplaceHandler(mpUC, r.logger)
	registerMarketplaceRoutes(r.router, mpHandler)
}

func registerMarketplaceRoutes(router chi.Router, mpHandler *MarketplaceHandler) {
	router.Route("/marketplace", func(mp chi.Router) {
		mp.Get("/all-products", mpHandler.listProducts)
		mp.Get("/search-product-with-code", mpHandler.searchProductWithCode)
		mp.Get("/search-product-detail-with-code", mpHandler.searchProductDetailWithCode)
		mp.Get("/search-products-by-category-code", mpHandler.searchProductsByCategoryCode)
		mp.Get("/detail-shopping-cart", mpHandler.detailShoppingCart)
		mp.Post("/add-product-shopping-cart", mpHandler.addProductToCart)
		mp.Delete("/delete-product-shopping-cart", mpHandler.deleteProductFromCart)
	})
}
