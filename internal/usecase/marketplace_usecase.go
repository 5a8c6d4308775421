package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/drosan-dev/marketplace-backend/internal/domain"
	"github.com/drosan-dev/marketplace-backend/pkg/e"
	"github.com/drosan-dev/marketplace-backend/pkg/logger"
)

// MarketplaceUseCase реализует бизнес-логику каталога и общей корзины.
type MarketplaceUseCase struct {
	productRepo ProductRepository
	cartRepo    CartRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	txManager   TxManager
	logger      logger.Logger
}

func NewMarketplaceUC(
	productRepo ProductRepository,
	cartRepo CartRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	txManager TxManager,
	logger logger.Logger,
) *MarketplaceUseCase {
	return &MarketplaceUseCase{
		productRepo: productRepo,
		cartRepo:    cartRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// ListProducts возвращает краткие проекции всех товаров каталога.
// Пустой каталог — успешный результат с пустым списком.
func (m *MarketplaceUseCase) ListProducts(ctx context.Context) ([]ProductSummary, error) {
	const op = "MarketplaceUseCase.ListProducts"

	products, err := m.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return toSummaries(products), nil
}

// SearchProductWithCode возвращает краткую проекцию товара по коду.
func (m *MarketplaceUseCase) SearchProductWithCode(ctx context.Context, code string) (*ProductSummary, error) {
	const op = "MarketplaceUseCase.SearchProductWithCode"

	if err := validateProductCode(code); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := m.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewProductSummary(product), nil
}

// SearchProductDetailWithCode возвращает полную проекцию товара по коду.
// Чтение идет через кэш (cache-aside): промах добирается из базы и
// дозаписывается в кэш в фоне, ошибки кэша запрос не роняют.
func (m *MarketplaceUseCase) SearchProductDetailWithCode(ctx context.Context, code string) (*ProductDetail, error) {
	const op = "MarketplaceUseCase.SearchProductDetailWithCode"

	if err := validateProductCode(code); err != nil {
		return nil, e.Wrap(op, err)
	}

	cached, err := m.cacheRepo.GetProduct(ctx, code)
	if err != nil {
		m.logger.Warnf("Cache lookup failed: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	product, err := m.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	detail := NewProductDetail(product)

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := m.cacheRepo.SetProduct(bgCtx, detail); err != nil {
			m.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return detail, nil
}

// SearchProductsByCategoryCode возвращает товары категории.
// Неизвестная категория дает пустой список, а не ошибку.
func (m *MarketplaceUseCase) SearchProductsByCategoryCode(ctx context.Context, categoryCode string) ([]ProductSummary, error) {
	const op = "MarketplaceUseCase.SearchProductsByCategoryCode"

	if strings.TrimSpace(categoryCode) == "" {
		return nil, e.Wrap(op, e.ErrCategoryCodeRequired)
	}

	products, err := m.productRepo.ListByCategoryCode(ctx, categoryCode)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return toSummaries(products), nil
}

// DetailShoppingCart возвращает содержимое общей корзины.
func (m *MarketplaceUseCase) DetailShoppingCart(ctx context.Context) ([]CartLineView, error) {
	const op = "MarketplaceUseCase.DetailShoppingCart"

	lines, err := m.cartRepo.ListLines(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return lines, nil
}

// AddProductToCart добавляет товар в корзину, списывая остаток.
// Все шаги — поиск товара, списание, upsert строки корзины и outbox-событие —
// выполняются в одной транзакции: либо применяются целиком, либо откатываются.
func (m *MarketplaceUseCase) AddProductToCart(ctx context.Context, req *AddToCartReq) error {
	const op = "MarketplaceUseCase.AddProductToCart"

	if err := validateProductCode(req.ProductCode); err != nil {
		return e.Wrap(op, err)
	}
	if req.Quantity <= 0 {
		return e.Wrap(op, e.ErrQuantityMustBePositive)
	}

	err := m.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := m.productRepo.FindByCode(ctx, req.ProductCode)
		if err != nil {
			return err
		}

		// Быстрая проверка до записи; гонку закрывает условный UPDATE ниже.
		if req.Quantity > product.Stock {
			return e.ErrInsufficientStock
		}

		if err := m.productRepo.DecrementStock(ctx, product.ID, req.Quantity); err != nil {
			return err
		}

		if _, err := m.cartRepo.UpsertLine(ctx, product.ID, req.Quantity); err != nil {
			return err
		}

		event, err := NewCartChangeEvent(ProductAdded, product.ID, product.Code, req.Quantity)
		if err != nil {
			return err
		}
		if _, err := m.outboxRepo.Create(ctx, event); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	m.invalidateProduct(ctx, req.ProductCode)

	return nil
}

// DeleteProductFromCart убирает товар из корзины целиком и безусловно
// возвращает списанное количество на остаток. Выполняется в одной транзакции.
func (m *MarketplaceUseCase) DeleteProductFromCart(ctx context.Context, code string) error {
	const op = "MarketplaceUseCase.DeleteProductFromCart"

	if err := validateProductCode(code); err != nil {
		return e.Wrap(op, err)
	}

	err := m.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := m.productRepo.FindByCode(ctx, code)
		if err != nil {
			return err
		}

		line, err := m.cartRepo.FindLineByProductID(ctx, product.ID)
		if err != nil {
			return err
		}

		if err := m.cartRepo.DeleteLine(ctx, line.CartID); err != nil {
			return err
		}

		if err := m.productRepo.RestoreStock(ctx, product.ID, line.Quantity); err != nil {
			return err
		}

		event, err := NewCartChangeEvent(ProductRemoved, product.ID, product.Code, line.Quantity)
		if err != nil {
			return err
		}
		if _, err := m.outboxRepo.Create(ctx, event); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	m.invalidateProduct(ctx, code)

	return nil
}

// invalidateProduct удаляет товар из кэша после изменения остатка.
// Ошибки кэша не влияют на результат операции.
func (m *MarketplaceUseCase) invalidateProduct(ctx context.Context, code string) {
	if err := m.cacheRepo.DeleteProducts(ctx, []string{code}); err != nil {
		m.logger.Warnf("Failed to invalidate product cache: %v", err)
	}
}

func validateProductCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return e.ErrProductCodeRequired
	}

	return nil
}

func toSummaries(products []domain.Product) []ProductSummary {
	result := make([]ProductSummary, 0, len(products))
	for i := range products {
		result = append(result, *NewProductSummary(&products[i]))
	}

	return result
}
