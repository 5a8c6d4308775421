package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/drosan-dev/marketplace-backend/internal/domain"
	"github.com/drosan-dev/marketplace-backend/pkg/e"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	byCode   map[string]*domain.Product
	byID     map[int64]*domain.Product
	products []domain.Product
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	repo := &fakeProductRepo{
		byCode: make(map[string]*domain.Product),
		byID:   make(map[int64]*domain.Product),
	}
	for i := range products {
		p := products[i]
		repo.products = append(repo.products, p)
		stored := &repo.products[len(repo.products)-1]
		repo.byCode[p.Code] = stored
		repo.byID[p.ID] = stored
	}
	return repo
}

func (f *fakeProductRepo) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byCode[code]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeProductRepo) ListByCategoryCode(ctx context.Context, categoryCode string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.Product, 0)
	for _, p := range f.products {
		if p.CategoryCode == categoryCode {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakeProductRepo) DecrementStock(ctx context.Context, productID int64, qty int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[productID]
	if !ok || p.Stock < qty {
		return e.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (f *fakeProductRepo) RestoreStock(ctx context.Context, productID int64, qty int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[productID]
	if !ok {
		return e.ErrProductNotFound
	}
	p.Stock += qty
	return nil
}

func (f *fakeProductRepo) stock(code string) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byCode[code].Stock
}

type fakeCartRepo struct {
	mu         sync.Mutex
	lines      map[int64]*domain.CartLine // product_id -> line
	nextCartID int64
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{lines: make(map[int64]*domain.CartLine), nextCartID: 1}
}

func (f *fakeCartRepo) FindLineByProductID(ctx context.Context, productID int64) (*domain.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.lines[productID]
	if !ok {
		return nil, e.ErrProductNotInCart
	}
	cp := *line
	return &cp, nil
}

func (f *fakeCartRepo) ListLines(ctx context.Context) ([]CartLineView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]CartLineView, 0, len(f.lines))
	for _, line := range f.lines {
		result = append(result, NewCartLineView("", line.Quantity))
	}
	return result, nil
}

func (f *fakeCartRepo) UpsertLine(ctx context.Context, productID int64, qty int32) (*domain.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if line, ok := f.lines[productID]; ok {
		line.Quantity += qty
		cp := *line
		return &cp, nil
	}
	line := &domain.CartLine{CartID: f.nextCartID, ProductID: productID, Quantity: qty}
	f.nextCartID++
	f.lines[productID] = line
	cp := *line
	return &cp, nil
}

func (f *fakeCartRepo) DeleteLine(ctx context.Context, cartID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for productID, line := range f.lines {
		if line.CartID == cartID {
			delete(f.lines, productID)
			return nil
		}
	}
	return e.ErrProductNotInCart
}

func (f *fakeCartRepo) quantity(productID int64) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.lines[productID]
	if !ok {
		return 0
	}
	return line.Quantity
}

func (f *fakeCartRepo) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lines)
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*OutboxEvent
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeOutboxRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func (f *fakeOutboxRepo) last() *OutboxEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return nil
	}
	return f.events[len(f.events)-1]
}

type fakeCacheRepo struct {
	mu      sync.Mutex
	store   map[string]*ProductDetail
	deleted []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{store: make(map[string]*ProductDetail)}
}

func (f *fakeCacheRepo) GetProduct(ctx context.Context, code string) (*ProductDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store[code], nil
}

func (f *fakeCacheRepo) SetProduct(ctx context.Context, product *ProductDetail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[product.Code] = product
	return nil
}

func (f *fakeCacheRepo) DeleteProducts(ctx context.Context, codes []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, code := range codes {
		delete(f.store, code)
		f.deleted = append(f.deleted, code)
	}
	return nil
}

// fakeTxManager выполняет fn без настоящей транзакции.
type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{})            {}
func (noopLogger) Infof(format string, args ...interface{})             {}
func (noopLogger) Warnf(format string, args ...interface{})             {}
func (noopLogger) Errorf(err error, format string, args ...interface{}) {}

func testProduct() domain.Product {
	return domain.Product{
		ID:           1,
		Code:         "A1",
		Name:         "Sneakers",
		Description:  "Running sneakers",
		CategoryID:   1,
		CategoryCode: "SHOES",
		Price:        599_99,
		Stock:        10,
		Color:        "white",
		Size:         "42",
	}
}

func newTestUC(productRepo *fakeProductRepo, cartRepo *fakeCartRepo, outboxRepo *fakeOutboxRepo) (*MarketplaceUseCase, *fakeCacheRepo) {
	cacheRepo := newFakeCacheRepo()
	uc := NewMarketplaceUC(productRepo, cartRepo, outboxRepo, cacheRepo, &fakeTxManager{}, noopLogger{})
	return uc, cacheRepo
}

func TestAddProductToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements stock and creates line", func(t *testing.T) {
		productRepo := newFakeProductRepo(testProduct())
		cartRepo := newFakeCartRepo()
		outboxRepo := &fakeOutboxRepo{}
		uc, _ := newTestUC(productRepo, cartRepo, outboxRepo)

		if err := uc.AddProductToCart(ctx, NewAddToCartReq("A1", 3)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := productRepo.stock("A1"); got != 7 {
			t.Errorf("stock = %d, want 7", got)
		}
		if got := cartRepo.quantity(1); got != 3 {
			t.Errorf("cart quantity = %d, want 3", got)
		}
		if outboxRepo.count() != 1 {
			t.Errorf("outbox events = %d, want 1", outboxRepo.count())
		}
		if got := outboxRepo.last().EventType; got != ProductAdded {
			t.Errorf("event type = %s, want %s", got, ProductAdded)
		}
	})

	t.Run("repeated add merges into one line", func(t *testing.T) {
		productRepo := newFakeProductRepo(testProduct())
		cartRepo := newFakeCartRepo()
		uc, _ := newTestUC(productRepo, cartRepo, &fakeOutboxRepo{})

		if err := uc.AddProductToCart(ctx, NewAddToCartReq("A1", 3)); err != nil {
			t.Fatalf("first add: %v", err)
		}
		if err := uc.AddProductToCart(ctx, NewAddToCartReq("A1", 4)); err != nil {
			t.Fatalf("second add: %v", err)
		}

		if got := cartRepo.size(); got != 1 {
			t.Errorf("cart lines = %d, want 1", got)
		}
		if got := cartRepo.quantity(1); got != 7 {
			t.Errorf("cart quantity = %d, want 7", got)
		}
		if got := productRepo.stock("A1"); got != 3 {
			t.Errorf("stock = %d, want 3", got)
		}
	})

	t.Run("insufficient stock leaves state unchanged", func(t *testing.T) {
		productRepo := newFakeProductRepo(testProduct())
		cartRepo := newFakeCartRepo()
		outboxRepo := &fakeOutboxRepo{}
		uc, _ := newTestUC(productRepo, cartRepo, outboxRepo)

		err := uc.AddProductToCart(ctx, NewAddToCartReq("A1", 11))
		if !errors.Is(err, e.ErrInsufficientStock) {
			t.Fatalf("error = %v, want ErrInsufficientStock", err)
		}

		if got := productRepo.stock("A1"); got != 10 {
			t.Errorf("stock = %d, want 10", got)
		}
		if got := cartRepo.size(); got != 0 {
			t.Errorf("cart lines = %d, want 0", got)
		}
		if outboxRepo.count() != 0 {
			t.Errorf("outbox events = %d, want 0", outboxRepo.count())
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(testProduct()), newFakeCartRepo(), &fakeOutboxRepo{})

		err := uc.AddProductToCart(ctx, NewAddToCartReq("ZZ", 1))
		if !errors.Is(err, e.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("empty code", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(), newFakeCartRepo(), &fakeOutboxRepo{})

		err := uc.AddProductToCart(ctx, NewAddToCartReq("  ", 1))
		if !errors.Is(err, e.ErrProductCodeRequired) {
			t.Errorf("error = %v, want ErrProductCodeRequired", err)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(testProduct()), newFakeCartRepo(), &fakeOutboxRepo{})

		for _, qty := range []int32{0, -5} {
			err := uc.AddProductToCart(ctx, NewAddToCartReq("A1", qty))
			if !errors.Is(err, e.ErrQuantityMustBePositive) {
				t.Errorf("qty %d: error = %v, want ErrQuantityMustBePositive", qty, err)
			}
		}
	})

	t.Run("invalidates cache after add", func(t *testing.T) {
		productRepo := newFakeProductRepo(testProduct())
		uc, cacheRepo := newTestUC(productRepo, newFakeCartRepo(), &fakeOutboxRepo{})
		cacheRepo.SetProduct(ctx, &ProductDetail{Code: "A1"})

		if err := uc.AddProductToCart(ctx, NewAddToCartReq("A1", 1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cached, _ := cacheRepo.GetProduct(ctx, "A1"); cached != nil {
			t.Error("expected product to be evicted from cache")
		}
	})
}

func TestDeleteProductFromCart(t *testing.T) {
	ctx := context.Background()

	t.Run("restores stock and removes line", func(t *testing.T) {
		productRepo := newFakeProductRepo(testProduct())
		cartRepo := newFakeCartRepo()
		outboxRepo := &fakeOutboxRepo{}
		uc, _ := newTestUC(productRepo, cartRepo, outboxRepo)

		if err := uc.AddProductToCart(ctx, NewAddToCartReq("A1", 4)); err != nil {
			t.Fatalf("add: %v", err)
		}
		if err := uc.DeleteProductFromCart(ctx, "A1"); err != nil {
			t.Fatalf("delete: %v", err)
		}

		if got := productRepo.stock("A1"); got != 10 {
			t.Errorf("stock = %d, want 10", got)
		}
		if got := cartRepo.size(); got != 0 {
			t.Errorf("cart lines = %d, want 0", got)
		}
		if got := outboxRepo.last().EventType; got != ProductRemoved {
			t.Errorf("event type = %s, want %s", got, ProductRemoved)
		}
	})

	t.Run("product not in cart", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(testProduct()), newFakeCartRepo(), &fakeOutboxRepo{})

		err := uc.DeleteProductFromCart(ctx, "A1")
		if !errors.Is(err, e.ErrProductNotInCart) {
			t.Errorf("error = %v, want ErrProductNotInCart", err)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(), newFakeCartRepo(), &fakeOutboxRepo{})

		err := uc.DeleteProductFromCart(ctx, "ZZ")
		if !errors.Is(err, e.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("empty code", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(), newFakeCartRepo(), &fakeOutboxRepo{})

		err := uc.DeleteProductFromCart(ctx, "")
		if !errors.Is(err, e.ErrProductCodeRequired) {
			t.Errorf("error = %v, want ErrProductCodeRequired", err)
		}
	})
}

// Сквозной сценарий: добавления с объединением, отказ при нехватке остатка,
// удаление с полным возвратом остатка.
func TestCartStockScenario(t *testing.T) {
	ctx := context.Background()
	productRepo := newFakeProductRepo(testProduct())
	cartRepo := newFakeCartRepo()
	uc, _ := newTestUC(productRepo, cartRepo, &fakeOutboxRepo{})

	if err := uc.AddProductToCart(ctx, NewAddToCartReq("A1", 3)); err != nil {
		t.Fatalf("add 3: %v", err)
	}
	if got := productRepo.stock("A1"); got != 7 {
		t.Fatalf("after add 3: stock = %d, want 7", got)
	}

	if err := uc.AddProductToCart(ctx, NewAddToCartReq("A1", 4)); err != nil {
		t.Fatalf("add 4: %v", err)
	}
	if got := productRepo.stock("A1"); got != 3 {
		t.Fatalf("after add 4: stock = %d, want 3", got)
	}
	if got := cartRepo.quantity(1); got != 7 {
		t.Fatalf("cart quantity = %d, want 7", got)
	}

	if err := uc.AddProductToCart(ctx, NewAddToCartReq("A1", 5)); !errors.Is(err, e.ErrInsufficientStock) {
		t.Fatalf("add 5: error = %v, want ErrInsufficientStock", err)
	}
	if got := productRepo.stock("A1"); got != 3 {
		t.Fatalf("after rejected add: stock = %d, want 3", got)
	}
	if got := cartRepo.quantity(1); got != 7 {
		t.Fatalf("after rejected add: cart quantity = %d, want 7", got)
	}

	if err := uc.DeleteProductFromCart(ctx, "A1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := productRepo.stock("A1"); got != 10 {
		t.Fatalf("after delete: stock = %d, want 10", got)
	}
	if got := cartRepo.size(); got != 0 {
		t.Fatalf("after delete: cart lines = %d, want 0", got)
	}
}

func TestSearchProductDetailWithCode(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		uc, cacheRepo := newTestUC(newFakeProductRepo(), newFakeCartRepo(), &fakeOutboxRepo{})
		cacheRepo.SetProduct(ctx, &ProductDetail{Code: "A1", Name: "Cached"})

		detail, err := uc.SearchProductDetailWithCode(ctx, "A1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.Name != "Cached" {
			t.Errorf("name = %s, want Cached", detail.Name)
		}
	})

	t.Run("cache miss reads repository", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(testProduct()), newFakeCartRepo(), &fakeOutboxRepo{})

		detail, err := uc.SearchProductDetailWithCode(ctx, "A1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.Price != 599_99 || detail.Stock != 10 {
			t.Errorf("detail = %+v, want price 59999 and stock 10", detail)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(), newFakeCartRepo(), &fakeOutboxRepo{})

		if _, err := uc.SearchProductDetailWithCode(ctx, "ZZ"); !errors.Is(err, e.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})
}

func TestCatalogQueries(t *testing.T) {
	ctx := context.Background()
	second := testProduct()
	second.ID = 2
	second.Code = "B2"
	second.CategoryCode = "HATS"

	t.Run("list returns summaries", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(testProduct(), second), newFakeCartRepo(), &fakeOutboxRepo{})

		products, err := uc.ListProducts(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 2 {
			t.Fatalf("len = %d, want 2", len(products))
		}
	})

	t.Run("empty catalog is not an error", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(), newFakeCartRepo(), &fakeOutboxRepo{})

		products, err := uc.ListProducts(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 0 {
			t.Errorf("len = %d, want 0", len(products))
		}
	})

	t.Run("filter by category", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(testProduct(), second), newFakeCartRepo(), &fakeOutboxRepo{})

		products, err := uc.SearchProductsByCategoryCode(ctx, "HATS")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 1 || products[0].Code != "B2" {
			t.Errorf("products = %+v, want single B2", products)
		}
	})

	t.Run("unknown category yields empty list", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(testProduct()), newFakeCartRepo(), &fakeOutboxRepo{})

		products, err := uc.SearchProductsByCategoryCode(ctx, "NOPE")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 0 {
			t.Errorf("len = %d, want 0", len(products))
		}
	})

	t.Run("missing category code", func(t *testing.T) {
		uc, _ := newTestUC(newFakeProductRepo(), newFakeCartRepo(), &fakeOutboxRepo{})

		if _, err := uc.SearchProductsByCategoryCode(ctx, ""); !errors.Is(err, e.ErrCategoryCodeRequired) {
			t.Errorf("error = %v, want ErrCategoryCodeRequired", err)
		}
	})
}
