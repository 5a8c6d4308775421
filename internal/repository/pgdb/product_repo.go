package pgdb

import (
	"context"
	"errors"

	"github.com/drosan-dev/marketplace-backend/internal/domain"
	"github.com/drosan-dev/marketplace-backend/internal/repository/pgdb/converter"
	"github.com/drosan-dev/marketplace-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// FindByCode возвращает товар по уникальному коду вместе с кодом категории.
func (p *ProductRepo) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	query := `
		SELECT
			pr.id, pr.code, pr.name, pr.description,
			pr.category_id, cat.code AS category_code,
			pr.price, pr.stock, pr.color, pr.size,
			pr.created_at, pr.updated_at
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.code = $1
	`

	var model converter.ProductModel
	err := pick(ctx, p.pool).QueryRow(ctx, query, code).Scan(
		&model.ID, &model.Code, &model.Name, &model.Description,
		&model.CategoryID, &model.CategoryCode,
		&model.Price, &model.Stock, &model.Color, &model.Size,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// List возвращает все товары каталога.
func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT
			pr.id, pr.code, pr.name, pr.description,
			pr.category_id, cat.code AS category_code,
			pr.price, pr.stock, pr.color, pr.size,
			pr.created_at, pr.updated_at
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		ORDER BY pr.id
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models, err := scanProducts(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

// ListByCategoryCode возвращает товары указанной категории.
// Неизвестная категория дает пустой результат без ошибки.
func (p *ProductRepo) ListByCategoryCode(ctx context.Context, categoryCode string) ([]domain.Product, error) {
	query := `
		SELECT
			pr.id, pr.code, pr.name, pr.description,
			pr.category_id, cat.code AS category_code,
			pr.price, pr.stock, pr.color, pr.size,
			pr.created_at, pr.updated_at
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE cat.code = $1
		ORDER BY pr.id
	`

	rows, err := p.pool.Query(ctx, query, categoryCode)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models, err := scanProducts(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

// DecrementStock списывает количество со склада. Предикат stock >= $2
// закрывает гонку конкурентных списаний: при нехватке остатка запрос
// не затрагивает ни одной строки и возвращается ErrInsufficientStock.
func (p *ProductRepo) DecrementStock(ctx context.Context, productID int64, quantity int32) error {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`

	result, err := pick(ctx, p.pool).Exec(ctx, query, productID, quantity)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrInsufficientStock)
	}

	return nil
}

// RestoreStock возвращает количество на остаток товара.
func (p *ProductRepo) RestoreStock(ctx context.Context, productID int64, quantity int32) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := pick(ctx, p.pool).Exec(ctx, query, productID, quantity)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

func scanProducts(rows pgx.Rows) ([]converter.ProductModel, error) {
	models := make([]converter.ProductModel, 0)
	for rows.Next() {
		var model converter.ProductModel
		err := rows.Scan(
			&model.ID, &model.Code, &model.Name, &model.Description,
			&model.CategoryID, &model.CategoryCode,
			&model.Price, &model.Stock, &model.Color, &model.Size,
			&model.CreatedAt, &model.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return models, nil
}
