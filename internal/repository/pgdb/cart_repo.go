package pgdb

import (
	"context"
	"errors"

	"github.com/drosan-dev/marketplace-backend/internal/domain"
	"github.com/drosan-dev/marketplace-backend/internal/repository/pgdb/converter"
	"github.com/drosan-dev/marketplace-backend/internal/usecase"
	"github.com/drosan-dev/marketplace-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CartRepo реализует репозиторий общей корзины поверх PostgreSQL.
type CartRepo struct {
	pool *pgxpool.Pool
	conv converter.CartLineConverter
}

func NewCartRepo(pool *pgxpool.Pool, conv converter.CartLineConverter) *CartRepo {
	return &CartRepo{
		pool: pool,
		conv: conv,
	}
}

// FindLineByProductID возвращает строку корзины по товару.
func (c *CartRepo) FindLineByProductID(ctx context.Context, productID int64) (*domain.CartLine, error) {
	query := `
		SELECT cart_id, product_id, quantity, created_at, updated_at
		FROM shopping_cart
		WHERE product_id = $1
	`

	var model converter.CartLineModel
	err := pick(ctx, c.pool).QueryRow(ctx, query, productID).Scan(
		&model.CartID, &model.ProductID, &model.Quantity,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotInCart)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

// ListLines возвращает содержимое корзины с кодами товаров.
func (c *CartRepo) ListLines(ctx context.Context) ([]usecase.CartLineView, error) {
	query := `
		SELECT pr.code, sc.quantity
		FROM shopping_cart sc
		JOIN products pr ON sc.product_id = pr.id
		ORDER BY sc.cart_id
	`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.CartLineView, 0)
	for rows.Next() {
		var line usecase.CartLineView
		if err := rows.Scan(&line.ProductCode, &line.Quantity); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, line)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// UpsertLine добавляет товар в корзину. Повторное добавление того же
// товара наращивает количество существующей строки, новая не создается.
func (c *CartRepo) UpsertLine(ctx context.Context, productID int64, quantity int32) (*domain.CartLine, error) {
	query := `
		INSERT INTO shopping_cart (product_id, quantity)
		VALUES ($1, $2)
		ON CONFLICT (product_id)
		DO UPDATE SET
			quantity = shopping_cart.quantity + EXCLUDED.quantity,
			updated_at = NOW()
		RETURNING cart_id, product_id, quantity, created_at, updated_at
	`

	var model converter.CartLineModel
	err := pick(ctx, c.pool).QueryRow(ctx, query, productID, quantity).Scan(
		&model.CartID, &model.ProductID, &model.Quantity,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

// DeleteLine удаляет строку корзины целиком.
func (c *CartRepo) DeleteLine(ctx context.Context, cartID int64) error {
	query := `
		DELETE FROM shopping_cart
		WHERE cart_id = $1
	`

	result, err := pick(ctx, c.pool).Exec(ctx, query, cartID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotInCart)
	}

	return nil
}
