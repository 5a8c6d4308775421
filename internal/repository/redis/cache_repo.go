package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/drosan-dev/marketplace-backend/internal/cfg"
	"github.com/drosan-dev/marketplace-backend/internal/repository/redis/converter"
	"github.com/drosan-dev/marketplace-backend/internal/usecase"
	"github.com/drosan-dev/marketplace-backend/pkg/clients"
	"github.com/drosan-dev/marketplace-backend/pkg/e"
	"github.com/drosan-dev/marketplace-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/redis/go-redis/v9"
)

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductDetailConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductDetailConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProduct возвращает закэшированную карточку товара по коду.
// Промах — не ошибка: возвращается (nil, nil).
func (r *CacheRepo) GetProduct(ctx context.Context, code string) (*usecase.ProductDetail, error) {
	data, err := r.client.Client.Get(ctx, r.productKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.ProductDetailRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		// Битая запись не должна ломать чтение: убираем и идем в базу.
		if delErr := r.client.Client.Del(context.Background(), r.productKey(code)).Err(); delErr != nil {
			r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), delErr))
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToUseCase(&model), nil
}

// SetProduct кэширует карточку товара с TTL из конфигурации.
func (r *CacheRepo) SetProduct(ctx context.Context, product *usecase.ProductDetail) error {
	model := r.conv.ToRedisModel(product)

	data, err := json.Marshal(model)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, r.productKey(model.Code), data, r.cfg.ProductTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteProducts удаляет товары из кэша по кодам.
func (r *CacheRepo) DeleteProducts(ctx context.Context, codes []string) error {
	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = r.productKey(code)
	}

	if err := r.client.Client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// productKey возвращает Redis-ключ для одного товара
func (r *CacheRepo) productKey(code string) string {
	return fmt.Sprintf("product:%s", code)
}
