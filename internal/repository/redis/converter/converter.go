package converter

import (
	"github.com/drosan-dev/marketplace-backend/internal/usecase"
)

// ProductDetailConverter преобразует детальную карточку товара между
// usecase-проекцией и Redis-моделью.
type ProductDetailConverter interface {
	ToRedisModel(entity *usecase.ProductDetail) *ProductDetailRedisModel
	ToUseCase(model *ProductDetailRedisModel) *usecase.ProductDetail
}

type ProductDetailConverterImpl struct{}

func NewProductDetailConverterImpl() *ProductDetailConverterImpl {
	return &ProductDetailConverterImpl{}
}

func (c *ProductDetailConverterImpl) ToRedisModel(entity *usecase.ProductDetail) *ProductDetailRedisModel {
	return &ProductDetailRedisModel{
		Code:         entity.Code,
		Name:         entity.Name,
		Description:  entity.Description,
		CategoryCode: entity.CategoryCode,
		Price:        entity.Price,
		Stock:        entity.Stock,
		Color:        entity.Color,
		Size:         entity.Size,
	}
}

func (c *ProductDetailConverterImpl) ToUseCase(model *ProductDetailRedisModel) *usecase.ProductDetail {
	return &usecase.ProductDetail{
		Code:         model.Code,
		Name:         model.Name,
		Description:  model.Description,
		CategoryCode: model.CategoryCode,
		Price:        model.Price,
		Stock:        model.Stock,
		Color:        model.Color,
		Size:         model.Size,
	}
}
