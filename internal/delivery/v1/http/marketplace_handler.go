package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/drosan-dev/marketplace-backend/internal/usecase"
	"github.com/drosan-dev/marketplace-backend/pkg/e"
	"github.com/drosan-dev/marketplace-backend/pkg/logger"
)

type MarketplaceHandler struct {
	marketplaceUsecase usecase.MarketplaceUC
	logger             logger.Logger
}

func NewMarketplaceHandler(marketplaceUsecase usecase.MarketplaceUC, logger logger.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{marketplaceUsecase: marketplaceUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров каталога
//	@Description	Возвращает краткие карточки всех товаров
//	@Tags			marketplace
//	@Produce		json
//	@Success		200	{object}	Response{data=[]ProductResponse}
//	@Failure		500	{object}	Response
//	@Router			/marketplace/all-products [get]
func (h *MarketplaceHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.marketplaceUsecase.ListProducts(r.Context())
	if err != nil {
		h.logger.Errorf(err, "list products failed")
		WriteError(w, err)
		return
	}

	message := msgListOfProducts
	if len(products) == 0 {
		message = msgProductListEmpty
	}

	WriteSuccess(w, http.StatusOK, message, toArrProductResponse(products))
}

// searchProductWithCode
//
//	@Summary		Поиск товара по коду
//	@Description	Возвращает краткую карточку товара
//	@Tags			marketplace
//	@Produce		json
//	@Param			productCode	query		string	true	"Код товара"
//	@Success		200			{object}	Response{data=ProductResponse}
//	@Failure		400			{object}	Response
//	@Failure		404			{object}	Response
//	@Router			/marketplace/search-product-with-code [get]
func (h *MarketplaceHandler) searchProductWithCode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("productCode")

	product, err := h.marketplaceUsecase.SearchProductWithCode(r.Context(), code)
	if err != nil {
		h.writeSearchError(w, err, code)
		return
	}

	WriteSuccess(w, http.StatusOK, msgProductFound, toProductResponse(product))
}

// searchProductDetailWithCode
//
//	@Summary		Детальная карточка товара по коду
//	@Description	Возвращает полную карточку товара с ценой и остатком
//	@Tags			marketplace
//	@Produce		json
//	@Param			productCode	query		string	true	"Код товара"
//	@Success		200			{object}	Response{data=ProductDetailResponse}
//	@Failure		400			{object}	Response
//	@Failure		404			{object}	Response
//	@Router			/marketplace/search-product-detail-with-code [get]
func (h *MarketplaceHandler) searchProductDetailWithCode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("productCode")

	product, err := h.marketplaceUsecase.SearchProductDetailWithCode(r.Context(), code)
	if err != nil {
		h.writeSearchError(w, err, code)
		return
	}

	WriteSuccess(w, http.StatusOK, msgProductFound, toProductDetailResponse(product))
}

// searchProductsByCategoryCode
//
//	@Summary		Товары категории
//	@Description	Возвращает краткие карточки товаров указанной категории
//	@Tags			marketplace
//	@Produce		json
//	@Param			categoryCode	query		string	true	"Код категории"
//	@Success		200				{object}	Response{data=[]ProductResponse}
//	@Failure		400				{object}	Response
//	@Router			/marketplace/search-products-by-category-code [get]
func (h *MarketplaceHandler) searchProductsByCategoryCode(w http.ResponseWriter, r *http.Request) {
	categoryCode := r.URL.Query().Get("categoryCode")

	products, err := h.marketplaceUsecase.SearchProductsByCategoryCode(r.Context(), categoryCode)
	if err != nil {
		h.logger.Warnf("search by category failed: %v", err)
		WriteError(w, err)
		return
	}

	message := msgListByCategory
	if len(products) == 0 {
		message = msgProductListEmpty
	}

	WriteSuccess(w, http.StatusOK, message, toArrProductResponse(products))
}

// detailShoppingCart
//
//	@Summary		Содержимое корзины
//	@Description	Возвращает строки общей корзины
//	@Tags			marketplace
//	@Produce		json
//	@Success		200	{object}	Response{data=[]CartLineResponse}
//	@Failure		500	{object}	Response
//	@Router			/marketplace/detail-shopping-cart [get]
func (h *MarketplaceHandler) detailShoppingCart(w http.ResponseWriter, r *http.Request) {
	lines, err := h.marketplaceUsecase.DetailShoppingCart(r.Context())
	if err != nil {
		h.logger.Errorf(err, "detail shopping cart failed")
		WriteError(w, err)
		return
	}

	message := msgCartDetail
	if len(lines) == 0 {
		message = msgCartEmpty
	}

	WriteSuccess(w, http.StatusOK, message, toArrCartLineResponse(lines))
}

// addProductToCart
//
//	@Summary		Добавление товара в корзину
//	@Description	Списывает остаток и добавляет либо наращивает строку корзины
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddProductRequest	true	"Код товара и количество"
//	@Success		200		{object}	Response
//	@Failure		400		{object}	Response
//	@Failure		404		{object}	Response
//	@Router			/marketplace/add-product-shopping-cart [post]
func (h *MarketplaceHandler) addProductToCart(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warnf("decode add-product body failed: %v", err)
		WriteError(w, e.ErrProductCodeRequired)
		return
	}

	err := h.marketplaceUsecase.AddProductToCart(r.Context(), usecase.NewAddToCartReq(req.ProductCode, req.Quantity))
	if err != nil {
		h.writeSearchError(w, err, req.ProductCode)
		return
	}

	WriteSuccess(w, http.StatusOK, msgProductAdded, nil)
}

// deleteProductFromCart
//
//	@Summary		Удаление товара из корзины
//	@Description	Убирает строку корзины и возвращает количество на остаток
//	@Tags			marketplace
//	@Produce		json
//	@Param			productCode	query		string	true	"Код товара"
//	@Success		200			{object}	Response
//	@Failure		400			{object}	Response
//	@Failure		404			{object}	Response
//	@Router			/marketplace/delete-product-shopping-cart [delete]
func (h *MarketplaceHandler) deleteProductFromCart(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("productCode")

	err := h.marketplaceUsecase.DeleteProductFromCart(r.Context(), code)
	if err != nil {
		h.writeSearchError(w, err, code)
		return
	}

	WriteSuccess(w, http.StatusOK, msgProductDeleted, nil)
}

// writeSearchError отдает ошибку операции с товаром; для неизвестного кода
// сообщение включает сам код.
func (h *MarketplaceHandler) writeSearchError(w http.ResponseWriter, err error, code string) {
	if errors.Is(err, e.ErrProductNotFound) {
		h.logger.Warnf("product not found: %s", code)
		WriteNotFound(w, code)
		return
	}

	status, _ := ToHTTPResponse(err)
	if status == http.StatusInternalServerError {
		h.logger.Errorf(err, "marketplace operation failed")
	} else {
		h.logger.Warnf("marketplace operation rejected: %v", err)
	}

	WriteError(w, err)
}
