package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/drosan-dev/marketplace-backend/internal/usecase"
	"github.com/drosan-dev/marketplace-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// Response — единый конверт ответа: успех и ошибка отдаются в одной форме.
// Data сериализуется всегда, чтобы пустой список оставался [], а не пропадал.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Сообщения контракта API.
const (
	msgListOfProducts   = "List of products"
	msgProductListEmpty = "List the product is empty"
	msgProductFound     = "Product found success"
	msgListByCategory   = "List of products by Category"
	msgCartDetail       = "Detail the shopping cart"
	msgCartEmpty        = "The Shopping cart is empty"
	msgProductAdded     = "product added to shopping cart successfully"
	msgProductDeleted   = "product delete to shopping cart successfully"
	msgNotFoundPrefix   = "Not found product with code: "
)

// ProductResponse — краткая проекция товара для списков и поиска по коду.
type ProductResponse struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CategoryCode string `json:"categoryCode"`
}

// ProductDetailResponse — полная карточка товара.
type ProductDetailResponse struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	CategoryCode string  `json:"categoryCode"`
	Price        float64 `json:"price"`
	Stock        int32   `json:"stock"`
	Color        string  `json:"color"`
	Size         string  `json:"size"`
}

// CartLineResponse — строка корзины.
type CartLineResponse struct {
	ProductCode string `json:"productCode"`
	Quantity    int32  `json:"quantity"`
}

// AddProductRequest — тело POST-запроса добавления товара в корзину.
type AddProductRequest struct {
	ProductCode string `json:"productCode"`
	Quantity    int32  `json:"quantity"`
}

func toProductResponse(s *usecase.ProductSummary) ProductResponse {
	return ProductResponse{
		Code:         s.Code,
		Name:         s.Name,
		Description:  s.Description,
		CategoryCode: s.CategoryCode,
	}
}

func toArrProductResponse(summaries []usecase.ProductSummary) []ProductResponse {
	result := make([]ProductResponse, 0, len(summaries))
	for i := range summaries {
		result = append(result, toProductResponse(&summaries[i]))
	}

	return result
}

func toProductDetailResponse(d *usecase.ProductDetail) ProductDetailResponse {
	return ProductDetailResponse{
		Code:         d.Code,
		Name:         d.Name,
		Description:  d.Description,
		CategoryCode: d.CategoryCode,
		Price:        centsToPrice(d.Price),
		Stock:        d.Stock,
		Color:        d.Color,
		Size:         d.Size,
	}
}

func toArrCartLineResponse(lines []usecase.CartLineView) []CartLineResponse {
	result := make([]CartLineResponse, 0, len(lines))
	for _, line := range lines {
		result = append(result, CartLineResponse{
			ProductCode: line.ProductCode,
			Quantity:    line.Quantity,
		})
	}

	return result
}

// centsToPrice переводит цену из копеек в десятичное представление для ответа.
func centsToPrice(cents int64) float64 {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).InexactFloat64()
}

// ToHTTPResponse сопоставляет ошибку бизнес-логики статусу и сообщению конверта.
// Неопознанные ошибки становятся 500 с обобщенным сообщением.
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrProductCodeRequired):
		return http.StatusBadRequest, e.ErrProductCodeRequired.Error()
	case errors.Is(err, e.ErrCategoryCodeRequired):
		return http.StatusBadRequest, e.ErrCategoryCodeRequired.Error()
	case errors.Is(err, e.ErrQuantityMustBePositive):
		return http.StatusBadRequest, e.ErrQuantityMustBePositive.Error()
	case errors.Is(err, e.ErrInsufficientStock):
		return http.StatusBadRequest, e.ErrInsufficientStock.Error()
	case errors.Is(err, e.ErrProductNotInCart):
		return http.StatusBadRequest, e.ErrProductNotInCart.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, &Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// WriteError отдает ошибку в том же конверте. Для 500 текст внутренней ошибки
// прикладывается в data, сообщение остается обобщенным.
func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)

	var data interface{}
	if code == http.StatusInternalServerError {
		data = err.Error()
	}

	writeJSON(w, code, &Response{
		Status:  code,
		Message: msg,
		Data:    data,
	})
}

// WriteNotFound отдает 404 с кодом товара в сообщении.
func WriteNotFound(w http.ResponseWriter, code string) {
	writeJSON(w, http.StatusNotFound, &Response{
		Status:  http.StatusNotFound,
		Message: msgNotFoundPrefix + code,
	})
}

func writeJSON(w http.ResponseWriter, status int, body *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
