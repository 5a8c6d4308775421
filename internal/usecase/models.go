package usecase

import (
	"encoding/json"
	"time"

	"github.com/drosan-dev/marketplace-backend/internal/domain"
	"github.com/google/uuid"
)

// MARKETPLACE USECASE

// AddToCartReq — запрос на добавление товара в корзину.
type AddToCartReq struct {
	ProductCode string
	Quantity    int32
}

// ProductSummary — краткая проекция товара (список, поиск по коду).
type ProductSummary struct {
	Code         string
	Name         string
	Description  string
	CategoryCode string
}

// ProductDetail — полная проекция товара: к краткой добавляются
// цена, остаток и вариантные поля.
type ProductDetail struct {
	Code         string
	Name         string
	Description  string
	CategoryCode string
	Price        int64 // в центах
	Stock        int32
	Color        string
	Size         string
}

// CartLineView — строка корзины во внешнем представлении.
type CartLineView struct {
	ProductCode string
	Quantity    int32
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductAdded   OutboxEventType = "marketplace.product_added"
	ProductRemoved OutboxEventType = "marketplace.product_removed"
)

// OutboxEvent — событие изменения корзины, ожидающее публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// cartChangePayload — JSON-тело события для внешних потребителей.
type cartChangePayload struct {
	EventID     string `json:"event_id"`
	EventType   string `json:"event_type"`
	ProductCode string `json:"product_code"`
	Quantity    int32  `json:"quantity"`
	OccurredAt  int64  `json:"occurred_at"`
}

type WriteRawMessageReq struct {
	ProductID int64
	Payload   []byte
}

// MAPPERS

func NewProductSummary(p *domain.Product) *ProductSummary {
	return &ProductSummary{
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		CategoryCode: p.CategoryCode,
	}
}

func NewProductDetail(p *domain.Product) *ProductDetail {
	return &ProductDetail{
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		CategoryCode: p.CategoryCode,
		Price:        p.Price,
		Stock:        p.Stock,
		Color:        p.Color,
		Size:         p.Size,
	}
}

func NewAddToCartReq(productCode string, quantity int32) *AddToCartReq {
	return &AddToCartReq{
		ProductCode: productCode,
		Quantity:    quantity,
	}
}

func NewCartLineView(productCode string, quantity int32) CartLineView {
	return CartLineView{
		ProductCode: productCode,
		Quantity:    quantity,
	}
}

// NewCartChangeEvent собирает outbox-событие с JSON-телом.
func NewCartChangeEvent(eventType OutboxEventType, productID int64, productCode string, quantity int32) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	payload, err := json.Marshal(cartChangePayload{
		EventID:     eventID,
		EventType:   string(eventType),
		ProductCode: productCode,
		Quantity:    quantity,
		OccurredAt:  time.Now().UnixNano(),
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		ProductID: productID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now(),
	}, nil
}

func NewWriteRawMessageReq(productID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		Payload:   payload,
	}
}
