package converter

// ProductDetailRedisModel — JSON-представление детальной карточки товара в кэше.
type ProductDetailRedisModel struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CategoryCode string `json:"category_code"`
	Price        int64  `json:"price"`
	Stock        int32  `json:"stock"`
	Color        string `json:"color"`
	Size         string `json:"size"`
}
