package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrProductCodeRequired    = fmt.Errorf("productCode is required")
	ErrCategoryCodeRequired   = fmt.Errorf("categoryCode is required")
	ErrQuantityMustBePositive = fmt.Errorf("Quantity must be greater than zero")
	ErrInsufficientStock      = fmt.Errorf("There are not enough products in stock")
	ErrProductNotInCart       = fmt.Errorf("The product not exist in the shopping")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("Error Internal Server")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
