package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError translates storage errors into user-facing codes and
// messages. Sensitive internals are hidden; the message should still let
// the user fix their request. context is a hint like "product" or
// "address" used to pick the not-found message.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal server error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// 2. PostgreSQL constraint violations

	// 2-1. Unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// 2-3. Not null constraint (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	// 3. Network/connectivity
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Failed to reach an external service. Please try again shortly",
		}
	}

	// 4. Fallback
	return ErrorInfo{
		Code:    InternalServerError,
		Message: "An internal server error occurred. Please try again shortly",
	}
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errStrLower := strings.ToLower(err.Error())
	return strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint")
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email address is already registered",
		}
	}

	if strings.Contains(errLower, "categories") || strings.Contains(errLower, "idx_categories_name") {
		return ErrorInfo{
			Code:    CategoryNameExists,
			Message: "A category with this name already exists",
		}
	}

	if strings.Contains(errLower, "idx_wishlist_user_product") {
		return ErrorInfo{
			Code:    WishlistItemExists,
			Message: "This product is already in your wishlist",
		}
	}

	if strings.Contains(errLower, "order_payments") || strings.Contains(errLower, "order_id") {
		return ErrorInfo{
			Code:    PaymentAlreadyClaimed,
			Message: "A payment has already been recorded for this order",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "The record already exists. Please try again",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "The record already exists",
	}
}

func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// Delete blocked by referencing rows
	if strings.Contains(errLower, "still referenced") {
		if strings.Contains(context, "address") {
			return ErrorInfo{
				Code:    AddressInUse,
				Message: "This address is used by an order and cannot be deleted",
			}
		}
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The record is referenced by other data and cannot be deleted",
		}
	}

	// Insert/update referencing a missing row
	if strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "The product does not exist",
		}
	}
	if strings.Contains(errLower, "category_id") || strings.Contains(errLower, "fk_categories") {
		return ErrorInfo{
			Code:    CategoryNotFound,
			Message: "The category does not exist",
		}
	}
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "The user does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record could not be found",
	}
}

func notFoundMessage(context string) string {
	switch context {
	case "product":
		return "Product not found"
	case "category":
		return "Category not found"
	case "owner":
		return "Brand not found"
	case "cart":
		return "Cart not found"
	case "order":
		return "Order not found"
	case "address":
		return "Address not found"
	case "user":
		return "User not found"
	case "notification":
		return "Notification not found"
	default:
		return "The requested record could not be found"
	}
}
