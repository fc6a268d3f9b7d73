package errors

// Error code constants returned in API responses.
// Format: CATEGORY_SPECIFIC_DETAIL. The frontend maps these codes to
// localized messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN" // no access to the resource
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_ / CATEGORY_) ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"
	ProductInactive    = "PRODUCT_INACTIVE"
	CategoryNotFound   = "CATEGORY_NOT_FOUND"
	CategoryNameExists = "CATEGORY_NAME_EXISTS"
	OwnerNotFound      = "OWNER_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartNotFound        = "CART_NOT_FOUND"
	CartItemNotFound    = "CART_ITEM_NOT_FOUND"
	CartInvalidQuantity = "CART_INVALID_QUANTITY"
	CartClosed          = "CART_CLOSED" // cart already checked out

	// ==================== Checkout / Order (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderInvalidLineItems  = "ORDER_INVALID_LINE_ITEMS" // line items missing or not owned
	OrderInsufficientStock = "ORDER_INSUFFICIENT_STOCK"
	OrderNoActiveCart      = "ORDER_NO_ACTIVE_CART"
	OrderNotCancellable    = "ORDER_NOT_CANCELLABLE"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"

	// ==================== Payment (PAYMENT_) ====================
	PaymentAlreadyClaimed  = "PAYMENT_ALREADY_CLAIMED" // a claim already recorded
	PaymentOrderNotPending = "PAYMENT_ORDER_NOT_PENDING"
	PaymentChannelNotFound = "PAYMENT_CHANNEL_NOT_FOUND"

	// ==================== Address (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND"
	AddressInUse    = "ADDRESS_IN_USE" // referenced by an order

	// ==================== Wishlist (WISHLIST_) ====================
	WishlistItemExists   = "WISHLIST_ITEM_EXISTS"
	WishlistItemNotFound = "WISHLIST_ITEM_NOT_FOUND"

	// ==================== Notification (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalDatabase    = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API_ERROR"
)
