package errors

// Error code constants returned to the front end.
// Format: CATEGORY_SPECIFIC_DETAIL; the UI maps these to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"

	// ==================== Catalog (PRODUCT_ / CATEGORY_) ====================
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	ProductAddonInvalid = "PRODUCT_ADDON_INVALID"
	CategoryNotFound    = "CATEGORY_NOT_FOUND"
	CategoryInUse       = "CATEGORY_IN_USE"

	// ==================== Cart (CART_) ====================
	CartItemNotFound      = "CART_ITEM_NOT_FOUND"
	CartInsufficientStock = "CART_INSUFFICIENT_STOCK"
	CartDayUnavailable    = "CART_DAY_UNAVAILABLE"
	CartStoreClosed       = "CART_STORE_CLOSED"
	CartEmpty             = "CART_EMPTY"

	// ==================== Order (ORDER_) ====================
	OrderNotFound           = "ORDER_NOT_FOUND"
	OrderAddressRequired    = "ORDER_ADDRESS_REQUIRED"
	OrderCashInsufficient   = "ORDER_CASH_INSUFFICIENT"
	OrderInvalidFulfillment = "ORDER_INVALID_FULFILLMENT"

	// ==================== Voucher (VOUCHER_) ====================
	VoucherNotFound    = "VOUCHER_NOT_FOUND"
	VoucherInactive    = "VOUCHER_INACTIVE"
	VoucherExpired     = "VOUCHER_EXPIRED"
	VoucherExhausted   = "VOUCHER_EXHAUSTED"
	VoucherMinPurchase = "VOUCHER_MIN_PURCHASE"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
