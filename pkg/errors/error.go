package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// InvalidOfferingError represents a sell order whose price schedule fails validation.
	InvalidOfferingError ErrorCode = "invalid_offering"
	// InvalidBuyOrderError represents a buy order with a non-positive duration or
	// unit price, or a missing predicate.
	InvalidBuyOrderError ErrorCode = "invalid_buy_order"
	// DuplicateOrderError represents an attempt to book an order ID that already exists.
	DuplicateOrderError ErrorCode = "duplicate_order"
	// OrderNotFoundError represents a cancellation for an order ID that is not booked.
	OrderNotFoundError ErrorCode = "order_not_found"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisSetNXError represents an error when setting a value in Redis with SetNX.
	RedisSetNXError ErrorCode = "redis_setnx_error"
)

// Category represents the category of an error.
type Category string

const (
	// CategoryValidation indicates an error related to validation of input data.
	CategoryValidation Category = "validation"
	// CategoryBusinessLogic indicates an error related to business logic processing.
	CategoryBusinessLogic Category = "business_logic"
	// CategoryExternal indicates an error related to external services or APIs.
	CategoryExternal Category = "external"
	// CategoryUnknown indicates an unknown error category.
	CategoryUnknown Category = "unknown"
)
