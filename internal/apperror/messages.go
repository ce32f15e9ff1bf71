package apperror

// messages maps error codes to their default human-readable messages.
var messages = map[Code]string{
	CodeRequiredField:   "required field is missing",
	CodeInvalidInput:    "invalid input",
	CodeInvalidFormat:   "invalid format",
	CodeInvalidState:    "invalid state",
	CodeNotFound:        "resource not found",
	CodeValidationError: "validation failed",

	CodeConfigurationError: "configuration error",

	CodeInternalError: "internal error",
	CodeUnknownError:  "unknown error",

	CodeSnapshotUnavailable: "market snapshot unavailable",
	CodeSnapshotStale:       "market snapshot is stale",
	CodeSnapshotMalformed:   "market snapshot is malformed",

	CodeInvalidQuote:          "quote has non-positive price",
	CodeInvalidPool:           "liquidity pool parameters are invalid",
	CodeInsufficientLiquidity: "insufficient liquidity for trade size",
	CodeInvalidTradeSize:      "trade size is invalid",

	CodeCircuitOpen:     "circuit breaker is open",
	CodeCircuitHalfOpen: "circuit breaker is half-open",
}
