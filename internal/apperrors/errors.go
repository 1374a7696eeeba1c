package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPositionNotFound indicates that no position is held for the given ticker.
	ErrPositionNotFound = errors.New("stock not found in portfolio")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results.
	ErrSymbolNotFound = errors.New("no information available for the provided ticker")

	// ErrPriceRecordNotFound indicates that no cached price exists for a symbol.
	ErrPriceRecordNotFound = errors.New("price record not found")

	// ErrSettingNotFound indicates that a system setting key has not been stored.
	ErrSettingNotFound = errors.New("system setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientQuantity indicates that a sell cannot be completed because
	// the portfolio does not hold enough shares of the ticker. Sells are
	// rejected rather than clamped; held quantity never goes negative.
	ErrInsufficientQuantity = errors.New("not enough quantity to sell")

	// ErrInvalidQuantity indicates that a quantity is missing, non-numeric,
	// zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInvalidTicker indicates that a ticker symbol is missing or malformed.
	ErrInvalidTicker = errors.New("invalid ticker symbol")

	// ErrReviewNotConfigured indicates that no API key is available for the
	// narrative review generator.
	ErrReviewNotConfigured = errors.New("review generator is not configured")
)

// Provider errors represent failures of the external market data source.
// The price cache degrades these to a zero price for valuation purposes;
// only the explicit quote path surfaces them to callers.
var (
	// ErrPriceUnavailable indicates that the provider returned no usable price.
	ErrPriceUnavailable = errors.New("unable to fetch current price")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These errors indicate that an operation failed, but not due
// to missing entities or validation issues.
var (
	ErrFailedToBuyStock       = errors.New("failed to buy stock")
	ErrFailedToSellStock      = errors.New("failed to sell stock")
	ErrFailedToFetchQuote     = errors.New("failed to fetch stock information")
	ErrFailedToGetPortfolio   = errors.New("failed to get portfolio")
	ErrFailedToGetHistory     = errors.New("failed to get portfolio history")
	ErrFailedToGenerateReview = errors.New("failed to generate portfolio review")
	ErrFailedToStoreSetting   = errors.New("failed to store system setting")
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)
