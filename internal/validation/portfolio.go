package validation

import (
	"strings"

	"github.com/mvdbosch/stock-portfolio-tracker/internal/api/request"
)

// maxTickerLength matches the column width of the position table.
const maxTickerLength = 10

// ValidateTrade validates a buy or sell request.
//
// Required fields:
//   - ticker: non-empty, at most 10 characters, letters with optional
//     '.' or '-' separators (BRK.B, BF-B)
//   - quantity: a positive integer; fractional, zero, negative or
//     non-numeric values are rejected
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateTrade(req request.TradeRequest) error {
	errors := make(map[string]string)

	if err := validateTicker(req.Ticker); err != "" {
		errors["ticker"] = err
	}

	if strings.TrimSpace(req.Quantity.String()) == "" {
		errors["quantity"] = "quantity is required"
	} else if qty, err := req.Quantity.Int64(); err != nil {
		errors["quantity"] = "quantity must be an integer"
	} else if qty <= 0 {
		errors["quantity"] = "quantity must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateTicker validates a bare ticker symbol, as passed to the quote
// endpoint.
func ValidateTicker(ticker string) error {
	if msg := validateTicker(ticker); msg != "" {
		return &Error{Fields: map[string]string{"ticker": msg}}
	}
	return nil
}

func validateTicker(ticker string) string {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return "ticker is required"
	}
	if len(ticker) > maxTickerLength {
		return "ticker is too long"
	}
	for _, r := range ticker {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isLetter && r != '.' && r != '-' {
			return "ticker contains invalid characters"
		}
	}
	return ""
}
