package domain

import "errors"

var (
	ErrEmptyCountryID = errors.New("empty country id")
	ErrNoResults      = errors.New("no offers found")
	ErrSearcherClosed = errors.New("searcher is closed")
)

var (
	ErrEmptyQuery = errors.New("empty query")
)

var (
	ErrEmptyOfferID     = errors.New("empty offer id")
	ErrNegativeAmount   = errors.New("amount must be non-negative")
	ErrInvalidCurrency  = errors.New("currency must be a 3-letter code")
	ErrInvalidDateRange = errors.New("start date is after end date")
)
