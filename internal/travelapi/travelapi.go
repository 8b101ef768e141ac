package travelapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkoval87/hottours/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrStartFailed  = errors.New("failed to start price search")
	ErrSearchFailed = errors.New("failed to fetch search prices")
	ErrHotelsFailed = errors.New("failed to fetch hotels")
	ErrGeoFailed    = errors.New("geo request failed")
)

// TooEarlyError - сигнал бэкенда "результаты ещё не готовы" (HTTP 425).
// Не ошибка по сути: несёт авторитетное время следующего опроса.
type TooEarlyError struct {
	WaitUntil time.Time
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("results not ready, retry after %s", e.WaitUntil.Format(time.RFC3339))
}

// StartedSearch - ответ на запуск поиска: токен сессии и время первого опроса.
type StartedSearch struct {
	Token     string
	WaitUntil time.Time
}

// PriceClient covers the three operations the search orchestrator depends on.
// The token is opaque: it only correlates start, poll and stop requests.
type PriceClient interface {
	StartSearch(ctx context.Context, countryID string) (*StartedSearch, error)
	// GetResults returns the complete result set for a finished search,
	// an empty map when the search finished without offers, or
	// *TooEarlyError while the backend is still computing.
	GetResults(ctx context.Context, token string) (domain.PricesMap, error)
	// StopSearch aborts a running search. ErrNotFound means the search is
	// already gone, which callers treat as success.
	StopSearch(ctx context.Context, token string) error
}

type HotelClient interface {
	HotelsByCountry(ctx context.Context, countryID string) (domain.HotelsMap, error)
}

type GeoClient interface {
	Countries(ctx context.Context) (domain.CountriesMap, error)
	SearchGeo(ctx context.Context, query string) ([]domain.GeoEntity, error)
}
