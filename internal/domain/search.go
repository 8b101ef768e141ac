package domain

// SearchStatus - фаза поиска цен, видимая презентационному слою.
type SearchStatus string

const (
	StatusIdle     SearchStatus = "idle"
	StatusStarting SearchStatus = "starting"
	StatusPolling  SearchStatus = "polling"
	StatusSuccess  SearchStatus = "success"
	StatusEmpty    SearchStatus = "empty"
	StatusError    SearchStatus = "error"
)

func (s SearchStatus) IsValid() bool {
	switch s {
	case StatusIdle, StatusStarting, StatusPolling, StatusSuccess, StatusEmpty, StatusError:
		return true
	}
	return false
}

// IsTerminal reports whether the session has finished for this search.
// A new Search call always leaves a terminal status again.
func (s SearchStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusEmpty || s == StatusError
}

// PriceOffer - одно ценовое предложение из результатов поиска.
// Неизменяемо после получения от бэкенда.
type PriceOffer struct {
	ID        string
	Amount    float64
	Currency  string
	StartDate string // ISO date, YYYY-MM-DD
	EndDate   string
	HotelID   string // may be empty; such offers cannot be displayed
}

func (p PriceOffer) Validate() error {
	if p.ID == "" {
		return ErrEmptyOfferID
	}
	if p.Amount < 0 {
		return ErrNegativeAmount
	}
	if len(p.Currency) != 3 {
		return ErrInvalidCurrency
	}
	// ISO dates compare correctly as strings
	if p.StartDate != "" && p.EndDate != "" && p.StartDate > p.EndDate {
		return ErrInvalidDateRange
	}
	return nil
}

// PricesMap - результат одного успешного опроса, ключ - id предложения.
// Всегда создаётся целиком, никогда не мержится между опросами.
type PricesMap map[string]PriceOffer
