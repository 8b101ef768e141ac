package domain

// Hotel - карточка отеля, загружается один раз на страну.
// The wire format uses numeric ids; the transport layer converts them
// to strings so that PriceOffer.HotelID and Hotel.ID compare directly.
type Hotel struct {
	ID          string
	Name        string
	Img         string
	CityID      string
	CityName    string
	CountryID   string
	CountryName string
}

// HotelsMap - таблица отелей страны, ключ - id отеля.
type HotelsMap map[string]Hotel

// TourCard - строка выдачи: предложение, обогащённое данными отеля.
// Derived on every change of its inputs, never stored.
type TourCard struct {
	PriceID   string
	Amount    float64
	Currency  string
	StartDate string
	EndDate   string
	Hotel     Hotel
}
