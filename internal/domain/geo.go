package domain

type GeoEntityType string

const (
	GeoCountry GeoEntityType = "country"
	GeoCity    GeoEntityType = "city"
	GeoHotel   GeoEntityType = "hotel"
)

func (t GeoEntityType) IsValid() bool {
	switch t {
	case GeoCountry, GeoCity, GeoHotel:
		return true
	}
	return false
}

type Country struct {
	ID   string
	Name string
	Flag string
}

type CountriesMap map[string]Country

// GeoEntity - элемент автодополнения: страна, город или отель.
type GeoEntity struct {
	ID          string
	Name        string
	Type        GeoEntityType
	Flag        string
	Img         string
	CityName    string
	CountryID   string
	CountryName string
}
