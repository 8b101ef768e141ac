package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/dkoval87/hottours/internal/domain"
	"github.com/dkoval87/hottours/internal/travelapi"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client - HTTP-реализация всех контрактов travelapi поверх REST бэкенда.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// apiError - тело ошибки бэкенда; для 425 содержит waitUntil.
type apiError struct {
	Code      int    `json:"code"`
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	WaitUntil string `json:"waitUntil,omitempty"`
}

type startSearchResponse struct {
	Token     string `json:"token"`
	WaitUntil string `json:"waitUntil"`
}

type getPricesResponse struct {
	Prices map[string]wireOffer `json:"prices"`
}

type wireOffer struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	HotelID   wireID  `json:"hotelID,omitempty"`
}

type wireHotel struct {
	ID          wireID `json:"id"`
	Name        string `json:"name"`
	Img         string `json:"img"`
	CityID      wireID `json:"cityId"`
	CityName    string `json:"cityName"`
	CountryID   string `json:"countryId"`
	CountryName string `json:"countryName"`
}

type wireCountry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Flag string `json:"flag,omitempty"`
}

type wireGeoEntity struct {
	ID          wireID `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Flag        string `json:"flag,omitempty"`
	Img         string `json:"img,omitempty"`
	CityName    string `json:"cityName,omitempty"`
	CountryID   string `json:"countryId,omitempty"`
	CountryName string `json:"countryName,omitempty"`
}

// wireID - id, который бэкенд отдаёт то числом, то строкой.
type wireID string

func (w *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*w = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*w = wireID(n.String())
	return nil
}

func (c *Client) StartSearch(ctx context.Context, countryID string) (*travelapi.StartedSearch, error) {
	body, status, err := c.do(ctx, http.MethodPost, "/search/"+url.PathEscape(countryID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", travelapi.ErrStartFailed, err)
	}

	if status != http.StatusOK {
		return nil, c.asError(status, body, travelapi.ErrStartFailed)
	}

	var resp startSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal start response: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: backend returned no token", travelapi.ErrStartFailed)
	}

	waitUntil, err := time.Parse(time.RFC3339, resp.WaitUntil)
	if err != nil {
		// backend sometimes omits waitUntil, poll immediately then
		waitUntil = time.Now()
	}

	return &travelapi.StartedSearch{Token: resp.Token, WaitUntil: waitUntil}, nil
}

func (c *Client) GetResults(ctx context.Context, token string) (domain.PricesMap, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/search/result/"+url.PathEscape(token), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", travelapi.ErrSearchFailed, err)
	}

	switch status {
	case http.StatusOK:
		var resp getPricesResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("unmarshal prices response: %w", err)
		}
		prices := make(domain.PricesMap, len(resp.Prices))
		for id, o := range resp.Prices {
			prices[id] = domain.PriceOffer{
				ID:        o.ID,
				Amount:    o.Amount,
				Currency:  o.Currency,
				StartDate: o.StartDate,
				EndDate:   o.EndDate,
				HotelID:   string(o.HotelID),
			}
		}
		return prices, nil

	case http.StatusTooEarly:
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err != nil {
			return nil, fmt.Errorf("unmarshal 425 response: %w", err)
		}
		waitUntil, err := time.Parse(time.RFC3339, apiErr.WaitUntil)
		if err != nil {
			waitUntil = time.Now()
		}
		return nil, &travelapi.TooEarlyError{WaitUntil: waitUntil}

	case http.StatusNotFound:
		return nil, travelapi.ErrNotFound

	default:
		return nil, c.asError(status, body, travelapi.ErrSearchFailed)
	}
}

func (c *Client) StopSearch(ctx context.Context, token string) error {
	body, status, err := c.do(ctx, http.MethodDelete, "/search/"+url.PathEscape(token), nil)
	if err != nil {
		return fmt.Errorf("stop search: %w", err)
	}

	switch status {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return travelapi.ErrNotFound
	default:
		return c.asError(status, body, fmt.Errorf("stop search: status %d", status))
	}
}

func (c *Client) HotelsByCountry(ctx context.Context, countryID string) (domain.HotelsMap, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/hotels/"+url.PathEscape(countryID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", travelapi.ErrHotelsFailed, err)
	}
	if status != http.StatusOK {
		return nil, c.asError(status, body, travelapi.ErrHotelsFailed)
	}

	var wire map[string]wireHotel
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("unmarshal hotels response: %w", err)
	}

	hotels := make(domain.HotelsMap, len(wire))
	for key, h := range wire {
		id := string(h.ID)
		if id == "" {
			id = key
		}
		hotels[id] = domain.Hotel{
			ID:          id,
			Name:        h.Name,
			Img:         h.Img,
			CityID:      string(h.CityID),
			CityName:    h.CityName,
			CountryID:   h.CountryID,
			CountryName: h.CountryName,
		}
	}
	return hotels, nil
}

func (c *Client) Countries(ctx context.Context) (domain.CountriesMap, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/countries", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", travelapi.ErrGeoFailed, err)
	}
	if status != http.StatusOK {
		return nil, c.asError(status, body, travelapi.ErrGeoFailed)
	}

	var wire map[string]wireCountry
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("unmarshal countries response: %w", err)
	}

	countries := make(domain.CountriesMap, len(wire))
	for key, cw := range wire {
		id := cw.ID
		if id == "" {
			id = key
		}
		countries[id] = domain.Country{ID: id, Name: cw.Name, Flag: cw.Flag}
	}
	return countries, nil
}

func (c *Client) SearchGeo(ctx context.Context, query string) ([]domain.GeoEntity, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/geo?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", travelapi.ErrGeoFailed, err)
	}
	if status != http.StatusOK {
		return nil, c.asError(status, body, travelapi.ErrGeoFailed)
	}

	var wire map[string]wireGeoEntity
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("unmarshal geo response: %w", err)
	}

	entities := make([]domain.GeoEntity, 0, len(wire))
	for _, e := range wire {
		entities = append(entities, domain.GeoEntity{
			ID:          string(e.ID),
			Name:        e.Name,
			Type:        domain.GeoEntityType(e.Type),
			Flag:        e.Flag,
			Img:         e.Img,
			CityName:    e.CityName,
			CountryID:   e.CountryID,
			CountryName: e.CountryName,
		})
	}
	return entities, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqBody io.Reader) ([]byte, int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// asError translates a non-200 body into an error, preferring the
// backend-supplied message over the generic fallback.
func (c *Client) asError(status int, body []byte, fallback error) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%w: %s", fallback, apiErr.Message)
	}
	c.logger.Debug("backend error without message", zap.Int("status", status))
	return fmt.Errorf("%w: status %d", fallback, status)
}
