package mock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval87/hottours/internal/domain"
	"github.com/dkoval87/hottours/internal/travelapi"
)

// Client implements every travelapi contract in memory. Behavior is
// overridable per operation via the func fields; defaults issue a uuid
// token with an immediate WaitUntil and return whatever is in Prices.
type Client struct {
	StartFunc     func(ctx context.Context, countryID string) (*travelapi.StartedSearch, error)
	ResultsFunc   func(ctx context.Context, token string) (domain.PricesMap, error)
	StopFunc      func(ctx context.Context, token string) error
	HotelsFunc    func(ctx context.Context, countryID string) (domain.HotelsMap, error)
	CountriesFunc func(ctx context.Context) (domain.CountriesMap, error)
	GeoFunc       func(ctx context.Context, query string) ([]domain.GeoEntity, error)

	Prices  domain.PricesMap
	Hotels  domain.HotelsMap
	Delay   time.Duration

	mu             sync.Mutex
	StartCalls     []string
	ResultsCalls   []string
	StopCalls      []string
	HotelsCalls    []string
	CountriesCalls int
	GeoCalls       []string

	// Calls keeps every operation in invocation order, e.g. "stop:t1".
	Calls []string
}

func New() *Client {
	return &Client{}
}

func (c *Client) WithPrices(prices domain.PricesMap) *Client {
	c.Prices = prices
	return c
}

func (c *Client) WithHotels(hotels domain.HotelsMap) *Client {
	c.Hotels = hotels
	return c
}

func (c *Client) StartSearch(ctx context.Context, countryID string) (*travelapi.StartedSearch, error) {
	c.mu.Lock()
	c.StartCalls = append(c.StartCalls, countryID)
	c.Calls = append(c.Calls, "start:"+countryID)
	fn := c.StartFunc
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if fn != nil {
		return fn(ctx, countryID)
	}
	return &travelapi.StartedSearch{Token: uuid.NewString(), WaitUntil: time.Now()}, nil
}

func (c *Client) GetResults(ctx context.Context, token string) (domain.PricesMap, error) {
	c.mu.Lock()
	c.ResultsCalls = append(c.ResultsCalls, token)
	c.Calls = append(c.Calls, "results:"+token)
	fn := c.ResultsFunc
	prices := c.Prices
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if fn != nil {
		return fn(ctx, token)
	}
	if prices == nil {
		return domain.PricesMap{}, nil
	}
	return prices, nil
}

func (c *Client) StopSearch(ctx context.Context, token string) error {
	c.mu.Lock()
	c.StopCalls = append(c.StopCalls, token)
	c.Calls = append(c.Calls, "stop:"+token)
	fn := c.StopFunc
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return err
	}
	if fn != nil {
		return fn(ctx, token)
	}
	return nil
}

func (c *Client) HotelsByCountry(ctx context.Context, countryID string) (domain.HotelsMap, error) {
	c.mu.Lock()
	c.HotelsCalls = append(c.HotelsCalls, countryID)
	c.Calls = append(c.Calls, "hotels:"+countryID)
	fn := c.HotelsFunc
	hotels := c.Hotels
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if fn != nil {
		return fn(ctx, countryID)
	}
	if hotels == nil {
		return domain.HotelsMap{}, nil
	}
	return hotels, nil
}

func (c *Client) Countries(ctx context.Context) (domain.CountriesMap, error) {
	c.mu.Lock()
	c.CountriesCalls++
	fn := c.CountriesFunc
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if fn != nil {
		return fn(ctx)
	}
	return domain.CountriesMap{}, nil
}

func (c *Client) SearchGeo(ctx context.Context, query string) ([]domain.GeoEntity, error) {
	c.mu.Lock()
	c.GeoCalls = append(c.GeoCalls, query)
	fn := c.GeoFunc
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if fn != nil {
		return fn(ctx, query)
	}
	return nil, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.Delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.Delay):
		return nil
	}
}

// CallCounts returns (start, results, stop) call totals.
func (c *Client) CallCounts() (int, int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.StartCalls), len(c.ResultsCalls), len(c.StopCalls)
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.StartCalls = nil
	c.ResultsCalls = nil
	c.StopCalls = nil
	c.HotelsCalls = nil
	c.CountriesCalls = 0
	c.GeoCalls = nil
	c.Calls = nil
}

// CallLog returns a copy of the ordered operation log.
func (c *Client) CallLog() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.Calls))
	copy(out, c.Calls)
	return out
}
