package hotels

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dkoval87/hottours/internal/cache/memory"
	"github.com/dkoval87/hottours/internal/domain"
	"github.com/dkoval87/hottours/internal/metrics"
	"github.com/dkoval87/hottours/internal/travelapi"
)

type Deps struct {
	Client  travelapi.HotelClient
	Cache   *memory.Store[domain.HotelsMap]
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Fetcher - кеш таблиц отелей по стране. Без опроса: один запрос на
// промах, повторные обращения идут из кеша. Конкурентные промахи по
// одной стране схлопываются в один сетевой вызов.
type Fetcher struct {
	client  travelapi.HotelClient
	cache   *memory.Store[domain.HotelsMap]
	logger  *zap.Logger
	metrics *metrics.Metrics
	group   singleflight.Group

	mu      sync.Mutex
	hotels  domain.HotelsMap
	loading bool
	errMsg  string
}

func New(deps Deps) *Fetcher {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Cache == nil {
		deps.Cache = memory.New[domain.HotelsMap]()
	}

	return &Fetcher{
		client:  deps.Client,
		cache:   deps.Cache,
		logger:  deps.Logger,
		metrics: deps.Metrics,
	}
}

// Fetch returns the hotel table for a country, consulting the cache first.
// On failure cached tables for other countries stay intact, but the
// working copy is cleared so the boundary sees the failure.
func (f *Fetcher) Fetch(ctx context.Context, countryID string) (domain.HotelsMap, error) {
	if countryID == "" {
		return nil, domain.ErrEmptyCountryID
	}

	if cached, ok := f.cache.Get(countryID); ok {
		if f.metrics != nil {
			f.metrics.RecordCacheHit()
		}
		f.setState(cached, false, "")
		return cached, nil
	}
	if f.metrics != nil {
		f.metrics.RecordCacheMiss()
	}

	f.setState(nil, true, "")

	v, err, _ := f.group.Do(countryID, func() (interface{}, error) {
		return f.client.HotelsByCountry(ctx, countryID)
	})
	if err != nil {
		if f.metrics != nil {
			f.metrics.RecordHotelRequest("error")
		}
		f.logger.Warn("failed to fetch hotels",
			zap.String("country_id", countryID),
			zap.Error(err),
		)
		f.setState(nil, false, err.Error())
		return nil, err
	}

	hotels := v.(domain.HotelsMap)
	f.cache.Set(countryID, hotels)
	if f.metrics != nil {
		f.metrics.RecordHotelRequest("success")
	}
	f.setState(hotels, false, "")
	return hotels, nil
}

// Snapshot returns the working copy: the last fetched table, whether a
// fetch is in progress, and the last error message.
func (f *Fetcher) Snapshot() (domain.HotelsMap, bool, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hotels, f.loading, f.errMsg
}

func (f *Fetcher) setState(hotels domain.HotelsMap, loading bool, errMsg string) {
	f.mu.Lock()
	f.hotels = hotels
	f.loading = loading
	f.errMsg = errMsg
	f.mu.Unlock()
}
