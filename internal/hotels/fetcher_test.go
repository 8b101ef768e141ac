package hotels_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dkoval87/hottours/internal/domain"
	"github.com/dkoval87/hottours/internal/hotels"
	"github.com/dkoval87/hottours/internal/travelapi/mock"
)

func testTable() domain.HotelsMap {
	return domain.HotelsMap{
		"h1": {ID: "h1", Name: "Riviera", CountryID: "UA"},
	}
}

func TestFetcher_CachesPerCountry(t *testing.T) {
	client := mock.New().WithHotels(testTable())
	f := hotels.New(hotels.Deps{Client: client})

	got, err := f.Fetch(context.Background(), "UA")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(hotels) = %d, want 1", len(got))
	}

	// second fetch must come from cache
	if _, err := f.Fetch(context.Background(), "UA"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if calls := len(client.HotelsCalls); calls != 1 {
		t.Errorf("network calls = %d, want 1", calls)
	}

	// a different country is a miss
	if _, err := f.Fetch(context.Background(), "EG"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if calls := len(client.HotelsCalls); calls != 2 {
		t.Errorf("network calls = %d, want 2", calls)
	}
}

func TestFetcher_EmptyCountryID(t *testing.T) {
	f := hotels.New(hotels.Deps{Client: mock.New()})

	if _, err := f.Fetch(context.Background(), ""); !errors.Is(err, domain.ErrEmptyCountryID) {
		t.Errorf("Fetch(\"\") error = %v, want %v", err, domain.ErrEmptyCountryID)
	}
}

func TestFetcher_FailureClearsWorkingCopyKeepsCache(t *testing.T) {
	client := mock.New().WithHotels(testTable())
	f := hotels.New(hotels.Deps{Client: client})

	if _, err := f.Fetch(context.Background(), "UA"); err != nil {
		t.Fatalf("Fetch(UA) error = %v", err)
	}

	client.HotelsFunc = func(ctx context.Context, countryID string) (domain.HotelsMap, error) {
		return nil, errors.New("hotels backend down")
	}

	if _, err := f.Fetch(context.Background(), "EG"); err == nil {
		t.Fatal("Fetch(EG) expected error")
	}

	table, loading, errMsg := f.Snapshot()
	if table != nil {
		t.Errorf("working copy = %v, want nil after failure", table)
	}
	if loading {
		t.Error("loading = true after failed fetch")
	}
	if errMsg == "" {
		t.Error("error message not surfaced")
	}

	// UA stays cached and restores the working copy without a network call
	client.HotelsFunc = nil
	calls := len(client.HotelsCalls)
	got, err := f.Fetch(context.Background(), "UA")
	if err != nil || len(got) != 1 {
		t.Fatalf("Fetch(UA) after failure = %v, %v", got, err)
	}
	if len(client.HotelsCalls) != calls {
		t.Errorf("cached fetch hit the network")
	}
}

func TestFetcher_ConcurrentMissesCollapse(t *testing.T) {
	client := mock.New().WithHotels(testTable())
	client.Delay = 30 * time.Millisecond
	f := hotels.New(hotels.Deps{Client: client})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Fetch(context.Background(), "UA")
		}()
	}
	wg.Wait()

	if calls := len(client.HotelsCalls); calls != 1 {
		t.Errorf("network calls = %d, want 1 (singleflight collapse)", calls)
	}
}
