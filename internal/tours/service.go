package tours

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dkoval87/hottours/internal/domain"
	"github.com/dkoval87/hottours/internal/hotels"
	"github.com/dkoval87/hottours/internal/searcher"
)

type Deps struct {
	Searcher *searcher.Searcher
	Hotels   *hotels.Fetcher
	Logger   *zap.Logger
}

// Service - верхний уровень: запускает поиск цен и загрузку отелей
// параллельно и отдаёт готовую выдачу.
type Service struct {
	searcher *searcher.Searcher
	hotels   *hotels.Fetcher
	logger   *zap.Logger
}

func New(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Service{
		searcher: deps.Searcher,
		hotels:   deps.Hotels,
		logger:   deps.Logger,
	}
}

// Search runs the asynchronous price search and the hotel table fetch for
// a country concurrently, waits for both, and joins them. A terminal
// empty status maps to domain.ErrNoResults so callers can tell "nothing
// found" apart from a failure.
func (s *Service) Search(ctx context.Context, countryID string) ([]domain.TourCard, error) {
	if countryID == "" {
		return nil, domain.ErrEmptyCountryID
	}

	var (
		prices domain.PricesMap
		table  domain.HotelsMap
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.searcher.Search(gctx, countryID); err != nil {
			return err
		}
		state, err := s.searcher.Wait(gctx)
		if err != nil {
			return err
		}
		switch state.Status {
		case domain.StatusSuccess:
			prices = state.Prices
			return nil
		case domain.StatusEmpty:
			return domain.ErrNoResults
		default:
			return fmt.Errorf("price search failed: %s", state.Err)
		}
	})

	g.Go(func() error {
		fetched, err := s.hotels.Fetch(gctx, countryID)
		if err != nil {
			return err
		}
		table = fetched
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	cards := Join(prices, table)
	s.logger.Info("tour search completed",
		zap.String("country_id", countryID),
		zap.Int("offers", len(prices)),
		zap.Int("cards", len(cards)),
	)
	return cards, nil
}
