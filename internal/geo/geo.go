package geo

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dkoval87/hottours/internal/domain"
	"github.com/dkoval87/hottours/internal/travelapi"
)

type Deps struct {
	Client travelapi.GeoClient
	Logger *zap.Logger
}

// Service - справочник стран и автодополнение по странам/городам/отелям.
type Service struct {
	client travelapi.GeoClient
	logger *zap.Logger
}

func New(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Service{client: deps.Client, logger: deps.Logger}
}

func (s *Service) Countries(ctx context.Context) (domain.CountriesMap, error) {
	countries, err := s.client.Countries(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch countries", zap.Error(err))
		return nil, err
	}
	return countries, nil
}

// Search returns geo entities matching the query. A blank query resolves
// to an empty result without a network call. The backend answers with an
// unordered map; results are sorted by name, then id, for determinism.
func (s *Service) Search(ctx context.Context, query string) ([]domain.GeoEntity, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	entities, err := s.client.SearchGeo(ctx, query)
	if err != nil {
		s.logger.Warn("geo search failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Name != entities[j].Name {
			return entities[i].Name < entities[j].Name
		}
		return entities[i].ID < entities[j].ID
	})
	return entities, nil
}
