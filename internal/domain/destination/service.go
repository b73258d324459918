package destination

import (
	"context"
	"strings"

	"staysphere/internal/domain/property"
	"staysphere/internal/pkg/apperr"
	"staysphere/internal/pkg/pagination"
)

var ErrCityRequired = apperr.Validation("city is required", map[string]string{"city": "required"})

// PropertySearch is the public listing search.
type PropertySearch interface {
	Search(ctx context.Context, q property.SearchQuery, params pagination.Params) ([]property.Property, int64, error)
}

type Service struct {
	repo       Repository
	properties PropertySearch
}

func NewService(repo Repository, properties PropertySearch) *Service {
	return &Service{repo: repo, properties: properties}
}

func (s *Service) List(ctx context.Context, q Query, params pagination.Params) ([]Destination, int64, error) {
	return s.repo.List(ctx, q, params)
}

// Properties runs the regular search pinned to one city.
func (s *Service) Properties(ctx context.Context, city string, q property.SearchQuery, params pagination.Params) ([]property.Property, int64, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, 0, ErrCityRequired
	}
	q.City = city
	return s.properties.Search(ctx, q, params)
}
