// Package forecast wires the pipeline: catalog lookup, cache-or-fetch of
// the raw provider payload, and transformation into the cleaned series.
package forecast

import (
	"context"
	"time"

	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/cache"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/catalog"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/models"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/series"
)

// Fetcher performs one provider round-trip for a location.
type Fetcher interface {
	Fetch(ctx context.Context, loc models.Location) (*models.RawForecast, error)
}

type Service struct {
	fetcher Fetcher
	cache   *cache.Cache
}

func NewService(fetcher Fetcher, c *cache.Cache) *Service {
	return &Service{fetcher: fetcher, cache: c}
}

// Locations returns the fixed catalog.
func (s *Service) Locations() []models.Location {
	return catalog.All()
}

// Forecast returns the cleaned 7-day hourly series for a catalog key.
// Within the cache TTL repeated calls issue no network traffic.
func (s *Service) Forecast(ctx context.Context, key string) (models.CleanedSeries, error) {
	loc, err := catalog.ByKey(key)
	if err != nil {
		return nil, err
	}
	raw, _, err := s.cache.GetOrFetch(ctx, loc.Key, func(ctx context.Context) (*models.RawForecast, error) {
		return s.fetcher.Fetch(ctx, loc)
	})
	if err != nil {
		return nil, err
	}
	return series.Clean(raw)
}

// Day returns the one-day hourly detail for a catalog key and calendar
// date within the forecast horizon.
func (s *Service) Day(ctx context.Context, key string, date time.Time) (models.DailySlice, error) {
	cleaned, err := s.Forecast(ctx, key)
	if err != nil {
		return models.DailySlice{}, err
	}
	return series.SliceDay(cleaned, date)
}
