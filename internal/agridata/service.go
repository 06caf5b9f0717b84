package agridata

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/syaikhipin/llm-farm/internal/cache"
)

// Service is the aggregation layer: it answers each source query from the
// cache when fresh, issues the live call otherwise, and degrades to the
// source's fallback on any failure. Its per-source methods never fail.
type Service struct {
	cache *cache.TimedCache
	src   Sources

	// sf collapses concurrent live fetches for the same cache key across
	// overlapping requests into a single upstream call.
	sf singleflight.Group
}

// NewService creates a Service around an owned cache instance.
func NewService(c *cache.TimedCache, src Sources) *Service {
	return &Service{cache: c, src: src}
}

// Sustainability returns FSDN metrics for the region, live or fallback.
func (s *Service) Sustainability(ctx context.Context, region RegionProfile) SustainabilityMetrics {
	return fetchCached(ctx, s, SustainabilityKey(region.ID), FallbackSustainability(),
		func(ctx context.Context) (SustainabilityMetrics, error) {
			return s.src.Sustainability.FetchSustainability(ctx, region.ID)
		})
}

// Practices returns FaST platform data for the region, live or fallback.
func (s *Service) Practices(ctx context.Context, region RegionProfile) PracticeData {
	return fetchCached(ctx, s, PracticesKey(region.ID), FallbackPractices(),
		func(ctx context.Context) (PracticeData, error) {
			return s.src.Practices.FetchPractices(ctx, region.ID)
		})
}

// MarketPrices returns the EU-wide price table, live or fallback.
func (s *Service) MarketPrices(ctx context.Context) PriceTable {
	return fetchCached(ctx, s, MarketPricesKey, FallbackMarketPrices(),
		func(ctx context.Context) (PriceTable, error) {
			return s.src.Market.FetchPrices(ctx)
		})
}

// Weather returns the current observation for the coordinates, live or fallback.
func (s *Service) Weather(ctx context.Context, lat, lon float64) WeatherObservation {
	return fetchCached(ctx, s, WeatherKey(lat, lon), FallbackWeather(),
		func(ctx context.Context) (WeatherObservation, error) {
			return s.src.Weather.FetchWeather(ctx, lat, lon)
		})
}

// BuildSnapshot fetches all four sources concurrently and assembles the
// result once every fetch has returned. The four sources are independent, so
// each goroutine writes its own snapshot field and no short-circuit exists:
// a snapshot is always fully shaped no matter how many sources fell back.
func (s *Service) BuildSnapshot(ctx context.Context, region RegionProfile) Snapshot {
	var (
		snap Snapshot
		wg   sync.WaitGroup
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		snap.Sustainability = s.Sustainability(ctx, region)
	}()
	go func() {
		defer wg.Done()
		snap.Practices = s.Practices(ctx, region)
	}()
	go func() {
		defer wg.Done()
		snap.MarketPrices = s.MarketPrices(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Weather = s.Weather(ctx, region.Coordinates.Lat, region.Coordinates.Lon)
	}()
	wg.Wait()

	return snap
}

// fetchCached implements the shared fetch contract: fresh cache hit wins,
// otherwise one live call runs per key (duplicates wait on the same flight),
// successful results are cached, failures return the fallback uncached so the
// next request retries the live source instead of sitting on defaults for a
// full TTL.
func fetchCached[T any](ctx context.Context, s *Service, key string, fallback T, live func(context.Context) (T, error)) T {
	if v, ok := s.cache.GetFresh(key); ok {
		if typed, ok := v.(T); ok {
			return typed
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		// A concurrent flight may have filled the cache while we waited.
		if cached, ok := s.cache.GetFresh(key); ok {
			return cached, nil
		}

		val, err := live(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.Put(key, val)
		return val, nil
	})
	if err != nil {
		log.Printf("source fetch failed for %s: %v; using fallback", key, err)
		return fallback
	}

	typed, ok := v.(T)
	if !ok {
		log.Printf("unexpected cached type for %s; using fallback", key)
		return fallback
	}
	return typed
}
