package agridata

import "context"

// The four source contracts. Implementations live in the sources package and
// are allowed to fail; the Service layer above them converts any failure
// into the source's fallback value.

// SustainabilitySource provides Farm Sustainability Data Network metrics.
type SustainabilitySource interface {
	FetchSustainability(ctx context.Context, regionID string) (SustainabilityMetrics, error)
}

// PracticeSource provides FaST platform soil and practice data.
type PracticeSource interface {
	FetchPractices(ctx context.Context, regionID string) (PracticeData, error)
}

// MarketSource provides the EU agricultural market price table.
type MarketSource interface {
	FetchPrices(ctx context.Context) (PriceTable, error)
}

// WeatherSource provides a current weather observation for coordinates.
type WeatherSource interface {
	FetchWeather(ctx context.Context, lat, lon float64) (WeatherObservation, error)
}

// Sources bundles one implementation of each contract for the Service.
type Sources struct {
	Sustainability SustainabilitySource
	Practices      PracticeSource
	Market         MarketSource
	Weather        WeatherSource
}
