package agridata

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/syaikhipin/llm-farm/internal/cache"
)

var errUpstream = errors.New("simulated network error")

// stubSources implements all four source contracts with switchable behaviour
// and per-source call counters.
type stubSources struct {
	failSustainability atomic.Bool
	failPractices      atomic.Bool
	failMarket         atomic.Bool
	failWeather        atomic.Bool

	sustainabilityCalls atomic.Int32
	practicesCalls      atomic.Int32
	marketCalls         atomic.Int32
	weatherCalls        atomic.Int32

	delay time.Duration
}

func liveSustainability() SustainabilityMetrics {
	return SustainabilityMetrics{SoilHealth: "good", WaterEfficiency: "high", Biodiversity: "high"}
}

func livePractices() PracticeData {
	return PracticeData{SoilNutrients: "rich", RecommendedPractices: []string{"cover_crops"}}
}

func livePrices() PriceTable {
	return PriceTable{"Maize": {Price: 210, Unit: "€/tonne"}}
}

func liveWeather() WeatherObservation {
	temp, hum := 18.5, 60.0
	return WeatherObservation{TempC: &temp, HumidityPct: &hum}
}

func (s *stubSources) FetchSustainability(ctx context.Context, regionID string) (SustainabilityMetrics, error) {
	s.sustainabilityCalls.Add(1)
	time.Sleep(s.delay)
	if s.failSustainability.Load() {
		return SustainabilityMetrics{}, errUpstream
	}
	return liveSustainability(), nil
}

func (s *stubSources) FetchPractices(ctx context.Context, regionID string) (PracticeData, error) {
	s.practicesCalls.Add(1)
	time.Sleep(s.delay)
	if s.failPractices.Load() {
		return PracticeData{}, errUpstream
	}
	return livePractices(), nil
}

func (s *stubSources) FetchPrices(ctx context.Context) (PriceTable, error) {
	s.marketCalls.Add(1)
	time.Sleep(s.delay)
	if s.failMarket.Load() {
		return nil, errUpstream
	}
	return livePrices(), nil
}

func (s *stubSources) FetchWeather(ctx context.Context, lat, lon float64) (WeatherObservation, error) {
	s.weatherCalls.Add(1)
	time.Sleep(s.delay)
	if s.failWeather.Load() {
		return WeatherObservation{}, errUpstream
	}
	return liveWeather(), nil
}

func newTestService(ttl time.Duration) (*Service, *stubSources, *cache.TimedCache) {
	stub := &stubSources{}
	c := cache.New(ttl)
	svc := NewService(c, Sources{
		Sustainability: stub,
		Practices:      stub,
		Market:         stub,
		Weather:        stub,
	})
	return svc, stub, c
}

func tuscany() RegionProfile {
	return RegionProfile{
		ID:          "Tuscany",
		Name:        "Tuscany, Italy",
		Coordinates: Coordinates{Lat: 43.7711, Lon: 11.2486},
		SoilType:    "Clay-Limestone",
	}
}

func snapshotFullyShaped(t *testing.T, snap Snapshot) {
	t.Helper()
	if snap.Sustainability.SoilHealth == "" {
		t.Fatal("sustainability field not populated")
	}
	if snap.Practices.SoilNutrients == "" {
		t.Fatal("practices field not populated")
	}
	if len(snap.MarketPrices) == 0 {
		t.Fatal("market prices field not populated")
	}
	if snap.Weather.TempC == nil && snap.Weather.Error == "" {
		t.Fatal("weather field not populated")
	}
}

func TestSnapshotShapeUnderFailures(t *testing.T) {
	ctx := context.Background()
	region := tuscany()

	cases := []struct {
		name string
		fail []string
	}{
		{"no failures", nil},
		{"two failures", []string{"practices", "weather"}},
		{"all failures", []string{"sustainability", "practices", "market", "weather"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, stub, _ := newTestService(time.Hour)
			for _, f := range tc.fail {
				switch f {
				case "sustainability":
					stub.failSustainability.Store(true)
				case "practices":
					stub.failPractices.Store(true)
				case "market":
					stub.failMarket.Store(true)
				case "weather":
					stub.failWeather.Store(true)
				}
			}

			snap := svc.BuildSnapshot(ctx, region)
			snapshotFullyShaped(t, snap)
		})
	}
}

func TestMarketFallbackWhileOthersLive(t *testing.T) {
	ctx := context.Background()
	svc, stub, _ := newTestService(time.Hour)
	stub.failMarket.Store(true)

	snap := svc.BuildSnapshot(ctx, tuscany())

	if !reflect.DeepEqual(snap.MarketPrices, FallbackMarketPrices()) {
		t.Fatalf("expected market fallback, got %+v", snap.MarketPrices)
	}
	if !reflect.DeepEqual(snap.Sustainability, liveSustainability()) {
		t.Fatalf("expected live sustainability, got %+v", snap.Sustainability)
	}
	if !reflect.DeepEqual(snap.Practices, livePractices()) {
		t.Fatalf("expected live practices, got %+v", snap.Practices)
	}
	if snap.Weather.TempC == nil || *snap.Weather.TempC != 18.5 {
		t.Fatalf("expected live weather, got %+v", snap.Weather)
	}
}

func TestFallbackNeverCached(t *testing.T) {
	ctx := context.Background()
	svc, stub, c := newTestService(time.Hour)
	region := tuscany()
	stub.failMarket.Store(true)

	svc.BuildSnapshot(ctx, region)

	if c.IsFresh(MarketPricesKey) {
		t.Fatal("fallback must not be cached")
	}
	if !c.IsFresh(SustainabilityKey(region.ID)) {
		t.Fatal("successful fetch must be cached")
	}

	// The failed source recovers; the next snapshot must retry it live.
	stub.failMarket.Store(false)
	snap := svc.BuildSnapshot(ctx, region)

	if stub.marketCalls.Load() != 2 {
		t.Fatalf("expected market retried after fallback, got %d calls", stub.marketCalls.Load())
	}
	if !reflect.DeepEqual(snap.MarketPrices, livePrices()) {
		t.Fatalf("expected live prices after recovery, got %+v", snap.MarketPrices)
	}
	if !c.IsFresh(MarketPricesKey) {
		t.Fatal("recovered live result must be cached")
	}
}

func TestSnapshotIdempotentWithinTTL(t *testing.T) {
	ctx := context.Background()
	svc, stub, _ := newTestService(time.Hour)
	region := tuscany()

	first := svc.BuildSnapshot(ctx, region)
	second := svc.BuildSnapshot(ctx, region)

	if stub.sustainabilityCalls.Load() != 1 ||
		stub.practicesCalls.Load() != 1 ||
		stub.marketCalls.Load() != 1 ||
		stub.weatherCalls.Load() != 1 {
		t.Fatalf("expected one live call per source, got %d/%d/%d/%d",
			stub.sustainabilityCalls.Load(), stub.practicesCalls.Load(),
			stub.marketCalls.Load(), stub.weatherCalls.Load())
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("cached snapshot should equal the first one")
	}
}

func TestLiveCallsRefreshedAfterTTL(t *testing.T) {
	ctx := context.Background()
	svc, stub, _ := newTestService(40 * time.Millisecond)
	region := tuscany()

	svc.BuildSnapshot(ctx, region)
	time.Sleep(60 * time.Millisecond)
	svc.BuildSnapshot(ctx, region)

	if stub.weatherCalls.Load() != 2 {
		t.Fatalf("expected a fresh live call after TTL, got %d", stub.weatherCalls.Load())
	}
}

func TestConcurrentSnapshotsShareLiveCalls(t *testing.T) {
	ctx := context.Background()
	svc, stub, _ := newTestService(time.Hour)
	stub.delay = 30 * time.Millisecond
	region := tuscany()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := svc.BuildSnapshot(ctx, region)
			snapshotFullyShaped(t, snap)
		}()
	}
	wg.Wait()

	if n := stub.sustainabilityCalls.Load(); n != 1 {
		t.Fatalf("expected singleflight to collapse sustainability calls, got %d", n)
	}
	if n := stub.marketCalls.Load(); n != 1 {
		t.Fatalf("expected singleflight to collapse market calls, got %d", n)
	}
	if n := stub.weatherCalls.Load(); n != 1 {
		t.Fatalf("expected singleflight to collapse weather calls, got %d", n)
	}
}

func TestCacheKeysDeterministic(t *testing.T) {
	if WeatherKey(43.7711, 11.2486) != WeatherKey(43.7711, 11.2486) {
		t.Fatal("identical coordinates must map to one key")
	}
	if WeatherKey(43.77111, 11.24861) != WeatherKey(43.77112, 11.24862) {
		t.Fatal("sub-rounding coordinate noise must not fragment the cache")
	}
	if SustainabilityKey("Tuscany") == PracticesKey("Tuscany") {
		t.Fatal("different sources must never share a key")
	}
}
