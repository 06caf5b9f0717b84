package agridata

import "fmt"

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RegionProfile describes an agricultural region a recommendation can be
// requested for. Profiles are supplied by the caller and read-only here.
type RegionProfile struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	SoilType    string      `json:"soilType"`
}

// SustainabilityMetrics holds the qualitative levels reported by the Farm
// Sustainability Data Network for a region.
type SustainabilityMetrics struct {
	SoilHealth      string `json:"soilHealth"`
	WaterEfficiency string `json:"waterEfficiency"`
	Biodiversity    string `json:"biodiversity"`
}

// PracticeData holds soil and practice information from the FaST platform.
type PracticeData struct {
	SoilNutrients        string   `json:"soilNutrients"`
	RecommendedPractices []string `json:"recommendedPractices"`
}

// CropPrice is one quoted market price.
type CropPrice struct {
	Price float64 `json:"price"`
	Unit  string  `json:"unit"`
}

// PriceTable maps crop names to their current market price.
type PriceTable map[string]CropPrice

// WeatherObservation is the minimal current-weather view the advisor needs.
// Temp and Humidity are nil when no live observation is available.
type WeatherObservation struct {
	TempC       *float64 `json:"temp"`
	HumidityPct *float64 `json:"humidity"`
	Error       string   `json:"error,omitempty"`
}

// Snapshot is the fully populated aggregation of all sources for one region
// at one point in time. Every field is always set, live or fallback.
type Snapshot struct {
	Sustainability SustainabilityMetrics `json:"sustainability"`
	Practices      PracticeData          `json:"practices"`
	MarketPrices   PriceTable            `json:"marketPrices"`
	Weather        WeatherObservation    `json:"weather"`
}

// Fallback values substituted when a live source call fails. Constructors
// rather than package vars so callers cannot mutate the shared defaults.

func FallbackSustainability() SustainabilityMetrics {
	return SustainabilityMetrics{
		SoilHealth:      "medium",
		WaterEfficiency: "high",
		Biodiversity:    "medium",
	}
}

func FallbackPractices() PracticeData {
	return PracticeData{
		SoilNutrients:        "moderate",
		RecommendedPractices: []string{"crop_rotation", "minimum_tillage"},
	}
}

func FallbackMarketPrices() PriceTable {
	return PriceTable{
		"Wheat":  {Price: 250, Unit: "€/tonne"},
		"Barley": {Price: 220, Unit: "€/tonne"},
	}
}

func FallbackWeather() WeatherObservation {
	return WeatherObservation{Error: "live weather data unavailable"}
}

// Cache keys are hierarchical source:params strings so two logically
// identical requests always map to the same entry.

func SustainabilityKey(regionID string) string { return "fsdn:" + regionID }

func PracticesKey(regionID string) string { return "fast:" + regionID }

// MarketPricesKey is shared by all requests; the price feed takes no params.
const MarketPricesKey = "prices:eu"

// WeatherKey rounds coordinates to four decimals so nearby float noise does
// not fragment the cache.
func WeatherKey(lat, lon float64) string {
	return fmt.Sprintf("weather:%.4f:%.4f", lat, lon)
}
