package sources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/syaikhipin/llm-farm/internal/agridata"
)

// FSDNSource fetches sustainability metrics from the Farm Sustainability
// Data Network.
type FSDNSource struct {
	name    string
	baseURL string
	httpCfg HTTPConfig
	circuit *gobreaker.CircuitBreaker
}

func NewFSDNSource(client *http.Client) *FSDNSource {
	return &FSDNSource{
		name:    "fsdn",
		baseURL: "https://agriculture.ec.europa.eu/api/fsdn",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("fsdn"),
	}
}

func (s *FSDNSource) Name() string {
	return s.name
}

func (s *FSDNSource) FetchSustainability(ctx context.Context, regionID string) (agridata.SustainabilityMetrics, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/region/%s", s.baseURL, regionID)
		return http.NewRequest(http.MethodGet, u, nil)
	}

	var payload struct {
		SustainabilityMetrics struct {
			SoilHealth      string `json:"soil_health"`
			WaterEfficiency string `json:"water_efficiency"`
			Biodiversity    string `json:"biodiversity"`
		} `json:"sustainability_metrics"`
	}

	if err := getJSON(ctx, s.httpCfg, s.circuit, buildRequest, &payload); err != nil {
		return agridata.SustainabilityMetrics{}, err
	}

	m := payload.SustainabilityMetrics
	if m.SoilHealth == "" && m.WaterEfficiency == "" && m.Biodiversity == "" {
		return agridata.SustainabilityMetrics{}, fmt.Errorf("fsdn returned no metrics for region %s", regionID)
	}

	return agridata.SustainabilityMetrics{
		SoilHealth:      m.SoilHealth,
		WaterEfficiency: m.WaterEfficiency,
		Biodiversity:    m.Biodiversity,
	}, nil
}
