package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/syaikhipin/llm-farm/internal/agridata"
)

// FaSTSource fetches soil and practice data from the FaST platform.
type FaSTSource struct {
	name    string
	baseURL string
	httpCfg HTTPConfig
	circuit *gobreaker.CircuitBreaker
}

func NewFaSTSource(client *http.Client) *FaSTSource {
	return &FaSTSource{
		name:    "fast",
		baseURL: "https://fastplatform.eu/api/v1",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("fast"),
	}
}

func (s *FaSTSource) Name() string {
	return s.name
}

func (s *FaSTSource) FetchPractices(ctx context.Context, regionID string) (agridata.PracticeData, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("region", regionID)

		u := fmt.Sprintf("%s/agricultural-data?%s", s.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	var payload struct {
		SoilNutrients        string   `json:"soil_nutrients"`
		RecommendedPractices []string `json:"recommended_practices"`
	}

	if err := getJSON(ctx, s.httpCfg, s.circuit, buildRequest, &payload); err != nil {
		return agridata.PracticeData{}, err
	}

	if payload.SoilNutrients == "" && len(payload.RecommendedPractices) == 0 {
		return agridata.PracticeData{}, fmt.Errorf("fast platform returned no data for region %s", regionID)
	}

	return agridata.PracticeData{
		SoilNutrients:        payload.SoilNutrients,
		RecommendedPractices: payload.RecommendedPractices,
	}, nil
}
