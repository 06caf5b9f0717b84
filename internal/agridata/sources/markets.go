package sources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/syaikhipin/llm-farm/internal/agridata"
)

// MarketSource fetches the EU agricultural market price table.
type MarketSource struct {
	name    string
	baseURL string
	httpCfg HTTPConfig
	circuit *gobreaker.CircuitBreaker
}

func NewMarketSource(client *http.Client) *MarketSource {
	return &MarketSource{
		name:    "agri-prices",
		baseURL: "https://agridata.ec.europa.eu/api/v1/prices",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("agri-prices"),
	}
}

func (s *MarketSource) Name() string {
	return s.name
}

func (s *MarketSource) FetchPrices(ctx context.Context) (agridata.PriceTable, error) {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, s.baseURL, nil)
	}

	var payload map[string]struct {
		Price float64 `json:"price"`
		Unit  string  `json:"unit"`
	}

	if err := getJSON(ctx, s.httpCfg, s.circuit, buildRequest, &payload); err != nil {
		return nil, err
	}

	if len(payload) == 0 {
		return nil, fmt.Errorf("price feed returned an empty table")
	}

	table := make(agridata.PriceTable, len(payload))
	for crop, p := range payload {
		table[crop] = agridata.CropPrice{Price: p.Price, Unit: p.Unit}
	}
	return table, nil
}
