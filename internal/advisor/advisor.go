package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/syaikhipin/llm-farm/internal/agridata"
	"github.com/syaikhipin/llm-farm/internal/catalog"
)

var (
	// ErrUnknownRegion is returned when the requested region is not in the catalog.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrGeneration is returned when the text-generation call fails. It is the
	// only failure mode of Recommend for a known region; data source failures
	// degrade to fallbacks upstream and never surface here.
	ErrGeneration = errors.New("recommendation generation failed")
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"

	recommendationTemperature = 0.7
)

// completionClient is the slice of the OpenAI-compatible API the advisor uses.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Recommendation is the result returned to the presentation layer.
type Recommendation struct {
	Region      agridata.RegionProfile `json:"region"`
	Snapshot    agridata.Snapshot      `json:"snapshot"`
	Text        string                 `json:"recommendation"`
	GeneratedAt time.Time              `json:"generatedAt"`
}

// Advisor turns an aggregated data snapshot into crop recommendations via a
// Groq-hosted chat completion.
type Advisor struct {
	data    *agridata.Service
	catalog *catalog.Catalog
	llm     completionClient
	model   string
}

// NewGroqClient builds an OpenAI-compatible client pointed at Groq.
func NewGroqClient(apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	return openai.NewClientWithConfig(cfg)
}

// New creates an Advisor.
func New(data *agridata.Service, cat *catalog.Catalog, llm completionClient, model string) *Advisor {
	return &Advisor{data: data, catalog: cat, llm: llm, model: model}
}

// Regions lists the catalog.
func (a *Advisor) Regions() []agridata.RegionProfile {
	return a.catalog.All()
}

// Snapshot builds the aggregated data snapshot for a catalog region.
func (a *Advisor) Snapshot(ctx context.Context, regionID string) (agridata.RegionProfile, agridata.Snapshot, error) {
	region, ok := a.catalog.Lookup(regionID)
	if !ok {
		return agridata.RegionProfile{}, agridata.Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownRegion, regionID)
	}
	return region, a.data.BuildSnapshot(ctx, region), nil
}

// Recommend aggregates all sources for the region and asks the model for
// three crop recommendations. The snapshot is always complete by contract,
// so generation proceeds regardless of how many sources fell back.
func (a *Advisor) Recommend(ctx context.Context, regionID string) (Recommendation, error) {
	region, snap, err := a.Snapshot(ctx, regionID)
	if err != nil {
		return Recommendation{}, err
	}

	resp, err := a.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(region, snap)},
		},
		Temperature: recommendationTemperature,
	})
	if err != nil {
		return Recommendation{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return Recommendation{}, fmt.Errorf("%w: completion returned no choices", ErrGeneration)
	}

	return Recommendation{
		Region:      region,
		Snapshot:    snap,
		Text:        resp.Choices[0].Message.Content,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
