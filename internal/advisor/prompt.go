package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/syaikhipin/llm-farm/internal/agridata"
)

// buildPrompt formats one region snapshot into the generation request text.
// Nil weather readings and empty qualitative levels render as "Unknown";
// fallback values render as themselves, since they are real shaped data.
func buildPrompt(region agridata.RegionProfile, snap agridata.Snapshot) string {
	market, err := json.MarshalIndent(snap.MarketPrices, "", "  ")
	if err != nil {
		market = []byte("{}")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on comprehensive European agricultural data:\n\n")
	fmt.Fprintf(&b, "Region: %s\n\n", region.Name)

	fmt.Fprintf(&b, "Environmental Conditions:\n")
	fmt.Fprintf(&b, "- Temperature: %s°C\n", formatReading(snap.Weather.TempC))
	fmt.Fprintf(&b, "- Humidity: %s%%\n", formatReading(snap.Weather.HumidityPct))
	fmt.Fprintf(&b, "- Soil Type: %s\n\n", orUnknown(region.SoilType))

	fmt.Fprintf(&b, "Sustainability Metrics:\n")
	fmt.Fprintf(&b, "- Soil Health: %s\n", orUnknown(snap.Sustainability.SoilHealth))
	fmt.Fprintf(&b, "- Water Efficiency: %s\n", orUnknown(snap.Sustainability.WaterEfficiency))
	fmt.Fprintf(&b, "- Biodiversity: %s\n\n", orUnknown(snap.Sustainability.Biodiversity))

	fmt.Fprintf(&b, "Farming Practices:\n")
	fmt.Fprintf(&b, "- Soil Nutrients: %s\n", orUnknown(snap.Practices.SoilNutrients))
	fmt.Fprintf(&b, "- Recommended Practices: %s\n\n", strings.Join(snap.Practices.RecommendedPractices, ", "))

	fmt.Fprintf(&b, "Market Conditions:\n%s\n\n", market)

	fmt.Fprintf(&b, "Provide 3 crop recommendations optimized for sustainability and profitability:\n")

	return b.String()
}

func formatReading(v *float64) string {
	if v == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%g", *v)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
