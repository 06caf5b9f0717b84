package catalog

import (
	"fmt"
	"sort"

	"github.com/kelvins/geocoder"

	"github.com/syaikhipin/llm-farm/internal/agridata"
)

// Catalog holds the region profiles recommendations can be requested for.
// Profiles are registered at startup and read-only afterwards.
type Catalog struct {
	regions map[string]agridata.RegionProfile
}

// Builtin returns the catalog preloaded with the stock European regions.
func Builtin() *Catalog {
	c := &Catalog{regions: make(map[string]agridata.RegionProfile)}

	c.regions["Tuscany"] = agridata.RegionProfile{
		ID:          "Tuscany",
		Name:        "Tuscany, Italy",
		Coordinates: agridata.Coordinates{Lat: 43.7711, Lon: 11.2486},
		SoilType:    "Clay-Limestone",
	}
	c.regions["Bavaria"] = agridata.RegionProfile{
		ID:          "Bavaria",
		Name:        "Bavaria, Germany",
		Coordinates: agridata.Coordinates{Lat: 48.7904, Lon: 11.4979},
		SoilType:    "Loess",
	}

	return c
}

// Add registers a profile. When the profile carries no coordinates and a
// Google geocoding key is provided, they are resolved from the region name.
func (c *Catalog) Add(p agridata.RegionProfile, geocoderKey string) error {
	if p.ID == "" {
		return fmt.Errorf("region profile needs an id")
	}

	if p.Coordinates == (agridata.Coordinates{}) {
		if geocoderKey == "" {
			return fmt.Errorf("region %s has no coordinates and no geocoder key is configured", p.ID)
		}

		geocoder.ApiKey = geocoderKey
		loc, err := geocoder.Geocoding(geocoder.Address{City: p.Name})
		if err != nil {
			return fmt.Errorf("geocode region %s: %w", p.ID, err)
		}
		p.Coordinates = agridata.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}
	}

	c.regions[p.ID] = p
	return nil
}

// Lookup returns the profile registered under id.
func (c *Catalog) Lookup(id string) (agridata.RegionProfile, bool) {
	p, ok := c.regions[id]
	return p, ok
}

// All returns every registered profile, ordered by id.
func (c *Catalog) All() []agridata.RegionProfile {
	out := make([]agridata.RegionProfile, 0, len(c.regions))
	for _, p := range c.regions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
