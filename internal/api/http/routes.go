package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/syaikhipin/llm-farm/internal/advisor"
	"github.com/syaikhipin/llm-farm/internal/agridata"
)

var validate = validator.New()

// AdvisorService is what the HTTP layer needs from the advisor.
type AdvisorService interface {
	Regions() []agridata.RegionProfile
	Snapshot(ctx context.Context, regionID string) (agridata.RegionProfile, agridata.Snapshot, error)
	Recommend(ctx context.Context, regionID string) (advisor.Recommendation, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc AdvisorService) {
	v1 := app.Group("/api/v1")

	v1.Get("/regions", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"regions": svc.Regions()})
	})

	v1.Get("/snapshot", func(c *fiber.Ctx) error {
		q, err := parseRegionQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		region, snap, err := svc.Snapshot(c.UserContext(), q.Region)
		if err != nil {
			if errors.Is(err, advisor.ErrUnknownRegion) {
				return fiber.NewError(fiber.StatusNotFound, "region not in catalog")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build snapshot")
		}

		return c.JSON(fiber.Map{
			"region":   region,
			"snapshot": snap,
		})
	})

	v1.Get("/recommendations", func(c *fiber.Ctx) error {
		q, err := parseRegionQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, err := svc.Recommend(c.UserContext(), q.Region)
		if err != nil {
			switch {
			case errors.Is(err, advisor.ErrUnknownRegion):
				return fiber.NewError(fiber.StatusNotFound, "region not in catalog")
			case errors.Is(err, advisor.ErrGeneration):
				return fiber.NewError(fiber.StatusBadGateway, "recommendation generation failed")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "failed to build recommendation")
			}
		}

		return c.JSON(rec)
	})
}

// regionQuery holds the query parameter identifying a catalog region.
type regionQuery struct {
	Region string `validate:"required"`
}

func parseRegionQuery(c *fiber.Ctx) (regionQuery, error) {
	q := regionQuery{Region: c.Query("region")}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}
