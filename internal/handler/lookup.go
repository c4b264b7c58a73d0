package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadready/roadready-api/internal/repository"
)

// LookupHandler serves the static reference data: brands, locations and
// extras. All three endpoints are public and cached.
type LookupHandler struct {
	Brands    *repository.BrandRepo
	Locations *repository.LocationRepo
	Extras    *repository.ExtraRepo
}

func NewLookupHandler(b *repository.BrandRepo, l *repository.LocationRepo, e *repository.ExtraRepo) *LookupHandler {
	if b == nil || l == nil || e == nil {
		panic("nil repository passed to NewLookupHandler")
	}
	return &LookupHandler{Brands: b, Locations: l, Extras: e}
}

// ListBrands handles GET /api/brands.
func (h *LookupHandler) ListBrands(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	brands, err := h.Brands.GetAll(ctx)
	if err != nil {
		log.Printf("lookup: list brands failed: %v", err)
		return serverError(c)
	}
	out := make([]echo.Map, 0, len(brands))
	for _, b := range brands {
		out = append(out, echo.Map{"id": b.ID, "name": b.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListLocations handles GET /api/locations.
func (h *LookupHandler) ListLocations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	locations, err := h.Locations.GetAll(ctx)
	if err != nil {
		log.Printf("lookup: list locations failed: %v", err)
		return serverError(c)
	}
	out := make([]echo.Map, 0, len(locations))
	for _, l := range locations {
		out = append(out, echo.Map{
			"id":        l.ID,
			"storeName": l.StoreName,
			"address":   l.Address,
			"city":      l.City,
			"state":     l.State,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListExtras handles GET /api/extras.
func (h *LookupHandler) ListExtras(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	extras, err := h.Extras.GetAll(ctx)
	if err != nil {
		log.Printf("lookup: list extras failed: %v", err)
		return serverError(c)
	}
	out := make([]echo.Map, 0, len(extras))
	for _, e := range extras {
		out = append(out, echo.Map{
			"id":        e.ID,
			"name":      e.Name,
			"price":     e.Price,
			"priceType": e.PriceType,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
