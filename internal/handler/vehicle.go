package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadready/roadready-api/internal/model"
	"github.com/roadready/roadready-api/internal/repository"
)

// VehicleHandler serves the public catalog and the admin catalog mutations.
type VehicleHandler struct {
	Vehicles  *repository.VehicleRepo
	Brands    *repository.BrandRepo
	Locations *repository.LocationRepo
	Bookings  *repository.BookingRepo
}

func NewVehicleHandler(v *repository.VehicleRepo, b *repository.BrandRepo, l *repository.LocationRepo, bk *repository.BookingRepo) *VehicleHandler {
	if v == nil || b == nil || l == nil || bk == nil {
		panic("nil repository passed to NewVehicleHandler")
	}
	return &VehicleHandler{Vehicles: v, Brands: b, Locations: l, Bookings: bk}
}

// List handles GET /api/vehicles. It is the unfiltered paginated catalog.
func (h *VehicleHandler) List(c echo.Context) error {
	page, pageSize := parsePagination(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Vehicles.Search(ctx, repository.SearchCriteria{Page: page, PageSize: pageSize})
	if err != nil {
		log.Printf("vehicle: list failed: %v", err)
		return serverError(c)
	}
	return paged(c, items, total, page, pageSize)
}

type searchVehiclesReq struct {
	LocationID      *uint64  `json:"locationId"`
	BrandID         *uint64  `json:"brandId"`
	BrandName       string   `json:"brandName"`
	Name            string   `json:"name"`
	Model           string   `json:"model"`
	MinPrice        *float64 `json:"minPrice"`
	MaxPrice        *float64 `json:"maxPrice"`
	FuelType        string   `json:"fuelType"`
	Transmission    string   `json:"transmission"`
	SeatingCapacity *int     `json:"seatingCapacity"`
	IsAvailable     *bool    `json:"isAvailable"`
	Page            int      `json:"page"`
	PageSize        int      `json:"pageSize"`
}

// Search handles POST /api/vehicles/search. Every filter is optional; when
// the availability filter is omitted only bookable vehicles are returned.
func (h *VehicleHandler) Search(c echo.Context) error {
	var req searchVehiclesReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return jsonError(c, http.StatusBadRequest, "minPrice cannot exceed maxPrice")
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}
	if req.IsAvailable == nil {
		avail := true
		req.IsAvailable = &avail
	}

	criteria := repository.SearchCriteria{
		LocationID:      req.LocationID,
		BrandID:         req.BrandID,
		BrandName:       strings.TrimSpace(req.BrandName),
		Name:            strings.TrimSpace(req.Name),
		Model:           strings.TrimSpace(req.Model),
		MinPrice:        req.MinPrice,
		MaxPrice:        req.MaxPrice,
		FuelType:        strings.TrimSpace(req.FuelType),
		Transmission:    strings.TrimSpace(req.Transmission),
		SeatingCapacity: req.SeatingCapacity,
		IsAvailable:     req.IsAvailable,
		Page:            req.Page,
		PageSize:        req.PageSize,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Vehicles.Search(ctx, criteria)
	if err != nil {
		log.Printf("vehicle: search failed: %v", err)
		return serverError(c)
	}
	return paged(c, items, total, req.Page, req.PageSize)
}

// Get handles GET /api/vehicles/:id.
func (h *VehicleHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid vehicle id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Vehicles.GetDetailsByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return jsonError(c, http.StatusNotFound, "vehicle not found")
		}
		log.Printf("vehicle: load failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusOK, d)
}

type vehicleReq struct {
	Name            string  `json:"name"`
	Model           string  `json:"model"`
	Year            int     `json:"year"`
	PricePerDay     float64 `json:"pricePerDay"`
	IsAvailable     *bool   `json:"isAvailable"`
	ImageURL        *string `json:"imageUrl"`
	BrandID         uint64  `json:"brandId"`
	LocationID      uint64  `json:"locationId"`
	FuelType        string  `json:"fuelType"`
	Transmission    string  `json:"transmission"`
	SeatingCapacity int     `json:"seatingCapacity"`
}

// checkVehicleReq validates the catalog payload and verifies the referenced
// brand and location exist. It returns a requestError for client mistakes.
func (h *VehicleHandler) checkVehicleReq(ctx context.Context, req *vehicleReq) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Model = strings.TrimSpace(req.Model)
	if req.Name == "" || req.Model == "" {
		return badRequest("name and model are required")
	}
	if req.PricePerDay <= 0 {
		return badRequest("pricePerDay must be positive")
	}
	if req.SeatingCapacity <= 0 {
		return badRequest("seatingCapacity must be positive")
	}
	if _, err := h.Brands.GetByID(ctx, req.BrandID); err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			return badRequest("brand does not exist")
		}
		return err
	}
	if _, err := h.Locations.GetByID(ctx, req.LocationID); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return badRequest("location does not exist")
		}
		return err
	}
	return nil
}

// Create handles POST /api/vehicles (Admin).
func (h *VehicleHandler) Create(c echo.Context) error {
	var req vehicleReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.checkVehicleReq(ctx, &req); err != nil {
		var re *requestError
		if errors.As(err, &re) {
			return jsonError(c, re.code, re.msg)
		}
		log.Printf("vehicle: validate failed: %v", err)
		return serverError(c)
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	v := model.Vehicle{
		Name:            req.Name,
		Model:           req.Model,
		Year:            req.Year,
		PricePerDay:     round2(req.PricePerDay),
		IsAvailable:     available,
		ImageURL:        req.ImageURL,
		BrandID:         req.BrandID,
		LocationID:      req.LocationID,
		FuelType:        strings.TrimSpace(req.FuelType),
		Transmission:    strings.TrimSpace(req.Transmission),
		SeatingCapacity: req.SeatingCapacity,
	}
	id, err := h.Vehicles.Create(ctx, &v)
	if err != nil {
		log.Printf("vehicle: create failed: %v", err)
		return serverError(c)
	}
	d, err := h.Vehicles.GetDetailsByID(ctx, id)
	if err != nil {
		log.Printf("vehicle: reload failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusCreated, d)
}

// Update handles PUT /api/vehicles/:id (Admin).
func (h *VehicleHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid vehicle id")
	}
	var req vehicleReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return jsonError(c, http.StatusNotFound, "vehicle not found")
		}
		log.Printf("vehicle: load failed: %v", err)
		return serverError(c)
	}
	if err := h.checkVehicleReq(ctx, &req); err != nil {
		var re *requestError
		if errors.As(err, &re) {
			return jsonError(c, re.code, re.msg)
		}
		log.Printf("vehicle: validate failed: %v", err)
		return serverError(c)
	}

	available := existing.IsAvailable
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	v := model.Vehicle{
		ID:              id,
		Name:            req.Name,
		Model:           req.Model,
		Year:            req.Year,
		PricePerDay:     round2(req.PricePerDay),
		IsAvailable:     available,
		ImageURL:        req.ImageURL,
		BrandID:         req.BrandID,
		LocationID:      req.LocationID,
		FuelType:        strings.TrimSpace(req.FuelType),
		Transmission:    strings.TrimSpace(req.Transmission),
		SeatingCapacity: req.SeatingCapacity,
	}
	if err := h.Vehicles.Update(ctx, &v); err != nil {
		log.Printf("vehicle: update failed: %v", err)
		return serverError(c)
	}
	d, err := h.Vehicles.GetDetailsByID(ctx, id)
	if err != nil {
		log.Printf("vehicle: reload failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusOK, d)
}

// Delete handles DELETE /api/vehicles/:id (Admin). Vehicles with booking
// history cannot be removed from the catalog; the maintenance flag exists
// for taking them out of circulation instead.
func (h *VehicleHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid vehicle id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Vehicles.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return jsonError(c, http.StatusNotFound, "vehicle not found")
		}
		log.Printf("vehicle: load failed: %v", err)
		return serverError(c)
	}
	active, err := h.Bookings.HasActiveForVehicle(ctx, id)
	if err != nil {
		log.Printf("vehicle: check bookings failed: %v", err)
		return serverError(c)
	}
	if active {
		return jsonError(c, http.StatusConflict, "vehicle has active bookings")
	}
	if err := h.Vehicles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return jsonError(c, http.StatusConflict, "vehicle is referenced by bookings")
		}
		log.Printf("vehicle: delete failed: %v", err)
		return serverError(c)
	}
	return c.NoContent(http.StatusNoContent)
}
