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

// OperationsHandler covers the day-to-day status overrides available to
// staff (Admin and Rental Agent): vehicle availability, booking status and
// issue status.
type OperationsHandler struct {
	Vehicles *repository.VehicleRepo
	Bookings *repository.BookingRepo
	Statuses *repository.BookingStatusRepo
	Issues   *repository.IssueRepo
}

func NewOperationsHandler(v *repository.VehicleRepo, b *repository.BookingRepo, s *repository.BookingStatusRepo, i *repository.IssueRepo) *OperationsHandler {
	if v == nil || b == nil || s == nil || i == nil {
		panic("nil repository passed to NewOperationsHandler")
	}
	return &OperationsHandler{Vehicles: v, Bookings: b, Statuses: s, Issues: i}
}

type vehicleStatusReq struct {
	IsAvailable *bool `json:"isAvailable"`
}

// UpdateVehicleStatus handles PUT /api/operations/vehicles/:id/status. It
// flips the maintenance flag that removes a vehicle from circulation.
func (h *OperationsHandler) UpdateVehicleStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid vehicle id")
	}
	var req vehicleStatusReq
	if err := c.Bind(&req); err != nil || req.IsAvailable == nil {
		return jsonError(c, http.StatusBadRequest, "isAvailable is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Vehicles.SetAvailability(ctx, id, *req.IsAvailable); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return jsonError(c, http.StatusNotFound, "vehicle not found")
		}
		log.Printf("operations: set availability failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"vehicleId":   id,
		"isAvailable": *req.IsAvailable,
	})
}

type bookingStatusReq struct {
	Status string `json:"status"`
}

// UpdateBookingStatus handles PUT /api/operations/bookings/:id/status. The
// status name must be one of the closed typed set; unknown names are 404
// against the lookup, surfaced as 400 to the caller.
func (h *OperationsHandler) UpdateBookingStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid booking id")
	}
	var req bookingStatusReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		return jsonError(c, http.StatusBadRequest, "status is required")
	}
	status, ok := model.ParseBookingStatus(strings.TrimSpace(req.Status))
	if !ok {
		return jsonError(c, http.StatusBadRequest, "unknown booking status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, _, err := h.Bookings.GetWithStatus(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return jsonError(c, http.StatusNotFound, "booking not found")
		}
		log.Printf("operations: load booking failed: %v", err)
		return serverError(c)
	}
	statusID, err := h.Statuses.IDByName(ctx, status)
	if err != nil {
		log.Printf("operations: resolve status failed: %v", err)
		return serverError(c)
	}
	if err := h.Bookings.UpdateStatus(ctx, id, statusID); err != nil {
		log.Printf("operations: update booking failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookingId": id,
		"status":    status,
	})
}

type issueStatusReq struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes"`
}

// UpdateIssueStatus handles PUT /api/operations/issues/:id/status. Issue
// status is free text by design; staff use whatever workflow labels suit
// them.
func (h *OperationsHandler) UpdateIssueStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid issue id")
	}
	var req issueStatusReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		return jsonError(c, http.StatusBadRequest, "status is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Issues.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrIssueNotFound) {
			return jsonError(c, http.StatusNotFound, "issue not found")
		}
		log.Printf("operations: load issue failed: %v", err)
		return serverError(c)
	}
	if err := h.Issues.UpdateStatus(ctx, id, strings.TrimSpace(req.Status), req.AdminNotes); err != nil {
		log.Printf("operations: update issue failed: %v", err)
		return serverError(c)
	}
	d, err := h.Issues.GetDetailsByID(ctx, id)
	if err != nil {
		log.Printf("operations: reload issue failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusOK, d)
}
