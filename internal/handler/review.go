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

// ReviewHandler creates reviews and serves a vehicle's review listing. The
// review insert and the vehicle's denormalized average-rating recompute run
// in the same transaction.
type ReviewHandler struct {
	Reviews  *repository.ReviewRepo
	Bookings *repository.BookingRepo
	Vehicles *repository.VehicleRepo
}

func NewReviewHandler(r *repository.ReviewRepo, b *repository.BookingRepo, v *repository.VehicleRepo) *ReviewHandler {
	if r == nil || b == nil || v == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: r, Bookings: b, Vehicles: v}
}

type createReviewReq struct {
	BookingID uint64  `json:"bookingId"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
}

// Create handles POST /api/reviews. Only the customer who completed the
// booking may review, and only once the booking is Completed.
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.BookingID == 0 {
		return jsonError(c, http.StatusBadRequest, "bookingId is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return jsonError(c, http.StatusBadRequest, "rating must be between 1 and 5")
	}
	if req.Comment != nil {
		trimmed := strings.TrimSpace(*req.Comment)
		if trimmed == "" {
			req.Comment = nil
		} else {
			req.Comment = &trimmed
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, status, err := h.Bookings.GetWithStatus(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return jsonError(c, http.StatusBadRequest, "booking is not eligible for review")
		}
		log.Printf("review: load booking failed: %v", err)
		return serverError(c)
	}
	if booking.UserID != userID {
		return jsonError(c, http.StatusBadRequest, "booking is not eligible for review")
	}
	if status != model.StatusCompleted {
		return jsonError(c, http.StatusBadRequest, "only completed bookings can be reviewed")
	}

	tx, err := h.Reviews.DB().BeginTx(ctx, nil)
	if err != nil {
		log.Printf("review: begin tx failed: %v", err)
		return serverError(c)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	review := model.Review{
		UserID:     userID,
		VehicleID:  booking.VehicleID,
		BookingID:  booking.ID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		ReviewDate: time.Now().UTC(),
	}
	if err := h.Reviews.CreateTx(ctx, tx, &review); err != nil {
		log.Printf("review: create failed: %v", err)
		return serverError(c)
	}
	if err := h.Vehicles.RecomputeAverageRatingTx(ctx, tx, booking.VehicleID); err != nil {
		log.Printf("review: recompute rating failed: %v", err)
		return serverError(c)
	}
	if err := tx.Commit(); err != nil {
		log.Printf("review: commit failed: %v", err)
		return serverError(c)
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"reviewId":  review.ID,
		"vehicleId": review.VehicleID,
		"rating":    review.Rating,
	})
}

// ListByVehicle handles GET /api/vehicles/:id/reviews (public).
func (h *ReviewHandler) ListByVehicle(c echo.Context) error {
	vehicleID, err := parseID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid vehicle id")
	}
	page, pageSize := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return jsonError(c, http.StatusNotFound, "vehicle not found")
		}
		log.Printf("review: load vehicle failed: %v", err)
		return serverError(c)
	}
	items, total, err := h.Reviews.ListByVehicle(ctx, vehicleID, page, pageSize)
	if err != nil {
		log.Printf("review: list failed: %v", err)
		return serverError(c)
	}
	return paged(c, items, total, page, pageSize)
}
