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

// IssueHandler lets customers report problems on bookings that are currently
// in progress.
type IssueHandler struct {
	Issues   *repository.IssueRepo
	Bookings *repository.BookingRepo
}

func NewIssueHandler(i *repository.IssueRepo, b *repository.BookingRepo) *IssueHandler {
	if i == nil || b == nil {
		panic("nil repository passed to NewIssueHandler")
	}
	return &IssueHandler{Issues: i, Bookings: b}
}

type createIssueReq struct {
	BookingID   uint64 `json:"bookingId"`
	Description string `json:"description"`
}

// Create handles POST /api/issues. Issues can only be reported while the
// rental is underway: start ≤ now ≤ end, both bounds inclusive.
func (h *IssueHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req createIssueReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.BookingID == 0 || req.Description == "" {
		return jsonError(c, http.StatusBadRequest, "bookingId and description are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, _, err := h.Bookings.GetWithStatus(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return jsonError(c, http.StatusNotFound, "booking not found")
		}
		log.Printf("issue: load booking failed: %v", err)
		return serverError(c)
	}
	if booking.UserID != userID {
		return jsonError(c, http.StatusNotFound, "booking not found")
	}
	now := time.Now().UTC()
	if now.Before(booking.StartDate) || now.After(booking.EndDate) {
		return jsonError(c, http.StatusBadRequest, "issues can only be reported during the rental period")
	}

	issue := model.Issue{
		BookingID:   booking.ID,
		Description: req.Description,
		Status:      model.IssueStatusOpen,
		ReportedAt:  now,
	}
	id, err := h.Issues.Create(ctx, &issue)
	if err != nil {
		log.Printf("issue: create failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"issueId":   id,
		"bookingId": booking.ID,
		"status":    model.IssueStatusOpen,
	})
}

// MyIssues handles GET /api/issues/my-issues.
func (h *IssueHandler) MyIssues(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	page, pageSize := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Issues.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		log.Printf("issue: list failed: %v", err)
		return serverError(c)
	}
	return paged(c, items, total, page, pageSize)
}
