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
	"github.com/roadready/roadready-api/internal/queue"
	"github.com/roadready/roadready-api/internal/repository"
	queue_publisher "github.com/roadready/roadready-api/internal/service"
)

// defaultPaymentMethod labels the simulated payment; there is no gateway.
const defaultPaymentMethod = "Simulated Card Payment"

// BookingHandler owns the booking lifecycle: initiation, payment
// confirmation, listing and cancellation. Every multi-step mutation runs in
// a single transaction; initiation additionally locks the vehicle row so two
// concurrent requests for the same vehicle serialize before the overlap
// check.
type BookingHandler struct {
	Users    *repository.UserRepo
	Vehicles *repository.VehicleRepo
	Extras   *repository.ExtraRepo
	Bookings *repository.BookingRepo
	Statuses *repository.BookingStatusRepo
	Payments *repository.PaymentRepo
}

func NewBookingHandler(u *repository.UserRepo, v *repository.VehicleRepo, e *repository.ExtraRepo, b *repository.BookingRepo, s *repository.BookingStatusRepo, p *repository.PaymentRepo) *BookingHandler {
	if u == nil || v == nil || e == nil || b == nil || s == nil || p == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Users: u, Vehicles: v, Extras: e, Bookings: b, Statuses: s, Payments: p}
}

type initiateBookingReq struct {
	VehicleID uint64   `json:"vehicleId"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	ExtraIDs  []uint64 `json:"extraIds"`
}

// Initiate handles POST /api/bookings/initiate. The booking is created in
// Pending status with its cost fixed at initiation time; payment happens in
// a separate confirm step.
func (h *BookingHandler) Initiate(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req initiateBookingReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.VehicleID == 0 {
		return jsonError(c, http.StatusBadRequest, "vehicleId is required")
	}
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "startDate must be RFC3339")
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "endDate must be RFC3339")
	}
	start = start.UTC()
	end = end.UTC()
	now := time.Now().UTC()
	if !start.Before(end) {
		return jsonError(c, http.StatusBadRequest, "startDate must be before endDate")
	}
	if start.Before(now) {
		return jsonError(c, http.StatusBadRequest, "startDate cannot be in the past")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return jsonError(c, http.StatusBadRequest, "user account not found")
		}
		log.Printf("booking: load user failed: %v", err)
		return serverError(c)
	}
	if u.Address == nil || strings.TrimSpace(*u.Address) == "" {
		return jsonError(c, http.StatusBadRequest, "profile incomplete: an address is required before booking")
	}

	// Deduplicate requested extras and verify every id exists.
	unique := make([]uint64, 0, len(req.ExtraIDs))
	seen := make(map[uint64]struct{})
	for _, id := range req.ExtraIDs {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}
	extras, err := h.Extras.GetByIDs(ctx, unique)
	if err != nil {
		log.Printf("booking: load extras failed: %v", err)
		return serverError(c)
	}
	if len(extras) != len(unique) {
		return jsonError(c, http.StatusBadRequest, "one or more extras do not exist")
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		log.Printf("booking: begin tx failed: %v", err)
		return serverError(c)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	vehicle, err := h.Vehicles.LockByIDTx(ctx, tx, req.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return jsonError(c, http.StatusNotFound, "vehicle not found")
		}
		log.Printf("booking: lock vehicle failed: %v", err)
		return serverError(c)
	}
	if !vehicle.IsAvailable {
		return jsonError(c, http.StatusBadRequest, "vehicle is not available for booking")
	}

	overlap, err := h.Bookings.OverlapExistsTx(ctx, tx, vehicle.ID, start, end)
	if err != nil {
		log.Printf("booking: overlap check failed: %v", err)
		return serverError(c)
	}
	if overlap {
		return jsonError(c, http.StatusBadRequest, "vehicle is already booked for the selected dates")
	}

	statusID, err := h.Statuses.IDByNameTx(ctx, tx, model.StatusPending)
	if err != nil {
		log.Printf("booking: resolve status failed: %v", err)
		return serverError(c)
	}

	days := rentalDays(start, end)
	total := bookingCost(vehicle.PricePerDay, days, extras)

	booking := model.Booking{
		UserID:      userID,
		VehicleID:   vehicle.ID,
		StatusID:    statusID,
		BookingDate: now,
		StartDate:   start,
		EndDate:     end,
		TotalCost:   total,
	}
	if err := h.Bookings.CreateTx(ctx, tx, &booking); err != nil {
		log.Printf("booking: create failed: %v", err)
		return serverError(c)
	}
	if err := h.Bookings.AddExtrasBulkTx(ctx, tx, booking.ID, unique); err != nil {
		log.Printf("booking: attach extras failed: %v", err)
		return serverError(c)
	}
	if err := tx.Commit(); err != nil {
		log.Printf("booking: commit failed: %v", err)
		return serverError(c)
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"bookingId": booking.ID,
		"totalCost": total,
		"status":    model.StatusPending,
	})
}

type confirmPaymentReq struct {
	PaymentMethod string `json:"paymentMethod"`
}

// ConfirmPayment handles POST /api/bookings/:id/confirm-payment. A booking
// not owned by the caller responds 404 rather than 403 so booking ids cannot
// be enumerated. On success the payment insert and the Pending→Confirmed
// transition commit together and a booking.confirmed event is published.
func (h *BookingHandler) ConfirmPayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	bookingID, err := parseID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid booking id")
	}
	var req confirmPaymentReq
	_ = c.Bind(&req)
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = defaultPaymentMethod
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, status, err := h.Bookings.GetWithStatus(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return jsonError(c, http.StatusNotFound, "booking not found")
		}
		log.Printf("booking: load failed: %v", err)
		return serverError(c)
	}
	if booking.UserID != userID {
		return jsonError(c, http.StatusNotFound, "booking not found")
	}
	if status != model.StatusPending {
		return jsonError(c, http.StatusBadRequest, "only pending bookings can be paid")
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		log.Printf("booking: begin tx failed: %v", err)
		return serverError(c)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	payment := model.Payment{
		BookingID:         booking.ID,
		Amount:            booking.TotalCost,
		PaymentDate:       now,
		PaymentMethod:     method,
		TransactionStatus: "Succeeded",
	}
	if err := h.Payments.CreateTx(ctx, tx, &payment); err != nil {
		log.Printf("booking: create payment failed: %v", err)
		return serverError(c)
	}
	confirmedID, err := h.Statuses.IDByNameTx(ctx, tx, model.StatusConfirmed)
	if err != nil {
		log.Printf("booking: resolve status failed: %v", err)
		return serverError(c)
	}
	if err := h.Bookings.UpdateStatusTx(ctx, tx, booking.ID, confirmedID); err != nil {
		log.Printf("booking: update status failed: %v", err)
		return serverError(c)
	}
	if err := tx.Commit(); err != nil {
		log.Printf("booking: commit failed: %v", err)
		return serverError(c)
	}
	committed = true

	vehicleName := ""
	if v, err := h.Vehicles.GetByID(ctx, booking.VehicleID); err == nil {
		vehicleName = v.Name
	}
	event := queue.BookingConfirmedEvent{
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		VehicleID:     booking.VehicleID,
		VehicleName:   vehicleName,
		StartDate:     booking.StartDate.UTC().Format(time.RFC3339),
		EndDate:       booking.EndDate.UTC().Format(time.RFC3339),
		TotalCost:     booking.TotalCost,
		PaymentMethod: method,
		ConfirmedAt:   now.Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = queue_publisher.PublishBookingConfirmed(pubCtx, event)
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"bookingId": booking.ID,
		"status":    model.StatusConfirmed,
		"payment": echo.Map{
			"id":                payment.ID,
			"amount":            payment.Amount,
			"paymentMethod":     payment.PaymentMethod,
			"transactionStatus": payment.TransactionStatus,
			"paymentDate":       now.Format(time.RFC3339),
		},
	})
}

// Get handles GET /api/bookings/:id. A booking not owned by the caller
// responds 404, same as ConfirmPayment.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	bookingID, err := parseID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid booking id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	detail, err := h.Bookings.GetDetailsByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return jsonError(c, http.StatusNotFound, "booking not found")
		}
		log.Printf("booking: load detail failed: %v", err)
		return serverError(c)
	}
	if detail.UserID != userID {
		return jsonError(c, http.StatusNotFound, "booking not found")
	}
	return c.JSON(http.StatusOK, detail)
}

// MyBookings handles GET /api/bookings/my-bookings.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	page, pageSize := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Bookings.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		log.Printf("booking: list failed: %v", err)
		return serverError(c)
	}
	return paged(c, items, total, page, pageSize)
}

// Cancel handles PUT /api/bookings/:id/cancel. Cancelling more than 48 hours
// before the rental start leaves the booking awaiting an admin refund;
// closer to the start the payment is forfeited.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	bookingID, err := parseID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid booking id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, status, err := h.Bookings.GetWithStatus(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return jsonError(c, http.StatusNotFound, "booking not found")
		}
		log.Printf("booking: load failed: %v", err)
		return serverError(c)
	}
	if booking.UserID != userID {
		return jsonError(c, http.StatusNotFound, "booking not found")
	}
	if status != model.StatusConfirmed {
		return jsonError(c, http.StatusBadRequest, "only confirmed bookings can be cancelled")
	}

	newStatus := cancellationStatus(booking.StartDate, time.Now().UTC())
	statusID, err := h.Statuses.IDByName(ctx, newStatus)
	if err != nil {
		log.Printf("booking: resolve status failed: %v", err)
		return serverError(c)
	}
	if err := h.Bookings.UpdateStatus(ctx, booking.ID, statusID); err != nil {
		log.Printf("booking: update status failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookingId": booking.ID,
		"status":    newStatus,
	})
}
