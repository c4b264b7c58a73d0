package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadready/roadready-api/internal/config"
	"github.com/roadready/roadready-api/internal/model"
	"github.com/roadready/roadready-api/internal/repository"
	"github.com/roadready/roadready-api/internal/utils"
)

// topVehicleCount is the size of the dashboard's popularity ranking.
const topVehicleCount = 5

// AdminHandler serves the dashboard, user administration, platform-wide
// listings and refund processing.
type AdminHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Roles    *repository.RoleRepo
	Tokens   *repository.TokenRepo
	Bookings *repository.BookingRepo
	Statuses *repository.BookingStatusRepo
	Refunds  *repository.RefundRepo
	Issues   *repository.IssueRepo
}

func NewAdminHandler(cfg config.Config, u *repository.UserRepo, r *repository.RoleRepo, t *repository.TokenRepo, b *repository.BookingRepo, s *repository.BookingStatusRepo, rf *repository.RefundRepo, i *repository.IssueRepo) *AdminHandler {
	if u == nil || r == nil || t == nil || b == nil || s == nil || rf == nil || i == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Cfg: cfg, Users: u, Roles: r, Tokens: t, Bookings: b, Statuses: s, Refunds: rf, Issues: i}
}

// DashboardStats handles GET /api/admin/dashboard-stats. Revenue is the sum
// of bookings in revenue-counted statuses minus refunds still tied to such
// bookings; a fully refunded booking has already left the revenue statuses
// and contributes nothing to either side.
func (h *AdminHandler) DashboardStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	totalUsers, err := h.Users.CountAll(ctx)
	if err != nil {
		log.Printf("admin: count users failed: %v", err)
		return serverError(c)
	}
	totalBookings, err := h.Bookings.CountAll(ctx)
	if err != nil {
		log.Printf("admin: count bookings failed: %v", err)
		return serverError(c)
	}
	gross, err := h.Bookings.GrossRevenue(ctx)
	if err != nil {
		log.Printf("admin: gross revenue failed: %v", err)
		return serverError(c)
	}
	refunded, err := h.Refunds.SumTiedToRevenue(ctx)
	if err != nil {
		log.Printf("admin: refund sum failed: %v", err)
		return serverError(c)
	}
	top, err := h.Bookings.MostPopularCompleted(ctx, topVehicleCount)
	if err != nil {
		log.Printf("admin: top vehicles failed: %v", err)
		return serverError(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"totalUsers":    totalUsers,
		"totalBookings": totalBookings,
		"totalRevenue":  round2(gross - refunded),
		"topVehicles":   top,
	})
}

// ListUsers handles GET /api/admin/users. Each row carries the user's
// effective role; an empty role marks a deactivated account.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	total, err := h.Users.CountAll(ctx)
	if err != nil {
		log.Printf("admin: count users failed: %v", err)
		return serverError(c)
	}
	items, err := h.Users.ListPaged(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		log.Printf("admin: list users failed: %v", err)
		return serverError(c)
	}
	return paged(c, items, total, page, pageSize)
}

type adminCreateUserReq struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	PhoneNumber *string `json:"phoneNumber"`
	Role        string  `json:"role"`
}

// CreateUser handles POST /api/admin/users. Unlike self-registration the
// admin picks the role, which lets staff accounts be provisioned.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req adminCreateUserReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.TrimSpace(req.Role)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return jsonError(c, http.StatusBadRequest, "firstName, lastName, email, password and role are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, err := h.Roles.GetByName(ctx, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return jsonError(c, http.StatusBadRequest, "role does not exist")
		}
		log.Printf("admin: load role failed: %v", err)
		return serverError(c)
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		log.Printf("admin: hash password failed: %v", err)
		return serverError(c)
	}
	uid, err := h.Users.Create(ctx, req.FirstName, req.LastName, req.Email, hash, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return jsonError(c, http.StatusConflict, "email already registered")
		}
		log.Printf("admin: create user failed: %v", err)
		return serverError(c)
	}
	if err := h.Roles.Assign(ctx, uid, role.ID); err != nil {
		log.Printf("admin: assign role failed: %v", err)
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":        uid,
		"firstName": req.FirstName,
		"lastName":  req.LastName,
		"email":     req.Email,
		"role":      role.Name,
	})
}

type updateRoleReq struct {
	Role string `json:"role"`
}

// UpdateUserRole handles PUT /api/admin/users/:id/role. All existing role
// rows are replaced with the single new one in one transaction.
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid user id")
	}
	var req updateRoleReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Role) == "" {
		return jsonError(c, http.StatusBadRequest, "role is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return jsonError(c, http.StatusNotFound, "user not found")
		}
		log.Printf("admin: load user failed: %v", err)
		return serverError(c)
	}
	role, err := h.Roles.GetByName(ctx, strings.TrimSpace(req.Role))
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return jsonError(c, http.StatusBadRequest, "role does not exist")
		}
		log.Printf("admin: load role failed: %v", err)
		return serverError(c)
	}

	tx, err := h.Users.DB().BeginTx(ctx, nil)
	if err != nil {
		log.Printf("admin: begin tx failed: %v", err)
		return serverError(c)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Roles.ReplaceTx(ctx, tx, userID, role.ID); err != nil {
		log.Printf("admin: replace role failed: %v", err)
		return serverError(c)
	}
	if err := tx.Commit(); err != nil {
		log.Printf("admin: commit failed: %v", err)
		return serverError(c)
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{
		"userId": userID,
		"role":   role.Name,
	})
}

// DeactivateUser handles DELETE /api/admin/users/:id. Deactivation removes
// every role row; the users row itself is never deleted so booking history
// stays intact. Active refresh tokens are revoked alongside.
func (h *AdminHandler) DeactivateUser(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return jsonError(c, http.StatusNotFound, "user not found")
		}
		log.Printf("admin: load user failed: %v", err)
		return serverError(c)
	}
	if err := h.Roles.RemoveAll(ctx, userID); err != nil {
		log.Printf("admin: remove roles failed: %v", err)
		return serverError(c)
	}
	_ = h.Tokens.RevokeAllForUser(ctx, userID)

	return c.NoContent(http.StatusNoContent)
}

// ListBookings handles GET /api/admin/bookings.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	page, pageSize := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Bookings.ListAll(ctx, page, pageSize)
	if err != nil {
		log.Printf("admin: list bookings failed: %v", err)
		return serverError(c)
	}
	return paged(c, items, total, page, pageSize)
}

// ListIssues handles GET /api/admin/issues.
func (h *AdminHandler) ListIssues(c echo.Context) error {
	page, pageSize := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Issues.ListAll(ctx, page, pageSize)
	if err != nil {
		log.Printf("admin: list issues failed: %v", err)
		return serverError(c)
	}
	return paged(c, items, total, page, pageSize)
}

type processRefundReq struct {
	BookingID uint64   `json:"bookingId"`
	Amount    *float64 `json:"amount"`
	Reason    string   `json:"reason"`
	IssueID   *uint64  `json:"issueId"`
}

// ProcessRefund handles POST /api/admin/refunds. Refunds are allowed from
// "Cancelled - Refund Pending" (normal cancellation flow) and from
// "Completed" (goodwill refund after an issue). The refund insert and the
// transition to "Cancelled - Refunded" commit together.
func (h *AdminHandler) ProcessRefund(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req processRefundReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.BookingID == 0 || req.Reason == "" {
		return jsonError(c, http.StatusBadRequest, "bookingId and reason are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, status, err := h.Bookings.GetWithStatus(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return jsonError(c, http.StatusNotFound, "booking not found")
		}
		log.Printf("admin: load booking failed: %v", err)
		return serverError(c)
	}
	if status != model.StatusRefundPending && status != model.StatusCompleted {
		return jsonError(c, http.StatusBadRequest, "booking status does not allow a refund")
	}
	if _, err := h.Refunds.GetByBookingID(ctx, booking.ID); err == nil {
		return jsonError(c, http.StatusConflict, "booking has already been refunded")
	} else if !errors.Is(err, sql.ErrNoRows) {
		log.Printf("admin: load refund failed: %v", err)
		return serverError(c)
	}

	amount := booking.TotalCost
	if req.Amount != nil {
		amount = round2(*req.Amount)
	}
	if amount <= 0 || amount > booking.TotalCost {
		return jsonError(c, http.StatusBadRequest, "refund amount must be positive and at most the booking total")
	}

	if req.IssueID != nil {
		issue, err := h.Issues.GetByID(ctx, *req.IssueID)
		if err != nil {
			if errors.Is(err, repository.ErrIssueNotFound) {
				return jsonError(c, http.StatusBadRequest, "issue does not exist")
			}
			log.Printf("admin: load issue failed: %v", err)
			return serverError(c)
		}
		if issue.BookingID != booking.ID {
			return jsonError(c, http.StatusBadRequest, "issue does not belong to this booking")
		}
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		log.Printf("admin: begin tx failed: %v", err)
		return serverError(c)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	refund := model.Refund{
		BookingID:   booking.ID,
		IssueID:     req.IssueID,
		Amount:      amount,
		Reason:      req.Reason,
		AdminUserID: adminID,
		RefundDate:  time.Now().UTC(),
	}
	if err := h.Refunds.CreateTx(ctx, tx, &refund); err != nil {
		log.Printf("admin: create refund failed: %v", err)
		return serverError(c)
	}
	refundedID, err := h.Statuses.IDByNameTx(ctx, tx, model.StatusRefunded)
	if err != nil {
		log.Printf("admin: resolve status failed: %v", err)
		return serverError(c)
	}
	if err := h.Bookings.UpdateStatusTx(ctx, tx, booking.ID, refundedID); err != nil {
		log.Printf("admin: update status failed: %v", err)
		return serverError(c)
	}
	if err := tx.Commit(); err != nil {
		log.Printf("admin: commit failed: %v", err)
		return serverError(c)
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"refundId":  refund.ID,
		"bookingId": booking.ID,
		"amount":    amount,
		"status":    model.StatusRefunded,
	})
}
