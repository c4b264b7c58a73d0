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

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	Users *repository.UserRepo
	Roles *repository.RoleRepo
}

func NewProfileHandler(u *repository.UserRepo, r *repository.RoleRepo) *ProfileHandler {
	if u == nil || r == nil {
		panic("nil repository passed to NewProfileHandler")
	}
	return &ProfileHandler{Users: u, Roles: r}
}

type profileResp struct {
	ID          uint64  `json:"id"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	PostalCode  *string `json:"postalCode,omitempty"`
}

func toProfileResp(u model.User, role string) profileResp {
	return profileResp{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        role,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		City:        u.City,
		State:       u.State,
		PostalCode:  u.PostalCode,
	}
}

// Me handles GET /api/profile/me.
func (h *ProfileHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return jsonError(c, http.StatusNotFound, "user not found")
		}
		log.Printf("profile: load user failed: %v", err)
		return serverError(c)
	}
	role, err := h.Roles.EffectiveRole(ctx, userID)
	if err != nil {
		log.Printf("profile: load role failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusOK, toProfileResp(u, role))
}

type updateProfileReq struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	PostalCode  *string `json:"postalCode"`
}

// UpdateMe handles PUT /api/profile/me. The address fields matter: booking
// initiation refuses users without a street address on file.
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return jsonError(c, http.StatusBadRequest, "firstName and lastName are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, userID, req.FirstName, req.LastName,
		req.PhoneNumber, req.Address, req.City, req.State, req.PostalCode); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return jsonError(c, http.StatusNotFound, "user not found")
		}
		log.Printf("profile: update failed: %v", err)
		return serverError(c)
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("profile: reload user failed: %v", err)
		return serverError(c)
	}
	role, err := h.Roles.EffectiveRole(ctx, userID)
	if err != nil {
		log.Printf("profile: load role failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusOK, toProfileResp(u, role))
}
