package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadready/roadready-api/internal/config"
	"github.com/roadready/roadready-api/internal/model"
	"github.com/roadready/roadready-api/internal/queue"
	"github.com/roadready/roadready-api/internal/repository"
	queue_publisher "github.com/roadready/roadready-api/internal/service"
	"github.com/roadready/roadready-api/internal/utils"
)

// AuthHandler bundles dependencies for registration, login, token rotation
// and the password-reset flow.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Roles  *repository.RoleRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, r *repository.RoleRepo, t *repository.TokenRepo) *AuthHandler {
	if u == nil || r == nil || t == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: u, Roles: r, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	PhoneNumber *string `json:"phoneNumber"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}
type forgotPasswordReq struct {
	Email string `json:"email"`
}
type resetPasswordReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// issueTokens signs an access token and stores a fresh refresh token for the
// user. The raw refresh token goes back to the client; only its hash is kept.
func (h *AuthHandler) issueTokens(ctx context.Context, userID uint64, role string) (utils.AccessToken, utils.RefreshToken, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashToken(refresh.Raw), refresh.Exp); err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	return access, refresh, nil
}

// Register handles POST /api/auth/register. New accounts always receive the
// Customer role and are logged in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return jsonError(c, http.StatusBadRequest, "firstName, lastName, email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		log.Printf("auth: hash password failed: %v", err)
		return serverError(c)
	}
	uid, err := h.Users.Create(ctx, req.FirstName, req.LastName, req.Email, hash, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return jsonError(c, http.StatusConflict, "email already registered")
		}
		log.Printf("auth: create user failed: %v", err)
		return serverError(c)
	}

	role, err := h.Roles.GetByName(ctx, model.RoleCustomer)
	if err != nil {
		log.Printf("auth: load customer role failed: %v", err)
		return serverError(c)
	}
	if err := h.Roles.Assign(ctx, uid, role.ID); err != nil {
		log.Printf("auth: assign role failed: %v", err)
		return serverError(c)
	}

	access, refresh, err := h.issueTokens(ctx, uid, model.RoleCustomer)
	if err != nil {
		log.Printf("auth: issue tokens failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusCreated, authResp{
		User:    userPart{ID: uid, FirstName: req.FirstName, LastName: req.LastName, Email: req.Email, Role: model.RoleCustomer},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Login handles POST /api/auth/login. A user whose roles were all removed is
// deactivated and cannot log in even with valid credentials.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return jsonError(c, http.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return jsonError(c, http.StatusUnauthorized, "invalid credentials")
		}
		log.Printf("auth: load user failed: %v", err)
		return serverError(c)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return jsonError(c, http.StatusUnauthorized, "invalid credentials")
	}

	role, err := h.Roles.EffectiveRole(ctx, u.ID)
	if err != nil {
		log.Printf("auth: load role failed: %v", err)
		return serverError(c)
	}
	if role == "" {
		return jsonError(c, http.StatusUnauthorized, "account is deactivated")
	}

	access, refresh, err := h.issueTokens(ctx, u.ID, role)
	if err != nil {
		log.Printf("auth: issue tokens failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Role: role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Refresh handles POST /api/auth/refresh. The presented refresh token is
// validated by hash, revoked, and replaced with a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return jsonError(c, http.StatusBadRequest, "refreshToken is required")
	}
	hash := utils.HashToken(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "invalid refresh token")
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("auth: load user failed: %v", err)
		return serverError(c)
	}
	role, err := h.Roles.EffectiveRole(ctx, userID)
	if err != nil {
		log.Printf("auth: load role failed: %v", err)
		return serverError(c)
	}
	if role == "" {
		return jsonError(c, http.StatusUnauthorized, "account is deactivated")
	}

	access, refresh, err := h.issueTokens(ctx, userID, role)
	if err != nil {
		log.Printf("auth: issue tokens failed: %v", err)
		return serverError(c)
	}
	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Role: role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Logout handles POST /api/auth/logout. It revokes the presented refresh
// token, ending that session.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return jsonError(c, http.StatusBadRequest, "refreshToken is required")
	}
	hash := utils.HashToken(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
		return jsonError(c, http.StatusUnauthorized, "invalid refresh token")
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		log.Printf("auth: revoke token failed: %v", err)
		return serverError(c)
	}
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword handles POST /api/auth/forgot-password. The response is the
// same whether or not the email exists, so the endpoint cannot be used to
// probe for accounts. For known users a reset token is stored hashed and the
// raw token is published for the notification consumer to deliver.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return jsonError(c, http.StatusBadRequest, "email is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accepted := func() error {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "if the email is registered, a reset link has been sent",
		})
	}

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return accepted()
		}
		log.Printf("auth: load user failed: %v", err)
		return serverError(c)
	}

	token, expires, err := utils.NewResetToken()
	if err != nil {
		log.Printf("auth: generate reset token failed: %v", err)
		return serverError(c)
	}
	if err := h.Users.SetResetToken(ctx, u.ID, utils.HashToken(token), expires); err != nil {
		log.Printf("auth: store reset token failed: %v", err)
		return serverError(c)
	}

	event := queue.PasswordResetRequestedEvent{
		Email:       u.Email,
		FirstName:   u.FirstName,
		ResetToken:  token,
		ExpiresAt:   expires.Format(time.RFC3339),
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = queue_publisher.PublishPasswordReset(pubCtx, event)
	}()

	return accepted()
}

// ResetPassword handles POST /api/auth/reset-password. Expired and unknown
// tokens are rejected identically. On success every refresh token of the
// user is revoked, logging out all sessions.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" || req.NewPassword == "" {
		return jsonError(c, http.StatusBadRequest, "token and newPassword are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByResetTokenHash(ctx, utils.HashToken(strings.TrimSpace(req.Token)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return jsonError(c, http.StatusUnauthorized, "invalid or expired reset token")
		}
		log.Printf("auth: load user failed: %v", err)
		return serverError(c)
	}
	if u.ResetTokenExpires == nil || time.Now().UTC().After(*u.ResetTokenExpires) {
		return jsonError(c, http.StatusUnauthorized, "invalid or expired reset token")
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		log.Printf("auth: hash password failed: %v", err)
		return serverError(c)
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		log.Printf("auth: update password failed: %v", err)
		return serverError(c)
	}
	_ = h.Tokens.RevokeAllForUser(ctx, u.ID)

	return c.JSON(http.StatusOK, echo.Map{"message": "password has been reset"})
}
