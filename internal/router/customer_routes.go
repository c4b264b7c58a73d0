package router

import (
	"github.com/labstack/echo/v4"

	"github.com/roadready/roadready-api/internal/handler"
	"github.com/roadready/roadready-api/internal/middleware"
	"github.com/roadready/roadready-api/internal/model"
)

// RegisterCustomer registers the authenticated customer endpoints under
// /api. The profile is available to every authenticated role; bookings,
// reviews and issues are customer-only. Staff act on bookings through the
// admin and operations endpoints instead.
func RegisterCustomer(e *echo.Echo, p *handler.ProfileHandler, b *handler.BookingHandler, rv *handler.ReviewHandler, is *handler.IssueHandler, jwtSecret string) {
	auth := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin, model.RoleRentalAgent),
	)
	auth.GET("/profile/me", p.Me)
	auth.PUT("/profile/me", p.UpdateMe)

	customer := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	)
	customer.POST("/bookings/initiate", b.Initiate)
	customer.POST("/bookings/:id/confirm-payment", b.ConfirmPayment)
	customer.GET("/bookings/my-bookings", b.MyBookings)
	customer.GET("/bookings/:id", b.Get)
	customer.PUT("/bookings/:id/cancel", b.Cancel)

	customer.POST("/reviews", rv.Create)

	customer.POST("/issues", is.Create)
	customer.GET("/issues/my-issues", is.MyIssues)
}
