package router

import (
	"github.com/labstack/echo/v4"

	"github.com/roadready/roadready-api/internal/handler"
	"github.com/roadready/roadready-api/internal/middleware"
	"github.com/roadready/roadready-api/internal/model"
)

// RegisterAdmin registers the Admin-only endpoints: dashboard, user
// administration, platform-wide listings, refunds and catalog mutations.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, v *handler.VehicleHandler, jwtSecret string) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/admin/dashboard-stats", a.DashboardStats)

	g.GET("/admin/users", a.ListUsers)
	g.POST("/admin/users", a.CreateUser)
	g.PUT("/admin/users/:id/role", a.UpdateUserRole)
	g.DELETE("/admin/users/:id", a.DeactivateUser)

	g.GET("/admin/bookings", a.ListBookings)
	g.GET("/admin/issues", a.ListIssues)
	g.POST("/admin/refunds", a.ProcessRefund)

	g.POST("/vehicles", v.Create)
	g.PUT("/vehicles/:id", v.Update)
	g.DELETE("/vehicles/:id", v.Delete)
}

// RegisterOperations registers the staff status-override endpoints, shared
// by Admin and Rental Agent.
func RegisterOperations(e *echo.Echo, o *handler.OperationsHandler, jwtSecret string) {
	g := e.Group(
		"/api/operations",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleRentalAgent),
	)

	g.PUT("/vehicles/:id/status", o.UpdateVehicleStatus)
	g.PUT("/bookings/:id/status", o.UpdateBookingStatus)
	g.PUT("/issues/:id/status", o.UpdateIssueStatus)
}
