// Package router wires handlers, auth middleware and caching onto the Echo
// instance. Public routes live here; customer and staff route groups are
// registered from their own files.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/roadready/roadready-api/internal/config"
	"github.com/roadready/roadready-api/internal/handler"
	"github.com/roadready/roadready-api/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication at all.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /api/auth. The
// token-bucket rate limiter guards them against credential stuffing; all
// other groups skip it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rdb *redis.Client) {
	g := e.Group("/api/auth")
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)
}

// RegisterPublic registers the unauthenticated catalog and lookup endpoints.
// Responses are cached in Redis; the middleware degrades to a pass-through
// when no Redis client is available.
func RegisterPublic(e *echo.Echo, v *handler.VehicleHandler, rv *handler.ReviewHandler, lk *handler.LookupHandler, rdb *redis.Client) {
	g := e.Group("/api")
	g.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	g.GET("/vehicles", v.List)
	g.POST("/vehicles/search", v.Search)
	g.GET("/vehicles/:id", v.Get)
	g.GET("/vehicles/:id/reviews", rv.ListByVehicle)
	g.GET("/brands", lk.ListBrands)
	g.GET("/locations", lk.ListLocations)
	g.GET("/extras", lk.ListExtras)
}
