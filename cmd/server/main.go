package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/roadready/roadready-api/internal/config"
	"github.com/roadready/roadready-api/internal/database"
	"github.com/roadready/roadready-api/internal/handler"
	"github.com/roadready/roadready-api/internal/queue"
	"github.com/roadready/roadready-api/internal/repository"
	"github.com/roadready/roadready-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	if err := database.Seed(ctx, db, cfg.BcryptCost, cfg.SeedAdmin); err != nil {
		log.Fatalf("seed: %v", err)
	}
	cancel()

	// Nil when Redis is unreachable; cache and rate limiting become no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis: unavailable, response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	tokens := repository.NewTokenRepo(db)
	brands := repository.NewBrandRepo(db)
	locations := repository.NewLocationRepo(db)
	extras := repository.NewExtraRepo(db)
	statuses := repository.NewBookingStatusRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)
	refunds := repository.NewRefundRepo(db)
	reviews := repository.NewReviewRepo(db)
	issues := repository.NewIssueRepo(db)

	authH := handler.NewAuthHandler(cfg, users, roles, tokens)
	profileH := handler.NewProfileHandler(users, roles)
	vehicleH := handler.NewVehicleHandler(vehicles, brands, locations, bookings)
	bookingH := handler.NewBookingHandler(users, vehicles, extras, bookings, statuses, payments)
	reviewH := handler.NewReviewHandler(reviews, bookings, vehicles)
	issueH := handler.NewIssueHandler(issues, bookings)
	adminH := handler.NewAdminHandler(cfg, users, roles, tokens, bookings, statuses, refunds, issues)
	opsH := handler.NewOperationsHandler(vehicles, bookings, statuses, issues)
	lookupH := handler.NewLookupHandler(brands, locations, extras)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, rdb)
	router.RegisterPublic(e, vehicleH, reviewH, lookupH, rdb)
	router.RegisterCustomer(e, profileH, bookingH, reviewH, issueH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, vehicleH, cfg.JWTSecret)
	router.RegisterOperations(e, opsH, cfg.JWTSecret)

	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
