package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	httpapi "parkwise-backend/internal/api/http"
	"parkwise-backend/internal/config"
	"parkwise-backend/internal/logger"
	"parkwise-backend/internal/repository/postgres"
	"parkwise-backend/internal/security"
	"parkwise-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Parkwise Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Billing configuration", "fraction_block_minutes", cfg.Billing.FractionBlockMinutes, "fraction_block_rate_cents", cfg.Billing.FractionBlockRateCents)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	authMiddleware := httpapi.NewAuthMiddleware(tokenManager)

	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		fmt.Sprintf("%d", cfg.SMTP.Port),
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	billing := service.BillingPolicy{
		FractionBlockMinutes:   cfg.Billing.FractionBlockMinutes,
		FractionBlockRateCents: cfg.Billing.FractionBlockRateCents,
	}

	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	notificationSvc := service.NewNotificationService(store.NotificationRepository)
	customerSvc := service.NewCustomerService(store.CustomerRepository, store.VehicleRepository)
	spotSvc := service.NewSpotService(store.SpotRepository, store.ReservationRepository)
	parkingSvc := service.NewParkingService(
		store,
		store.SpotRepository,
		store.ReservationRepository,
		store.CustomerRepository,
		store.VehicleRepository,
		store.NotificationRepository,
		emailSvc,
		billing,
		service.SystemClock{},
	)

	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:         httpapi.NewAuthHandler(authSvc),
		Customer:     httpapi.NewCustomerHandler(customerSvc),
		Spot:         httpapi.NewSpotHandler(spotSvc),
		Parking:      httpapi.NewParkingHandler(parkingSvc),
		Notification: httpapi.NewNotificationHandler(notificationSvc),
	}, authMiddleware)

	serve(cfg.GetServerAddress(), router)
}

func serve(addr string, router *mux.Router) {
	logger.Info("HTTP server listening", "address", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}
