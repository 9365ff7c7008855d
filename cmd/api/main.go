package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/zapshift/parcel-backend/api/routes"
	authsvc "github.com/zapshift/parcel-backend/internal/auth"
	parcelsvc "github.com/zapshift/parcel-backend/internal/parcels"
	paymentsvc "github.com/zapshift/parcel-backend/internal/payments"
	ridersvc "github.com/zapshift/parcel-backend/internal/riders"
	trackingsvc "github.com/zapshift/parcel-backend/internal/tracking"
	userssvc "github.com/zapshift/parcel-backend/internal/users"
	"github.com/zapshift/parcel-backend/pkg/config"
	"github.com/zapshift/parcel-backend/pkg/db"
	"github.com/zapshift/parcel-backend/pkg/logger"
	"github.com/zapshift/parcel-backend/pkg/migrate"
	"github.com/zapshift/parcel-backend/pkg/redis"
	"github.com/zapshift/parcel-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	userRepo := userssvc.NewRepository(dbClient.DB())
	parcelRepo := parcelsvc.NewRepository(dbClient.DB())
	riderRepo := ridersvc.NewRepository(dbClient.DB())
	paymentRepo := paymentsvc.NewRepository(dbClient.DB())
	eventRepo := trackingsvc.NewRepository(dbClient.DB())

	usersService, err := userssvc.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	parcelsService, err := parcelsvc.NewService(parcelsvc.ServiceParams{
		Repo:      parcelRepo,
		RiderRepo: riderRepo,
		EventRepo: eventRepo,
		TxRunner:  dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create parcels service", err)
		os.Exit(1)
	}

	ridersService, err := ridersvc.NewService(ridersvc.ServiceParams{
		Repo:      riderRepo,
		UsersRepo: userRepo,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create riders service", err)
		os.Exit(1)
	}

	paymentsService, err := paymentsvc.NewService(paymentsvc.ServiceParams{
		Repo:       paymentRepo,
		ParcelRepo: parcelRepo,
		EventRepo:  eventRepo,
		Gateway:    stripeClient,
		TxRunner:   dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	trackingService, err := trackingsvc.NewService(eventRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create tracking service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DBPinger:    dbClient,
			RedisPinger: redisClient,
			Idempotency: redisClient,
			Auth:        authService,
			Users:       usersService,
			Parcels:     parcelsService,
			Riders:      ridersService,
			Payments:    paymentsService,
			Tracking:    trackingService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
