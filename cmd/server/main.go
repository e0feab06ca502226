// Command server runs the patient management API: token-based auth, patient
// CRUD with billing integration, and best-effort change events on a Redis
// stream.
//
// @title        Patient System API
// @version      1.0
// @description  Patient record management with token-based auth, billing integration, and change events.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medtrack/patient-system/internal/api"
	"github.com/medtrack/patient-system/internal/core/service"
	"github.com/medtrack/patient-system/internal/core/token"
	"github.com/medtrack/patient-system/internal/infrastructure/billing"
	"github.com/medtrack/patient-system/internal/infrastructure/broker"
	"github.com/medtrack/patient-system/internal/infrastructure/config"
	mongodb "github.com/medtrack/patient-system/internal/infrastructure/db/mongo"
	redisdb "github.com/medtrack/patient-system/internal/infrastructure/db/redis"
	"github.com/medtrack/patient-system/internal/infrastructure/queue"
	"github.com/medtrack/patient-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	patientRepo := mongodb.NewPatientRepository(db)
	if err := patientRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create patient indexes")
	}
	authRepo := mongodb.NewAuthRepository(db)
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	// --- Broker ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	dispatcher := queue.NewDispatcher(
		cfg.Publish.Workers,
		broker.NewRedisSink(rdb),
		cfg.Publish.SendTimeout,
		log,
	)
	dispatcher.Start(ctx)

	// --- Services ---
	tokens := token.NewService(cfg.JWTSecret)
	billingClient, err := billing.NewClient(cfg.Billing.Addr, cfg.Billing.Timeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to billing service")
	}
	defer billingClient.Close()
	patientService := service.NewPatientService(patientRepo, billingClient, dispatcher, cfg.Billing.Timeout, log)
	authService := service.NewAuthService(authRepo, tokens)

	e := api.NewRouter(api.Dependencies{
		PatientService: patientService,
		AuthService:    authService,
		Tokens:         tokens,
		Mongo:          db,
		Redis:          rdb,
		Logger:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("patient system listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
