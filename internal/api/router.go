package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/medtrack/patient-system/docs"
	"github.com/medtrack/patient-system/internal/api/handler"
	"github.com/medtrack/patient-system/internal/api/middleware"
	"github.com/medtrack/patient-system/internal/core/domain"
	"github.com/medtrack/patient-system/internal/core/ports"
	"github.com/medtrack/patient-system/internal/core/token"
)

// Dependencies carries everything the router needs. Services are constructed
// by the caller so their lifecycles (publisher workers in particular) are
// owned by main.
type Dependencies struct {
	PatientService ports.PatientService
	AuthService    ports.AuthService
	Tokens         *token.Service
	Mongo          *mongo.Database
	Redis          *redis.Client
	Logger         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("patient_system"))

	authMiddleware := middleware.Auth(deps.Tokens)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/validate", authHandler.Validate, authMiddleware)

	// --- Patient routes ---
	patientHandler := handler.NewPatientHandler(deps.PatientService)
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/patients", patientHandler.List)
	v1.GET("/patients/:id", patientHandler.Get)
	v1.POST("/patients", patientHandler.Create)
	v1.PUT("/patients/:id", patientHandler.Update)
	v1.DELETE("/patients/:id", patientHandler.Delete, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
