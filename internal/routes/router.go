package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"npu-collective/sabha/internal/api"
	"npu-collective/sabha/internal/db"
	"npu-collective/sabha/internal/jobs"
	"npu-collective/sabha/internal/logging"
	"npu-collective/sabha/internal/metrics"
	"npu-collective/sabha/internal/middleware"
	"npu-collective/sabha/internal/workers"
)

func RegisterRoutes(upSince time.Time) http.Handler {
	r := chi.NewRouter()

	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	deps, err := api.InitDependencies()
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	logging.Info("Router initialized with metrics and rate limit middleware")

	// health check outside the authenticated tree
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, deps.Redis, upSince))

	// background jobs: scheduled content sweep
	jobs.InitializeJobs(context.Background(), deps.Services.Workflow, metricsReg)

	// cache warmers
	workers.InitWorkers(deps.Services.Ledger, deps.Services.Workflow, metricsReg)

	RegisterAPIRoutes(r, metricsReg, deps)

	return r
}
