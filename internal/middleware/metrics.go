package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SyncRuns counts synchronization passes by outcome ("ok" or an error kind).
var SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wallmirror_sync_runs_total",
	Help: "Synchronization passes by outcome.",
}, []string{"outcome"})

// PostsSynced counts processed posts by classification.
var PostsSynced = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wallmirror_posts_synced_total",
	Help: "Posts processed during sync by classification.",
}, []string{"result"})

// ImageDownloads counts media side-loads by outcome.
var ImageDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wallmirror_image_downloads_total",
	Help: "Image side-load attempts by outcome.",
}, []string{"outcome"})

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware registers the metrics endpoint and returns the request
// instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus, app *fiber.App) fiber.Handler {
	prom.RegisterAt(app, "/metrics")
	return prom.Middleware
}
