package health

import (
	"context"
	"sync"

	"lemonshop_server/services"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registerOnce sync.Once

type HealthRoutesManager struct {
	healthService *services.HealthService
}

func NewHealthRoutesManager(healthService *services.HealthService, storeService *services.StoreService) *HealthRoutesManager {
	// Register Prometheus metrics
	registerOnce.Do(func() {
		prometheus.MustRegister(HttpDuration, HttpRequests, services.StoreWrites, services.CatalogSize)
	})
	services.RecordSnapshot(storeService.Load(context.Background()))
	storeService.Subscribe(services.RecordSnapshot)

	return &HealthRoutesManager{
		healthService: healthService,
	}
}

func (hrm *HealthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/health/server", hrm.GetServerHealth)
	r.Get("/health/storage", hrm.GetStorageHealth)

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}
