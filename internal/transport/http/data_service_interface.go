package http

import (
	"context"

	"trainpulse/internal/dataprocessing"
	"trainpulse/internal/services"
)

// DataServiceInterface defines the data operations the handlers need
type DataServiceInterface interface {
	Transformer(ctx context.Context, q services.Query) (*dataprocessing.Transformer, error)
}

// HealthServiceInterface defines the health operations the handlers need
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
