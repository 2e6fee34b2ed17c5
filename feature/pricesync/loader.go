package pricesync

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature wraps the reconciliation service as a loadable feature.
// The archive may be nil when run-report storage is disabled.
func NewFeature(service *Service, archive *Archive) *Feature {
	return &Feature{service: service, handler: NewHandler(service, archive)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "pricesync"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
