package logarchive

import (
	"transease/core/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the log archive feature. It is disabled when client is nil.
func NewFeature(client storage.Client, cfg storage.Config, logPath string, fs afero.Fs, logger *zap.Logger) *Feature {
	svc := NewService(client, cfg, logPath, fs, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "logarchive"
}

// IsEnabled reports whether object storage is configured.
func (f *Feature) IsEnabled() bool {
	return f.service.client != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature service.
func (f *Feature) Service() *Service {
	return f.service
}
