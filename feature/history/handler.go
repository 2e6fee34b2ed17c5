package history

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"price-sync/core/logger"
)

// Handler handles HTTP requests for price history.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/history/:sku", h.HandleHistory)
}

// HandleHistory returns the recorded price changes for one store SKU.
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	storeSKU := c.Params("sku")
	limit := c.QueryInt("limit", 50)

	changes, err := h.service.RecentChanges(c.Context(), storeSKU, limit)
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Failed to load price history", zap.String("sku", storeSKU), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"sku":     storeSKU,
		"changes": changes,
	})
}
