package pricesync

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"price-sync/core/logger"
	"price-sync/core/runner"
)

// Handler handles HTTP requests for price reconciliation.
type Handler struct {
	service *Service
	archive *Archive
}

// NewHandler creates a new HTTP handler. The archive may be nil when
// run-report storage is disabled.
func NewHandler(service *Service, archive *Archive) *Handler {
	return &Handler{service: service, archive: archive}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/webhook", h.HandleWebhook)
	app.Post("/update-sku/:sku", h.HandleUpdateSKU)
	app.Get("/runs", h.HandleListRuns)
	app.Get("/runs/*", h.HandleGetRun)
}

// HandleWebhook triggers a full reconciliation run in the background.
// The run outlives the request; its outcome lands in the logs and the
// archive. Returns 202 on acceptance, 409 when a run is already active.
func (h *Handler) HandleWebhook(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts := RunOptions{DryRun: c.QueryBool("dry_run")}
	if err := h.service.TriggerRun(opts); err != nil {
		if errors.Is(err, runner.ErrBusy) {
			l.Warn("Run trigger rejected, another run is active")
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "busy"})
		}
		l.Error("Failed to trigger run", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Full reconciliation run accepted", zap.Bool("dry_run", opts.DryRun))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}

// HandleUpdateSKU reconciles a single SKU synchronously.
func (h *Handler) HandleUpdateSKU(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	storeSKU := c.Params("sku")

	res, err := h.service.RunOne(c.Context(), storeSKU)
	if err != nil {
		if errors.Is(err, runner.ErrBusy) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "busy"})
		}
		var nfe *NotFoundError
		if errors.As(err, &nfe) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": nfe.Error()})
		}
		l.Error("Single SKU reconciliation failed", zap.String("sku", storeSKU), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if res.Status == StatusError {
		return c.Status(fiber.StatusInternalServerError).JSON(res)
	}
	return c.JSON(res)
}

// HandleListRuns lists archived run reports, newest first.
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	if h.archive == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "run report storage is not enabled",
		})
	}

	limit := c.QueryInt("limit", 20)
	entries, err := h.archive.ListRuns(c.Context(), limit)
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Failed to list run reports", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"runs": entries})
}

// HandleGetRun fetches one archived run report by key.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	if h.archive == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "run report storage is not enabled",
		})
	}

	report, err := h.archive.GetRun(c.Context(), c.Params("*"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
