package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"price-sync/core/config"
	"price-sync/core/loader"
	"price-sync/core/logger"
	"price-sync/core/middleware/auth"
	"price-sync/core/middleware/rayid"
	"price-sync/feature/history"
	"price-sync/feature/pricesync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the price sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Assemble the reconciliation service and optional subsystems
		svc, archive, db, err := buildService(cfg, logg)
		if err != nil {
			logg.Fatal("Failed to assemble reconciliation service", zap.Error(err))
		}
		if archive != nil {
			if err := archive.EnsureBucket(context.Background()); err != nil {
				logg.Fatal("Failed to prepare run report bucket", zap.Error(err))
			}
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(pricesync.NewFeature(svc, archive))
		if db != nil {
			mgr.Register(history.NewFeature(db, logg))
		}

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Health and metrics stay public so probes and scrapers need no key
		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"status":              "ok",
				"busy":                svc.Busy(),
				"store":               cfg.Catalog.Store,
				"supplier_configured": cfg.Supplier.URL != "",
				"formula_file":        cfg.Sync.FormulaFile,
				"history_enabled":     db != nil,
				"archive_enabled":     archive != nil,
			})
		})
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		if db == nil {
			app.Get("/history/:sku", func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "price history database is not enabled",
				})
			})
		}

		// 7. Optional initial run
		if cfg.Sync.RunOnStart {
			if err := svc.TriggerRun(pricesync.RunOptions{}); err != nil {
				logg.Warn("Initial run not started", zap.Error(err))
			} else {
				logg.Info("Initial reconciliation run started")
			}
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
