package cmd

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"price-sync/core/catalog"
	"price-sync/core/config"
	"price-sync/core/database"
	"price-sync/core/formula"
	"price-sync/core/runner"
	"price-sync/core/storage"
	"price-sync/core/supplier"
	"price-sync/feature/history"
	"price-sync/feature/pricesync"
)

// buildService assembles the reconciliation service and its optional
// collaborators from configuration. The returned database handle and archive
// are nil when their subsystems are disabled.
func buildService(cfg *config.Config, logg *zap.Logger) (*pricesync.Service, *pricesync.Archive, *gorm.DB, error) {
	cat := catalog.NewClient(cfg.Catalog, logg)
	sup := supplier.NewClient(cfg.Supplier)
	formulas := formula.Loader{
		DefaultPath:        cfg.Sync.FormulaFile,
		UnderThresholdPath: cfg.Sync.UnderThresholdFormulaFile,
	}

	svc := pricesync.NewService(cat, sup, cat, formulas, &runner.Coordinator{}, cfg.Sync.WriteDelay(), logg)

	var db *gorm.DB
	if cfg.Database.Enabled {
		conn, err := database.Connect(cfg.Database)
		if err != nil {
			// History is an optional subsystem; reconciliation works without it.
			logg.Warn("Price history database connection failed", zap.Error(err))
		} else {
			db = conn
			svc.SetChangeRecorder(history.NewService(db, logg))
			logg.Info("Connected to price history database")
		}
	}

	var archive *pricesync.Archive
	if cfg.Storage.Enabled {
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, nil, nil, err
		}
		archive = pricesync.NewArchive(store, cfg.Storage.Bucket, logg)
		svc.SetReportArchiver(archive)
	}

	return svc, archive, db, nil
}
