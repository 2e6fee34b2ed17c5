// Package database handles the optional price-history database connection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// Connect establishes and pings a MySQL connection with bounded timeouts.
// The database is an optional dependency: when it is disabled or unreachable,
// the service still reconciles prices, it just records no history.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("History database unavailable", zap.Error(err))
//	}
package database
