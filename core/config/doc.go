// Package config provides configuration management for the price sync service.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file (via godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Catalog: catalog admin API (store domain, version, access token)
//   - Supplier: supplier pricing feed (URL, token)
//   - Sync: reconciliation pipeline (formula files, write pacing, run-on-start)
//   - Log: logging level and format
//   - Database: optional MySQL connection for price-change history
//   - Storage: optional S3/MinIO bucket for archived run reports
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
