package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bloodbank/backend/internal/infrastructure/config"
	"github.com/bloodbank/backend/internal/infrastructure/logger"
	"github.com/bloodbank/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Applies the GORM schema migrations and reports connection health.
// Intended for deploy pipelines that migrate before rolling the server.
func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	stats, err := db.Stats()
	if err != nil {
		log.Warn("Could not read connection stats", zap.Error(err))
	} else {
		log.Info("Migration complete",
			zap.Int("open_connections", stats.OpenConnections),
			zap.Int("max_open_connections", stats.MaxOpenConnections),
		)
		return
	}

	log.Info("Migration complete")
}
