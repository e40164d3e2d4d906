package main

import (
	"flag"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fabrii324/Hojadevida-Fabricio/internal/config"
	"github.com/fabrii324/Hojadevida-Fabricio/internal/cv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to a JSON or YAML config file")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	switch cfg.Database.Driver {
	case "sqlite3":
		db, err := sqlx.Connect("sqlite3", cfg.Database.GetDatabaseURL())
		if err != nil {
			logger.Fatal("Failed to open database", zap.Error(err))
		}
		defer db.Close()

		if _, err := db.Exec(cv.SQLiteSchema); err != nil {
			logger.Fatal("Failed to create schema", zap.Error(err))
		}

	default:
		db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}

		if err := db.AutoMigrate(cv.Models()...); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	logger.Info("Schema up to date", zap.String("driver", cfg.Database.Driver))
}
