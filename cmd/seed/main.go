package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"constructhub/internal/config"
	"constructhub/internal/database"
	"constructhub/internal/pkg/logger"
	"constructhub/internal/repository"
	"constructhub/internal/seed"
)

func main() {
	demo := flag.Bool("demo", false, "also create demo accounts, projects and bids")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logger.New(cfg.LogLevel, "text")

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	if err := repository.Migrate(db); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	ctx := context.Background()
	if err := seed.Reference(ctx, db); err != nil {
		log.WithError(err).Fatal("seed categories")
	}
	log.WithField("categories", len(seed.Categories())).Info("reference data loaded")

	if *demo {
		if err := seed.Demo(ctx, db, log); err != nil {
			log.WithError(err).Fatal("seed demo data")
		}
	}
}
