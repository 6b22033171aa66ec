package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	"ottermoney/internal/infrastructure/postgres"
	"ottermoney/internal/shared/config"
)

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "overall migration timeout")
	flag.Parse()

	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	log.Info("migrations applied")
}
