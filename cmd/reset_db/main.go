package main

import (
	"context"

	"carrental/config"
	"carrental/pkg/logger"
	"carrental/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	pg, err := postgres.New(context.Background(), cfg, log)

	if err != nil {
		panic(err)
	}
	defer pg.Close()

	// Clients and vehicles are reference data and stay.
	_, err = pg.GetPool().Exec(context.Background(), "TRUNCATE TABLE reservations, reviews, favorite_vehicles")
	if err != nil {
		log.Error("Failed to truncate tables", logger.Error(err))
	} else {
		log.Info("Successfully truncated reservations, reviews, and favorite_vehicles tables.")
	}
}
