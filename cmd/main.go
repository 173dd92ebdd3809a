package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"carrental/config"
	"carrental/pkg/bot"
	"carrental/pkg/logger"
	"carrental/service"
	"carrental/storage/postgres"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	// 3. Initialize Storage (Postgres)
	pgStore, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pgStore.Close()

	// 4. Services shared by the bot and the HTTP API
	svc := service.New(pgStore, log, service.Options{BackendTimeout: cfg.BackendTimeout})

	log.Info("🚗 Car rental backend is initializing...")

	// 5. Telegram bot, optional
	var rentalBot *bot.Bot
	if cfg.TelegramBotToken != "" {
		rentalBot, err = bot.New(&cfg, pgStore, svc, log)
		if err != nil {
			log.Error("Failed to initialize bot", logger.Error(err))
			os.Exit(1)
		}
		go func() {
			log.Info("Bot is starting...")
			rentalBot.Start()
		}()
	} else {
		log.Warning("TG_BOT_TOKEN is empty, bot disabled")
	}

	// 6. HTTP API
	go func() {
		log.Info("API is starting...", logger.Int("port", cfg.AppPort))
		if err := bot.RunServer(cfg.AppPort, svc, log); err != nil {
			log.Error("API server stopped", logger.Error(err))
			os.Exit(1)
		}
	}()

	// 7. Graceful Shutdown listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("Shutting down...")
	if rentalBot != nil {
		rentalBot.Stop()
	}
}
