package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/minutemart/storefront/internal/api"
	"github.com/minutemart/storefront/internal/infrastructure/cleanup"
	"github.com/minutemart/storefront/internal/infrastructure/config"
	"github.com/minutemart/storefront/internal/infrastructure/db/mongo"
	"github.com/minutemart/storefront/internal/infrastructure/db/redis"
	"github.com/minutemart/storefront/internal/infrastructure/notify"
	"github.com/minutemart/storefront/internal/infrastructure/storage"
	"github.com/minutemart/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores are opened here and handed down; nothing below owns a global.
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongo.NewUserRepository(db)
	productRepo := mongo.NewProductRepository(db)
	orderRepo := mongo.NewOrderRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := productRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("product indexes failed")
	}
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("order indexes failed")
	}

	files, err := storage.NewDiskStore(cfg.UploadDir, cfg.MaxUploadBytes, log)
	if err != nil {
		log.Fatal().Err(err).Msg("upload dir unavailable")
	}

	janitor := cleanup.NewJanitor(files, productRepo, files.Root(), cfg.SweepInterval, cfg.OrphanMinAge, log)
	janitor.Start(ctx)

	e := api.NewRouter(api.Deps{
		Config:   cfg,
		Mongo:    db,
		Redis:    rdb,
		Files:    files,
		Orphans:  janitor,
		Notifier: notify.NewMailer(cfg.Mail.APIURL, cfg.Mail.APIKey, cfg.Mail.From, log),
		Log:      log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("storefront listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("storefront stopped")
}
