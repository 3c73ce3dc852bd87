package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_browser/internal/adapters/hotelapi"
	"hotel_browser/internal/adapters/observability"
	redisad "hotel_browser/internal/adapters/redis"
	"hotel_browser/internal/app"
	"hotel_browser/internal/domain"
	"hotel_browser/internal/shared"
	mysqlrepo "hotel_browser/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "mirror")

	log.Info().
		Str("base", cfg.HotelsBaseURL).
		Int("workers", cfg.MirrorWorkers).
		Msg("mirror starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	client, err := hotelapi.New(cfg.HotelsBaseURL, hotelapi.Options{
		RPS:        cfg.UpstreamRPS,
		MaxRetries: cfg.UpstreamRetries,
		Timeout:    cfg.UpstreamTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize hotels client")
	}

	// the API caches by key; mirrored hotels are evicted so they are re-read
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	start := time.Now()
	rep, err := app.NewMirrorService(client, mysqlrepo.New(db), cache).Run(ctx, cfg.MirrorWorkers)
	if err != nil {
		log.Fatal().Err(err).Msg("mirror aborted")
	}
	log.Info().
		Int("total", rep.Total).
		Int64("copied", rep.Copied).
		Int64("missed", rep.Missed).
		Int64("failed", rep.Failed).
		Dur("took", time.Since(start)).
		Msg("mirror completed")
	if rep.Failed > 0 {
		os.Exit(1)
	}
}
