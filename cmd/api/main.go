package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_browser/internal/adapters/hotelapi"
	server "hotel_browser/internal/adapters/http_server"
	"hotel_browser/internal/adapters/observability"
	redisad "hotel_browser/internal/adapters/redis"
	"hotel_browser/internal/app"
	"hotel_browser/internal/browse"
	"hotel_browser/internal/domain"
	"hotel_browser/internal/shared"
	mysqlrepo "hotel_browser/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	buckets, err := browse.LoadBuckets(cfg.FilterBucketsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.FilterBucketsFile).Msg("filter buckets invalid")
	}

	// deps
	src := openSource(cfg)
	cache := openCache(ctx, cfg)
	catalog := app.NewCatalogService(src, cache, cfg.CacheTTL)

	sessions := app.NewSessionStore(cfg.SessionIdleTTL)
	browser := app.NewBrowser(catalog, app.BrowserConfig{
		Home: app.HomeConfig{
			BatchSize: cfg.HomeBatchSize,
			PageSize:  cfg.HomePageSize,
			Buckets:   buckets,
		},
		Explore: app.ExploreConfig{
			PageSize:    cfg.ExplorePageSize,
			CatalogSize: cfg.ExploreCatalogSize,
		},
	}, sessions)

	// http
	srv := server.New(15 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{B: browser})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("source", cfg.CatalogSource).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := sessions.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("session sweeper did not stop")
	}
}

func openSource(cfg shared.Config) domain.HotelSource {
	if cfg.CatalogSource == shared.SourceMySQL {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db)
	}

	client, err := hotelapi.New(cfg.HotelsBaseURL, hotelapi.Options{
		RPS:        cfg.UpstreamRPS,
		MaxRetries: cfg.UpstreamRetries,
		Timeout:    cfg.UpstreamTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize hotels client")
	}
	return client
}

// openCache returns nil when caching is disabled or Redis is unreachable.
func openCache(ctx context.Context, cfg shared.Config) domain.Cache {
	if cfg.RedisAddr == "" {
		log.Info().Msg("response cache disabled")
		return nil
	}
	c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, running without cache")
		_ = c.Close()
		return nil
	}
	return c
}
