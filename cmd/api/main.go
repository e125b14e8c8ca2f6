package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_site/internal/adapters/events"
	"hotel_site/internal/adapters/export"
	server "hotel_site/internal/adapters/http_server"
	"hotel_site/internal/adapters/objectstore"
	"hotel_site/internal/adapters/observability"
	redisad "hotel_site/internal/adapters/redis"
	"hotel_site/internal/adapters/session"
	"hotel_site/internal/app"
	"hotel_site/internal/domain"
	"hotel_site/internal/shared"
	mysqlrepo "hotel_site/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, public pages will read through")
	}
	store, err := objectstore.New(cfg.StorageBase, cfg.StorageKey, cfg.StorageRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage client")
	}
	codec, err := session.NewJWTCodec(cfg.SessionSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session codec")
	}

	var bookingEvents domain.BookingEvents
	if cfg.RabbitURL != "" {
		pub := events.NewPublisher(cfg.RabbitURL)
		defer pub.Close()
		bookingEvents = pub
	} else {
		log.Warn().Msg("RABBITMQ_URL is empty, booking events disabled")
	}

	media := app.NewMediaService(store, app.MediaLimits{
		MaxFiles:      cfg.MaxFiles,
		MaxImageBytes: int64(cfg.MaxImageMB) * app.MB,
		MaxVideoBytes: int64(cfg.MaxVideoMB) * app.MB,
	}, cfg.UploadWorkers)
	xlsx := export.XLSX{}

	h := &server.Handlers{
		Catalog:  app.NewCatalogService(repo, repo, repo, cache, cfg.CacheTTL),
		Bookings: app.NewBookingService(repo, bookingEvents),
		Auth:     app.NewAuthService(repo, codec, app.ParsePasswordMode(cfg.PasswordMode)),
		Admin: app.NewAdminService(app.AdminDeps{
			Rooms: repo, Services: repo, Gallery: repo, Bookings: repo,
			Media: media, Cache: cache, Exporter: xlsx,
		}),
		Media:             media,
		ExportContentType: xlsx.ContentType(),
		SecureCookies:     cfg.SecureCookies,
	}

	// http
	srv := server.New(cfg.HTTPTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
