package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_site/internal/adapters/observability"
	redisad "hotel_site/internal/adapters/redis"
	"hotel_site/internal/app"
	"hotel_site/internal/domain"
	"hotel_site/internal/shared"
	mysqlrepo "hotel_site/internal/storage/mysql"
)

// seed provisions the admin account and fills empty catalog tables from SEED_FILE.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, "seed")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	repo := mysqlrepo.New(db)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		provisionAdmin(ctx, repo, cfg)
	}
	if cfg.SeedFile == "" {
		log.Info().Msg("SEED_FILE is empty, catalog not seeded")
		return
	}

	f, err := os.Open(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.SeedFile).Msg("open seed file")
	}
	catalog, err := app.LoadCatalog(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("load seed file")
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	admin := app.NewAdminService(app.AdminDeps{
		Rooms: repo, Services: repo, Gallery: repo, Bookings: repo, Cache: cache,
	})

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup
	for _, task := range admin.SeedTasks(catalog) {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(task app.SeedTask) {
			defer wg.Done()
			defer sem.Release(1)

			n, err := task.Run(ctx)
			if err != nil {
				log.Warn().Str("table", task.Name).Int("inserted", n).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("table", task.Name).Int("inserted", n).Msg("seed ok")
		}(task)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

func provisionAdmin(ctx context.Context, repo *mysqlrepo.Repo, cfg shared.Config) {
	if _, err := repo.FindAdminByEmail(ctx, cfg.AdminEmail); err == nil {
		log.Info().Str("email", cfg.AdminEmail).Msg("admin already exists")
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		log.Fatal().Err(err).Msg("look up admin")
	}
	stored, err := app.ParsePasswordMode(cfg.PasswordMode).Store(cfg.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare admin password")
	}
	a, err := repo.CreateAdmin(ctx, cfg.AdminEmail, stored)
	if err != nil {
		log.Fatal().Err(err).Msg("create admin")
	}
	log.Info().Str("id", a.ID).Str("email", a.Email).Msg("admin created")
}
