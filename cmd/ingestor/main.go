package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"atlas_tours/internal/adapters/catalogfeed"
	"atlas_tours/internal/adapters/observability"
	redisad "atlas_tours/internal/adapters/redis"
	"atlas_tours/internal/app"
	"atlas_tours/internal/shared"
	mysqlrepo "atlas_tours/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.FeedBase).
		Int("workers", cfg.Workers).
		Msg("catalog sync starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := catalogfeed.New(cfg.FeedBase, cfg.FeedKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize feed client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ing := app.NewIngestionService(client, repo, cache)

	ids, err := client.ListServiceIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listing feed services failed")
	}
	log.Info().Int("count", len(ids)).Msg("feed listing ok")

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(serviceID string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := ing.IngestService(ctx, serviceID); err != nil {
				log.Warn().Str("id", serviceID).Err(err).Msg("sync failed")
				return
			}
			log.Info().Str("id", serviceID).Msg("sync ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("catalog sync completed")
}
