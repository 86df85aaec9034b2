package main

import (
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "atlas_tours/internal/adapters/http_server"
	"atlas_tours/internal/adapters/observability"
	redisad "atlas_tours/internal/adapters/redis"
	"atlas_tours/internal/app"
	"atlas_tours/internal/pricing"
	"atlas_tours/internal/recommend"
	"atlas_tours/internal/shared"
	mysqlrepo "atlas_tours/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	calcCfg := pricing.DefaultConfig()
	calcCfg.TaxRate = cfg.TaxRate
	calcCfg.Currency = cfg.Currency
	calcCfg.Now = time.Now
	calc := pricing.NewCalculator(calcCfg)
	engine := recommend.NewEngine(nil) // catalog is pushed in per request

	quotes := app.NewQuoteService(repo, cache, calc, cfg.CacheTTL)
	advice := app.NewAdviceService(repo, cache, engine, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Quotes: quotes, Advice: advice})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
