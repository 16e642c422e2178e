package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "tourmode/internal/adapters/http_server"
	"tourmode/internal/adapters/observability"
	"tourmode/internal/adapters/oracle"
	redisad "tourmode/internal/adapters/redis"
	"tourmode/internal/app"
	"tourmode/internal/dataset"
	"tourmode/internal/shared"
	mysqlrepo "tourmode/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	store := loadDataset(cfg)
	log.Info().
		Int("records", store.Len()).
		Str("fingerprint", store.Fingerprint()).
		Int("continents", len(store.Continents())).
		Msg("dataset loaded")

	predictor, err := oracle.New(cfg.OracleBase, cfg.OracleKey, cfg.OracleRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("oracle client init failed")
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	q := app.NewQueryService(store, cache, cfg.CacheTTL)
	f := app.NewFeatureService(store)
	p := app.NewPredictService(f, q, predictor)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Store: store, P: p, Q: q})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// loadDataset reads the visits table or CSV file once; the store is shared
// read-only for the process lifetime.
func loadDataset(cfg shared.Config) *dataset.Store {
	if cfg.DatasetSource == "mysql" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		vs, err := mysqlrepo.New(db).LoadVisits(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("load visits from mysql failed")
		}
		_ = db.Close()
		return dataset.New(vs)
	}

	store, err := dataset.LoadCSV(cfg.DatasetPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatasetPath).Msg("load dataset failed")
	}
	return store
}
