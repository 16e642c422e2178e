package main

import (
	"context"
	"database/sql"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tourmode/internal/adapters/observability"
	"tourmode/internal/dataset"
	"tourmode/internal/shared"
	mysqlrepo "tourmode/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("path", cfg.DatasetPath).
		Int("workers", cfg.Workers).
		Int("batch", cfg.BatchSize).
		Msg("ingestor starting")

	f, err := os.Open(cfg.DatasetPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatasetPath).Msg("open dataset failed")
	}
	visits, err := dataset.ReadCSV(f)
	_ = f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("parse dataset failed")
	}
	log.Info().Int("records", len(visits)).Msg("dataset parsed")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	var failed bool
	var mu sync.Mutex

	for start := 0; start < len(visits); start += cfg.BatchSize {
		end := start + cfg.BatchSize
		if end > len(visits) {
			end = len(visits)
		}
		batch := visits[start:end]
		offset := start

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			if err := repo.InsertVisits(ctx, offset, batch); err != nil {
				log.Warn().Int("offset", offset).Int("rows", len(batch)).Err(err).Msg("insert batch failed")
				mu.Lock()
				failed = true
				mu.Unlock()
				return
			}
			log.Info().Int("offset", offset).Int("rows", len(batch)).Msg("insert batch ok")
		}()
	}

	wg.Wait()
	if failed {
		log.Fatal().Msg("ingestion completed with failed batches")
	}
	log.Info().Msg("ingestion completed")
}
