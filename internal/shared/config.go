package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	DatasetPath   string
	DatasetSource string // file|mysql
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	OracleBase    string
	OracleKey     string
	OracleRPS     int
	Workers       int
	BatchSize     int
	CacheTTL      time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		DatasetPath:   env("DATASET_PATH", "./data/visits.csv"),
		DatasetSource: env("DATASET_SOURCE", "file"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/tourism?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		OracleBase:    env("ORACLE_BASE_URL", "http://localhost:8501"),
		OracleKey:     env("ORACLE_API_KEY", ""),
		OracleRPS:     atoi("ORACLE_RPS", 5),
		Workers:       atoi("INGEST_WORKERS", 4),
		BatchSize:     atoi("INGEST_BATCH_SIZE", 500),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.DatasetSource != "file" && c.DatasetSource != "mysql" {
		log.Warn().Str("source", c.DatasetSource).Msg("unknown DATASET_SOURCE, falling back to file")
		c.DatasetSource = "file"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
