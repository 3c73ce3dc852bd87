package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	HotelsBaseURL   string
	UpstreamRPS     int
	UpstreamRetries int
	UpstreamTimeout time.Duration
	CacheTTL        time.Duration
	CatalogSource   string // remote|mysql

	HomeBatchSize      int
	HomePageSize       int
	ExplorePageSize    int
	ExploreCatalogSize int
	SessionIdleTTL     time.Duration
	FilterBucketsFile  string

	MirrorWorkers int
}

const (
	SourceRemote = "remote"
	SourceMySQL  = "mysql"
)

// MaxExploreCatalogSize bounds EXPLORE_CATALOG_SIZE; the explore view
// renders one page link per page of the assumed catalog.
const MaxExploreCatalogSize = 10000

// Load reads the environment, after merging an optional .env file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env could not be loaded")
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		HotelsBaseURL:   env("HOTELS_BASE_URL", "https://www.gocomet.com/api/assignment"),
		UpstreamRPS:     atoi("UPSTREAM_RPS", 5),
		UpstreamRetries: atoi("UPSTREAM_MAX_RETRIES", 0),
		UpstreamTimeout: time.Duration(atoi("UPSTREAM_TIMEOUT_SECONDS", 20)) * time.Second,
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		CatalogSource:   strings.ToLower(env("CATALOG_SOURCE", SourceRemote)),

		HomeBatchSize:      atoi("HOME_BATCH_SIZE", 30),
		HomePageSize:       atoi("HOME_PAGE_SIZE", 10),
		ExplorePageSize:    atoi("EXPLORE_PAGE_SIZE", 8),
		ExploreCatalogSize: atoi("EXPLORE_CATALOG_SIZE", 30),
		SessionIdleTTL:     time.Duration(atoi("SESSION_IDLE_TTL_SECONDS", 1800)) * time.Second,
		FilterBucketsFile:  os.Getenv("FILTER_BUCKETS_FILE"),

		MirrorWorkers: atoi("MIRROR_WORKERS", 8),
	}
	// REDIS_ADDR set to an empty string disables the response cache
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok && v == "" {
		c.RedisAddr = ""
	}
	if c.CatalogSource != SourceRemote && c.CatalogSource != SourceMySQL {
		log.Warn().Str("source", c.CatalogSource).Msg("unknown CATALOG_SOURCE, using remote")
		c.CatalogSource = SourceRemote
	}
	for name, p := range map[string]*int{
		"HOME_BATCH_SIZE": &c.HomeBatchSize, "HOME_PAGE_SIZE": &c.HomePageSize,
		"EXPLORE_PAGE_SIZE": &c.ExplorePageSize, "EXPLORE_CATALOG_SIZE": &c.ExploreCatalogSize,
		"MIRROR_WORKERS": &c.MirrorWorkers,
	} {
		if *p <= 0 {
			log.Warn().Str("key", name).Int("value", *p).Msg("must be positive, using 1")
			*p = 1
		}
	}
	if c.ExploreCatalogSize > MaxExploreCatalogSize {
		log.Warn().Int("value", c.ExploreCatalogSize).Int("max", MaxExploreCatalogSize).Msg("EXPLORE_CATALOG_SIZE too large, capping")
		c.ExploreCatalogSize = MaxExploreCatalogSize
	}
	return c
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
