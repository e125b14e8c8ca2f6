package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	HTTPTimeout time.Duration
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	StorageBase string
	StorageKey  string
	StorageRPS  int

	RabbitURL string

	SessionSecret string
	PasswordMode  string
	SecureCookies bool

	MaxFiles      int
	MaxImageMB    int
	MaxVideoMB    int
	UploadWorkers int
	SeedWorkers   int
	SeedFile      string
	AdminEmail    string
	AdminPassword string
}

// Load reads the environment, after an optional .env file in the working directory.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
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
		MetricsAddr:   env("METRICS_ADDR", ""),
		HTTPTimeout:   time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 120)) * time.Second,
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotel?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		StorageBase:   env("STORAGE_URL", "http://localhost:54321"),
		StorageKey:    env("STORAGE_KEY", ""),
		StorageRPS:    atoi("STORAGE_RPS", 10),
		RabbitURL:     env("RABBITMQ_URL", env("AMQP_URL", "")),
		SessionSecret: env("SESSION_SECRET", ""),
		PasswordMode:  env("PASSWORD_MODE", "plaintext"),
		SecureCookies: env("SECURE_COOKIES", "false") == "true",
		MaxFiles:      atoi("MEDIA_MAX_FILES", 30),
		MaxImageMB:    atoi("MEDIA_MAX_IMAGE_MB", 10),
		MaxVideoMB:    atoi("MEDIA_MAX_VIDEO_MB", 100),
		UploadWorkers: atoi("UPLOAD_WORKERS", 4),
		SeedWorkers:   atoi("SEED_WORKERS", 4),
		SeedFile:      env("SEED_FILE", ""),
		AdminEmail:    env("ADMIN_EMAIL", ""),
		AdminPassword: env("ADMIN_PASSWORD", ""),
	}
	if c.StorageKey == "" {
		log.Warn().Msg("STORAGE_KEY is empty")
	}
	if c.SessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
