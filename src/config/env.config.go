package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Env      string
	Host     string
	Port     string
	BasePath string

	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	DBSSLMode string

	RedisMode       string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisMasterName string
	RedisSentinels  []string
	CacheTTL        time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	RabbitMQURL string

	ExportSchedule     string
	CacheSweepSchedule string
}

// Load reads .env (if present) and the process environment.
func Load(log *logrus.Logger) Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.WithError(err).Warn("could not load .env file")
		} else {
			log.Info("loaded .env file")
		}
	}

	return Config{
		Env:      getenv("APP_ENV", "development"),
		Host:     getenv("HOST", "0.0.0.0"),
		Port:     getenv("APP_PORT", "2000"),
		BasePath: strings.TrimRight(getenv("API_BASE_PATH", "/theater"), "/"),

		DBHost:    getenv("DB_HOST", "localhost"),
		DBPort:    getenv("DB_PORT", "5432"),
		DBUser:    getenv("DB_USER", "postgres"),
		DBPass:    os.Getenv("DB_PASS"),
		DBName:    getenv("DB_NAME", "theater"),
		DBSSLMode: getenv("DB_SSLMODE", "disable"),

		RedisMode:       os.Getenv("REDIS_MODE"),
		RedisHost:       os.Getenv("REDIS_HOST"),
		RedisPort:       getenv("REDIS_PORT", "6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisMasterName: os.Getenv("REDIS_MASTER_NAME"),
		RedisSentinels:  splitList(os.Getenv("REDIS_SENTINELS")),
		CacheTTL:        envDur("CACHE_TTL", 10*time.Minute),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:    envBool("MINIO_USE_SSL", false),
		MinioBucket:    getenv("MINIO_BUCKET", "theater-exports"),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		ExportSchedule:     getenv("EXPORT_SCHEDULE", "@daily"),
		CacheSweepSchedule: getenv("CACHE_SWEEP_SCHEDULE", "@every 15m"),
	}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
