package configs

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port     string
	DBDriver string // sqlite | postgres | mysql
	DBSource string

	JWTSecret string
	JWTTTL    time.Duration

	PendingQueuePath string
	SyncInterval     time.Duration
	SampleInterval   time.Duration
	RetryAttempts    int
	RetryBaseDelay   time.Duration

	RabbitMQURL string // empty disables the relay

	LogLevel  string
	LogFormat string

	AdminName     string
	AdminPassword string
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("cannot read .env, using environment only")
	}

	return &Config{
		Port:             getEnv("PORT", "8000"),
		DBDriver:         getEnv("DB_DRIVER", "sqlite"),
		DBSource:         getEnv("DB_SOURCE", "pos.db"),
		JWTSecret:        getEnv("JWT_SECRET", "changeme"),
		JWTTTL:           getEnvDuration("JWT_TTL", 12*time.Hour),
		PendingQueuePath: getEnv("PENDING_QUEUE_PATH", "pending.db"),
		SyncInterval:     getEnvDuration("SYNC_INTERVAL", 30*time.Second),
		SampleInterval:   getEnvDuration("SAMPLE_INTERVAL", 800*time.Millisecond),
		RetryAttempts:    getEnvInt("RETRY_ATTEMPTS", 3),
		RetryBaseDelay:   getEnvDuration("RETRY_BASE_DELAY", time.Second),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		AdminName:        getEnv("ADMIN_NAME", ""),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("not an integer, using default")
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("not a duration, using default")
		return fallback
	}
	return d
}
