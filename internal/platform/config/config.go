package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full service configuration, read once at startup.
type Config struct {
	Server     Server
	Redis      RedisConfig
	Postgres   PostgresConfig
	Mongo      MongoConfig
	Kafka      KafkaConfig
	Auth       AuthConfig
	Onboarding OnboardingConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
}

// RedisConfig configures the draft slot. An empty URL selects the in-memory
// slot.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures profile and identity storage. An empty DSN
// selects in-memory stores.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	Migrate      bool
}

// MongoConfig configures the legacy pre-registration store. An empty URI
// disables legacy prefill.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// KafkaConfig configures completion events. No brokers means events are only
// logged.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	CreateTopics bool
}

// AuthConfig configures bearer token validation.
type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
}

// OnboardingConfig tunes the wizard.
type OnboardingConfig struct {
	DraftTTL      time.Duration
	FinishTimeout time.Duration
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envString("VILLAGE_ADDR", ":8080"),
			RequestTimeout:  envDuration("VILLAGE_REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: envDuration("VILLAGE_SHUTDOWN_TIMEOUT", 10*time.Second),
			LogLevel:        envString("LOG_LEVEL", "info"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
			Migrate:      envBool("DATABASE_MIGRATE", true),
		},
		Mongo: MongoConfig{
			URI:        os.Getenv("MONGO_URI"),
			Database:   envString("MONGO_DATABASE", "village"),
			Collection: envString("MONGO_WAITLIST_COLLECTION", "waitlist"),
		},
		Kafka: KafkaConfig{
			Brokers:      envList("KAFKA_BROKERS"),
			Topic:        envString("KAFKA_ONBOARDING_TOPIC", "onboarding.events"),
			CreateTopics: envBool("KAFKA_CREATE_TOPICS", false),
		},
		Auth: AuthConfig{
			// Use a default for development - should be overridden in production
			JWTSigningKey: envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     envString("JWT_ISSUER", "village"),
		},
		Onboarding: OnboardingConfig{
			DraftTTL:      envDuration("ONBOARDING_DRAFT_TTL", 30*24*time.Hour),
			FinishTimeout: envDuration("ONBOARDING_FINISH_TIMEOUT", 10*time.Second),
		},
	}
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
