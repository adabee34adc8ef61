package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Outbox   OutboxConfig
	Feed     FeedConfig
	Features FeatureFlags
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// UpstreamConfig points at the authoritative document store.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers         []string
	EngagementTopic string
	OrdersTopic     string
}

type OutboxConfig struct {
	Dir         string
	ReplayEvery time.Duration
}

type FeedConfig struct {
	// ActiveThreshold is the visibility ratio at or above which a post
	// counts as active in the viewport.
	ActiveThreshold float64
	// RefreshInterval drives the background post refetch.
	RefreshInterval time.Duration
}

type FeatureFlags struct {
	EnableSnapshotCache    bool
	EnableEngagementEvents bool
	EnableCommentOutbox    bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8086),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL: getEnvString("UPSTREAM_STORE_URL", "http://localhost:5000"),
			Timeout: time.Duration(getEnvInt("UPSTREAM_STORE_TIMEOUT", 15)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnvString("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("REDIS_TTL_SECONDS", 300)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:         getEnvStrings("KAFKA_BROKERS", "localhost:9092"),
			EngagementTopic: getEnvString("KAFKA_ENGAGEMENT_TOPIC", "unixchange.engagement"),
			OrdersTopic:     getEnvString("KAFKA_ORDERS_TOPIC", "unixchange.orders"),
		},
		Outbox: OutboxConfig{
			Dir:         getEnvString("OUTBOX_DIR", "data/outbox"),
			ReplayEvery: time.Duration(getEnvInt("OUTBOX_REPLAY_SECONDS", 30)) * time.Second,
		},
		Feed: FeedConfig{
			ActiveThreshold: getEnvFloat("FEED_ACTIVE_THRESHOLD", 0.6),
			RefreshInterval: time.Duration(getEnvInt("FEED_REFRESH_SECONDS", 10)) * time.Second,
		},
		Features: FeatureFlags{
			EnableSnapshotCache:    getEnvBool("ENABLE_SNAPSHOT_CACHE", true),
			EnableEngagementEvents: getEnvBool("ENABLE_ENGAGEMENT_EVENTS", true),
			EnableCommentOutbox:    getEnvBool("ENABLE_COMMENT_OUTBOX", true),
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvStrings(key, defaultValue string) []string {
	raw := getEnvString(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
