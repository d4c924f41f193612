package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration. Policy thresholds and lexicons
// live in Policy (see policy.go) because they change per deployment, not per
// process.
type Server struct {
	Addr        string
	PostgresDSN string
	Redis       RedisConfig
	Kafka       KafkaConfig

	// PolicyFile optionally overrides the compiled-in verification policy.
	PolicyFile string

	// ScorerURL is the base URL of the model-scoring service (OCR, face
	// similarity, moderation).
	ScorerURL string

	// WorkerCount bounds concurrent verification runs.
	WorkerCount int

	// CollaboratorTimeout bounds every external scorer call (OCR, face,
	// moderation). A timeout downgrades the check to skipped, it never
	// aborts a run.
	CollaboratorTimeout time.Duration
}

// RedisConfig holds connection settings for the optional Redis instance used
// for the distributed run lock and the verdict cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the optional security-alert pipeline settings. Empty
// brokers disable Kafka publishing; alerts still reach the local audit store.
type KafkaConfig struct {
	Brokers       []string
	SecurityTopic string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SELLO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("KAFKA_SECURITY_TOPIC")
	if topic == "" {
		topic = "sello.security.alerts"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:        addr,
		PostgresDSN: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       brokers,
			SecurityTopic: topic,
		},
		PolicyFile:          os.Getenv("SELLO_POLICY_FILE"),
		ScorerURL:           os.Getenv("SELLO_SCORER_URL"),
		WorkerCount:         envInt("SELLO_WORKERS", 4),
		CollaboratorTimeout: envDuration("SELLO_COLLABORATOR_TIMEOUT", 15*time.Second),
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
