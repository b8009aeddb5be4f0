package config

import (
	"bufio"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort        string
	APIPrefix       string
	DatabaseURL     string
	DBPoolSize      int
	RedisURL        string
	RedisPoolSize   int
	CacheTTL        int // seconds
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaPartitions int
	LogLevel        string
	ShutdownTimeout time.Duration

	// AllowDescriptionUpdate lets PUT /tasks/{id} change the description.
	// Off by default: description is only set at creation.
	AllowDescriptionUpdate bool
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		APIPrefix:              getEnv("API_PREFIX", "/api/v1"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		DBPoolSize:             getIntEnv("DB_POOL_SIZE", 25),
		RedisURL:               os.Getenv("REDIS_URL"),
		RedisPoolSize:          getIntEnv("REDIS_POOL_SIZE", 50),
		CacheTTL:               getIntEnv("CACHE_TTL_SEC", 300),
		KafkaBrokers:           getSliceEnv("KAFKA_BROKERS"),
		KafkaTopic:             getEnv("KAFKA_TASK_TOPIC", "task-events"),
		KafkaPartitions:        getIntEnv("KAFKA_PARTITIONS", 3),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout:        time.Duration(getIntEnv("SHUTDOWN_TIMEOUT_SEC", 15)) * time.Second,
		AllowDescriptionUpdate: getBoolEnv("ALLOW_DESCRIPTION_UPDATE", false),
	}
}

// Validate reports missing required settings.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	return nil
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// EventsEnabled reports whether Kafka brokers were configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// LoadEnvFile reads a .env file and sets env vars (only if not already set).
func LoadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0] {
			val = val[1 : len(val)-1]
		}
		if key != "" && os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getSliceEnv(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
