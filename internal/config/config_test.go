package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "API_PREFIX", "DATABASE_URL", "REDIS_URL", "KAFKA_BROKERS", "ALLOW_DESCRIPTION_UPDATE", "SHUTDOWN_TIMEOUT_SEC"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 25, cfg.DBPoolSize)
	assert.Equal(t, "task-events", cfg.KafkaTopic)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.AllowDescriptionUpdate)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.EventsEnabled())
	assert.Error(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/tasks")
	t.Setenv("DB_POOL_SIZE", "7")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("ALLOW_DESCRIPTION_UPDATE", "true")
	t.Setenv("CACHE_TTL_SEC", "not-a-number")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 7, cfg.DBPoolSize)
	assert.Equal(t, 300, cfg.CacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.AllowDescriptionUpdate)
	assert.True(t, cfg.CacheEnabled())
	assert.True(t, cfg.EventsEnabled())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nTASKS_A=\"quoted\"\nTASKS_B='single'\nTASKS_C=plain\nnot a pair\nTASKS_D=from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("TASKS_A", "")
	t.Setenv("TASKS_B", "")
	t.Setenv("TASKS_C", "")
	t.Setenv("TASKS_D", "from-env")

	LoadEnvFile(path)

	assert.Equal(t, "quoted", os.Getenv("TASKS_A"))
	assert.Equal(t, "single", os.Getenv("TASKS_B"))
	assert.Equal(t, "plain", os.Getenv("TASKS_C"))
	assert.Equal(t, "from-env", os.Getenv("TASKS_D"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	LoadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
}
