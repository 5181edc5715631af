package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("KYC_MAX_FILE_SIZE_BYTES", "1024")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, int64(1024), cfg.KYC.MaxFileSizeBytes)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoad_KYCDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, int64(5<<20), cfg.KYC.MaxFileSizeBytes)
	assert.Equal(t, DefaultAllowedMIMETypes, cfg.KYC.AllowedMIMETypes)
	assert.Equal(t, 365, cfg.KYC.VerificationValidityDays)
	assert.Equal(t, 15, cfg.KYC.BlobTimeoutSec)
	assert.Equal(t, "kyc.events", cfg.Kafka.Topic)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvList(t *testing.T) {
	key := "TEST_LIST_VAR"

	t.Setenv(key, "a, b,,c ")
	assert.Equal(t, []string{"a", "b", "c"}, getEnvList(key, nil))

	t.Setenv(key, " , ")
	assert.Equal(t, []string{"x"}, getEnvList(key, []string{"x"}))

	os.Unsetenv(key)
	assert.Nil(t, getEnvList(key, nil))
}
