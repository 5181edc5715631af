package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// KYCConfig holds the document engine limits.
type KYCConfig struct {
	MaxFileSizeBytes         int64
	AllowedMIMETypes         []string
	VerificationValidityDays int
	BulkMaxItems             int
	BulkConcurrency          int
	BlobTimeoutSec           int
	PresignExpirySec         int
}

// RedisConfig enables the distributed lock when URL is set.
type RedisConfig struct {
	URL        string
	LockTTLSec int
}

// KafkaConfig enables the audit event publisher when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// AuthConfig holds the bearer token verification secret.
type AuthConfig struct {
	JWTSecret string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	LogLevel    string
	Timezone    string
	StoreDriver string
	Database    DatabaseConfig
	MinIO       MinIOConfig
	KYC         KYCConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Auth        AuthConfig
}

// DefaultAllowedMIMETypes are the file types accepted for identity documents.
var DefaultAllowedMIMETypes = []string{"image/jpeg", "image/jpg", "image/png", "application/pdf"}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"), // default only for non-sensitive value
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		StoreDriver: getEnv("STORE_DRIVER", "postgres"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		KYC: KYCConfig{
			MaxFileSizeBytes:         getEnvInt64("KYC_MAX_FILE_SIZE_BYTES", 5<<20),
			AllowedMIMETypes:         getEnvList("KYC_ALLOWED_MIME_TYPES", DefaultAllowedMIMETypes),
			VerificationValidityDays: getEnvInt("KYC_VERIFICATION_VALIDITY_DAYS", 365),
			BulkMaxItems:             getEnvInt("KYC_BULK_MAX_ITEMS", 100),
			BulkConcurrency:          getEnvInt("KYC_BULK_CONCURRENCY", 4),
			BlobTimeoutSec:           getEnvInt("BLOB_TIMEOUT_SEC", 15),
			PresignExpirySec:         getEnvInt("PRESIGN_EXPIRY_SEC", 900),
		},
		Redis: RedisConfig{
			URL:        getEnv("REDIS_URL", ""),
			LockTTLSec: getEnvInt("LOCK_TTL_SEC", 30),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "kyc.events"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
