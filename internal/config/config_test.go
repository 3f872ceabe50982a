package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_DRIVER", "DATABASE_DSN", "HTTP_PORT", "DB_NAME", "AUTO_MIGRATE", "API_BASE_URL", "CLIENT_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "file:pharmacy.db?_pragma=foreign_keys(1)", cfg.DatabaseDSN)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "http://localhost:8080/api", cfg.Client.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")
	t.Setenv("AUTO_MIGRATE", "maybe")
	t.Setenv("CLIENT_TIMEOUT", "-3s")
	t.Setenv("LOG_MAX_SIZE_MB", "big")
	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 100, cfg.Log.MaxSize)
}

func TestDatabaseDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "pharma")

	assert.Equal(t, "postgres://app:pw@db:5432/pharma?sslmode=disable", databaseDSN("postgres"))
	assert.Equal(t, "app:pw@tcp(db:3306)/pharma?charset=utf8mb4", databaseDSN("mysql"))
	assert.Equal(t, "file:pharma.db?_pragma=foreign_keys(1)", databaseDSN("sqlite"))

	t.Setenv("DATABASE_DSN", "custom")
	assert.Equal(t, "custom", databaseDSN("mysql"))
}
