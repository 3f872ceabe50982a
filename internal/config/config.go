package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration values.
type Config struct {
	DatabaseDriver   string
	DatabaseDSN      string
	HTTPPort         string
	AutoMigrate      bool
	SeedCatalog      string
	MetricsNamespace string
	Log              LogConfig
	Client           ClientConfig
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// ClientConfig configures the API client used by the client commands.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	driver := strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite"))

	port := getEnv("HTTP_PORT", "8080")
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	return Config{
		DatabaseDriver:   driver,
		DatabaseDSN:      databaseDSN(driver),
		HTTPPort:         port,
		AutoMigrate:      getEnvAsBool("AUTO_MIGRATE", true),
		SeedCatalog:      getEnv("SEED_CATALOG", "assets/catalog.csv"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "pharmacy"),
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE", "logs/pharmacy.log"),
			MaxSize:    getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvAsInt("LOG_MAX_AGE_DAYS", 7),
			Compress:   getEnvAsBool("LOG_COMPRESS", false),
		},
		Client: ClientConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:"+port+"/api"), "/"),
			Timeout: getEnvAsDuration("CLIENT_TIMEOUT", 10*time.Second),
		},
	}
}

// databaseDSN prefers DATABASE_DSN and otherwise assembles one from the
// DB_* parts for the selected engine.
func databaseDSN(driver string) string {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		return dsn
	}

	name := getEnv("DB_NAME", "pharmacy")
	switch driver {
	case "postgres", "postgresql", "pgx":
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			getEnv("DB_USER", "postgres"), os.Getenv("DB_PASSWORD"),
			getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432"), name)
	case "mysql", "mariadb":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4",
			getEnv("DB_USER", "root"), os.Getenv("DB_PASSWORD"),
			getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "3306"), name)
	}
	return "file:" + name + ".db?_pragma=foreign_keys(1)"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s value %q, defaulting to %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("invalid %s value %q, defaulting to %t", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		log.Printf("invalid %s value %q, defaulting to %s", key, raw, defaultValue)
		return defaultValue
	}
	return value
}
