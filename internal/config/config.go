package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// app config
	APP_PORT string
	// primary database config
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	MIGRATIONS_DIR       string
	// replica store config
	ES_URL                string
	LOCAL_EMPLOYEES_INDEX string
	// logger config
	LOG_FILE_PATH string
	// monitoring config
	MONITOR_CONFIG_PATH string
	MONITOR_INTERVAL    time.Duration
	// backup config
	BACKUP_DIR            string
	BACKUP_RETENTION_DAYS int
	BACKUP_LOG_PATH       string
	BACKUP_SCHEDULE       string
}

func LoadEnvConfig() error {
	// A missing .env file is fine; the process environment still applies.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		APP_PORT:              getEnvString("APP_PORT", "8080"),
		DB_HOST:               getEnvString("DB_HOST", "localhost"),
		DB_PORT:               getEnvInt("DB_PORT", 5432),
		DB_USER:               getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:           getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:               getEnvString("DB_NAME", "hr_bridge"),
		DB_SSL_MODE:           getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME:  getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:     getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DB_MAX_OPEN_CONNS:     getEnvInt("DB_MAX_OPEN_CONNS", 100),
		MIGRATIONS_DIR:        getEnvString("MIGRATIONS_DIR", "migrations"),
		ES_URL:                getEnvString("ES_URL", "http://localhost:9200"),
		LOCAL_EMPLOYEES_INDEX: getEnvString("LOCAL_EMPLOYEES_INDEX", "local_employees"),
		LOG_FILE_PATH:         getEnvString("LOG_FILE_PATH", ""),
		MONITOR_CONFIG_PATH:   getEnvString("MONITOR_CONFIG_PATH", "monitor.yaml"),
		MONITOR_INTERVAL:      getEnvDuration("MONITOR_INTERVAL", 30*time.Second),
		BACKUP_DIR:            getEnvString("BACKUP_DIR", "/var/backups/databases"),
		BACKUP_RETENTION_DAYS: getEnvInt("BACKUP_RETENTION_DAYS", 30),
		BACKUP_LOG_PATH:       getEnvString("BACKUP_LOG_PATH", "/var/log/database_backups.log"),
		BACKUP_SCHEDULE:       getEnvString("BACKUP_SCHEDULE", "0 2 * * *"),
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
