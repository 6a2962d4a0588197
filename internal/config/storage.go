package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers understood by the server.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

// StoreConfig selects and configures the game store.
type StoreConfig struct {
	Driver        string
	DSN           string // postgres/sqlite
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// DevelopersConfig locates the authorised developer list in a blob bucket.
type DevelopersConfig struct {
	BucketURL   string // gocloud.dev URL, e.g. s3://bucket?region=eu-west-2, file:///dir, mem://
	Key         string
	Warm        bool          // load at startup instead of on the first create
	WarmTimeout time.Duration // bound on the startup load
}

func loadStore() StoreConfig {
	return StoreConfig{
		Driver:        strings.ToLower(envOrDefault(envStoreDriver, defaultStoreDriver)),
		DSN:           envOrDefault(envDatabaseDSN, ""),
		RedisAddr:     envOrDefault(envRedisAddr, ""),
		RedisPassword: envOrDefault(envRedisPassword, ""),
		RedisDB:       nonNegativeIntEnv(envRedisDB, 0),
		RedisPrefix:   envOrDefault(envRedisPrefix, defaultRedisPrefix),
	}
}

func loadDevelopers() DevelopersConfig {
	return DevelopersConfig{
		BucketURL:   envOrDefault(envDevelopersURL, defaultDevelopersURL),
		Key:         envOrDefault(envDevelopersKey, defaultDevelopersKey),
		Warm:        boolEnvOrDefault(envDevelopersWarm, defaultDevelopersWarm),
		WarmTimeout: durationEnvOrDefault(envDevelopersWait, defaultDevelopersWait),
	}
}

// Redis numbers databases from zero, so the positive-only intEnvOrDefault does not fit.
func nonNegativeIntEnv(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return defaultValue
	}
	return val
}
