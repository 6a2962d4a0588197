package config

import "time"

const (
	envPort            = "PORT"
	envStoreDriver     = "STORE_DRIVER"
	envDatabaseDSN     = "DATABASE_DSN"
	envRedisAddr       = "REDIS_ADDR"
	envRedisPassword   = "REDIS_PASSWORD"
	envRedisDB         = "REDIS_DB"
	envRedisPrefix     = "REDIS_KEY_PREFIX"
	envDevelopersURL   = "DEVELOPERS_BUCKET_URL"
	envDevelopersKey   = "DEVELOPERS_KEY"
	envDevelopersWarm  = "DEVELOPERS_WARM"
	envDevelopersWait  = "DEVELOPERS_WARM_TIMEOUT"
	envMaxItemsPerPage = "MAX_ITEMS_PER_PAGE"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort        = "4000"
	defaultStoreDriver = "memory"
	defaultRedisPrefix = "games"
	// Bucket and key the authorised developer list has always lived under.
	defaultDevelopersURL   = "s3://ch-senior-dev-test"
	defaultDevelopersKey   = "developers.json"
	defaultDevelopersWarm  = true
	defaultDevelopersWait  = 5 * time.Second
	defaultMaxItemsPerPage = 100
	defaultMetricsPort     = "9090"
	defaultServiceName     = "games-api"
)
