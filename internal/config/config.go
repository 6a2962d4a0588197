package config

// Config holds runtime configuration for the server.
type Config struct {
	Port            string
	MaxItemsPerPage int
	Store           StoreConfig
	Developers      DevelopersConfig
	Metrics         MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:            envOrDefault(envPort, defaultPort),
		MaxItemsPerPage: intEnvOrDefault(envMaxItemsPerPage, defaultMaxItemsPerPage),
		Store:           loadStore(),
		Developers:      loadDevelopers(),
		Metrics:         loadMetrics(),
	}
}
