package config

import "errors"

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

// Validate checks connection settings.
func (r *RedisConfig) Validate() error {
	if r.UseSentinel {
		if len(r.SentinelNodes) == 0 {
			return errors.New("REDIS_SENTINEL_NODES is required when REDIS_USE_SENTINEL=true")
		}
		if r.SentinelMasterName == "" {
			return errors.New("REDIS_SENTINEL_MASTER_NAME is required when REDIS_USE_SENTINEL=true")
		}
		return nil
	}
	if r.URI == "" {
		return errors.New("REDIS_URI is required")
	}
	return nil
}
