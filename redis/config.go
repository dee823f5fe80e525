package redis

import (
	"fmt"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
	"time"
)

type Config struct {
	LockExpirationSeconds   int     `envconfig:"MDL_COMN_REDIS_LOCK_EXPIRATION" default:"3"`
	LockRetries             int     `envconfig:"MDL_COMN_REDIS_LOCK_RETRIES" default:"20"`
	Host                    string  `envconfig:"MDL_COMN_REDIS_HOST" required:"true"`
	Port                    string  `envconfig:"MDL_COMN_REDIS_PORT" required:"true"`
	HASentinelPort          string  `envconfig:"MDL_COMN_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName    string  `envconfig:"MDL_COMN_REDIS_HA_MASTER_NAME" default:"mymaster"`
	Password                string  `envconfig:"MDL_COMN_REDIS_AUTH_PASSWORD" default:"0"`
	AuthRequired            bool    `envconfig:"MDL_COMN_REDIS_AUTH_REQUIRED" default:"false"`
	HAMode                  bool    `envconfig:"MDL_COMN_REDIS_HA_MODE" default:"false"`
	HASentinelSocketTimeout float32 `envconfig:"MDL_COMN_REDIS_SOCKET_TIMEOUT" default:"0.5"`
}

const maxRetries = 6

func ReadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

func (cfg Config) password() string {
	if !cfg.AuthRequired {
		return ""
	}
	return cfg.Password
}

func (cfg Config) lockExpiration() time.Duration {
	return time.Duration(cfg.LockExpirationSeconds) * time.Second
}

// universalClient talks to the sentinel managed master in HA mode and to a single
// node otherwise.
func (cfg Config) universalClient(db DB) redis.UniversalClient {
	if cfg.HAMode {
		timeout := time.Duration(float64(cfg.HASentinelSocketTimeout) * float64(time.Second))
		return redis.NewFailoverClusterClient(&redis.FailoverOptions{
			SentinelAddrs: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)},
			MasterName:    cfg.HASentinelMasterName,
			ReadTimeout:   timeout,
			WriteTimeout:  timeout,
			MaxRetries:    maxRetries,
			DB:            int(db),
			Password:      cfg.password(),
		})
	}
	return redis.NewClient(&redis.Options{
		Addr:       fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		MaxRetries: maxRetries,
		DB:         int(db),
		Password:   cfg.password(),
	})
}
