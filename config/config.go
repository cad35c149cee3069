package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"reminder-bot/kv"
	"reminder-bot/model"
	"reminder-bot/utils"
)

// EnvPrefix prefixes every environment variable the bot reads.
const EnvPrefix = "REMINDER"

// Load builds the configuration from the environment and, when path is not
// empty, a TOML or YAML file. Environment variables win over the file.
func Load(path string) (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on environment variables")
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("job_interval", "1m")
	v.SetDefault("log_level", "info")
	v.SetDefault("kv_check_timeout", kv.DefaultCheckTimeout.String())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: error reading config file %s: %v", model.ErrConfiguration, path, err)
		}
	}

	cfg := &model.Config{
		DiscordToken:  v.GetString("discord_token"),
		DatabaseURL:   v.GetString("database_url"),
		RedisURL:      v.GetString("redis_url"),
		LogLevel:      v.GetString("log_level"),
		LogWebhookURL: v.GetString("log_webhook_url"),
	}

	for key, value := range map[string]string{
		"discord_token": cfg.DiscordToken,
		"database_url":  cfg.DatabaseURL,
		"redis_url":     cfg.RedisURL,
	} {
		if value == "" {
			return nil, fmt.Errorf("%w: %s is not set (env %s_%s)", model.ErrConfiguration, key, EnvPrefix, strings.ToUpper(key))
		}
	}

	var err error
	if cfg.JobInterval, err = utils.ParseDuration(v.GetString("job_interval")); err != nil {
		return nil, fmt.Errorf("%w: invalid job_interval: %v", model.ErrConfiguration, err)
	}
	if cfg.JobInterval <= 0 {
		return nil, fmt.Errorf("%w: job_interval must be positive", model.ErrConfiguration)
	}
	if cfg.KVCheckTimeout, err = time.ParseDuration(v.GetString("kv_check_timeout")); err != nil {
		return nil, fmt.Errorf("%w: invalid kv_check_timeout: %v", model.ErrConfiguration, err)
	}

	if raw := v.GetString("shard_key"); raw != "" {
		if cfg.ShardKey, err = uuid.Parse(raw); err != nil {
			return nil, fmt.Errorf("%w: invalid shard_key: %v", model.ErrConfiguration, err)
		}
	} else {
		cfg.ShardKey = uuid.New()
		log.Warn().Str("shard_key", cfg.ShardKey.String()).Msg("no shard_key configured, run-state will not survive a restart")
	}

	return cfg, nil
}
