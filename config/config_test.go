package config

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reminder-bot/model"
)

func TestLoad_TOMLFile(t *testing.T) {
	cfg, err := Load("testdata/basic_config.toml")
	require.NoError(t, err)

	assert.Equal(t, "111", cfg.DiscordToken)
	assert.Equal(t, "sqlite://:memory:", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost", cfg.RedisURL)
	assert.Equal(t, 2*time.Minute, cfg.JobInterval)
	assert.Equal(t, uuid.MustParse("6f1c2b0e-8a44-4d8e-9d43-3f4b6b1a2c11"), cfg.ShardKey)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.KVCheckTimeout)
}

func TestLoad_YAMLFileWithDaySuffix(t *testing.T) {
	cfg, err := Load("testdata/basic_config.yaml")
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.JobInterval)
	assert.NotEqual(t, uuid.Nil, cfg.ShardKey)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("REMINDER_DISCORD_TOKEN", "222")
	t.Setenv("REMINDER_JOB_INTERVAL", "30s")

	cfg, err := Load("testdata/basic_config.toml")
	require.NoError(t, err)

	assert.Equal(t, "222", cfg.DiscordToken)
	assert.Equal(t, 30*time.Second, cfg.JobInterval)
	assert.Equal(t, "sqlite://:memory:", cfg.DatabaseURL)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("REMINDER_DISCORD_TOKEN", "333")
	t.Setenv("REMINDER_DATABASE_URL", "sqlite://data/reminders.db")
	t.Setenv("REMINDER_REDIS_URL", "redis://cache:6379/1")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "333", cfg.DiscordToken)
	assert.Equal(t, time.Minute, cfg.JobInterval)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		path string
	}{
		{name: "missing file", path: "testdata/nope.toml"},
		{name: "missing token", env: map[string]string{
			"REMINDER_DATABASE_URL": "sqlite://:memory:",
			"REMINDER_REDIS_URL":    "redis://localhost",
		}},
		{name: "bad interval", path: "testdata/basic_config.toml", env: map[string]string{"REMINDER_JOB_INTERVAL": "soon"}},
		{name: "zero interval", path: "testdata/basic_config.toml", env: map[string]string{"REMINDER_JOB_INTERVAL": "0s"}},
		{name: "bad shard key", path: "testdata/basic_config.toml", env: map[string]string{"REMINDER_SHARD_KEY": "shard-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.path)
			assert.ErrorIs(t, err, model.ErrConfiguration)
		})
	}
}
