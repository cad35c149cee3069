package model

import (
	"time"

	"github.com/google/uuid"
)

// Config stores the application configuration.
type Config struct {
	DiscordToken   string
	DatabaseURL    string
	RedisURL       string
	JobInterval    time.Duration
	ShardKey       uuid.UUID
	LogLevel       string
	LogWebhookURL  string
	KVCheckTimeout time.Duration
}
