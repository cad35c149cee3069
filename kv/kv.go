// Package kv is the key-value store used for scheduler run-state and guild
// settings. Every record derives its own key; writes are last-writer-wins.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"reminder-bot/model"
)

// DefaultCheckTimeout bounds ConnectionCheck when no timeout is configured.
const DefaultCheckTimeout = 15 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Identifiable marks a record that knows its own key in the store.
type Identifiable interface {
	KVKey() string
}

// Client is a small typed layer over a redis client. It is safe for
// concurrent use; the underlying pool is shared by every caller.
type Client struct {
	rdb          *redis.Client
	CheckTimeout time.Duration
}

// New creates a client from a redis:// URL. No connection is made until the
// first command.
func New(url string) (*Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redis url: %v", model.ErrConfiguration, err)
	}
	opt.ReadTimeout = 5 * time.Second
	opt.WriteTimeout = 5 * time.Second

	return NewWithClient(redis.NewClient(opt)), nil
}

// NewWithClient wraps an existing redis client.
func NewWithClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb, CheckTimeout: DefaultCheckTimeout}
}

// Save stores a raw scalar value under the record's key.
func (c *Client) Save(ctx context.Context, record Identifiable, value any) error {
	key := record.KVKey()
	log.Trace().Str("save_key", key).Msg("saving a record to the kv store")

	if err := c.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		log.Error().Err(err).Str("save_key", key).Msg("error saving value to kv store")
		return fmt.Errorf("%w: set %s: %v", model.ErrStorage, key, err)
	}
	return nil
}

// SaveJSON stores the record as JSON under its own key, replacing any
// previous value.
func (c *Client) SaveJSON(ctx context.Context, record Identifiable) error {
	key := record.KVKey()
	log.Trace().Str("save_key", key).Interface("record", record).Msg("saving a record to the kv store in json mode")

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := c.rdb.Set(ctx, key, payload, 0).Err(); err != nil {
		log.Error().Err(err).Str("save_key", key).Msg("error saving value to kv store")
		return fmt.Errorf("%w: set %s: %v", model.ErrStorage, key, err)
	}
	return nil
}

// GetJSON loads the record stored under template's key. A missing key yields
// (nil, nil); a value that does not decode into T is an error.
func GetJSON[T Identifiable](ctx context.Context, c *Client, template T) (*T, error) {
	key := template.KVKey()
	log.Trace().Str("object_key", key).Msg("retrieving a record from the kv store")

	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: exists %s: %v", model.ErrStorage, key, err)
	}
	if n == 0 {
		return nil, nil
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		// deleted between EXISTS and GET
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", model.ErrStorage, key, err)
	}

	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: malformed value at %s: %v", model.ErrStorage, key, err)
	}
	return &record, nil
}

// ConnectionCheck succeeds if a dedicated connection can be obtained and
// answers a PING within CheckTimeout.
func (c *Client) ConnectionCheck(ctx context.Context) error {
	timeout := c.CheckTimeout
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn := c.rdb.Conn()
	defer conn.Close()

	if err := conn.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: could not open connection: %v", model.ErrStorage, err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
