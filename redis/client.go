package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
)

type DB int
type ReleaseLock func() error

type Config struct {
	LockExpirationSeconds   int     `envconfig:"VNX_COMN_REDIS_LOCK_EXPIRATION" default:"3"`
	Host                    string  `envconfig:"VNX_COMN_REDIS_HOST" required:"true"`
	Port                    string  `envconfig:"VNX_COMN_REDIS_PORT" required:"true"`
	HASentinelPort          string  `envconfig:"VNX_COMN_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName    string  `envconfig:"VNX_COMN_REDIS_HA_MASTER_NAME" default:"mymaster"`
	Password                string  `envconfig:"VNX_COMN_REDIS_AUTH_PASSWORD" default:"0"`
	AuthRequired            bool    `envconfig:"VNX_COMN_REDIS_AUTH_REQUIRED" default:"false"`
	HAMode                  bool    `envconfig:"VNX_COMN_REDIS_HA_MODE" default:"false"`
	HASentinelSocketTimeout float32 `envconfig:"VNX_COMN_REDIS_SOCKET_TIMEOUT" default:"0.5"`
}

// Client wraps one logical Redis database holding task records shared with
// the other services of the platform. Records are read and written as raw
// JSON maps so fields owned by other services survive our updates.
type Client struct {
	client         redis.UniversalClient
	lockExpiration time.Duration
}

var ctx = context.Background()

func NewClient(db DB) (Client, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Client{}, err
	}
	var client redis.UniversalClient
	if cfg.HAMode {
		client = createFailoverClient(&cfg, db)
	} else {
		client = createClient(&cfg, db)
	}
	return Client{
		client:         client,
		lockExpiration: time.Duration(cfg.LockExpirationSeconds) * time.Second,
	}, nil
}

func createFailoverClient(cfg *Config, db DB) *redis.ClusterClient {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)
	timeout := time.Duration(cfg.HASentinelSocketTimeout) * time.Second
	options := redis.FailoverOptions{
		SentinelAddrs: []string{addr},
		ReadTimeout:   timeout,
		WriteTimeout:  timeout,
		MaxRetries:    6,
		DB:            int(db),
		MasterName:    cfg.HASentinelMasterName,
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewFailoverClusterClient(&options)
}

func createClient(cfg *Config, db DB) *redis.Client {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	options := redis.Options{
		Addr:       addr,
		MaxRetries: 6,
		DB:         int(db),
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewClient(&options)
}

func (client *Client) GetRaw(redisKey string) (map[string]interface{}, error) {
	response := client.client.Get(ctx, redisKey)
	if response.Err() != nil {
		return nil, response.Err()
	}
	b, err := response.Bytes()
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("task record at %s is not a JSON object: %w", redisKey, err)
	}
	return raw, nil
}

func (client *Client) SaveRaw(redisKey string, raw map[string]interface{}) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return client.client.Set(ctx, redisKey, b, 0).Err()
}

// UpdateRaw applies updateFunc to the record under a distributed lock so
// concurrent writers from other services cannot lose fields.
func (client *Client) UpdateRaw(redisKey string, updateFunc func(raw map[string]interface{}) error) (err error) {
	releaseLock, err := client.Lock(redisKey)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := releaseLock(); err == nil {
			err = releaseErr
		}
	}()
	raw, err := client.GetRaw(redisKey)
	if err != nil {
		return err
	}
	if err = updateFunc(raw); err != nil {
		return err
	}
	return client.SaveRaw(redisKey, raw)
}

func (client *Client) Lock(redisKey string) (ReleaseLock, error) {
	locker := redislock.New(client.client)
	strategy := redislock.LimitRetry(redislock.LinearBackoff(time.Second), 20)
	lockKey := fmt.Sprintf("lock:%s", redisKey)
	lock, err := locker.Obtain(ctx, lockKey, client.lockExpiration, &redislock.Options{RetryStrategy: strategy})
	if err != nil {
		return nil, err
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

func (client *Client) Close() error {
	return client.client.Close()
}
