package redis

import (
	"text2phenotype.com/hmmtagger/utils/maps"
	"context"
	"errors"
	"fmt"
	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
	"time"
)

type DB int
type ReleaseLock func() error

var ErrNotFound = errors.New("document not found")

type Client struct {
	client         redis.UniversalClient
	locker         *redislock.Client
	lockExpiration time.Duration
	lockRetries    int
}

func NewClient(db DB) (Client, error) {
	cfg, err := ReadConfig()
	if err != nil {
		return Client{}, err
	}
	return NewClientWithConfig(cfg, db), nil
}

func NewClientWithConfig(cfg Config, db DB) Client {
	return newClient(cfg.universalClient(db), cfg.lockExpiration(), cfg.LockRetries)
}

func newClient(client redis.UniversalClient, lockExpiration time.Duration, lockRetries int) Client {
	return Client{
		client:         client,
		locker:         redislock.New(client),
		lockExpiration: lockExpiration,
		lockRetries:    lockRetries,
	}
}

func (client *Client) GetDocument(ctx context.Context, key string, doc maps.PartialDocument) error {
	raw, err := client.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if err = maps.Fill(doc, raw); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func (client *Client) SaveDocument(ctx context.Context, key string, doc maps.PartialDocument) error {
	raw, err := maps.Encode(doc)
	if err != nil {
		return err
	}
	return client.client.Set(ctx, key, raw, 0).Err()
}

// Lock blocks until it owns key's lock or the retries run out.
func (client *Client) Lock(ctx context.Context, key string) (ReleaseLock, error) {
	retry := redislock.LimitRetry(redislock.LinearBackoff(time.Second), client.lockRetries)
	lock, err := client.locker.Obtain(ctx, "lock:"+key, client.lockExpiration, &redislock.Options{RetryStrategy: retry})
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

func (client *Client) Close() error {
	return client.client.Close()
}

// Update reads key under its lock, applies update and writes the document back.
func Update[T maps.PartialDocument](ctx context.Context, client *Client, key string, doc T, update func(T)) (err error) {
	release, err := client.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		releaseErr := release()
		if err == nil {
			err = releaseErr
		}
	}()
	if err = client.GetDocument(ctx, key, doc); err != nil {
		return err
	}
	if err = maps.ApplyUpdates(doc, update); err != nil {
		return err
	}
	return client.SaveDocument(ctx, key, doc)
}
