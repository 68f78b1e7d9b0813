package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andywolf/orcaspine/internal/state"
	"github.com/redis/go-redis/v9"
)

// ErrConcurrentWrite is returned by RedisStore.Save when the document
// currently stored under the key carries a version greater than or
// equal to the one being saved - evidence that another process (outside
// this one) wrote a newer snapshot first. The façade surfaces this as a
// PersistenceFailure and rolls its in-memory snapshot back, exactly as
// it does for any other store error.
var ErrConcurrentWrite = errors.New("store: concurrent writer detected")

const redisSaveRetries = 5

// RedisStore persists ProjectState as a single JSON value under one
// key. It exists for deployments that already run Redis for the
// dashboard's live-reload fan-out and would rather not add a bare file
// to the same host. Unlike FileStore, whose single os.File is the only
// writer by construction, a Redis key can be written by more than one
// process, so Save is guarded: the very first write uses SETNX so two
// processes racing to create the key can't both "win", and every
// subsequent write is wrapped in a WATCH/MULTI transaction that aborts
// if the stored document's version has moved past the version being
// saved, so a stale writer is rejected rather than silently clobbering
// a newer snapshot.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore returns a RedisStore persisting ProjectState under key.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Load(ctx context.Context) (*state.ProjectState, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: redis get %s: %w", r.key, err)
	}

	if err := validateStateDocument(data); err != nil {
		return nil, err
	}

	var s state.ProjectState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("store: parse state value: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *state.ProjectState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("store: marshal state: %w", err)
	}

	txFn := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, r.key).Bytes()
		if err == redis.Nil {
			_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.SetNX(ctx, r.key, data, 0)
				return nil
			})
			return err
		}
		if err != nil {
			return fmt.Errorf("store: redis get %s: %w", r.key, err)
		}

		var stored state.ProjectState
		if err := json.Unmarshal(current, &stored); err != nil {
			return fmt.Errorf("store: parse stored state value: %w", err)
		}
		if stored.Version >= s.Version {
			return fmt.Errorf("%w: stored version %d, saving version %d", ErrConcurrentWrite, stored.Version, s.Version)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, data, 0)
			return nil
		})
		return err
	}

	var lastErr error
	for attempt := 0; attempt < redisSaveRetries; attempt++ {
		lastErr = r.client.Watch(ctx, txFn, r.key)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, ErrConcurrentWrite) {
			return lastErr
		}
		if !errors.Is(lastErr, redis.TxFailedErr) {
			return fmt.Errorf("store: redis set %s: %w", r.key, lastErr)
		}
		// Another writer's transaction landed between our GET and SET;
		// retry against whatever is now stored.
	}
	return fmt.Errorf("store: redis set %s: %w after %d retries", r.key, lastErr, redisSaveRetries)
}
