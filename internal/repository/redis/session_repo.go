package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"tedred-internship-api/internal/domain"
)

const keyPrefix = "wizard:session:"

type sessionRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewSessionRepository stores sessions as JSON under wizard:session:{id}.
// Every write refreshes the TTL.
func NewSessionRepository(client *goredis.Client, ttl time.Duration) domain.SessionRepository {
	return &sessionRepo{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func (r *sessionRepo) Create(ctx context.Context, s *domain.WizardSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	ok, err := r.client.SetNX(ctx, sessionKey(s.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if !ok {
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*domain.WizardSession, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decode(raw)
}

// Save is optimistic: WATCH the key, compare versions, then write in MULTI
func (r *sessionRepo) Save(ctx context.Context, s *domain.WizardSession) error {
	key := sessionKey(s.ID)

	next := s.Clone()
	next.Version = s.Version + 1
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	err = r.client.Watch(ctx, func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		var stored struct {
			Version int64 `json:"version"`
		}
		if err := json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("failed to decode session: %w", err)
		}
		if stored.Version != s.Version {
			return domain.ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		s.Version = next.Version
		return nil
	case errors.Is(err, goredis.TxFailedErr):
		return domain.ErrVersionConflict
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrVersionConflict):
		return err
	default:
		return fmt.Errorf("failed to save session: %w", err)
	}
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func decode(raw []byte) (*domain.WizardSession, error) {
	var s domain.WizardSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if s.Touched == nil {
		s.Touched = map[string]bool{}
	}
	return &s, nil
}
