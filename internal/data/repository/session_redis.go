package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"order-upload/internal/data/entity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisSessionPrefix = "order-upload:session:"

type redisSessionStore struct {
	rdb *redis.Client
	log *zap.Logger
	now func() time.Time
}

// NewRedisSessionStore keeps sessions as JSON values that expire with the session.
func NewRedisSessionStore(rdb *redis.Client, log *zap.Logger) SessionStore {
	return &redisSessionStore{
		rdb: rdb,
		log: log.With(zap.String("repository", "session_redis")),
		now: time.Now,
	}
}

func sessionKey(token string) string { return redisSessionPrefix + token }

func (s *redisSessionStore) Create(ctx context.Context, session *entity.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("create session: already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.rdb.Set(ctx, sessionKey(session.Token.String()), data, ttl).Err(); err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.Int64("user_id", session.UserID))
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("find session: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if !session.Valid(s.now()) {
		return nil, nil
	}
	return &session, nil
}

func (s *redisSessionStore) Revoke(ctx context.Context, token string) error {
	n, err := s.rdb.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("revoke session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// CleanExpiredSessions is a no-op: redis expires keys on its own.
func (s *redisSessionStore) CleanExpiredSessions(ctx context.Context) error {
	return nil
}
