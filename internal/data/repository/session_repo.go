package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ticket-storefront/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// FindValidSession returns nil, nil for unknown, expired or revoked sessions.
	FindValidSession(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

const sessionKeyPrefix = "storefront:session:"

type redisSessionRepository struct {
	cli *redis.Client
	log *zap.Logger
	now func() time.Time
}

// NewRedisSessionRepository stores sessions as JSON values that expire with
// the session itself.
func NewRedisSessionRepository(cli *redis.Client, log *zap.Logger) SessionRepository {
	return &redisSessionRepository{
		cli: cli,
		log: log.With(zap.String("repository", "session")),
		now: time.Now,
	}
}

func (r *redisSessionRepository) key(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

func (r *redisSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := r.cli.Set(ctx, r.key(session.ID), payload, ttl).Err(); err != nil {
		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("user_id", session.UserID.String()),
		)
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *redisSessionRepository) FindValidSession(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	raw, err := r.cli.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid session",
			zap.Error(err),
			zap.String("session_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if !session.Active(r.now()) {
		return nil, nil
	}

	return &session, nil
}

// Revoke deletes the key; a revoked session is indistinguishable from an
// expired one.
func (r *redisSessionRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	n, err := r.cli.Del(ctx, r.key(id)).Result()
	if err != nil {
		r.log.Error("Failed to revoke session",
			zap.Error(err),
			zap.String("session_id", id.String()),
		)
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session not found or already revoked")
	}

	return nil
}

type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
	now      func() time.Time
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[uuid.UUID]*entity.Session),
		now:      time.Now,
	}
}

func (m *memorySessionRepository) Create(_ context.Context, session *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *session
	m.sessions[session.ID] = &stored
	m.evictExpired()
	return nil
}

func (m *memorySessionRepository) FindValidSession(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok || !session.Active(m.now()) {
		return nil, nil
	}
	out := *session
	return &out, nil
}

func (m *memorySessionRepository) Revoke(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok || session.RevokedAt != nil {
		return fmt.Errorf("session not found or already revoked")
	}
	now := m.now()
	session.RevokedAt = &now
	return nil
}

// evictExpired drops dead sessions; callers hold mu.
func (m *memorySessionRepository) evictExpired() {
	now := m.now()
	for id, s := range m.sessions {
		if !s.Active(now) {
			delete(m.sessions, id)
		}
	}
}
