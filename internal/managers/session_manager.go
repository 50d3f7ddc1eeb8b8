package managers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	sessionKeyPrefix  = "session:"
	redisDialTimeout  = 10 * time.Second
	memorySweepPeriod = time.Minute
)

// ErrSessionNotFound is returned for sessions that were never created, expired or were logged out.
var ErrSessionNotFound = errors.New("session not found")

// SessionMgr keeps the server side record of every logged in session.
type SessionMgr interface {
	CreateSession(ctx context.Context, userId string, ttl time.Duration) (string, error)
	ValidateSession(ctx context.Context, sessionId, userId string) error
	DeleteSession(ctx context.Context, sessionId string) error
}

// RedisSessionManager stores sessions as "session:<id>" keys holding the user id.
type RedisSessionManager struct {
	client redis.UniversalClient
}

// NewRedisClient parses redisURL and verifies connectivity via PING.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewRedisSessionManager(client redis.UniversalClient) SessionMgr {
	log.Info("Initializing redis session manager")
	return &RedisSessionManager{client: client}
}

func (sm *RedisSessionManager) CreateSession(ctx context.Context, userId string, ttl time.Duration) (string, error) {
	sessionId := uuid.New().String()
	if err := sm.client.Set(ctx, sessionKeyPrefix+sessionId, userId, ttl).Err(); err != nil {
		return "", err
	}
	return sessionId, nil
}

func (sm *RedisSessionManager) ValidateSession(ctx context.Context, sessionId, userId string) error {
	owner, err := sm.client.Get(ctx, sessionKeyPrefix+sessionId).Result()
	if errors.Is(err, redis.Nil) {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}
	if owner != userId {
		return ErrSessionNotFound
	}
	return nil
}

func (sm *RedisSessionManager) DeleteSession(ctx context.Context, sessionId string) error {
	return sm.client.Del(ctx, sessionKeyPrefix+sessionId).Err()
}

type memorySession struct {
	userId    string
	expiresAt time.Time
}

// MemorySessionManager keeps sessions in process. Used when no redis is configured.
type MemorySessionManager struct {
	mu        sync.Mutex
	sessions  map[string]memorySession
	now       func() time.Time
	lastSweep time.Time
}

func NewMemorySessionManager() SessionMgr {
	log.Info("Initializing in-memory session manager")
	return &MemorySessionManager{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (sm *MemorySessionManager) CreateSession(_ context.Context, userId string, ttl time.Duration) (string, error) {
	sessionId := uuid.New().String()

	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := sm.now()
	sm.sweep(now)
	sm.sessions[sessionId] = memorySession{userId: userId, expiresAt: now.Add(ttl)}
	return sessionId, nil
}

func (sm *MemorySessionManager) ValidateSession(_ context.Context, sessionId, userId string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[sessionId]
	if !ok || session.userId != userId {
		return ErrSessionNotFound
	}
	if !sm.now().Before(session.expiresAt) {
		delete(sm.sessions, sessionId)
		return ErrSessionNotFound
	}
	return nil
}

func (sm *MemorySessionManager) DeleteSession(_ context.Context, sessionId string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, sessionId)
	return nil
}

// sweep drops expired sessions, at most once per memorySweepPeriod. Callers hold mu.
func (sm *MemorySessionManager) sweep(now time.Time) {
	if now.Sub(sm.lastSweep) < memorySweepPeriod {
		return
	}
	sm.lastSweep = now

	for id, session := range sm.sessions {
		if !now.Before(session.expiresAt) {
			delete(sm.sessions, id)
		}
	}
}
