package managers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionLifecycle(t *testing.T) {
	sm := NewMemorySessionManager()
	ctx := context.Background()

	sessionId, err := sm.CreateSession(ctx, "user-1", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, sessionId)

	assert.NoError(t, sm.ValidateSession(ctx, sessionId, "user-1"))
	assert.ErrorIs(t, sm.ValidateSession(ctx, sessionId, "user-2"), ErrSessionNotFound)
	assert.ErrorIs(t, sm.ValidateSession(ctx, "unknown", "user-1"), ErrSessionNotFound)

	require.NoError(t, sm.DeleteSession(ctx, sessionId))
	assert.ErrorIs(t, sm.ValidateSession(ctx, sessionId, "user-1"), ErrSessionNotFound)

	// Deleting twice is not an error.
	assert.NoError(t, sm.DeleteSession(ctx, sessionId))
}

func TestMemorySessionExpires(t *testing.T) {
	sm := NewMemorySessionManager().(*MemorySessionManager)
	ctx := context.Background()
	now := time.Now()
	sm.now = func() time.Time { return now }

	sessionId, err := sm.CreateSession(ctx, "user-1", time.Hour)
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	assert.NoError(t, sm.ValidateSession(ctx, sessionId, "user-1"))

	now = now.Add(time.Minute)
	assert.ErrorIs(t, sm.ValidateSession(ctx, sessionId, "user-1"), ErrSessionNotFound)
}

func TestMemorySessionSweep(t *testing.T) {
	sm := NewMemorySessionManager().(*MemorySessionManager)
	ctx := context.Background()
	now := time.Now()
	sm.now = func() time.Time { return now }

	_, err := sm.CreateSession(ctx, "user-1", time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = sm.CreateSession(ctx, "user-2", time.Hour)
	require.NoError(t, err)

	assert.Len(t, sm.sessions, 1)
}

func TestMemorySessionConcurrentUse(t *testing.T) {
	sm := NewMemorySessionManager()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := sm.CreateSession(ctx, "user", time.Hour)
			assert.NoError(t, err)
			assert.NoError(t, sm.ValidateSession(ctx, id, "user"))
			assert.NoError(t, sm.DeleteSession(ctx, id))
		}()
	}
	wg.Wait()
}

func TestRedisSessionUnavailable(t *testing.T) {
	// Nothing listens on port 1, errors must not be mistaken for a missing session.
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })

	sm := NewRedisSessionManager(client)

	err := sm.ValidateSession(context.Background(), "session", "user")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)

	_, err = sm.CreateSession(context.Background(), "user", time.Hour)
	assert.Error(t, err)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}
