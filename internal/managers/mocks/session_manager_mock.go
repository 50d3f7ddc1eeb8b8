package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) CreateSession(ctx context.Context, userId string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, userId, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockSessionManager) ValidateSession(ctx context.Context, sessionId, userId string) error {
	args := m.Called(ctx, sessionId, userId)
	return args.Error(0)
}

func (m *MockSessionManager) DeleteSession(ctx context.Context, sessionId string) error {
	args := m.Called(ctx, sessionId)
	return args.Error(0)
}
