package mocks

import (
	"context"

	"url-shrinker/internal/managers"
	"url-shrinker/internal/schemas"

	"github.com/stretchr/testify/mock"
)

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) Send(ctx context.Context, mail *managers.TransactionalMail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

func (m *MockMailManager) SendActivationMail(ctx context.Context, user *schemas.User, token string) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

func (m *MockMailManager) SendPasswordResetMail(ctx context.Context, user *schemas.User, code string) error {
	args := m.Called(ctx, user, code)
	return args.Error(0)
}
