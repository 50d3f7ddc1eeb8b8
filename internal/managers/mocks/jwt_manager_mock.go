package mocks

import (
	"url-shrinker/internal/managers"
	"url-shrinker/internal/schemas"

	"github.com/stretchr/testify/mock"
)

// MockJWTManager is a testify mock of managers.JWTMgr.
type MockJWTManager struct {
	mock.Mock
}

func (m *MockJWTManager) GenerateSessionJWT(user *schemas.User, sessionId string) (string, error) {
	args := m.Called(user, sessionId)
	return args.String(0), args.Error(1)
}

func (m *MockJWTManager) ValidateSessionJWT(tokenString string) (*managers.SessionClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*managers.SessionClaims)
	return claims, args.Error(1)
}

func (m *MockJWTManager) GenerateActivationJWT(userId string) (string, error) {
	args := m.Called(userId)
	return args.String(0), args.Error(1)
}

func (m *MockJWTManager) ValidateActivationJWT(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}
