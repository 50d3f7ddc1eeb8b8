package mocks

import (
	"url-shrinker/internal/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockDatabaseManager returns whatever pool the test registered for GetPool, usually a pgxmock pool.
type MockDatabaseManager struct {
	mock.Mock
}

func (m *MockDatabaseManager) GetPool() interfaces.PgxPoolIface {
	args := m.Called()
	return args.Get(0).(interfaces.PgxPoolIface)
}
