package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return ctx, rec
}

func newPoolMock(t *testing.T) pgxmock.PgxPoolIface {
	poolMock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
	return poolMock
}

func TestTransactionCommit(t *testing.T) {
	ctx, rec := newTestContext()
	poolMock := newPoolMock(t)
	poolMock.ExpectBegin()
	poolMock.ExpectCommit()

	var err error
	tx := BeginTransaction(ctx, poolMock)
	require.NotNil(t, tx)
	defer RollbackTransaction(ctx, tx, &err)

	err = CommitTransaction(ctx, tx)
	assert.NoError(t, err)
	assert.False(t, ctx.Writer.Written())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTransactionRollbackOnError(t *testing.T) {
	ctx, _ := newTestContext()
	poolMock := newPoolMock(t)
	poolMock.ExpectBegin()
	poolMock.ExpectRollback()

	func() {
		var err error
		tx := BeginTransaction(ctx, poolMock)
		require.NotNil(t, tx)
		defer RollbackTransaction(ctx, tx, &err)

		err = errors.New("insert failed")
	}()
}

func TestBeginTransactionFailure(t *testing.T) {
	ctx, rec := newTestContext()
	poolMock := newPoolMock(t)
	poolMock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	tx := BeginTransaction(ctx, poolMock)

	assert.Nil(t, tx)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ERR-025"`)
}

func TestCommitTransactionFailure(t *testing.T) {
	ctx, rec := newTestContext()
	poolMock := newPoolMock(t)
	poolMock.ExpectBegin()
	poolMock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	tx := BeginTransaction(ctx, poolMock)
	require.NotNil(t, tx)

	assert.Error(t, CommitTransaction(ctx, tx))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
