package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"url-shrinker/internal/managers"
	"url-shrinker/internal/managers/mocks"
	"url-shrinker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumnNames = []string{"user_id", "first_name", "last_name", "email", "password", "is_admin", "activated", "fp_token", "expire_token", "created_at"}

// sequence hands out the given short ids in order.
func sequence(ids ...string) utils.ShortIdGenerator {
	return func() (string, error) {
		if len(ids) == 0 {
			return "", errors.New("generator exhausted")
		}
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}
}

func setupLinkHandler(t *testing.T, generator utils.ShortIdGenerator) (pgxmock.PgxPoolIface, *gin.Engine, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	poolMock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	databaseMgrMock := &mocks.MockDatabaseManager{}
	databaseMgrMock.On("GetPool").Return(poolMock)

	handler := &LinkHandler{
		DatabaseManager: databaseMgrMock,
		Validator:       utils.GetValidator(),
		GenerateShortId: generator,
		Location:        time.UTC,
		Now:             func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}

	userId := uuid.New()
	claims := &managers.SessionClaims{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	claims.Subject = userId.String()

	router := gin.New()
	router.POST("/shortUrls", func(c *gin.Context) {
		c.Set(utils.ClaimsKey.String(), claims)
		c.Next()
	}, handler.CreateLink)

	poolMock.ExpectQuery("SELECT .+ FROM users WHERE email = ").WithArgs("ada@example.com").
		WillReturnRows(pgxmock.NewRows(userColumnNames).
			AddRow(userId, "Ada", "Lovelace", "ada@example.com", "hash", false, true, "", int64(0), time.Now()))
	poolMock.ExpectQuery("SELECT .+ FROM urls WHERE user_id = ").WithArgs(userId, "https://example.com").
		WillReturnRows(pgxmock.NewRows([]string{"url_id", "full_url", "short_url", "clicks", "created_at", "user_id", "username"}))

	return poolMock, router, userId
}

func createLink(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/shortUrls", strings.NewReader(`{"fullUrl":"https://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func shortUrlTaken() error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "urls_short_url_key"}
}

func TestCreateLinkRetriesShortIdCollision(t *testing.T) {
	poolMock, router, userId := setupLinkHandler(t, sequence("taken", "free"))

	poolMock.ExpectExec("INSERT INTO urls").
		WithArgs(pgxmock.AnyArg(), "https://example.com", "taken", int64(0), pgxmock.AnyArg(), userId, "Lovelace, Ada").
		WillReturnError(shortUrlTaken())
	poolMock.ExpectExec("INSERT INTO urls").
		WithArgs(pgxmock.AnyArg(), "https://example.com", "free", int64(0), pgxmock.AnyArg(), userId, "Lovelace, Ada").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := createLink(router)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isSuccess":true,"message":"URL shrinked successfully"}`, rec.Body.String())
}

func TestCreateLinkGivesUpAfterRepeatedCollisions(t *testing.T) {
	poolMock, router, _ := setupLinkHandler(t, sequence("a", "b", "c", "d"))

	for i := 0; i < maxShortIdAttempts; i++ {
		poolMock.ExpectExec("INSERT INTO urls").WillReturnError(shortUrlTaken())
	}

	rec := createLink(router)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ERR-019"`)
}

func TestCreateLinkConcurrentDuplicate(t *testing.T) {
	poolMock, router, _ := setupLinkHandler(t, sequence("abc"))

	poolMock.ExpectExec("INSERT INTO urls").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "urls_user_full_url_key"})

	rec := createLink(router)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ERR-018"`)
}

func TestCreateLinkGeneratorFailure(t *testing.T) {
	_, router, _ := setupLinkHandler(t, sequence())

	rec := createLink(router)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ERR-019"`)
}
