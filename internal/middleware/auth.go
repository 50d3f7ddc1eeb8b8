package middleware

import (
	"errors"
	"net/http"

	"url-shrinker/internal/managers"
	"url-shrinker/internal/schemas"
	"url-shrinker/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthGate admits requests carrying a valid session cookie whose session is still open.
// The decoded *managers.SessionClaims are stored under utils.ClaimsKey.
func AuthGate(jwtMgr managers.JWTMgr, sessionMgr managers.SessionMgr, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			utils.AbortWithError(c, schemas.NoTokenFound, http.StatusUnauthorized, errors.New("session cookie missing"))
			return
		}

		claims, err := jwtMgr.ValidateSessionJWT(token)
		if err != nil {
			utils.AbortWithError(c, schemas.NoTokenFound, http.StatusForbidden, err)
			return
		}

		if err := sessionMgr.ValidateSession(c, claims.ID, claims.Subject); err != nil {
			if errors.Is(err, managers.ErrSessionNotFound) {
				utils.AbortWithError(c, schemas.SessionExpired, http.StatusUnauthorized, err)
				return
			}
			utils.AbortWithError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
			return
		}

		c.Set(utils.ClaimsKey.String(), claims)
		c.Next()
	}
}
