package middleware

import (
	"net/http"

	"url-shrinker/internal/schemas"
	"url-shrinker/internal/utils"

	"github.com/gin-gonic/gin"
)

// ValidateAndSanitizeStruct binds the JSON body into a fresh T per request, sanitizes and validates it.
// The handler reads the result from the context under utils.SanitizedPayloadKey as *T.
func ValidateAndSanitizeStruct[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		obj := new(T)
		if err := c.ShouldBindJSON(obj); err != nil {
			utils.AbortWithError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}

		validator := utils.GetValidator()
		if err := validator.SanitizeData(obj); err != nil {
			utils.AbortWithError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}

		if err := validator.Validate.Struct(obj); err != nil {
			utils.AbortWithError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}

		c.Set(utils.SanitizedPayloadKey.String(), obj)
		c.Next()
	}
}
