package utils

import (
	"url-shrinker/internal/schemas"

	"github.com/gin-gonic/gin"
)

// WriteAndLogResponse encodes the response object to JSON and writes it with the provided status code.
func WriteAndLogResponse(ctx *gin.Context, response interface{}, statusCode int) {
	LogMessageWithFields(ctx, "info", "Returning response")
	ctx.JSON(statusCode, response)
}

// WriteAndLogSuccess writes the success envelope with the given message.
func WriteAndLogSuccess(ctx *gin.Context, message string, statusCode int) {
	WriteAndLogResponse(ctx, &schemas.ResponseDTO{IsSuccess: true, Message: message}, statusCode)
}

// WriteAndLogError logs the provided error and sends an error envelope with the specified status code.
// The underlying error never reaches the client, only the catalog message does.
func WriteAndLogError(ctx *gin.Context, customErr *schemas.CustomError, statusCode int, err error) {
	LogMessageWithFieldsAndError(ctx, "error", "Error occurred", err)
	LogMessageWithFields(ctx, "error", "Returning "+customErr.Code+" / "+customErr.Message)
	ctx.JSON(statusCode, schemas.NewErrorDTO(customErr))
}

// AbortWithError is WriteAndLogError for middlewares, it stops the handler chain.
func AbortWithError(ctx *gin.Context, customErr *schemas.CustomError, statusCode int, err error) {
	WriteAndLogError(ctx, customErr, statusCode, err)
	ctx.Abort()
}
