package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "finpilot/internal/errors"
)

// ErrorHandler renders the last error attached to the context with c.Error
// when no handler has written a response yet.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		WriteError(c, c.Errors.Last().Err)
	}
}

// WriteError renders err as {"error":{"code","message"}}. AppErrors keep their
// status, code and message; anything else becomes INTERNAL_ERROR. Internal
// causes are logged with the request id and never sent to the client.
func WriteError(c *gin.Context, err error) {
	appErr := toAppError(c, err)
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{"code": appErr.Code, "message": appErr.Message},
	})
}

// AbortWithError renders err like WriteError and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	appErr := toAppError(c, err)
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{"code": appErr.Code, "message": appErr.Message},
	})
}

func toAppError(c *gin.Context, err error) *apperrors.AppError {
	log := RequestLogger(c)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			log.Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		return appErr
	}

	log.Errorw("unexpected error",
		"error", err.Error(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
	return apperrors.ErrInternalServer
}
