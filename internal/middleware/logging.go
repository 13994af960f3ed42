package middleware

import (
	"errors"
	"net/http"
	"time"

	"videotube-api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)

		logrus.Infof("[%s] %s %s %d %v",
			c.Request.Method,
			c.Request.URL.Path,
			c.ClientIP(),
			c.Writer.Status(),
			duration,
		)
	}
}

// ErrorHandlingMiddleware is the single catch point for handler failures.
// An *ApiError keeps its status and message; anything else becomes a 500.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var apiErr *utils.ApiError
		if !errors.As(err, &apiErr) {
			logrus.Errorf("Unhandled error in %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			apiErr = utils.NewApiError(http.StatusInternalServerError, "Internal Server Error")
		}

		c.JSON(apiErr.StatusCode, apiErr)
	}
}
