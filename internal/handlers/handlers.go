package handlers

import (
	"net/http"

	"videotube-api/internal/middleware"
	"videotube-api/internal/models"
	"videotube-api/internal/utils"

	"github.com/gin-gonic/gin"
)

// abortWithError is the Go rendition of "throw new ApiError": the attached
// error is picked up by the error handling middleware, which writes the
// envelope.
func abortWithError(c *gin.Context, statusCode int, message string) {
	c.Error(utils.NewApiError(statusCode, message))
	c.Abort()
}

func respondOK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, utils.NewApiResponse(http.StatusOK, data, message))
}

// currentUser returns the caller resolved by the auth middleware. Routes that
// reach handlers using this are always behind AuthMiddleware.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(middleware.UserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
