package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"

	"videotube-api/internal/middleware"
	"videotube-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testUser() *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: "tester",
		Email:    "tester@example.com",
		FullName: "Test User",
	}
}

// newRouter builds a router with the error envelope middleware and, when a
// user is given, a stand-in for the auth guard that injects that caller.
func newRouter(user *models.User) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ErrorHandlingMiddleware())
	if user != nil {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.UserKey, user)
			c.Next()
		})
	}
	return router
}

func doJSON(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func envelope(t require.TestingT, w *httptest.ResponseRecorder) map[string]interface{} {
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return parsed
}
