package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"videotube-api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestErrorHandlingMiddlewareKeepsApiError(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/boom", func(c *gin.Context) {
		c.Error(utils.NewApiError(http.StatusBadRequest, "Invalid videoId"))
		c.Abort()
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Invalid videoId", envelope["message"])
	assert.Equal(t, false, envelope["success"])
}

func TestErrorHandlingMiddlewareWrapsUnknownErrors(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/boom", func(c *gin.Context) {
		c.Error(errors.New("connection reset"))
		c.Abort()
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Internal Server Error", envelope["message"])
	assert.Equal(t, false, envelope["success"])
}

func TestErrorHandlingMiddlewareNoErrorPassthrough(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.NewApiResponse(http.StatusOK, nil, "ok"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])
}

func authRouter() *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.NewApiResponse(http.StatusOK, nil, "ok"))
	})
	return router
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Unauthorized request", envelope["message"])
}

func TestAuthMiddlewareMalformedBearerToken(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Invalid Access Token", envelope["message"])
}

func TestAuthMiddlewareMalformedCookieToken(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "not-a-jwt"})
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Invalid Access Token", envelope["message"])
}

func TestAuthMiddlewareRejectsNonObjectIDSubject(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "1h")

	token, err := utils.GenerateAccessToken("not-an-object-id")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Invalid Access Token", envelope["message"])
}
