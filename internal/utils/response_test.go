package utils

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApiResponseSuccessFlag(t *testing.T) {
	resp := NewApiResponse(http.StatusOK, "payload", "done")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "payload", resp.Data)
	assert.True(t, resp.Success)
}

func TestNewApiErrorDefaults(t *testing.T) {
	apiErr := NewApiError(http.StatusBadRequest, "")
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.False(t, apiErr.Success)
	assert.Nil(t, apiErr.Data)
}

func TestApiErrorImplementsError(t *testing.T) {
	var err error = NewApiError(http.StatusBadRequest, "Invalid videoId")
	assert.Equal(t, "Invalid videoId", err.Error())
}

func TestApiErrorEnvelopeShape(t *testing.T) {
	raw, err := json.Marshal(NewApiError(http.StatusUnauthorized, "Unauthorized request"))
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &envelope))

	assert.Equal(t, float64(401), envelope["statusCode"])
	assert.Equal(t, "Unauthorized request", envelope["message"])
	assert.Equal(t, false, envelope["success"])
	assert.Contains(t, envelope, "data")
	assert.Nil(t, envelope["data"])
}
