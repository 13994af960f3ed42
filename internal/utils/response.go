package utils

import "net/http"

// ApiResponse is the envelope every successful handler terminates with.
type ApiResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func NewApiResponse(statusCode int, data interface{}, message string) *ApiResponse {
	return &ApiResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < http.StatusBadRequest,
	}
}

// ApiError is the envelope for failures. It implements error so handlers can
// hand it to gin's error list and let the error middleware respond.
type ApiError struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Errors     []string    `json:"errors"`
	Success    bool        `json:"success"`
}

func NewApiError(statusCode int, message string, errs ...string) *ApiError {
	if message == "" {
		message = "Something went wrong"
	}
	return &ApiError{
		StatusCode: statusCode,
		Data:       nil,
		Message:    message,
		Errors:     errs,
		Success:    false,
	}
}

func (e *ApiError) Error() string {
	return e.Message
}
