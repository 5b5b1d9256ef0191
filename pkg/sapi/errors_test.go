package sapi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{
		Kind:       ErrorKindNotFound,
		Message:    "Actor was not found",
		StatusCode: 404,
	}

	assert.Equal(t, "not_found_error: Actor was not found (status: 404)", err.Error())
}

func TestAPIError_Error_NoStatus(t *testing.T) {
	err := &APIError{
		Kind:    ErrorKindNetwork,
		Message: "connection refused",
	}

	assert.Equal(t, "network_error: connection refused", err.Error())
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClassifyResponse_Kinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   ErrorKind
	}{
		{name: "400 bad request", status: 400, kind: ErrorKindValidation},
		{name: "422 unprocessable entity", status: 422, kind: ErrorKindValidation},
		{name: "401 unauthorized", status: 401, kind: ErrorKindAuthentication},
		{name: "403 forbidden", status: 403, kind: ErrorKindAuthorization},
		{name: "404 not found", status: 404, kind: ErrorKindNotFound},
		{name: "409 conflict", status: 409, kind: ErrorKindConflict},
		{name: "429 too many requests", status: 429, kind: ErrorKindRateLimit},
		{name: "504 gateway timeout", status: 504, kind: ErrorKindTimeout},
		{name: "402 payment required", status: 402, kind: ErrorKindClient},
		{name: "418 teapot", status: 418, kind: ErrorKindClient},
		{name: "500 internal error", status: 500, kind: ErrorKindServer},
		{name: "502 bad gateway", status: 502, kind: ErrorKindServer},
		{name: "503 unavailable", status: 503, kind: ErrorKindServer},
		{name: "599 unassigned", status: 599, kind: ErrorKindServer},
		{name: "300 out of range", status: 300, kind: ErrorKindUnknown},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := ClassifyResponse(testCase.status, nil)
			assert.Equal(t, testCase.kind, err.Kind)
			assert.Equal(t, testCase.status, err.StatusCode)
			assert.Equal(t, testCase.status, err.Details["status_code"])
		})
	}
}

func TestClassifyResponse_SameInputSameKind(t *testing.T) {
	body := []byte(`{"error":{"type":"record-not-found","message":"gone"}}`)

	first := ClassifyResponse(404, body)
	second := ClassifyResponse(404, body)

	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.Message, second.Message)
}

func TestClassifyResponse_MessageExtraction(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{
			name:     "nested error message",
			status:   404,
			body:     `{"error":{"type":"record-not-found","message":"Actor was not found"}}`,
			expected: "Actor was not found",
		},
		{
			name:     "top-level message",
			status:   400,
			body:     `{"message":"Field name is required"}`,
			expected: "Field name is required",
		},
		{
			name:     "empty body uses default",
			status:   404,
			body:     "",
			expected: "Resource not found",
		},
		{
			name:     "non-JSON body uses default",
			status:   429,
			body:     "<html>too many requests</html>",
			expected: "Rate limit exceeded",
		},
		{
			name:     "empty object uses default",
			status:   401,
			body:     `{}`,
			expected: "Authentication token is missing or invalid",
		},
		{
			name:     "string-wrapped envelope",
			status:   500,
			body:     `"{\"error\":{\"type\":\"internal\",\"message\":\"boom\"}}"`,
			expected: "boom",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := ClassifyResponse(testCase.status, []byte(testCase.body))
			assert.Equal(t, testCase.expected, err.Message)
		})
	}
}

func TestClassifyResponse_ErrorType(t *testing.T) {
	err := ClassifyResponse(404, []byte(`{"error":{"type":"record-not-found","message":"gone"}}`))
	assert.Equal(t, "record-not-found", err.Details["type"])
}

// timeoutError mimics a net.Error timeout.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyTransport(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ClassifyTransport(nil))
	})

	t.Run("timeout", func(t *testing.T) {
		err := ClassifyTransport(timeoutError{})
		assert.Equal(t, ErrorKindTimeout, err.Kind)
	})

	t.Run("wrapped timeout", func(t *testing.T) {
		err := ClassifyTransport(fmt.Errorf("during request: %w", timeoutError{}))
		assert.Equal(t, ErrorKindTimeout, err.Kind)
	})

	t.Run("connection failure", func(t *testing.T) {
		err := ClassifyTransport(errors.New("connection refused"))
		assert.Equal(t, ErrorKindNetwork, err.Kind)
		assert.Equal(t, "connection refused", err.Message)
	})
}

func TestNewStreamError(t *testing.T) {
	err := NewStreamError(errors.New("unexpected EOF"))
	assert.Equal(t, ErrorKindStream, err.Kind)
	assert.Equal(t, "unexpected EOF", err.Message)
}

func TestNewFileError(t *testing.T) {
	err := NewFileError(errors.New("permission denied"))
	assert.Equal(t, ErrorKindFile, err.Kind)
}

func TestKindHelpers(t *testing.T) {
	notFound := ClassifyResponse(404, nil)
	require.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(ClassifyResponse(500, nil)))

	assert.True(t, IsAuthentication(ClassifyResponse(401, nil)))
	assert.True(t, IsAuthorization(ClassifyResponse(403, nil)))
	assert.True(t, IsRateLimit(ClassifyResponse(429, nil)))
	assert.True(t, IsTimeout(ClassifyResponse(504, nil)))
	assert.True(t, IsValidation(ClassifyResponse(422, nil)))
	assert.True(t, IsConflict(ClassifyResponse(409, nil)))
	assert.True(t, IsNetwork(ClassifyTransport(errors.New("reset"))))
	assert.True(t, IsStream(NewStreamError(errors.New("dead"))))

	// Helpers see through wrapping.
	wrapped := fmt.Errorf("getting actor: %w", notFound)
	assert.True(t, IsNotFound(wrapped))

	// Plain errors carry no kind.
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}
