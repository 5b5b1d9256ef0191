package sapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind identifies the category of an API failure. The set is closed:
// every error returned by the client carries exactly one of these kinds,
// assigned once by the classifier and never rewritten by upper layers.
type ErrorKind string

const (
	ErrorKindClient         ErrorKind = "client_error"
	ErrorKindServer         ErrorKind = "server_error"
	ErrorKindNetwork        ErrorKind = "network_error"
	ErrorKindRateLimit      ErrorKind = "rate_limit_error"
	ErrorKindAuthentication ErrorKind = "authentication_error"
	ErrorKindAuthorization  ErrorKind = "authorization_error"
	ErrorKindNotFound       ErrorKind = "not_found_error"
	ErrorKindValidation     ErrorKind = "validation_error"
	ErrorKindConflict       ErrorKind = "conflict_error"
	ErrorKindTimeout        ErrorKind = "timeout_error"
	ErrorKindStream         ErrorKind = "stream_error"
	ErrorKindFile           ErrorKind = "file_error"
	ErrorKindUnknown        ErrorKind = "unknown_error"
)

// APIError represents a classified error from the ScrapeWorks API.
type APIError struct {
	Kind       ErrorKind              `json:"kind"                  yaml:"kind"`
	Message    string                 `json:"message"               yaml:"message"`
	StatusCode int                    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"     yaml:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status: %d)", e.Kind, e.Message, e.StatusCode)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// errorEnvelope is the wire shape of API error bodies. The nested form
// {"error": {"type": ..., "message": ...}} is preferred; some endpoints
// return a bare {"message": ...} instead.
type errorEnvelope struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// Default message phrases used when the response body carries no usable
// error message.
const (
	defaultMsgValidation     = "Request validation failed"
	defaultMsgAuthentication = "Authentication token is missing or invalid"
	defaultMsgAuthorization  = "Insufficient permissions"
	defaultMsgNotFound       = "Resource not found"
	defaultMsgConflict       = "Resource conflict"
	defaultMsgRateLimit      = "Rate limit exceeded"
	defaultMsgTimeout        = "Request timed out"
	defaultMsgClient         = "Request failed"
	defaultMsgServer         = "Server error"
	defaultMsgUnknown        = "Unknown error"
)

// kindForStatus maps a status code to an error kind: exact matches first,
// then range-based fallback.
func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrorKindValidation
	case http.StatusUnauthorized:
		return ErrorKindAuthentication
	case http.StatusForbidden:
		return ErrorKindAuthorization
	case http.StatusNotFound:
		return ErrorKindNotFound
	case http.StatusConflict:
		return ErrorKindConflict
	case http.StatusTooManyRequests:
		return ErrorKindRateLimit
	case http.StatusGatewayTimeout:
		return ErrorKindTimeout
	}

	switch {
	case status >= 400 && status < 500:
		return ErrorKindClient
	case status >= 500 && status < 600:
		return ErrorKindServer
	default:
		return ErrorKindUnknown
	}
}

// defaultMessageForKind returns the fallback phrase for a kind.
func defaultMessageForKind(kind ErrorKind) string {
	switch kind {
	case ErrorKindValidation:
		return defaultMsgValidation
	case ErrorKindAuthentication:
		return defaultMsgAuthentication
	case ErrorKindAuthorization:
		return defaultMsgAuthorization
	case ErrorKindNotFound:
		return defaultMsgNotFound
	case ErrorKindConflict:
		return defaultMsgConflict
	case ErrorKindRateLimit:
		return defaultMsgRateLimit
	case ErrorKindTimeout:
		return defaultMsgTimeout
	case ErrorKindClient:
		return defaultMsgClient
	case ErrorKindServer:
		return defaultMsgServer
	case ErrorKindNetwork, ErrorKindStream, ErrorKindFile, ErrorKindUnknown:
		return defaultMsgUnknown
	default:
		return defaultMsgUnknown
	}
}

// extractMessage pulls an error message out of a response body. Preference
// order: nested error.message, top-level message, default phrase for the
// kind. Bodies that are not valid JSON fall back to the raw text only when
// the kind has no default phrase, which never happens for classified
// statuses, so in practice the default wins over garbage bodies.
func extractMessage(body []byte, kind ErrorKind) string {
	fallback := defaultMessageForKind(kind)
	if len(body) == 0 {
		return fallback
	}

	var envelope errorEnvelope

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		// Some proxies return a bare JSON string; decode it and retry.
		var raw string
		if json.Unmarshal(body, &raw) == nil && raw != "" {
			var inner errorEnvelope
			if json.Unmarshal([]byte(raw), &inner) == nil {
				envelope = inner
			} else {
				return raw
			}
		} else {
			return fallback
		}
	}

	if envelope.Error != nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}

	if envelope.Message != "" {
		return envelope.Message
	}

	return fallback
}

// ClassifyResponse maps a completed HTTP response to a typed APIError.
// The mapping is exhaustive and deterministic: the same (status, body) pair
// always yields the same kind.
func ClassifyResponse(status int, body []byte) *APIError {
	kind := kindForStatus(status)

	apiErr := &APIError{
		Kind:       kind,
		Message:    extractMessage(body, kind),
		StatusCode: status,
		Details:    map[string]interface{}{"status_code": status},
	}

	var envelope errorEnvelope
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil && envelope.Error.Type != "" {
		apiErr.Details["type"] = envelope.Error.Type
	}

	return apiErr
}

// ClassifyTransport maps a transport-level failure (no response received)
// to a typed APIError. Timeouts are distinguished from other network
// failures.
func ClassifyTransport(err error) *APIError {
	if err == nil {
		return nil
	}

	kind := ErrorKindNetwork

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		kind = ErrorKindTimeout
	}

	return &APIError{
		Kind:    kind,
		Message: err.Error(),
		Details: map[string]interface{}{},
	}
}

// NewStreamError builds a stream_error for failures that occur after at
// least one chunk or page was already delivered.
func NewStreamError(cause error) *APIError {
	return &APIError{
		Kind:    ErrorKindStream,
		Message: cause.Error(),
		Details: map[string]interface{}{},
	}
}

// NewFileError builds a file_error for local filesystem failures during
// record downloads or uploads.
func NewFileError(cause error) *APIError {
	return &APIError{
		Kind:    ErrorKindFile,
		Message: cause.Error(),
		Details: map[string]interface{}{},
	}
}

// kindOf extracts the ErrorKind from any error in the chain, or empty.
func kindOf(err error) ErrorKind {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return ""
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return kindOf(err) == ErrorKindNotFound
}

// IsAuthentication checks if the error is an authentication error.
func IsAuthentication(err error) bool {
	return kindOf(err) == ErrorKindAuthentication
}

// IsAuthorization checks if the error is an authorization error.
func IsAuthorization(err error) bool {
	return kindOf(err) == ErrorKindAuthorization
}

// IsRateLimit checks if the error is a rate limit error.
func IsRateLimit(err error) bool {
	return kindOf(err) == ErrorKindRateLimit
}

// IsTimeout checks if the error is a timeout error.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrorKindTimeout
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return kindOf(err) == ErrorKindValidation
}

// IsConflict checks if the error is a conflict error.
func IsConflict(err error) bool {
	return kindOf(err) == ErrorKindConflict
}

// IsNetwork checks if the error is a network error.
func IsNetwork(err error) bool {
	return kindOf(err) == ErrorKindNetwork
}

// IsStream checks if the error is a mid-stream failure.
func IsStream(err error) bool {
	return kindOf(err) == ErrorKindStream
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrAPIEndpointRequired  = errors.New("API endpoint is required")
	ErrNoMoreItems          = errors.New("no more items")
	ErrStreamClosed         = errors.New("stream already consumed or closed")
	ErrRunFailed            = errors.New("run failed")
	ErrRunAborted           = errors.New("run aborted")
	ErrRunTimedOut          = errors.New("run timed out")
	ErrCircuitBreakerOpen   = errors.New("circuit breaker is open")
	ErrActorNameRequired    = errors.New("actor name is required")
	ErrDatasetNameRequired  = errors.New("dataset name is required")
	ErrStoreNameRequired    = errors.New("key-value store name is required")
	ErrQueueNameRequired    = errors.New("request queue name is required")
	ErrScheduleCronRequired = errors.New("schedule cron expression is required")
	ErrWebhookURLRequired   = errors.New("webhook request URL is required")
	ErrRecordKeyRequired    = errors.New("record key is required")
	ErrNoTokenInEnvironment = errors.New("no token found in environment")
)
