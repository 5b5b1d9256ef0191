package sapi_test

import (
	"context"
	"testing"
	"time"

	"github.com/scrapeworks-io/sapi/pkg/sapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterceptorChain_RequestInterceptors(t *testing.T) {
	t.Parallel()

	chain := sapi.NewInterceptorChain()
	ctx := context.Background()

	var executionOrder []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *sapi.InterceptedRequest) error {
		executionOrder = append(executionOrder, "first")

		return nil
	})

	chain.AddRequestInterceptor(func(ctx context.Context, req *sapi.InterceptedRequest) error {
		executionOrder = append(executionOrder, "second")

		return nil
	})

	req := &sapi.InterceptedRequest{
		Method: "GET",
		Path:   "/v2/acts",
	}

	err := chain.ExecuteRequestInterceptors(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestInterceptorChain_ResponseInterceptors(t *testing.T) {
	t.Parallel()

	chain := sapi.NewInterceptorChain()
	ctx := context.Background()

	var executionOrder []string

	chain.AddResponseInterceptor(func(ctx context.Context, req *sapi.InterceptedRequest, resp *sapi.InterceptedResponse) error {
		executionOrder = append(executionOrder, "first")

		return nil
	})

	chain.AddResponseInterceptor(func(ctx context.Context, req *sapi.InterceptedRequest, resp *sapi.InterceptedResponse) error {
		executionOrder = append(executionOrder, "second")

		return nil
	})

	req := &sapi.InterceptedRequest{
		Method: "GET",
		Path:   "/v2/acts",
	}
	resp := &sapi.InterceptedResponse{
		StatusCode: 200,
	}

	err := chain.ExecuteResponseInterceptors(ctx, req, resp)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestInterceptorChain_RequestInterceptorError(t *testing.T) {
	t.Parallel()

	chain := sapi.NewInterceptorChain()

	chain.AddRequestInterceptor(func(ctx context.Context, req *sapi.InterceptedRequest) error {
		return sapi.ErrCircuitBreakerOpen
	})

	var secondCalled bool

	chain.AddRequestInterceptor(func(ctx context.Context, req *sapi.InterceptedRequest) error {
		secondCalled = true

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &sapi.InterceptedRequest{})
	require.Error(t, err)
	require.ErrorIs(t, err, sapi.ErrCircuitBreakerOpen)
	assert.False(t, secondCalled)
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	headers := map[string]string{
		"X-Custom-Header": "custom-value",
		"X-Request-ID":    "123456",
	}

	interceptor := sapi.HeaderInterceptor(headers)
	req := &sapi.InterceptedRequest{
		Method: "GET",
		Path:   "/v2/acts",
	}

	err := interceptor(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "custom-value", req.Headers.Get("X-Custom-Header"))
	assert.Equal(t, "123456", req.Headers.Get("X-Request-ID"))
}

func TestRateLimitInterceptor(t *testing.T) {
	t.Parallel()
	t.Run("allows requests within budget", func(t *testing.T) {
		t.Parallel()

		interceptor := sapi.RateLimitInterceptor(10)
		req := &sapi.InterceptedRequest{Method: "GET", Path: "/v2/acts"}

		for i := 0; i < 10; i++ {
			require.NoError(t, interceptor(context.Background(), req))
		}
	})

	t.Run("respects context cancellation while waiting", func(t *testing.T) {
		t.Parallel()

		interceptor := sapi.RateLimitInterceptor(1)
		req := &sapi.InterceptedRequest{Method: "GET", Path: "/v2/acts"}

		// Drain the single token.
		require.NoError(t, interceptor(context.Background(), req))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := interceptor(ctx, req)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestMetricsCollector(t *testing.T) {
	t.Parallel()

	collector := sapi.NewMetricsCollector()

	requestInterceptor := sapi.MetricsRequestInterceptor(collector)
	responseInterceptor := sapi.MetricsResponseInterceptor(collector)

	ctx := context.Background()
	req := &sapi.InterceptedRequest{
		Method: "GET",
		Path:   "/v2/acts",
	}

	err := requestInterceptor(ctx, req)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	resp := &sapi.InterceptedResponse{
		StatusCode: 200,
	}
	err = responseInterceptor(ctx, req, resp)
	require.NoError(t, err)

	metrics := collector.Metrics("GET /v2/acts")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(1), metrics.TotalRequests)
	assert.Equal(t, int64(0), metrics.TotalErrors)
	assert.Positive(t, metrics.AverageLatency)

	req2 := &sapi.InterceptedRequest{
		Method: "GET",
		Path:   "/v2/acts",
	}
	resp2 := &sapi.InterceptedResponse{
		StatusCode: 500,
	}
	err = responseInterceptor(ctx, req2, resp2)
	require.NoError(t, err)

	metrics = collector.Metrics("GET /v2/acts")
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)
}

func TestMetricsCollector_UnknownEndpoint(t *testing.T) {
	t.Parallel()

	collector := sapi.NewMetricsCollector()

	assert.Nil(t, collector.Metrics("GET /v2/datasets"))
}

func TestCircuitBreaker(t *testing.T) {
	t.Parallel()

	config := &sapi.CircuitBreakerConfig{
		Threshold:        2,
		Timeout:          100 * time.Millisecond,
		SuccessThreshold: 1,
	}
	breaker := sapi.NewCircuitBreaker(config)

	requestInterceptor := sapi.CircuitBreakerRequestInterceptor(breaker)
	responseInterceptor := sapi.CircuitBreakerResponseInterceptor(breaker)

	ctx := context.Background()
	req := &sapi.InterceptedRequest{
		Method: "GET",
		Path:   "/v2/acts",
	}

	// Circuit starts closed.
	err := requestInterceptor(ctx, req)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		resp := &sapi.InterceptedResponse{StatusCode: 500}
		err = responseInterceptor(ctx, req, resp)
		require.NoError(t, err)
	}

	// Circuit is open after hitting the failure threshold.
	err = requestInterceptor(ctx, req)
	require.ErrorIs(t, err, sapi.ErrCircuitBreakerOpen)

	time.Sleep(150 * time.Millisecond)

	// Circuit transitions to half-open after the timeout and admits a
	// trial request.
	err = requestInterceptor(ctx, req)
	require.NoError(t, err)

	resp := &sapi.InterceptedResponse{StatusCode: 200}
	err = responseInterceptor(ctx, req, resp)
	require.NoError(t, err)

	// Circuit is closed again after the trial succeeds.
	err = requestInterceptor(ctx, req)
	require.NoError(t, err)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	config := &sapi.CircuitBreakerConfig{
		Threshold:        1,
		Timeout:          50 * time.Millisecond,
		SuccessThreshold: 1,
	}
	breaker := sapi.NewCircuitBreaker(config)

	requestInterceptor := sapi.CircuitBreakerRequestInterceptor(breaker)
	responseInterceptor := sapi.CircuitBreakerResponseInterceptor(breaker)

	ctx := context.Background()
	req := &sapi.InterceptedRequest{Method: "GET", Path: "/v2/acts"}

	err := responseInterceptor(ctx, req, &sapi.InterceptedResponse{StatusCode: 503})
	require.NoError(t, err)

	err = requestInterceptor(ctx, req)
	require.ErrorIs(t, err, sapi.ErrCircuitBreakerOpen)

	time.Sleep(80 * time.Millisecond)

	// Trial request admitted, but its failure reopens the circuit.
	err = requestInterceptor(ctx, req)
	require.NoError(t, err)

	err = responseInterceptor(ctx, req, &sapi.InterceptedResponse{StatusCode: 500})
	require.NoError(t, err)

	err = requestInterceptor(ctx, req)
	require.ErrorIs(t, err, sapi.ErrCircuitBreakerOpen)
}

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	ctx := context.Background()
	req := &sapi.InterceptedRequest{Method: "GET", Path: "/v2/acts"}

	err := sapi.LoggingInterceptor(logger)(ctx, req)
	require.NoError(t, err)

	err = sapi.LoggingResponseInterceptor(logger)(ctx, req, &sapi.InterceptedResponse{StatusCode: 200})
	require.NoError(t, err)

	err = sapi.LoggingResponseInterceptor(logger)(ctx, req, &sapi.InterceptedResponse{
		StatusCode: 500,
		Error:      sapi.ErrCircuitBreakerOpen,
	})
	require.NoError(t, err)

	require.Len(t, logger.entries, 3)
	assert.Equal(t, "API Request", logger.entries[0].message)
	assert.Equal(t, "API Response", logger.entries[1].message)
	assert.Equal(t, "API Response Error", logger.entries[2].message)
	assert.Equal(t, 500, logger.entries[2].fields["status_code"])
}

type logEntry struct {
	message string
	fields  map[string]interface{}
}

type recordingLogger struct {
	entries []logEntry
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{message: msg, fields: fields})
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{message: msg, fields: fields})
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{message: msg, fields: fields})
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{message: msg, fields: fields})
}
