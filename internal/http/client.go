// Package http implements the transport layer of the ScrapeWorks client:
// a request executor that speaks the API's data envelope and returns
// classified errors, plus a chunked reader for streamed responses.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/scrapeworks-io/sapi/internal/auth"
	"github.com/scrapeworks-io/sapi/internal/constants"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
)

// Version is the client library version reported in the User-Agent.
const Version = "0.3.0"

const defaultUserAgent = "sapi-client-go/" + Version

// Request represents an HTTP request to the API.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-marshalled unless RawBody is set.
	Body interface{}
	// RawBody is sent verbatim with ContentType.
	RawBody     []byte
	ContentType string
	Headers     map[string]string
}

// Response represents a completed API response. On success the Body holds
// the payload with the {"data": ...} envelope already unwrapped.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes HTTP requests against the API. Its configuration is
// immutable after construction, so a single client is safely shared by any
// number of goroutines.
type Client struct {
	baseURL      string
	tokenSource  auth.TokenSource
	httpClient   *retryablehttp.Client
	logger       sapi.Logger
	debug        bool
	userAgent    string
	interceptors *sapi.InterceptorChain
	cache        *sapi.CacheManager
	cacheTTL     time.Duration
	chunkTimeout time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger sapi.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging through the logger.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout bounds each transport call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig enables transport-level retries for transient failures
// (429, 5xx, connection errors). Requests are replayed from buffered
// bodies, so enabling retries on non-idempotent endpoints is the caller's
// decision.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithStreamChunkTimeout bounds the wait for each streamed chunk.
func WithStreamChunkTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.chunkTimeout = timeout
	}
}

// WithInterceptors installs an interceptor chain run around every request.
func WithInterceptors(chain *sapi.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithCache enables GET response caching through the manager.
func WithCache(manager *sapi.CacheManager, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = manager
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// NewClient creates a client for the given base URL. The default
// configuration performs exactly one network call per request; retries are
// opt-in via WithRetryConfig.
func NewClient(baseURL string, tokenSource auth.TokenSource, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	// Hand back the final response once retries are exhausted. Without this
	// the library swallows 429/5xx responses into a generic error and the
	// status-based classifier never sees them.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenSource:  tokenSource,
		httpClient:   retryClient,
		userAgent:    defaultUserAgent,
		cacheTTL:     constants.DefaultCacheTTL,
		chunkTimeout: constants.StreamChunkTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes a request and returns the response. Any status >= 400 and
// any transport failure comes back as a classified *sapi.APIError; the
// response, when one was received, is returned alongside the error so
// callers can inspect headers.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	if cached := c.cachedResponse(ctx, req); cached != nil {
		return cached, nil
	}

	intercepted := &sapi.InterceptedRequest{
		Method:   req.Method,
		Path:     req.Path,
		Headers:  make(http.Header),
		Body:     body,
		Metadata: make(map[string]interface{}),
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
		if err != nil {
			return nil, err
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.setHeaders(ctx, httpReq, req, contentType, intercepted.Headers)

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		classified := sapi.ClassifyTransport(err)
		c.runResponseInterceptors(ctx, intercepted, 0, nil, classified)

		return nil, classified
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		classified := sapi.ClassifyTransport(err)
		c.runResponseInterceptors(ctx, intercepted, httpResp.StatusCode, nil, classified)

		return nil, classified
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": httpResp.StatusCode,
			"size":        len(respBody),
		})
	}

	if httpResp.StatusCode >= 400 {
		classified := sapi.ClassifyResponse(httpResp.StatusCode, respBody)
		resp.Body = respBody
		c.runResponseInterceptors(ctx, intercepted, httpResp.StatusCode, respBody, classified)

		return resp, classified
	}

	if httpResp.StatusCode != http.StatusNoContent {
		resp.Body = unwrapEnvelope(respBody)
	}

	c.runResponseInterceptors(ctx, intercepted, httpResp.StatusCode, resp.Body, nil)
	c.storeInCache(ctx, req, resp)

	return resp, nil
}

// Get executes a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post executes a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// PostRaw executes a POST request with a raw body and content type.
func (c *Client) PostRaw(ctx context.Context, path string, body []byte, contentType string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, RawBody: body, ContentType: contentType})
}

// Put executes a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// PutRaw executes a PUT request with a raw body and content type.
func (c *Client) PutRaw(ctx context.Context, path string, body []byte, contentType string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, RawBody: body, ContentType: contentType})
}

// Patch executes a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete executes a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// encodeBody serializes the request body and resolves the content type.
func encodeBody(req *Request) ([]byte, string, error) {
	if req.RawBody != nil {
		contentType := req.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		return req.RawBody, contentType, nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("marshaling request body: %w", err)
	}

	return data, "application/json", nil
}

// setHeaders applies auth, agent, content, and caller headers.
func (c *Client) setHeaders(ctx context.Context, httpReq *retryablehttp.Request, req *Request, contentType string, intercepted http.Header) {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.tokenSource != nil {
		token, err := c.tokenSource.Token(ctx)
		if err == nil && token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for key, values := range intercepted {
		for _, value := range values {
			httpReq.Header.Set(key, value)
		}
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
}

// runResponseInterceptors feeds the outcome through the chain, ignoring
// interceptor failures on the response path.
func (c *Client) runResponseInterceptors(ctx context.Context, req *sapi.InterceptedRequest, status int, body []byte, respErr error) {
	if c.interceptors == nil {
		return
	}

	_ = c.interceptors.ExecuteResponseInterceptors(ctx, req, &sapi.InterceptedResponse{
		StatusCode: status,
		Body:       body,
		Error:      respErr,
	})
}

// cachedResponse returns a cached response for cacheable GETs, or nil.
func (c *Client) cachedResponse(ctx context.Context, req *Request) *Response {
	if c.cache == nil || !c.cache.Policy().ShouldCache(req.Method, req.Path, http.StatusOK) {
		return nil
	}

	key := c.cache.GetCacheKey(req.Method, req.Path, flattenQuery(req.Query))

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil
	}

	return &Response{StatusCode: http.StatusOK, Body: data}
}

// storeInCache caches a successful response when the policy allows it.
func (c *Client) storeInCache(ctx context.Context, req *Request, resp *Response) {
	if c.cache == nil || !c.cache.Policy().ShouldCache(req.Method, req.Path, resp.StatusCode) {
		return
	}

	key := c.cache.GetCacheKey(req.Method, req.Path, flattenQuery(req.Query))
	_ = c.cache.SetWithETag(ctx, key, resp.Body, resp.Headers.Get("ETag"), c.cacheTTL)
}

// flattenQuery reduces url.Values to the single-valued map used for cache
// keys.
func flattenQuery(query url.Values) map[string]string {
	if len(query) == 0 {
		return nil
	}

	flat := make(map[string]string, len(query))
	for key := range query {
		flat[key] = query.Get(key)
	}

	return flat
}

// unwrapEnvelope strips the {"data": ...} wrapper when present, returning
// the body unchanged otherwise.
func unwrapEnvelope(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return body
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}

	err := json.Unmarshal(trimmed, &envelope)
	if err != nil || envelope.Data == nil {
		return body
	}

	return envelope.Data
}
