package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/scrapeworks-io/sapi/pkg/sapi"
)

const streamReadBufferSize = 32 * 1024

// chunkResult carries one read from the producer goroutine. A nil err
// means data; io.EOF means clean end of stream.
type chunkResult struct {
	data []byte
	err  error
}

// Stream reads a response body as a lazy sequence of byte chunks. At most
// one chunk is read ahead of the consumer, so a slow consumer applies
// backpressure to the connection. Stream is not safe for concurrent use.
type Stream struct {
	body         io.ReadCloser
	cancel       context.CancelFunc
	results      chan chunkResult
	done         chan struct{}
	chunkTimeout time.Duration
	delivered    bool
	terminalErr  error
	closed       bool
}

// OpenStream issues a GET request and returns the response body as a
// Stream. Non-2xx responses are drained and returned as classified errors.
func (c *Client) OpenStream(ctx context.Context, path string, query url.Values) (*Stream, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	streamCtx, cancel := context.WithCancel(ctx)

	httpReq, err := http.NewRequestWithContext(streamCtx, http.MethodGet, fullURL, nil)
	if err != nil {
		cancel()

		return nil, fmt.Errorf("creating stream request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)

	if c.tokenSource != nil {
		token, tokenErr := c.tokenSource.Token(ctx)
		if tokenErr == nil && token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	// Streams are long-lived, so the per-request timeout of the regular
	// transport does not apply. Liveness is enforced per chunk instead.
	streamClient := &http.Client{Transport: c.httpClient.HTTPClient.Transport}

	httpResp, err := streamClient.Do(httpReq)
	if err != nil {
		cancel()

		return nil, sapi.ClassifyTransport(err)
	}

	if httpResp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 64*1024))
		_ = httpResp.Body.Close()
		cancel()

		return nil, sapi.ClassifyResponse(httpResp.StatusCode, body)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Stream Opened", map[string]interface{}{
			"url":         fullURL,
			"status_code": httpResp.StatusCode,
		})
	}

	stream := &Stream{
		body:         httpResp.Body,
		cancel:       cancel,
		results:      make(chan chunkResult, 1),
		done:         make(chan struct{}),
		chunkTimeout: c.chunkTimeout,
	}

	go stream.produce()

	return stream, nil
}

// produce reads the body chunk by chunk. The buffered channel holds one
// pending chunk, so reads stall once the consumer falls a chunk behind.
func (s *Stream) produce() {
	buf := make([]byte, streamReadBufferSize)

	for {
		n, err := s.body.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			select {
			case s.results <- chunkResult{data: chunk}:
			case <-s.done:
				return
			}
		}

		if err != nil {
			select {
			case s.results <- chunkResult{err: err}:
			case <-s.done:
			}

			return
		}
	}
}

// Next returns the next chunk of the stream. It returns io.EOF after the
// final chunk. Waiting longer than the chunk timeout yields a timeout
// error and terminates the stream; a connection that dies mid-stream
// yields a stream error once data has already been delivered.
func (s *Stream) Next() ([]byte, error) {
	if s.closed {
		return nil, sapi.ErrStreamClosed
	}

	if s.terminalErr != nil {
		return nil, s.terminalErr
	}

	timer := time.NewTimer(s.chunkTimeout)
	defer timer.Stop()

	select {
	case result := <-s.results:
		if result.err == nil {
			s.delivered = true

			return result.data, nil
		}

		s.terminalErr = s.classifyReadError(result.err)
		s.teardown()

		return nil, s.terminalErr

	case <-timer.C:
		s.terminalErr = &sapi.APIError{
			Kind:    sapi.ErrorKindTimeout,
			Message: fmt.Sprintf("no stream data received within %s", s.chunkTimeout),
			Details: map[string]interface{}{},
		}
		s.teardown()

		return nil, s.terminalErr
	}
}

// classifyReadError maps a producer read error to its terminal form.
func (s *Stream) classifyReadError(err error) error {
	if err == io.EOF {
		return io.EOF
	}

	if s.delivered {
		return sapi.NewStreamError(err)
	}

	return sapi.ClassifyTransport(err)
}

// Close releases the underlying connection. It is safe to call multiple
// times.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true
	s.teardown()

	return nil
}

// ReadAll drains the stream into a single buffer, closing it afterwards.
func (s *Stream) ReadAll() ([]byte, error) {
	defer func() { _ = s.Close() }()

	var out []byte

	for {
		chunk, err := s.Next()
		if err == io.EOF {
			return out, nil
		}

		if err != nil {
			return out, err
		}

		out = append(out, chunk...)
	}
}

func (s *Stream) teardown() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}

	s.cancel()
	_ = s.body.Close()
}
