package client

import (
	"context"
	"fmt"

	"github.com/scrapeworks-io/sapi/internal/http"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
)

// LogsClient implements sapi.LogsClient. Run logs are plain text, not
// enveloped JSON.
type LogsClient struct {
	httpClient *http.Client
}

// NewLogsClient creates a new logs client.
func NewLogsClient(httpClient *http.Client) *LogsClient {
	return &LogsClient{httpClient: httpClient}
}

// Get implements sapi.LogsClient.Get: it returns the full log of a run.
func (c *LogsClient) Get(ctx context.Context, runID string) (string, error) {
	path := "/v2/logs/" + runID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return "", fmt.Errorf("getting run log: %w", err)
	}

	return string(resp.Body), nil
}

// Stream implements sapi.LogsClient.Stream: it follows the log of a
// running actor as it is produced.
func (c *LogsClient) Stream(ctx context.Context, runID string) (sapi.ByteStream, error) {
	path := "/v2/logs/" + runID

	stream, err := c.httpClient.OpenStream(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("streaming run log: %w", err)
	}

	return stream, nil
}
