package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/scrapeworks-io/sapi/internal/constants"
	"github.com/scrapeworks-io/sapi/internal/http"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
)

// RunsClient implements sapi.RunsClient.
type RunsClient struct {
	httpClient   *http.Client
	pollInterval time.Duration
}

// NewRunsClient creates a new runs client.
func NewRunsClient(httpClient *http.Client) *RunsClient {
	return &RunsClient{
		httpClient:   httpClient,
		pollInterval: constants.DefaultPollInterval,
	}
}

// Get implements sapi.RunsClient.Get.
func (c *RunsClient) Get(ctx context.Context, runID string) (*sapi.Run, error) {
	path := "/v2/actor-runs/" + runID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	var run sapi.Run

	err = json.Unmarshal(resp.Body, &run)
	if err != nil {
		return nil, fmt.Errorf("parsing run: %w", err)
	}

	return &run, nil
}

// List implements sapi.RunsClient.List.
func (c *RunsClient) List(ctx context.Context, opts *sapi.ListOptions) (*sapi.RunList, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/actor-runs", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	var result sapi.RunList

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing runs list: %w", err)
	}

	return &result, nil
}

// Abort implements sapi.RunsClient.Abort.
func (c *RunsClient) Abort(ctx context.Context, runID string) (*sapi.Run, error) {
	path := "/v2/actor-runs/" + runID + "/abort"

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("aborting run: %w", err)
	}

	var run sapi.Run

	err = json.Unmarshal(resp.Body, &run)
	if err != nil {
		return nil, fmt.Errorf("parsing run: %w", err)
	}

	return &run, nil
}

// Resurrect implements sapi.RunsClient.Resurrect.
func (c *RunsClient) Resurrect(ctx context.Context, runID string) (*sapi.Run, error) {
	path := "/v2/actor-runs/" + runID + "/resurrect"

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("resurrecting run: %w", err)
	}

	var run sapi.Run

	err = json.Unmarshal(resp.Body, &run)
	if err != nil {
		return nil, fmt.Errorf("parsing run: %w", err)
	}

	return &run, nil
}

// WaitForFinish implements sapi.RunsClient.WaitForFinish. It polls the run
// until it reaches a terminal state or the timeout elapses. A run that
// finished unsuccessfully is returned together with a sentinel error so
// callers can still inspect its storages.
func (c *RunsClient) WaitForFinish(ctx context.Context, runID string, timeout time.Duration) (*sapi.Run, error) {
	if timeout <= 0 {
		timeout = constants.DefaultRunWaitTimeout
	}

	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	// First check immediately
	run, err := c.Get(pollCtx, runID)
	if err != nil {
		return nil, fmt.Errorf("getting run status: %w", err)
	}

	for !run.Finished() {
		select {
		case <-pollCtx.Done():
			// Return the last known state on timeout
			return run, fmt.Errorf("waiting for run to finish: %w", pollCtx.Err())
		case <-ticker.C:
			run, err = c.Get(pollCtx, runID)
			if err != nil {
				return nil, fmt.Errorf("getting run status: %w", err)
			}
		}
	}

	return run, terminalRunError(run)
}

// terminalRunError maps an unsuccessful terminal status to its sentinel.
func terminalRunError(run *sapi.Run) error {
	switch run.Status {
	case sapi.RunStatusFailed:
		return fmt.Errorf("%w: %s", sapi.ErrRunFailed, run.StatusMessage)
	case sapi.RunStatusAborted:
		return fmt.Errorf("%w: %s", sapi.ErrRunAborted, run.StatusMessage)
	case sapi.RunStatusTimedOut:
		return fmt.Errorf("%w: %s", sapi.ErrRunTimedOut, run.StatusMessage)
	default:
		return nil
	}
}
