package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/scrapeworks-io/sapi/internal/constants"
	"github.com/scrapeworks-io/sapi/internal/http"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
)

// ActorsClient implements sapi.ActorsClient.
type ActorsClient struct {
	httpClient *http.Client
	runs       *RunsClient
}

// NewActorsClient creates a new actors client.
func NewActorsClient(httpClient *http.Client) *ActorsClient {
	return &ActorsClient{
		httpClient: httpClient,
		runs:       NewRunsClient(httpClient),
	}
}

// Get implements sapi.ActorsClient.Get.
func (c *ActorsClient) Get(ctx context.Context, actorID string) (*sapi.Actor, error) {
	path := "/v2/acts/" + actorID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting actor: %w", err)
	}

	var actor sapi.Actor

	err = json.Unmarshal(resp.Body, &actor)
	if err != nil {
		return nil, fmt.Errorf("parsing actor: %w", err)
	}

	return &actor, nil
}

// Create implements sapi.ActorsClient.Create.
func (c *ActorsClient) Create(ctx context.Context, request *sapi.ActorCreateRequest) (*sapi.Actor, error) {
	if request == nil || request.Name == "" {
		return nil, sapi.ErrActorNameRequired
	}

	resp, err := c.httpClient.Post(ctx, "/v2/acts", request)
	if err != nil {
		return nil, fmt.Errorf("creating actor: %w", err)
	}

	var actor sapi.Actor

	err = json.Unmarshal(resp.Body, &actor)
	if err != nil {
		return nil, fmt.Errorf("parsing actor: %w", err)
	}

	return &actor, nil
}

// Update implements sapi.ActorsClient.Update.
func (c *ActorsClient) Update(ctx context.Context, actorID string, request *sapi.ActorUpdateRequest) (*sapi.Actor, error) {
	path := "/v2/acts/" + actorID

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating actor: %w", err)
	}

	var actor sapi.Actor

	err = json.Unmarshal(resp.Body, &actor)
	if err != nil {
		return nil, fmt.Errorf("parsing actor: %w", err)
	}

	return &actor, nil
}

// Delete implements sapi.ActorsClient.Delete.
func (c *ActorsClient) Delete(ctx context.Context, actorID string) error {
	path := "/v2/acts/" + actorID

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting actor: %w", err)
	}

	return nil
}

// List implements sapi.ActorsClient.List.
func (c *ActorsClient) List(ctx context.Context, opts *sapi.ListOptions) (*sapi.ActorList, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/acts", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing actors: %w", err)
	}

	var result sapi.ActorList

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing actors list: %w", err)
	}

	return &result, nil
}

// ListAll implements sapi.ActorsClient.ListAll by draining every page.
func (c *ActorsClient) ListAll(ctx context.Context, opts *sapi.ListOptions) ([]sapi.Actor, error) {
	return sapi.CollectAll(ctx, c.List, opts)
}

// Start implements sapi.ActorsClient.Start. The input becomes the run's
// input record; run options travel as query parameters.
func (c *ActorsClient) Start(ctx context.Context, actorID string, input interface{}, opts *sapi.RunOptions) (*sapi.Run, error) {
	path := "/v2/acts/" + actorID + "/runs"

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: "POST",
		Path:   path,
		Query:  runOptionsValues(opts),
		Body:   input,
	})
	if err != nil {
		return nil, fmt.Errorf("starting actor: %w", err)
	}

	var run sapi.Run

	err = json.Unmarshal(resp.Body, &run)
	if err != nil {
		return nil, fmt.Errorf("parsing run: %w", err)
	}

	return &run, nil
}

// Call implements sapi.ActorsClient.Call: it starts a run and blocks until
// the run reaches a terminal state.
func (c *ActorsClient) Call(ctx context.Context, actorID string, input interface{}, opts *sapi.RunOptions) (*sapi.Run, error) {
	run, err := c.Start(ctx, actorID, input, opts)
	if err != nil {
		return nil, err
	}

	return c.runs.WaitForFinish(ctx, run.ID, constants.DefaultRunWaitTimeout)
}

// LastRun implements sapi.ActorsClient.LastRun.
func (c *ActorsClient) LastRun(ctx context.Context, actorID string) (*sapi.Run, error) {
	path := "/v2/acts/" + actorID + "/runs/last"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting last run: %w", err)
	}

	var run sapi.Run

	err = json.Unmarshal(resp.Body, &run)
	if err != nil {
		return nil, fmt.Errorf("parsing run: %w", err)
	}

	return &run, nil
}

// ListVersions implements sapi.ActorsClient.ListVersions. Versions are a
// small unpaginated collection.
func (c *ActorsClient) ListVersions(ctx context.Context, actorID string) ([]sapi.ActorVersion, error) {
	path := "/v2/acts/" + actorID + "/versions"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}

	var result sapi.PaginatedList[sapi.ActorVersion]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing versions list: %w", err)
	}

	return result.Items, nil
}

// ListBuilds implements sapi.ActorsClient.ListBuilds.
func (c *ActorsClient) ListBuilds(ctx context.Context, actorID string, opts *sapi.ListOptions) (*sapi.PaginatedList[sapi.Build], error) {
	path := "/v2/acts/" + actorID + "/builds"

	resp, err := c.httpClient.Get(ctx, path, opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing builds: %w", err)
	}

	var result sapi.PaginatedList[sapi.Build]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing builds list: %w", err)
	}

	return &result, nil
}

// GetBuild implements sapi.ActorsClient.GetBuild.
func (c *ActorsClient) GetBuild(ctx context.Context, actorID, buildID string) (*sapi.Build, error) {
	path := "/v2/acts/" + actorID + "/builds/" + buildID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting build: %w", err)
	}

	var build sapi.Build

	err = json.Unmarshal(resp.Body, &build)
	if err != nil {
		return nil, fmt.Errorf("parsing build: %w", err)
	}

	return &build, nil
}

// runOptionsValues encodes per-run overrides as query parameters.
func runOptionsValues(opts *sapi.RunOptions) url.Values {
	values := url.Values{}

	if opts == nil {
		return values
	}

	if opts.Build != "" {
		values.Set("build", opts.Build)
	}

	if opts.TimeoutSecs > 0 {
		values.Set("timeout", strconv.Itoa(opts.TimeoutSecs))
	}

	if opts.MemoryMB > 0 {
		values.Set("memory", strconv.Itoa(opts.MemoryMB))
	}

	return values
}
