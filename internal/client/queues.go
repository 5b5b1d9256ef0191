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

// RequestQueuesClient implements sapi.RequestQueuesClient.
type RequestQueuesClient struct {
	httpClient *http.Client
}

// NewRequestQueuesClient creates a new request queues client.
func NewRequestQueuesClient(httpClient *http.Client) *RequestQueuesClient {
	return &RequestQueuesClient{httpClient: httpClient}
}

// Get implements sapi.RequestQueuesClient.Get.
func (c *RequestQueuesClient) Get(ctx context.Context, queueID string) (*sapi.RequestQueue, error) {
	path := "/v2/request-queues/" + queueID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting request queue: %w", err)
	}

	var queue sapi.RequestQueue

	err = json.Unmarshal(resp.Body, &queue)
	if err != nil {
		return nil, fmt.Errorf("parsing request queue: %w", err)
	}

	return &queue, nil
}

// GetOrCreate implements sapi.RequestQueuesClient.GetOrCreate.
func (c *RequestQueuesClient) GetOrCreate(ctx context.Context, name string) (*sapi.RequestQueue, error) {
	if name == "" {
		return nil, sapi.ErrQueueNameRequired
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: "POST",
		Path:   "/v2/request-queues",
		Query:  url.Values{"name": []string{name}},
	})
	if err != nil {
		return nil, fmt.Errorf("creating request queue: %w", err)
	}

	var queue sapi.RequestQueue

	err = json.Unmarshal(resp.Body, &queue)
	if err != nil {
		return nil, fmt.Errorf("parsing request queue: %w", err)
	}

	return &queue, nil
}

// Delete implements sapi.RequestQueuesClient.Delete.
func (c *RequestQueuesClient) Delete(ctx context.Context, queueID string) error {
	path := "/v2/request-queues/" + queueID

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting request queue: %w", err)
	}

	return nil
}

// List implements sapi.RequestQueuesClient.List.
func (c *RequestQueuesClient) List(ctx context.Context, opts *sapi.ListOptions) (*sapi.PaginatedList[sapi.RequestQueue], error) {
	resp, err := c.httpClient.Get(ctx, "/v2/request-queues", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing request queues: %w", err)
	}

	var result sapi.PaginatedList[sapi.RequestQueue]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing request queues list: %w", err)
	}

	return &result, nil
}

// AddRequest implements sapi.RequestQueuesClient.AddRequest.
func (c *RequestQueuesClient) AddRequest(ctx context.Context, queueID string, request *sapi.QueuedRequest) (*sapi.QueueOperationInfo, error) {
	path := "/v2/request-queues/" + queueID + "/requests"

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("adding queue request: %w", err)
	}

	var info sapi.QueueOperationInfo

	err = json.Unmarshal(resp.Body, &info)
	if err != nil {
		return nil, fmt.Errorf("parsing queue operation: %w", err)
	}

	return &info, nil
}

// GetRequest implements sapi.RequestQueuesClient.GetRequest.
func (c *RequestQueuesClient) GetRequest(ctx context.Context, queueID, requestID string) (*sapi.QueuedRequest, error) {
	path := "/v2/request-queues/" + queueID + "/requests/" + requestID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting queue request: %w", err)
	}

	var request sapi.QueuedRequest

	err = json.Unmarshal(resp.Body, &request)
	if err != nil {
		return nil, fmt.Errorf("parsing queue request: %w", err)
	}

	return &request, nil
}

// UpdateRequest implements sapi.RequestQueuesClient.UpdateRequest.
func (c *RequestQueuesClient) UpdateRequest(ctx context.Context, queueID string, request *sapi.QueuedRequest) (*sapi.QueueOperationInfo, error) {
	path := "/v2/request-queues/" + queueID + "/requests/" + request.ID

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating queue request: %w", err)
	}

	var info sapi.QueueOperationInfo

	err = json.Unmarshal(resp.Body, &info)
	if err != nil {
		return nil, fmt.Errorf("parsing queue operation: %w", err)
	}

	return &info, nil
}

// DeleteRequest implements sapi.RequestQueuesClient.DeleteRequest.
func (c *RequestQueuesClient) DeleteRequest(ctx context.Context, queueID, requestID string) error {
	path := "/v2/request-queues/" + queueID + "/requests/" + requestID

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting queue request: %w", err)
	}

	return nil
}

// ListHead implements sapi.RequestQueuesClient.ListHead.
func (c *RequestQueuesClient) ListHead(ctx context.Context, queueID string, limit int64) (*sapi.QueueHead, error) {
	if limit <= 0 {
		limit = constants.QueueHeadDefaultLimit
	}

	path := "/v2/request-queues/" + queueID + "/head"
	query := url.Values{"limit": []string{strconv.FormatInt(limit, 10)}}

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing queue head: %w", err)
	}

	var head sapi.QueueHead

	err = json.Unmarshal(resp.Body, &head)
	if err != nil {
		return nil, fmt.Errorf("parsing queue head: %w", err)
	}

	return &head, nil
}
