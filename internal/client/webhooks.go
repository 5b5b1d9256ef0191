package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scrapeworks-io/sapi/internal/http"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
)

// WebhooksClient implements sapi.WebhooksClient.
type WebhooksClient struct {
	httpClient *http.Client
}

// NewWebhooksClient creates a new webhooks client.
func NewWebhooksClient(httpClient *http.Client) *WebhooksClient {
	return &WebhooksClient{httpClient: httpClient}
}

// Get implements sapi.WebhooksClient.Get.
func (c *WebhooksClient) Get(ctx context.Context, webhookID string) (*sapi.Webhook, error) {
	path := "/v2/webhooks/" + webhookID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting webhook: %w", err)
	}

	var webhook sapi.Webhook

	err = json.Unmarshal(resp.Body, &webhook)
	if err != nil {
		return nil, fmt.Errorf("parsing webhook: %w", err)
	}

	return &webhook, nil
}

// Create implements sapi.WebhooksClient.Create.
func (c *WebhooksClient) Create(ctx context.Context, request *sapi.WebhookCreateRequest) (*sapi.Webhook, error) {
	if request == nil || request.RequestURL == "" {
		return nil, sapi.ErrWebhookURLRequired
	}

	resp, err := c.httpClient.Post(ctx, "/v2/webhooks", request)
	if err != nil {
		return nil, fmt.Errorf("creating webhook: %w", err)
	}

	var webhook sapi.Webhook

	err = json.Unmarshal(resp.Body, &webhook)
	if err != nil {
		return nil, fmt.Errorf("parsing webhook: %w", err)
	}

	return &webhook, nil
}

// Update implements sapi.WebhooksClient.Update.
func (c *WebhooksClient) Update(ctx context.Context, webhookID string, request *sapi.WebhookUpdateRequest) (*sapi.Webhook, error) {
	path := "/v2/webhooks/" + webhookID

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating webhook: %w", err)
	}

	var webhook sapi.Webhook

	err = json.Unmarshal(resp.Body, &webhook)
	if err != nil {
		return nil, fmt.Errorf("parsing webhook: %w", err)
	}

	return &webhook, nil
}

// Delete implements sapi.WebhooksClient.Delete.
func (c *WebhooksClient) Delete(ctx context.Context, webhookID string) error {
	path := "/v2/webhooks/" + webhookID

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting webhook: %w", err)
	}

	return nil
}

// List implements sapi.WebhooksClient.List.
func (c *WebhooksClient) List(ctx context.Context, opts *sapi.ListOptions) (*sapi.WebhookList, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/webhooks", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}

	var result sapi.WebhookList

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing webhooks list: %w", err)
	}

	return &result, nil
}

// ListDispatches implements sapi.WebhooksClient.ListDispatches.
func (c *WebhooksClient) ListDispatches(ctx context.Context, webhookID string, opts *sapi.ListOptions) (*sapi.PaginatedList[sapi.WebhookDispatch], error) {
	path := "/v2/webhooks/" + webhookID + "/dispatches"

	resp, err := c.httpClient.Get(ctx, path, opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing webhook dispatches: %w", err)
	}

	var result sapi.PaginatedList[sapi.WebhookDispatch]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing webhook dispatches: %w", err)
	}

	return &result, nil
}
