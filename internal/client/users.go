package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scrapeworks-io/sapi/internal/http"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
)

// UsersClient implements sapi.UsersClient.
type UsersClient struct {
	httpClient *http.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *http.Client) *UsersClient {
	return &UsersClient{httpClient: httpClient}
}

// Me implements sapi.UsersClient.Me.
func (c *UsersClient) Me(ctx context.Context) (*sapi.User, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/users/me", nil)
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}

	var user sapi.User

	err = json.Unmarshal(resp.Body, &user)
	if err != nil {
		return nil, fmt.Errorf("parsing account: %w", err)
	}

	return &user, nil
}

// UsageSummary implements sapi.UsersClient.UsageSummary.
func (c *UsersClient) UsageSummary(ctx context.Context) (*sapi.UsageSummary, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/users/me/usage", nil)
	if err != nil {
		return nil, fmt.Errorf("getting usage summary: %w", err)
	}

	var usage sapi.UsageSummary

	err = json.Unmarshal(resp.Body, &usage)
	if err != nil {
		return nil, fmt.Errorf("parsing usage summary: %w", err)
	}

	return &usage, nil
}
