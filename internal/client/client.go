// Package client contains the resource client implementations behind the
// sapi.Client interface.
package client

import (
	"fmt"
	"strings"

	"github.com/scrapeworks-io/sapi/internal/auth"
	"github.com/scrapeworks-io/sapi/internal/http"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
)

// Client implements the sapi.Client interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     sapi.Logger

	// Resource clients
	actors         sapi.ActorsClient
	runs           sapi.RunsClient
	datasets       sapi.DatasetsClient
	keyValueStores sapi.KeyValueStoresClient
	requestQueues  sapi.RequestQueuesClient
	schedules      sapi.SchedulesClient
	webhooks       sapi.WebhooksClient
	users          sapi.UsersClient
	logs           sapi.LogsClient
}

// New creates a client from the configuration. The endpoint is required;
// a missing token falls back to the environment so requests can still be
// sent unauthenticated against public resources.
func New(config *sapi.Config) (*Client, error) {
	if config == nil {
		return nil, sapi.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, sapi.ErrAPIEndpointRequired
	}

	baseURL := normalizeEndpoint(config.APIEndpoint)
	tokenSource := createTokenSource(config)

	opts := []http.Option{}

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		opts = append(opts, http.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	if config.Cache != nil && config.Cache.Type != sapi.CacheTypeNone {
		cache, err := sapi.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("building cache: %w", err)
		}

		manager := sapi.NewCacheManager(cache, config.Cache.Policy)

		ttl := sapi.DefaultCacheOptions().DefaultTTL
		if config.Cache.Options != nil && config.Cache.Options.DefaultTTL > 0 {
			ttl = config.Cache.Options.DefaultTTL
		}

		opts = append(opts, http.WithCache(manager, ttl))
	}

	httpClient := http.NewClient(baseURL, tokenSource, opts...)

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     config.Logger,
	}

	client.actors = NewActorsClient(httpClient)
	client.runs = NewRunsClient(httpClient)
	client.datasets = NewDatasetsClient(httpClient)
	client.keyValueStores = NewKeyValueStoresClient(httpClient)
	client.requestQueues = NewRequestQueuesClient(httpClient)
	client.schedules = NewSchedulesClient(httpClient)
	client.webhooks = NewWebhooksClient(httpClient)
	client.users = NewUsersClient(httpClient)
	client.logs = NewLogsClient(httpClient)

	return client, nil
}

// createTokenSource picks the token source for the configuration.
func createTokenSource(config *sapi.Config) auth.TokenSource {
	if config.Token != "" {
		return auth.NewStaticTokenSource(config.Token)
	}

	return auth.NewEnvTokenSource()
}

// normalizeEndpoint trims a trailing slash and defaults the scheme to
// https.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")

	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// HTTPClient exposes the underlying transport for advanced use.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// BaseURL returns the API endpoint the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Actors implements sapi.Client.Actors.
func (c *Client) Actors() sapi.ActorsClient {
	return c.actors
}

// Runs implements sapi.Client.Runs.
func (c *Client) Runs() sapi.RunsClient {
	return c.runs
}

// Datasets implements sapi.Client.Datasets.
func (c *Client) Datasets() sapi.DatasetsClient {
	return c.datasets
}

// KeyValueStores implements sapi.Client.KeyValueStores.
func (c *Client) KeyValueStores() sapi.KeyValueStoresClient {
	return c.keyValueStores
}

// RequestQueues implements sapi.Client.RequestQueues.
func (c *Client) RequestQueues() sapi.RequestQueuesClient {
	return c.requestQueues
}

// Schedules implements sapi.Client.Schedules.
func (c *Client) Schedules() sapi.SchedulesClient {
	return c.schedules
}

// Webhooks implements sapi.Client.Webhooks.
func (c *Client) Webhooks() sapi.WebhooksClient {
	return c.webhooks
}

// Users implements sapi.Client.Users.
func (c *Client) Users() sapi.UsersClient {
	return c.users
}

// Logs implements sapi.Client.Logs.
func (c *Client) Logs() sapi.LogsClient {
	return c.logs
}
