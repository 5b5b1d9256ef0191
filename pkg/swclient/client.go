package swclient

import (
	"fmt"
	"os"

	"github.com/scrapeworks-io/sapi/internal/auth"
	"github.com/scrapeworks-io/sapi/internal/client"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
)

// New creates a new ScrapeWorks API client from the configuration.
func New(config *sapi.Config) (sapi.Client, error) {
	if config == nil {
		return nil, sapi.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, sapi.ErrAPIEndpointRequired
	}

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// NewWithEndpoint creates a new client with just an API endpoint (no auth).
func NewWithEndpoint(endpoint string) (sapi.Client, error) {
	return New(&sapi.Config{
		APIEndpoint: endpoint,
	})
}

// NewWithToken creates a new client with an API endpoint and API token.
func NewWithToken(endpoint, token string) (sapi.Client, error) {
	return New(&sapi.Config{
		APIEndpoint: endpoint,
		Token:       token,
	})
}

// NewFromEnv creates a new client with the token resolved from the
// environment. It fails when neither SCRAPEWORKS_API_TOKEN nor SAPI_TOKEN
// is set, so misconfiguration surfaces at construction instead of as 401s
// later.
func NewFromEnv(endpoint string) (sapi.Client, error) {
	token := os.Getenv(auth.EnvToken)
	if token == "" {
		token = os.Getenv(auth.EnvTokenFallback)
	}

	if token == "" {
		return nil, fmt.Errorf("%w: set %s", sapi.ErrNoTokenInEnvironment, auth.EnvToken)
	}

	return New(&sapi.Config{
		APIEndpoint: endpoint,
		Token:       token,
	})
}
