//go:build integration

package integration

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/scrapeworks-io/sapi/pkg/sapi"
	"github.com/scrapeworks-io/sapi/pkg/swclient"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIEndpoint string
	Token       string
	ActorID     string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIEndpoint: os.Getenv("SAPI_TEST_ENDPOINT"),
		Token:       os.Getenv("SCRAPEWORKS_API_TOKEN"),
		ActorID:     os.Getenv("SAPI_TEST_ACTOR_ID"),
		Verbose:     os.Getenv("SAPI_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips the test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	if config.APIEndpoint == "" {
		t.Skip("SAPI_TEST_ENDPOINT not set, skipping integration test")
	}

	if config.Token == "" {
		t.Skip("SCRAPEWORKS_API_TOKEN not set, skipping integration test")
	}
}

// NewClient creates a client for the configured test endpoint
func (config *TestConfig) NewClient(t *testing.T) sapi.Client {
	client, err := swclient.NewWithToken(config.APIEndpoint, config.Token)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	return client
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// WaitForCondition waits for a condition to be met with timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}
