package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/scrapeworks-io/sapi/internal/constants"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
	"github.com/scrapeworks-io/sapi/pkg/swclient"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// NotAvailable is rendered for absent optional values.
	NotAvailable = "N/A"

	timeFormat = "2006-01-02 15:04:05"

	maxCellWidth = 60
)

// Common static errors used throughout the commands package.
var (
	ErrNotAuthenticated       = errors.New("not authenticated")
	ErrNoEndpointConfigured   = errors.New("no API endpoint configured")
	ErrInvalidOutputFormat    = errors.New("invalid output format")
	ErrUnknownConfigKey       = errors.New("unknown configuration key")
	ErrTokenRequired          = errors.New("token is required")
	ErrScheduleCronFlag       = errors.New("--cron is required")
	ErrWebhookURLFlag         = errors.New("--url is required")
	ErrWebhookEventTypesFlag  = errors.New("at least one --event is required")
	ErrRequestURLArgumentMiss = errors.New("request URL is required")
)

// CreateClient builds a sapi.Client from the effective CLI configuration:
// flags override environment variables, which override the config file.
func CreateClient() (sapi.Client, error) {
	endpoint := viper.GetString("api")
	if endpoint == "" {
		endpoint = viper.GetString("endpoint")
	}

	if endpoint == "" {
		return nil, fmt.Errorf("%w, use 'sapi login' first", ErrNoEndpointConfigured)
	}

	config := &sapi.Config{
		APIEndpoint: endpoint,
		Token:       viper.GetString("token"),
	}

	if viper.GetBool("verbose") {
		config.Debug = true
		config.Logger = NewZerologAdapter(os.Stderr)
	}

	client, err := swclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// StandardJSONRenderer encodes data as indented JSON on stdout.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer encodes data as YAML on stdout.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// renderStructured renders data as JSON or YAML when the selected output
// format asks for it. The second return value reports whether it rendered.
func renderStructured[T any](data T) (bool, error) {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return true, StandardJSONRenderer(data)
	case constants.FormatYAML:
		return true, StandardYAMLRenderer(data)
	case constants.FormatTable, "":
		return false, nil
	default:
		return true, fmt.Errorf("%w: %s", ErrInvalidOutputFormat, viper.GetString("output"))
	}
}

// formatTime renders a timestamp, tolerating nil.
func formatTime(t *time.Time) string {
	if t == nil {
		return NotAvailable
	}

	return t.Format(timeFormat)
}

// truncate shortens long values for table display.
func truncate(s string) string {
	if len(s) > maxCellWidth {
		return s[:maxCellWidth-3] + "..."
	}

	return s
}

// orNA substitutes N/A for empty strings.
func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}

	return s
}
