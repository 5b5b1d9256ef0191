package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Output formats understood by the CLI.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// StreamChunkTimeout bounds the wait for each chunk of a streamed
	// response.
	StreamChunkTimeout = 30 * time.Second
)

// Retry limits.
const (
	// DefaultRetryWaitMin is the minimum wait between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Polling intervals for run monitoring.
const (
	// DefaultPollInterval is used when waiting for a run to finish.
	DefaultPollInterval = 2 * time.Second

	// DefaultRunWaitTimeout bounds WaitForFinish when the caller passes no
	// explicit timeout.
	DefaultRunWaitTimeout = 5 * time.Minute
)

// Pagination limits.
const (
	// DefaultPageLimit is the page size requested when iterating listings
	// without an explicit limit.
	DefaultPageLimit = 1000

	// QueueHeadDefaultLimit is the default number of requests returned by
	// a queue head read.
	QueueHeadDefaultLimit = 100
)

// Concurrency and batching limits.
const (
	// DefaultConcurrencyLimit bounds concurrent batch operations.
	DefaultConcurrencyLimit = 5
)

// Cache tuning.
const (
	// DefaultCacheSize is the default memory cache entry limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute
)
