package sapi

import (
	"context"
	"time"
)

// ActorsClient manages actors, their versions, and their builds.
type ActorsClient interface {
	Get(ctx context.Context, actorID string) (*Actor, error)
	Create(ctx context.Context, request *ActorCreateRequest) (*Actor, error)
	Update(ctx context.Context, actorID string, request *ActorUpdateRequest) (*Actor, error)
	Delete(ctx context.Context, actorID string) error
	List(ctx context.Context, opts *ListOptions) (*ActorList, error)
	ListAll(ctx context.Context, opts *ListOptions) ([]Actor, error)
	Start(ctx context.Context, actorID string, input interface{}, opts *RunOptions) (*Run, error)
	Call(ctx context.Context, actorID string, input interface{}, opts *RunOptions) (*Run, error)
	LastRun(ctx context.Context, actorID string) (*Run, error)
	ListVersions(ctx context.Context, actorID string) ([]ActorVersion, error)
	ListBuilds(ctx context.Context, actorID string, opts *ListOptions) (*PaginatedList[Build], error)
	GetBuild(ctx context.Context, actorID, buildID string) (*Build, error)
}

// RunsClient manages actor runs.
type RunsClient interface {
	Get(ctx context.Context, runID string) (*Run, error)
	List(ctx context.Context, opts *ListOptions) (*RunList, error)
	Abort(ctx context.Context, runID string) (*Run, error)
	Resurrect(ctx context.Context, runID string) (*Run, error)
	WaitForFinish(ctx context.Context, runID string, timeout time.Duration) (*Run, error)
}

// DatasetsClient manages datasets and their items.
type DatasetsClient interface {
	Get(ctx context.Context, datasetID string) (*Dataset, error)
	GetOrCreate(ctx context.Context, name string) (*Dataset, error)
	Update(ctx context.Context, datasetID, name string) (*Dataset, error)
	Delete(ctx context.Context, datasetID string) error
	List(ctx context.Context, opts *ListOptions) (*DatasetList, error)
	ListItems(ctx context.Context, datasetID string, opts *ListOptions) (*PaginatedList[DatasetItem], error)
	IterateItems(ctx context.Context, datasetID string, opts *ListOptions) *Iterator[DatasetItem]
	CollectItems(ctx context.Context, datasetID string, opts *ListOptions) ([]DatasetItem, error)
	PushItems(ctx context.Context, datasetID string, items ...DatasetItem) error
	StreamItems(ctx context.Context, datasetID, format string) (ByteStream, error)
	DownloadItems(ctx context.Context, datasetID, format, path string) error
}

// KeyValueStoresClient manages key-value stores and their records.
type KeyValueStoresClient interface {
	Get(ctx context.Context, storeID string) (*KeyValueStore, error)
	GetOrCreate(ctx context.Context, name string) (*KeyValueStore, error)
	Delete(ctx context.Context, storeID string) error
	List(ctx context.Context, opts *ListOptions) (*PaginatedList[KeyValueStore], error)
	ListKeys(ctx context.Context, storeID string, opts *ListOptions) (*PaginatedList[StoreKey], error)
	GetRecord(ctx context.Context, storeID, key string) (*StoreRecord, error)
	StreamRecord(ctx context.Context, storeID, key string) (ByteStream, error)
	DownloadRecord(ctx context.Context, storeID, key, path string) error
	SetRecord(ctx context.Context, storeID, key string, value []byte, contentType string) error
	DeleteRecord(ctx context.Context, storeID, key string) error
}

// RequestQueuesClient manages request queues.
type RequestQueuesClient interface {
	Get(ctx context.Context, queueID string) (*RequestQueue, error)
	GetOrCreate(ctx context.Context, name string) (*RequestQueue, error)
	Delete(ctx context.Context, queueID string) error
	List(ctx context.Context, opts *ListOptions) (*PaginatedList[RequestQueue], error)
	AddRequest(ctx context.Context, queueID string, request *QueuedRequest) (*QueueOperationInfo, error)
	GetRequest(ctx context.Context, queueID, requestID string) (*QueuedRequest, error)
	UpdateRequest(ctx context.Context, queueID string, request *QueuedRequest) (*QueueOperationInfo, error)
	DeleteRequest(ctx context.Context, queueID, requestID string) error
	ListHead(ctx context.Context, queueID string, limit int64) (*QueueHead, error)
}

// SchedulesClient manages schedules.
type SchedulesClient interface {
	Get(ctx context.Context, scheduleID string) (*Schedule, error)
	Create(ctx context.Context, request *ScheduleCreateRequest) (*Schedule, error)
	Update(ctx context.Context, scheduleID string, request *ScheduleUpdateRequest) (*Schedule, error)
	Delete(ctx context.Context, scheduleID string) error
	List(ctx context.Context, opts *ListOptions) (*ScheduleList, error)
}

// WebhooksClient manages webhook subscriptions and their dispatches.
type WebhooksClient interface {
	Get(ctx context.Context, webhookID string) (*Webhook, error)
	Create(ctx context.Context, request *WebhookCreateRequest) (*Webhook, error)
	Update(ctx context.Context, webhookID string, request *WebhookUpdateRequest) (*Webhook, error)
	Delete(ctx context.Context, webhookID string) error
	List(ctx context.Context, opts *ListOptions) (*WebhookList, error)
	ListDispatches(ctx context.Context, webhookID string, opts *ListOptions) (*PaginatedList[WebhookDispatch], error)
}

// UsersClient reads account information.
type UsersClient interface {
	Me(ctx context.Context) (*User, error)
	UsageSummary(ctx context.Context) (*UsageSummary, error)
}

// LogsClient reads run logs.
type LogsClient interface {
	Get(ctx context.Context, runID string) (string, error)
	Stream(ctx context.Context, runID string) (ByteStream, error)
}

// Client provides access to every resource client.
type Client interface {
	Actors() ActorsClient
	Runs() RunsClient
	Datasets() DatasetsClient
	KeyValueStores() KeyValueStoresClient
	RequestQueues() RequestQueuesClient
	Schedules() SchedulesClient
	Webhooks() WebhooksClient
	Users() UsersClient
	Logs() LogsClient
}

// ByteStream is a finite, non-restartable lazy sequence of byte chunks from
// a streamed response. Next blocks until a chunk arrives, the stream
// completes, or the per-chunk wait elapses. Close releases the underlying
// connection and is safe to call at any time, including mid-stream
// abandonment.
type ByteStream interface {
	// Next returns the next chunk. It returns io.EOF after the final chunk,
	// a timeout_error classified APIError when no data arrives within the
	// chunk wait, and a stream_error when the connection dies after data
	// was already delivered.
	Next() ([]byte, error)
	Close() error
}

// Logger is the structured logging interface used across the client.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a sapi.Client.
//
// Authentication is token-only: set Token directly, or leave it empty and
// let swclient.NewFromEnv resolve SCRAPEWORKS_API_TOKEN. Requests without a
// token are sent unauthenticated and only reach public resources.
//
// Per-request timeouts should generally be controlled via the context
// passed to client methods; HTTPTimeout bounds each underlying transport
// call. Retries are disabled unless RetryMax is set, and the retry policy
// only replays idempotent-safe outcomes (429, 5xx, connection failures).
type Config struct {
	// APIEndpoint is the base URL of the API, e.g.
	// "https://api.scrapeworks.io". swclient.New normalizes it by trimming
	// a trailing slash and adding "https://" when no scheme is present.
	APIEndpoint string
	// Token is the API token used as a Bearer credential.
	Token string
	// HTTPTimeout bounds each transport call. Zero uses the default.
	HTTPTimeout time.Duration
	// RetryMax is the maximum number of transport-level retries for
	// transient failures. Zero disables retrying entirely.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration
	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger is the optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Cache optionally configures GET response caching.
	Cache *CacheConfig
}

// ActorCreateRequest is the payload for creating an actor.
type ActorCreateRequest struct {
	Name        string         `json:"name"                  yaml:"name"`
	Title       string         `json:"title,omitempty"       yaml:"title,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	IsPublic    bool           `json:"isPublic,omitempty"    yaml:"isPublic,omitempty"`
	Versions    []ActorVersion `json:"versions,omitempty"    yaml:"versions,omitempty"`
}

// ActorUpdateRequest is the payload for updating an actor.
type ActorUpdateRequest struct {
	Name        *string `json:"name,omitempty"        yaml:"name,omitempty"`
	Title       *string `json:"title,omitempty"       yaml:"title,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	IsPublic    *bool   `json:"isPublic,omitempty"    yaml:"isPublic,omitempty"`
}

// ScheduleCreateRequest is the payload for creating a schedule.
type ScheduleCreateRequest struct {
	Name           string           `json:"name"               yaml:"name"`
	CronExpression string           `json:"cronExpression"     yaml:"cronExpression"`
	Timezone       string           `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	IsEnabled      bool             `json:"isEnabled"          yaml:"isEnabled"`
	Actions        []ScheduleAction `json:"actions,omitempty"  yaml:"actions,omitempty"`
}

// ScheduleUpdateRequest is the payload for updating a schedule.
type ScheduleUpdateRequest struct {
	Name           *string          `json:"name,omitempty"           yaml:"name,omitempty"`
	CronExpression *string          `json:"cronExpression,omitempty" yaml:"cronExpression,omitempty"`
	Timezone       *string          `json:"timezone,omitempty"       yaml:"timezone,omitempty"`
	IsEnabled      *bool            `json:"isEnabled,omitempty"      yaml:"isEnabled,omitempty"`
	Actions        []ScheduleAction `json:"actions,omitempty"        yaml:"actions,omitempty"`
}

// WebhookCreateRequest is the payload for creating a webhook.
type WebhookCreateRequest struct {
	EventTypes      []string               `json:"eventTypes"                yaml:"eventTypes"`
	Condition       map[string]interface{} `json:"condition,omitempty"       yaml:"condition,omitempty"`
	RequestURL      string                 `json:"requestUrl"                yaml:"requestUrl"`
	PayloadTemplate string                 `json:"payloadTemplate,omitempty" yaml:"payloadTemplate,omitempty"`
	IsAdHoc         bool                   `json:"isAdHoc,omitempty"         yaml:"isAdHoc,omitempty"`
}

// WebhookUpdateRequest is the payload for updating a webhook.
type WebhookUpdateRequest struct {
	EventTypes      []string               `json:"eventTypes,omitempty"      yaml:"eventTypes,omitempty"`
	Condition       map[string]interface{} `json:"condition,omitempty"       yaml:"condition,omitempty"`
	RequestURL      *string                `json:"requestUrl,omitempty"      yaml:"requestUrl,omitempty"`
	PayloadTemplate *string                `json:"payloadTemplate,omitempty" yaml:"payloadTemplate,omitempty"`
}
