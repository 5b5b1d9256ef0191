package sapi

import (
	"encoding/json"
	"time"
)

// Resource represents the base structure shared by all ScrapeWorks API
// resources.
type Resource struct {
	ID         string    `json:"id"         yaml:"id"`
	CreatedAt  time.Time `json:"createdAt"  yaml:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt" yaml:"modifiedAt"`
}

// Envelope is the {"data": ...} wrapper the API applies to all responses.
type Envelope struct {
	Data json.RawMessage `json:"data"`
}

// PaginatedList is the wire shape returned by every list endpoint, nested
// under the data envelope. All fields are optional on the wire; the
// pagination helpers tolerate their absence.
type PaginatedList[T any] struct {
	Items  []T   `json:"items"           yaml:"items"`
	Total  int64 `json:"total"           yaml:"total"`
	Offset int64 `json:"offset"          yaml:"offset"`
	Limit  int64 `json:"limit"           yaml:"limit"`
	Count  int64 `json:"count,omitempty" yaml:"count,omitempty"`
	Desc   bool  `json:"desc,omitempty"  yaml:"desc,omitempty"`
}

// Actor represents a scraping actor.
type Actor struct {
	Resource

	Name              string         `json:"name"                  yaml:"name"`
	Username          string         `json:"username"              yaml:"username"`
	Title             string         `json:"title,omitempty"       yaml:"title,omitempty"`
	Description       string         `json:"description,omitempty" yaml:"description,omitempty"`
	IsPublic          bool           `json:"isPublic"              yaml:"isPublic"`
	Versions          []ActorVersion `json:"versions,omitempty"   yaml:"versions,omitempty"`
	DefaultRunOptions *RunOptions    `json:"defaultRunOptions,omitempty" yaml:"defaultRunOptions,omitempty"`
}

// ActorVersion represents one version of an actor's source.
type ActorVersion struct {
	VersionNumber string `json:"versionNumber"        yaml:"versionNumber"`
	BuildTag      string `json:"buildTag,omitempty"   yaml:"buildTag,omitempty"`
	SourceType    string `json:"sourceType,omitempty" yaml:"sourceType,omitempty"`
}

// Build represents an actor build.
type Build struct {
	Resource

	ActorID    string     `json:"actId"                yaml:"actId"`
	Status     string     `json:"status"               yaml:"status"`
	StartedAt  *time.Time `json:"startedAt,omitempty"  yaml:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
}

// Run statuses reported by the platform.
const (
	RunStatusReady     = "READY"
	RunStatusRunning   = "RUNNING"
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusFailed    = "FAILED"
	RunStatusAborting  = "ABORTING"
	RunStatusAborted   = "ABORTED"
	RunStatusTimingOut = "TIMING-OUT"
	RunStatusTimedOut  = "TIMED-OUT"
)

// Run represents an actor run.
type Run struct {
	Resource

	ActorID          string     `json:"actId"                      yaml:"actId"`
	BuildID          string     `json:"buildId,omitempty"          yaml:"buildId,omitempty"`
	Status           string     `json:"status"                     yaml:"status"`
	StatusMessage    string     `json:"statusMessage,omitempty"    yaml:"statusMessage,omitempty"`
	StartedAt        *time.Time `json:"startedAt,omitempty"        yaml:"startedAt,omitempty"`
	FinishedAt       *time.Time `json:"finishedAt,omitempty"       yaml:"finishedAt,omitempty"`
	ExitCode         *int       `json:"exitCode,omitempty"         yaml:"exitCode,omitempty"`
	DefaultDatasetID string     `json:"defaultDatasetId,omitempty" yaml:"defaultDatasetId,omitempty"`
	DefaultStoreID   string     `json:"defaultKeyValueStoreId,omitempty" yaml:"defaultKeyValueStoreId,omitempty"`
	DefaultQueueID   string     `json:"defaultRequestQueueId,omitempty"  yaml:"defaultRequestQueueId,omitempty"`
}

// Finished reports whether the run reached a terminal state.
func (r *Run) Finished() bool {
	switch r.Status {
	case RunStatusSucceeded, RunStatusFailed, RunStatusAborted, RunStatusTimedOut:
		return true
	default:
		return false
	}
}

// RunOptions carries per-run overrides for actor execution.
type RunOptions struct {
	Build       string `json:"build,omitempty"       yaml:"build,omitempty"`
	TimeoutSecs int    `json:"timeoutSecs,omitempty" yaml:"timeoutSecs,omitempty"`
	MemoryMB    int    `json:"memoryMbytes,omitempty" yaml:"memoryMbytes,omitempty"`
}

// Dataset represents an append-only dataset of scraped items.
type Dataset struct {
	Resource

	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	ItemCount  int64  `json:"itemCount"      yaml:"itemCount"`
	ActorID    string `json:"actId,omitempty" yaml:"actId,omitempty"`
	ActorRunID string `json:"actRunId,omitempty" yaml:"actRunId,omitempty"`
}

// DatasetItem is one opaque record in a dataset. Item shape is entirely
// actor-defined.
type DatasetItem = map[string]interface{}

// KeyValueStore represents a key-value store.
type KeyValueStore struct {
	Resource

	Name       string `json:"name,omitempty"     yaml:"name,omitempty"`
	ActorID    string `json:"actId,omitempty"    yaml:"actId,omitempty"`
	ActorRunID string `json:"actRunId,omitempty" yaml:"actRunId,omitempty"`
}

// StoreKey describes one key in a key-value store listing.
type StoreKey struct {
	Key  string `json:"key"  yaml:"key"`
	Size int64  `json:"size" yaml:"size"`
}

// StoreRecord is a single record fetched from a key-value store.
type StoreRecord struct {
	Key         string `json:"key"         yaml:"key"`
	Value       []byte `json:"value"       yaml:"value"`
	ContentType string `json:"contentType" yaml:"contentType"`
}

// RequestQueue represents a request queue.
type RequestQueue struct {
	Resource

	Name                string `json:"name,omitempty" yaml:"name,omitempty"`
	TotalRequestCount   int64  `json:"totalRequestCount"   yaml:"totalRequestCount"`
	HandledRequestCount int64  `json:"handledRequestCount" yaml:"handledRequestCount"`
	PendingRequestCount int64  `json:"pendingRequestCount" yaml:"pendingRequestCount"`
}

// QueuedRequest is one request stored in a request queue.
type QueuedRequest struct {
	ID        string                 `json:"id,omitempty"        yaml:"id,omitempty"`
	UniqueKey string                 `json:"uniqueKey"           yaml:"uniqueKey"`
	URL       string                 `json:"url"                 yaml:"url"`
	Method    string                 `json:"method,omitempty"    yaml:"method,omitempty"`
	Retries   int                    `json:"retryCount"          yaml:"retryCount"`
	UserData  map[string]interface{} `json:"userData,omitempty"  yaml:"userData,omitempty"`
	HandledAt *time.Time             `json:"handledAt,omitempty" yaml:"handledAt,omitempty"`
}

// QueueOperationInfo is returned by queue mutation endpoints.
type QueueOperationInfo struct {
	RequestID         string `json:"requestId"             yaml:"requestId"`
	WasAlreadyPresent bool   `json:"wasAlreadyPresent"     yaml:"wasAlreadyPresent"`
	WasAlreadyHandled bool   `json:"wasAlreadyHandled"     yaml:"wasAlreadyHandled"`
}

// QueueHead is a snapshot of the first requests waiting in a queue.
type QueueHead struct {
	Limit                  int64           `json:"limit"       yaml:"limit"`
	QueueHasLockedRequests bool            `json:"queueHasLockedRequests" yaml:"queueHasLockedRequests"`
	Items                  []QueuedRequest `json:"items"       yaml:"items"`
}

// Schedule represents a cron-style schedule that starts actors. The cron
// expression is opaque to the client; validation happens server-side.
type Schedule struct {
	Resource

	Name           string           `json:"name"                 yaml:"name"`
	CronExpression string           `json:"cronExpression"       yaml:"cronExpression"`
	Timezone       string           `json:"timezone,omitempty"   yaml:"timezone,omitempty"`
	IsEnabled      bool             `json:"isEnabled"            yaml:"isEnabled"`
	Actions        []ScheduleAction `json:"actions,omitempty"    yaml:"actions,omitempty"`
	NextRunAt      *time.Time       `json:"nextRunAt,omitempty"  yaml:"nextRunAt,omitempty"`
	LastRunAt      *time.Time       `json:"lastRunAt,omitempty"  yaml:"lastRunAt,omitempty"`
}

// ScheduleAction describes what a schedule starts when it fires.
type ScheduleAction struct {
	Type     string      `json:"type"              yaml:"type"`
	ActorID  string      `json:"actorId,omitempty" yaml:"actorId,omitempty"`
	RunInput interface{} `json:"runInput,omitempty" yaml:"runInput,omitempty"`
}

// Webhook represents a webhook subscription.
type Webhook struct {
	Resource

	EventTypes      []string               `json:"eventTypes"            yaml:"eventTypes"`
	Condition       map[string]interface{} `json:"condition,omitempty"   yaml:"condition,omitempty"`
	RequestURL      string                 `json:"requestUrl"            yaml:"requestUrl"`
	PayloadTemplate string                 `json:"payloadTemplate,omitempty" yaml:"payloadTemplate,omitempty"`
	IsAdHoc         bool                   `json:"isAdHoc,omitempty"     yaml:"isAdHoc,omitempty"`
}

// WebhookDispatch represents one delivery attempt of a webhook.
type WebhookDispatch struct {
	Resource

	WebhookID string `json:"webhookId" yaml:"webhookId"`
	EventType string `json:"eventType" yaml:"eventType"`
	Status    string `json:"status"    yaml:"status"`
}

// User represents the authenticated account.
type User struct {
	ID       string `json:"id"       yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Plan     string `json:"plan,omitempty"  yaml:"plan,omitempty"`
}

// UsageSummary reports account-level platform usage.
type UsageSummary struct {
	MonthlyUsageUSD float64 `json:"monthlyUsageUsd"    yaml:"monthlyUsageUsd"`
	ComputeUnits    float64 `json:"computeUnits"       yaml:"computeUnits"`
	DatasetReads    int64   `json:"datasetReads"       yaml:"datasetReads"`
	DatasetWrites   int64   `json:"datasetWrites"      yaml:"datasetWrites"`
}

// ActorList represents a paginated list of actors.
type ActorList = PaginatedList[Actor]

// RunList represents a paginated list of runs.
type RunList = PaginatedList[Run]

// DatasetList represents a paginated list of datasets.
type DatasetList = PaginatedList[Dataset]

// ScheduleList represents a paginated list of schedules.
type ScheduleList = PaginatedList[Schedule]

// WebhookList represents a paginated list of webhooks.
type WebhookList = PaginatedList[Webhook]
