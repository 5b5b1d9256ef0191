package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scrapeworks-io/sapi/internal/http"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
)

// SchedulesClient implements sapi.SchedulesClient. Cron expressions are
// passed through verbatim; the server validates them.
type SchedulesClient struct {
	httpClient *http.Client
}

// NewSchedulesClient creates a new schedules client.
func NewSchedulesClient(httpClient *http.Client) *SchedulesClient {
	return &SchedulesClient{httpClient: httpClient}
}

// Get implements sapi.SchedulesClient.Get.
func (c *SchedulesClient) Get(ctx context.Context, scheduleID string) (*sapi.Schedule, error) {
	path := "/v2/schedules/" + scheduleID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting schedule: %w", err)
	}

	var schedule sapi.Schedule

	err = json.Unmarshal(resp.Body, &schedule)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule: %w", err)
	}

	return &schedule, nil
}

// Create implements sapi.SchedulesClient.Create.
func (c *SchedulesClient) Create(ctx context.Context, request *sapi.ScheduleCreateRequest) (*sapi.Schedule, error) {
	if request == nil || request.CronExpression == "" {
		return nil, sapi.ErrScheduleCronRequired
	}

	resp, err := c.httpClient.Post(ctx, "/v2/schedules", request)
	if err != nil {
		return nil, fmt.Errorf("creating schedule: %w", err)
	}

	var schedule sapi.Schedule

	err = json.Unmarshal(resp.Body, &schedule)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule: %w", err)
	}

	return &schedule, nil
}

// Update implements sapi.SchedulesClient.Update.
func (c *SchedulesClient) Update(ctx context.Context, scheduleID string, request *sapi.ScheduleUpdateRequest) (*sapi.Schedule, error) {
	path := "/v2/schedules/" + scheduleID

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating schedule: %w", err)
	}

	var schedule sapi.Schedule

	err = json.Unmarshal(resp.Body, &schedule)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule: %w", err)
	}

	return &schedule, nil
}

// Delete implements sapi.SchedulesClient.Delete.
func (c *SchedulesClient) Delete(ctx context.Context, scheduleID string) error {
	path := "/v2/schedules/" + scheduleID

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}

	return nil
}

// List implements sapi.SchedulesClient.List.
func (c *SchedulesClient) List(ctx context.Context, opts *sapi.ListOptions) (*sapi.ScheduleList, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/schedules", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}

	var result sapi.ScheduleList

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing schedules list: %w", err)
	}

	return &result, nil
}
