package sapi_test

import (
	"context"
	"testing"
	"time"

	"github.com/scrapeworks-io/sapi/pkg/sapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements sapi.Client for testing
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Actors() sapi.ActorsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(sapi.ActorsClient)
}

func (m *MockClient) Runs() sapi.RunsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(sapi.RunsClient)
}

func (m *MockClient) Datasets() sapi.DatasetsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(sapi.DatasetsClient)
}

func (m *MockClient) KeyValueStores() sapi.KeyValueStoresClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(sapi.KeyValueStoresClient)
}

func (m *MockClient) RequestQueues() sapi.RequestQueuesClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(sapi.RequestQueuesClient)
}

func (m *MockClient) Schedules() sapi.SchedulesClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(sapi.SchedulesClient)
}

func (m *MockClient) Webhooks() sapi.WebhooksClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(sapi.WebhooksClient)
}

func (m *MockClient) Users() sapi.UsersClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(sapi.UsersClient)
}

func (m *MockClient) Logs() sapi.LogsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(sapi.LogsClient)
}

// MockActorsClient implements sapi.ActorsClient for testing
type MockActorsClient struct {
	mock.Mock
}

func (m *MockActorsClient) Get(ctx context.Context, actorID string) (*sapi.Actor, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.Actor), args.Error(1)
}

func (m *MockActorsClient) Create(ctx context.Context, request *sapi.ActorCreateRequest) (*sapi.Actor, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.Actor), args.Error(1)
}

func (m *MockActorsClient) Update(ctx context.Context, actorID string, request *sapi.ActorUpdateRequest) (*sapi.Actor, error) {
	args := m.Called(ctx, actorID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.Actor), args.Error(1)
}

func (m *MockActorsClient) Delete(ctx context.Context, actorID string) error {
	args := m.Called(ctx, actorID)

	return args.Error(0)
}

func (m *MockActorsClient) List(ctx context.Context, opts *sapi.ListOptions) (*sapi.ActorList, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.ActorList), args.Error(1)
}

func (m *MockActorsClient) ListAll(ctx context.Context, opts *sapi.ListOptions) ([]sapi.Actor, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]sapi.Actor), args.Error(1)
}

func (m *MockActorsClient) Start(ctx context.Context, actorID string, input interface{}, opts *sapi.RunOptions) (*sapi.Run, error) {
	args := m.Called(ctx, actorID, input, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.Run), args.Error(1)
}

func (m *MockActorsClient) Call(ctx context.Context, actorID string, input interface{}, opts *sapi.RunOptions) (*sapi.Run, error) {
	args := m.Called(ctx, actorID, input, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.Run), args.Error(1)
}

func (m *MockActorsClient) LastRun(ctx context.Context, actorID string) (*sapi.Run, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.Run), args.Error(1)
}

func (m *MockActorsClient) ListVersions(ctx context.Context, actorID string) ([]sapi.ActorVersion, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]sapi.ActorVersion), args.Error(1)
}

func (m *MockActorsClient) ListBuilds(ctx context.Context, actorID string, opts *sapi.ListOptions) (*sapi.PaginatedList[sapi.Build], error) {
	args := m.Called(ctx, actorID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.PaginatedList[sapi.Build]), args.Error(1)
}

func (m *MockActorsClient) GetBuild(ctx context.Context, actorID, buildID string) (*sapi.Build, error) {
	args := m.Called(ctx, actorID, buildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.Build), args.Error(1)
}

// MockSchedulesClient implements sapi.SchedulesClient for testing
type MockSchedulesClient struct {
	mock.Mock
}

func (m *MockSchedulesClient) Get(ctx context.Context, scheduleID string) (*sapi.Schedule, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.Schedule), args.Error(1)
}

func (m *MockSchedulesClient) Create(ctx context.Context, request *sapi.ScheduleCreateRequest) (*sapi.Schedule, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.Schedule), args.Error(1)
}

func (m *MockSchedulesClient) Update(ctx context.Context, scheduleID string, request *sapi.ScheduleUpdateRequest) (*sapi.Schedule, error) {
	args := m.Called(ctx, scheduleID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.Schedule), args.Error(1)
}

func (m *MockSchedulesClient) Delete(ctx context.Context, scheduleID string) error {
	args := m.Called(ctx, scheduleID)

	return args.Error(0)
}

func (m *MockSchedulesClient) List(ctx context.Context, opts *sapi.ListOptions) (*sapi.ScheduleList, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sapi.ScheduleList), args.Error(1)
}

func TestBatchExecutor_Execute(t *testing.T) {
	mockClient := &MockClient{}
	mockActors := &MockActorsClient{}
	mockClient.On("Actors").Return(mockActors)

	executor := sapi.NewBatchExecutor(mockClient, 2)
	ctx := context.Background()

	actor1 := &sapi.Actor{
		Resource: sapi.Resource{ID: "actor-1"},
		Name:     "web-scraper",
	}
	actor2 := &sapi.Actor{
		Resource: sapi.Resource{ID: "actor-2"},
		Name:     "sitemap-crawler",
	}

	mockActors.On("Get", mock.Anything, "actor-1").Return(actor1, nil)
	mockActors.On("Get", mock.Anything, "actor-2").Return(actor2, nil)

	operations := []sapi.BatchOperation{
		{
			ID:       "op1",
			Type:     "get",
			Resource: "actor",
			Data:     "actor-1",
		},
		{
			ID:       "op2",
			Type:     "get",
			Resource: "actor",
			Data:     "actor-2",
		},
	}

	results := executor.Execute(ctx, operations)
	require.Len(t, results, 2)

	// Results keep the input order regardless of completion order.
	assert.Equal(t, "op1", results[0].ID)
	assert.Equal(t, "op2", results[1].ID)

	for _, result := range results {
		assert.True(t, result.Success)
		require.NoError(t, result.Error)
		assert.NotNil(t, result.Data)
		assert.Positive(t, result.Duration)
	}

	mockClient.AssertExpectations(t)
	mockActors.AssertExpectations(t)
}

func TestBatchExecutor_WithCallback(t *testing.T) {
	mockClient := &MockClient{}
	mockActors := &MockActorsClient{}
	mockClient.On("Actors").Return(mockActors)

	executor := sapi.NewBatchExecutor(mockClient, 1)
	ctx := context.Background()

	actor := &sapi.Actor{
		Resource: sapi.Resource{ID: "actor-1"},
		Name:     "web-scraper",
	}
	mockActors.On("Get", mock.Anything, "actor-1").Return(actor, nil)

	var callbackCalled bool

	var callbackResult *sapi.BatchResult

	operation := sapi.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "actor",
		Data:     "actor-1",
		Callback: func(result *sapi.BatchResult) {
			callbackCalled = true
			callbackResult = result
		},
	}

	_ = executor.Execute(ctx, []sapi.BatchOperation{operation})

	assert.True(t, callbackCalled)
	require.NotNil(t, callbackResult)
	assert.True(t, callbackResult.Success)
	assert.Equal(t, "op1", callbackResult.ID)

	mockClient.AssertExpectations(t)
	mockActors.AssertExpectations(t)
}

func TestBatchExecutor_WithError(t *testing.T) {
	mockClient := &MockClient{}
	mockActors := &MockActorsClient{}
	mockClient.On("Actors").Return(mockActors)

	executor := sapi.NewBatchExecutor(mockClient, 1)
	ctx := context.Background()

	notFound := &sapi.APIError{
		Kind:       sapi.ErrorKindNotFound,
		Message:    "Actor was not found",
		StatusCode: 404,
	}
	mockActors.On("Get", mock.Anything, "missing").Return(nil, notFound)

	operations := []sapi.BatchOperation{
		{
			ID:       "op1",
			Type:     "get",
			Resource: "actor",
			Data:     "missing",
		},
		{
			ID:       "op2",
			Type:     "get",
			Resource: "actor",
			Data:     "actor-1",
		},
	}

	actor := &sapi.Actor{Resource: sapi.Resource{ID: "actor-1"}}
	mockActors.On("Get", mock.Anything, "actor-1").Return(actor, nil)

	results := executor.Execute(ctx, operations)
	require.Len(t, results, 2)

	// One failing operation does not affect the others.
	assert.False(t, results[0].Success)
	require.Error(t, results[0].Error)
	assert.True(t, sapi.IsNotFound(results[0].Error))
	assert.True(t, results[1].Success)

	mockClient.AssertExpectations(t)
	mockActors.AssertExpectations(t)
}

func TestBatchExecutor_UnsupportedResource(t *testing.T) {
	executor := sapi.NewBatchExecutor(&MockClient{}, 1)

	results := executor.Execute(context.Background(), []sapi.BatchOperation{
		{
			ID:       "op1",
			Type:     "get",
			Resource: "dataset-item",
			Data:     "whatever",
		},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	require.ErrorIs(t, results[0].Error, sapi.ErrUnsupportedResourceType)
}

func TestBatchExecutor_UnsupportedOperation(t *testing.T) {
	executor := sapi.NewBatchExecutor(&MockClient{}, 1)

	results := executor.Execute(context.Background(), []sapi.BatchOperation{
		{
			ID:       "op1",
			Type:     "upsert",
			Resource: "actor",
			Data:     "actor-1",
		},
	})

	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Error, sapi.ErrUnsupportedOperationType)
}

func TestBatchExecutor_InvalidDataType(t *testing.T) {
	executor := sapi.NewBatchExecutor(&MockClient{}, 1)

	results := executor.Execute(context.Background(), []sapi.BatchOperation{
		{
			ID:       "op1",
			Type:     "create",
			Resource: "actor",
			Data:     42,
		},
	})

	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Error, sapi.ErrInvalidDataTypeActor)
}

func TestBatchExecutor_ScheduleOperations(t *testing.T) {
	mockClient := &MockClient{}
	mockSchedules := &MockSchedulesClient{}
	mockClient.On("Schedules").Return(mockSchedules)

	executor := sapi.NewBatchExecutor(mockClient, 2)
	ctx := context.Background()

	schedule := &sapi.Schedule{
		Resource:       sapi.Resource{ID: "schedule-1"},
		CronExpression: "0 3 * * *",
	}
	createReq := &sapi.ScheduleCreateRequest{
		Name:           "nightly-crawl",
		CronExpression: "0 3 * * *",
	}

	mockSchedules.On("Create", mock.Anything, createReq).Return(schedule, nil)
	mockSchedules.On("Delete", mock.Anything, "schedule-2").Return(nil)

	operations := sapi.NewBatchBuilder().
		AddCreateSchedule("create-1", createReq).
		AddDeleteSchedule("delete-1", "schedule-2").
		Build()

	results := executor.Execute(ctx, operations)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Success)

	mockClient.AssertExpectations(t)
	mockSchedules.AssertExpectations(t)
}

func TestBatchBuilder(t *testing.T) {
	builder := sapi.NewBatchBuilder()

	req1 := &sapi.ActorCreateRequest{
		Name: "web-scraper",
	}
	name := "renamed-scraper"
	req2 := &sapi.ActorUpdateRequest{
		Name: &name,
	}

	builder.
		AddCreateActor("create-1", req1).
		AddUpdateActor("update-1", "actor-1", req2).
		AddDeleteActor("delete-1", "actor-2").
		AddGetActor("get-1", "actor-3")

	operations := builder.Build()
	assert.Len(t, operations, 4)

	assert.Equal(t, "create-1", operations[0].ID)
	assert.Equal(t, "create", operations[0].Type)
	assert.Equal(t, "actor", operations[0].Resource)

	assert.Equal(t, "update-1", operations[1].ID)
	assert.Equal(t, "update", operations[1].Type)

	assert.Equal(t, "delete-1", operations[2].ID)
	assert.Equal(t, "delete", operations[2].Type)

	assert.Equal(t, "get-1", operations[3].ID)
	assert.Equal(t, "get", operations[3].Type)
}

func TestBatchExecutor_SetTimeout(t *testing.T) {
	mockClient := &MockClient{}
	mockActors := &MockActorsClient{}
	mockClient.On("Actors").Return(mockActors)

	executor := sapi.NewBatchExecutor(mockClient, 1)
	executor.SetTimeout(10 * time.Millisecond)

	mockActors.On("Get", mock.Anything, "actor-1").Return(nil, context.DeadlineExceeded).Run(func(args mock.Arguments) {
		opCtx := args.Get(0).(context.Context)
		<-opCtx.Done()
	})

	results := executor.Execute(context.Background(), []sapi.BatchOperation{
		{
			ID:       "op1",
			Type:     "get",
			Resource: "actor",
			Data:     "actor-1",
		},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	require.ErrorIs(t, results[0].Error, context.DeadlineExceeded)
}
