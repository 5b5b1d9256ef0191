package sapi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Static batch errors.
var (
	ErrUnsupportedResourceType  = errors.New("unsupported resource type")
	ErrUnsupportedOperationType = errors.New("unsupported operation type")
	ErrInvalidDataTypeActor     = errors.New("invalid data type for actor operation")
	ErrInvalidDataTypeSchedule  = errors.New("invalid data type for schedule operation")
	ErrInvalidDataTypeWebhook   = errors.New("invalid data type for webhook operation")
)

// UpdateDataWrapper pairs update data with the target resource ID.
type UpdateDataWrapper[T any] struct {
	ID      string
	Request *T
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Type     string // "create", "update", "delete", "get"
	Resource string // "actor", "schedule", "webhook"
	Data     interface{}
	Callback func(result *BatchResult)
}

// BatchResult represents the outcome of one batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// BatchExecutor runs independent resource operations concurrently with a
// bounded degree of parallelism. Each operation gets its own timeout; one
// operation failing never affects the others.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates an executor over the given client.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = 5
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     30 * time.Second,
	}
}

// SetTimeout sets the per-operation timeout.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations. Results are returned in the order of
// the input operations regardless of completion order.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) []BatchResult {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results
}

// executeOperation dispatches one operation to its resource handler.
func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	switch operation.Resource {
	case "actor":
		return b.executeActorOperation(ctx, operation)
	case "schedule":
		return b.executeScheduleOperation(ctx, operation)
	case "webhook":
		return b.executeWebhookOperation(ctx, operation)
	default:
		return &BatchResult{
			ID:    operation.ID,
			Error: fmt.Errorf("%w: %s", ErrUnsupportedResourceType, operation.Resource),
		}
	}
}

// handleCrudOperation routes an operation to the matching CRUD closure.
func handleCrudOperation(
	operation BatchOperation,
	createFunc func() (interface{}, error),
	updateFunc func() (interface{}, error),
	deleteFunc func() (interface{}, error),
	getFunc func() (interface{}, error),
) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	var (
		data interface{}
		err  error
	)

	switch operation.Type {
	case "create":
		data, err = createFunc()
	case "update":
		data, err = updateFunc()
	case "delete":
		data, err = deleteFunc()
	case "get":
		data, err = getFunc()
	default:
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)

		return result
	}

	result.Success = err == nil
	result.Data = data
	result.Error = err

	return result
}

// executeActorOperation handles actor CRUD.
func (b *BatchExecutor) executeActorOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if req, ok := operation.Data.(*ActorCreateRequest); ok {
				return b.client.Actors().Create(ctx, req)
			}

			return nil, fmt.Errorf("%w create", ErrInvalidDataTypeActor)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*UpdateDataWrapper[ActorUpdateRequest]); ok {
				return b.client.Actors().Update(ctx, data.ID, data.Request)
			}

			return nil, fmt.Errorf("%w update", ErrInvalidDataTypeActor)
		},
		func() (interface{}, error) {
			if id, ok := operation.Data.(string); ok {
				return nil, b.client.Actors().Delete(ctx, id)
			}

			return nil, fmt.Errorf("%w delete", ErrInvalidDataTypeActor)
		},
		func() (interface{}, error) {
			if id, ok := operation.Data.(string); ok {
				return b.client.Actors().Get(ctx, id)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeActor)
		},
	)
}

// executeScheduleOperation handles schedule CRUD.
func (b *BatchExecutor) executeScheduleOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if req, ok := operation.Data.(*ScheduleCreateRequest); ok {
				return b.client.Schedules().Create(ctx, req)
			}

			return nil, fmt.Errorf("%w create", ErrInvalidDataTypeSchedule)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*UpdateDataWrapper[ScheduleUpdateRequest]); ok {
				return b.client.Schedules().Update(ctx, data.ID, data.Request)
			}

			return nil, fmt.Errorf("%w update", ErrInvalidDataTypeSchedule)
		},
		func() (interface{}, error) {
			if id, ok := operation.Data.(string); ok {
				return nil, b.client.Schedules().Delete(ctx, id)
			}

			return nil, fmt.Errorf("%w delete", ErrInvalidDataTypeSchedule)
		},
		func() (interface{}, error) {
			if id, ok := operation.Data.(string); ok {
				return b.client.Schedules().Get(ctx, id)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeSchedule)
		},
	)
}

// executeWebhookOperation handles webhook CRUD.
func (b *BatchExecutor) executeWebhookOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if req, ok := operation.Data.(*WebhookCreateRequest); ok {
				return b.client.Webhooks().Create(ctx, req)
			}

			return nil, fmt.Errorf("%w create", ErrInvalidDataTypeWebhook)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*UpdateDataWrapper[WebhookUpdateRequest]); ok {
				return b.client.Webhooks().Update(ctx, data.ID, data.Request)
			}

			return nil, fmt.Errorf("%w update", ErrInvalidDataTypeWebhook)
		},
		func() (interface{}, error) {
			if id, ok := operation.Data.(string); ok {
				return nil, b.client.Webhooks().Delete(ctx, id)
			}

			return nil, fmt.Errorf("%w delete", ErrInvalidDataTypeWebhook)
		},
		func() (interface{}, error) {
			if id, ok := operation.Data.(string); ok {
				return b.client.Webhooks().Get(ctx, id)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeWebhook)
		},
	)
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddCreateActor adds an actor creation operation.
func (b *BatchBuilder) AddCreateActor(id string, request *ActorCreateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "create",
		Resource: "actor",
		Data:     request,
	})

	return b
}

// AddUpdateActor adds an actor update operation.
func (b *BatchBuilder) AddUpdateActor(id, actorID string, request *ActorUpdateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "update",
		Resource: "actor",
		Data: &UpdateDataWrapper[ActorUpdateRequest]{
			ID:      actorID,
			Request: request,
		},
	})

	return b
}

// AddDeleteActor adds an actor deletion operation.
func (b *BatchBuilder) AddDeleteActor(id, actorID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "delete",
		Resource: "actor",
		Data:     actorID,
	})

	return b
}

// AddGetActor adds an actor retrieval operation.
func (b *BatchBuilder) AddGetActor(id, actorID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "get",
		Resource: "actor",
		Data:     actorID,
	})

	return b
}

// AddCreateSchedule adds a schedule creation operation.
func (b *BatchBuilder) AddCreateSchedule(id string, request *ScheduleCreateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "create",
		Resource: "schedule",
		Data:     request,
	})

	return b
}

// AddDeleteSchedule adds a schedule deletion operation.
func (b *BatchBuilder) AddDeleteSchedule(id, scheduleID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "delete",
		Resource: "schedule",
		Data:     scheduleID,
	})

	return b
}

// AddCreateWebhook adds a webhook creation operation.
func (b *BatchBuilder) AddCreateWebhook(id string, request *WebhookCreateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "create",
		Resource: "webhook",
		Data:     request,
	})

	return b
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}
