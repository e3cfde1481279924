package sdk

import (
	"context"

	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/dispatcher"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

// TasksAPI exposes Task Store read/cancel/retry operations (spec
// §4.4/§4.10). List and Get are synchronous; Cancel and Retry touch the
// dispatcher and are documented as async per spec §6.1.
type TasksAPI struct {
	store      *tasks.Store
	dispatcher *dispatcher.Dispatcher
}

// List returns all tasks for a queue, or all tasks if queue is empty.
func (t *TasksAPI) List(queue string) []tasks.Task {
	return t.store.List(queue)
}

// Get returns the task by id.
func (t *TasksAPI) Get(id string) (*tasks.Task, error) {
	return t.store.Get(id)
}

// Cancel cancels a pending or running task.
func (t *TasksAPI) Cancel(_ context.Context, id string) error {
	return t.dispatcher.CancelTask(id)
}

// Retry manually re-enqueues a task whose attempt count has not been
// exhausted, bypassing the dispatcher's own retry/backoff decision (e.g.
// to retry a task that reached the `failed` terminal state without
// waiting on onRetry). Returns core.KindValidation if attempts are
// exhausted.
func (t *TasksAPI) Retry(_ context.Context, id string) (*tasks.Task, error) {
	retried, ok := t.store.PrepareRetry(id)
	if !ok {
		return nil, core.New("tasks.retry", core.KindValidation, nil)
	}
	if _, err := t.dispatcher.Enqueue(*retried); err != nil {
		return nil, err
	}
	return retried, nil
}
