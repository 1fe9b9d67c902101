package postman

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a looked-up resource does not exist. Lookups that
// probe for expected absence return it so callers can branch with errors.Is
// instead of string matching.
var ErrNotFound = errors.New("resource not found")

// ErrTaskTimeout reports that an async task did not reach a terminal state
// within the poll budget.
var ErrTaskTimeout = errors.New("task polling timed out")

// ErrNoGeneratedResource reports a completed generation task whose result
// carried no resource.
var ErrNoGeneratedResource = errors.New("task completed without a generated resource")

// APIError is a terminal HTTP failure, returned once all retry attempts for
// a call are exhausted. Body holds the raw response body for diagnosis.
type APIError struct {
	Status   int
	Method   string
	Endpoint string
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s returned status %d", e.Method, e.Endpoint, e.Status)
}

// TaskError reports an async task that finished in the failed state. Task
// holds the final payload returned by the API.
type TaskError struct {
	Task *Task
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed", e.Task.ID)
}
