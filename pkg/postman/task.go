package postman

import (
	"context"

	"go.uber.org/zap"
)

// TaskService polls server-side async jobs.
type TaskService struct {
	client *Client
}

// Poll fetches taskURL every PollInterval until the task completes, fails,
// or MaxPollAttempts is exhausted. taskURL is the API-relative path handed
// back by the endpoint that started the job. A failed task returns a
// *TaskError carrying the final payload; an exhausted budget returns
// ErrTaskTimeout.
func (s *TaskService) Poll(ctx context.Context, taskURL string) (*Task, error) {
	c := s.client

	for attempt := 1; attempt <= c.maxPollAttempts; attempt++ {
		var task Task
		if err := c.get(ctx, taskURL, &task); err != nil {
			return nil, err
		}

		c.log.Debug("Polled task",
			zap.Int("attempt", attempt),
			zap.String("status", task.Status),
		)

		switch task.Status {
		case TaskStatusCompleted:
			return &task, nil
		case TaskStatusFailed:
			c.log.Error("Task failed", zap.Any("task", task))
			return nil, &TaskError{Task: &task}
		}

		c.sleep(c.pollInterval)
	}

	return nil, ErrTaskTimeout
}
