package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names routed through asynq.
const (
	TypeWelcomeEmail     = "newsletter:welcome"
	TypeExpiredCartSweep = "carts:sweep"
)

// WelcomeEmailPayload carries the subscriber address.
type WelcomeEmailPayload struct {
	Email string `json:"email"`
}

// Client enqueues background tasks.
type Client struct {
	A *asynq.Client
}

// EnqueueWelcomeEmail schedules the newsletter welcome email.
func (c *Client) EnqueueWelcomeEmail(ctx context.Context, email string) error {
	if c == nil || c.A == nil {
		return nil
	}
	payload, err := json.Marshal(WelcomeEmailPayload{Email: email})
	if err != nil {
		return fmt.Errorf("marshal welcome payload: %w", err)
	}
	task := asynq.NewTask(TypeWelcomeEmail, payload)
	_, err = c.A.EnqueueContext(ctx, task,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	return err
}

// NewExpiredCartSweepTask builds the periodic cart sweep task.
func NewExpiredCartSweepTask() *asynq.Task {
	return asynq.NewTask(TypeExpiredCartSweep, nil)
}
