package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/haisenberg98/brewgear-api/internal/common"
)

// CartSweeper removes carts past their expiry.
type CartSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Handlers processes background tasks pulled off the queue.
type Handlers struct {
	Mail   common.EmailSender
	Carts  CartSweeper
	Logger *zerolog.Logger
}

// HandleWelcomeEmail sends the newsletter welcome email.
func (h *Handlers) HandleWelcomeEmail(_ context.Context, t *asynq.Task) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode welcome payload: %w", err)
	}
	if payload.Email == "" || h.Mail == nil {
		return nil
	}
	body := "<p>Thanks for subscribing to BrewGear. Fresh gear drops and brew guides, roughly monthly.</p>"
	if err := h.Mail.Send(payload.Email, "Welcome to BrewGear", body); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	if h.Logger != nil {
		h.Logger.Info().Str("email", payload.Email).Msg("welcome email sent")
	}
	return nil
}

// HandleExpiredCartSweep deletes carts whose TTL has lapsed.
func (h *Handlers) HandleExpiredCartSweep(ctx context.Context, _ *asynq.Task) error {
	if h.Carts == nil {
		return nil
	}
	deleted, err := h.Carts.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("sweep expired carts: %w", err)
	}
	if h.Logger != nil && deleted > 0 {
		h.Logger.Info().Int64("deleted", deleted).Msg("expired carts removed")
	}
	return nil
}

// Mux registers all task handlers on an asynq mux.
func (h *Handlers) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeWelcomeEmail, h.HandleWelcomeEmail)
	mux.HandleFunc(TypeExpiredCartSweep, h.HandleExpiredCartSweep)
	return mux
}
