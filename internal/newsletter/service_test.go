package newsletter

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/haisenberg98/brewgear-api/internal/store"
)

type memNewsletter struct {
	subs map[string]store.Subscriber
}

func (m *memNewsletter) Subscribe(_ context.Context, email string) (store.Subscriber, error) {
	if _, ok := m.subs[email]; ok {
		return store.Subscriber{}, &pgconn.PgError{Code: "23505"}
	}
	sub := store.Subscriber{Email: email}
	m.subs[email] = sub
	return sub, nil
}

func (m *memNewsletter) GetByEmail(_ context.Context, email string) (store.Subscriber, error) {
	if sub, ok := m.subs[email]; ok {
		return sub, nil
	}
	return store.Subscriber{}, pgx.ErrNoRows
}

type recordingEnqueuer struct {
	emails []string
	err    error
}

func (r *recordingEnqueuer) EnqueueWelcomeEmail(_ context.Context, email string) error {
	r.emails = append(r.emails, email)
	return r.err
}

func TestSubscribeNormalizesAndEnqueues(t *testing.T) {
	tasks := &recordingEnqueuer{}
	svc := &Service{S: &memNewsletter{subs: map[string]store.Subscriber{}}, Tasks: tasks}

	sub, err := svc.Subscribe(context.Background(), "  Jordan@Example.COM ")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if sub.Email != "jordan@example.com" {
		t.Fatalf("expected lowercased email, got %q", sub.Email)
	}
	if len(tasks.emails) != 1 || tasks.emails[0] != "jordan@example.com" {
		t.Fatalf("welcome email not enqueued: %v", tasks.emails)
	}
}

func TestSubscribeDuplicate(t *testing.T) {
	mem := &memNewsletter{subs: map[string]store.Subscriber{
		"jordan@example.com": {Email: "jordan@example.com"},
	}}
	svc := &Service{S: mem}

	if _, err := svc.Subscribe(context.Background(), "jordan@example.com"); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
}

func TestSubscribeRejectsMalformedEmail(t *testing.T) {
	svc := &Service{S: &memNewsletter{subs: map[string]store.Subscriber{}}}

	for _, email := range []string{"", "not-an-email", "a@", "spaces in@example.com"} {
		if _, err := svc.Subscribe(context.Background(), email); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("expected ErrInvalidEmail for %q, got %v", email, err)
		}
	}
}

func TestSubscribeEnqueueFailureDoesNotFailSignup(t *testing.T) {
	tasks := &recordingEnqueuer{err: errors.New("redis down")}
	svc := &Service{S: &memNewsletter{subs: map[string]store.Subscriber{}}, Tasks: tasks}

	if _, err := svc.Subscribe(context.Background(), "kit@example.com"); err != nil {
		t.Fatalf("signup must survive a failed enqueue: %v", err)
	}
}
