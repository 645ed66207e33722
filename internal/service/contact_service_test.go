package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/showcase/backend/internal/metrics"
	"github.com/showcase/backend/internal/model"
	"github.com/showcase/backend/internal/notify"
	"github.com/showcase/backend/internal/view"
)

// ---------------------------------------------------------------------------
// mockContactRepository: in-memory stub for testing
// ---------------------------------------------------------------------------

type mockContactRepository struct {
	createFunc func(ctx context.Context, msg *model.Contact) error
	created    []*model.Contact
}

func (m *mockContactRepository) Create(ctx context.Context, msg *model.Contact) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, msg); err != nil {
			return err
		}
	} else {
		msg.ID = int64(len(m.created) + 1)
		msg.CreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	m.created = append(m.created, msg)
	return nil
}

// ---------------------------------------------------------------------------
// mockSender: records messages; sendFunc decides the outcome
// ---------------------------------------------------------------------------

type mockSender struct {
	mu       sync.Mutex
	sendFunc func(ctx context.Context, msg notify.Message) error
	sent     []notify.Message
}

func (m *mockSender) Send(ctx context.Context, msg notify.Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

func validInput() view.ContactInput {
	return view.ContactInput{Name: "Ann", Email: "ann@example.com", Message: "Hello"}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestContactService_Submit_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		input     view.ContactInput
		wantField string
	}{
		{"invalid email", view.ContactInput{Name: "Ann", Email: "not-an-email", Message: "Hi"}, "email"},
		{"missing name", view.ContactInput{Email: "ann@example.com", Message: "Hi"}, "name"},
		{"blank message", view.ContactInput{Name: "Ann", Email: "ann@example.com", Message: "   "}, "message"},
		{"name too long", view.ContactInput{Name: strings.Repeat("a", 101), Email: "ann@example.com", Message: "Hi"}, "name"},
		{"email too long", view.ContactInput{Name: "Ann", Email: strings.Repeat("a", 250) + "@example.com", Message: "Hi"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockContactRepository{}
			sender := &mockSender{}
			svc := NewContactService(repo, sender, ContactServiceConfig{From: "shop@example.com"})

			_, err := svc.Submit(context.Background(), tt.input)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("expected error for field %q, got %v", tt.wantField, verr.Fields)
			}
			if len(repo.created) != 0 {
				t.Errorf("expected no stored contacts, got %d", len(repo.created))
			}
			if len(sender.sent) != 0 {
				t.Errorf("expected no emails, got %d", len(sender.sent))
			}
		})
	}
}

func TestContactService_Submit_FieldMessages(t *testing.T) {
	svc := NewContactService(&mockContactRepository{}, &mockSender{}, ContactServiceConfig{From: "shop@example.com"})

	_, err := svc.Submit(context.Background(), view.ContactInput{Email: "bad", Message: strings.Repeat("x", 5001)})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := map[string]string{
		"name":    "This field is required.",
		"email":   "Enter a valid email address.",
		"message": "Ensure this field has no more than 5000 characters.",
	}
	for field, msg := range want {
		if verr.Fields[field] != msg {
			t.Errorf("%s: expected %q, got %q", field, msg, verr.Fields[field])
		}
	}
}

// ---------------------------------------------------------------------------
// Persistence and notifications
// ---------------------------------------------------------------------------

func TestContactService_Submit_StoresTrimmedAndNotifies(t *testing.T) {
	repo := &mockContactRepository{}
	sender := &mockSender{}
	svc := NewContactService(repo, sender, ContactServiceConfig{
		From:            "shop@example.com",
		OperatorAddress: "owner@example.com",
	})

	got, err := svc.Submit(context.Background(), view.ContactInput{
		Name:    "  Ann  ",
		Email:   " ann@example.com ",
		Message: "Hello\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 stored contact, got %d", len(repo.created))
	}
	if got.ID != 1 || got.Name != "Ann" || got.Email != "ann@example.com" || got.Message != "Hello" {
		t.Errorf("unexpected contact %+v", got)
	}
	if got.IsRead {
		t.Error("expected new contact to be unread")
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(sender.sent))
	}
	op, conf := sender.sent[0], sender.sent[1]
	if op.To[0] != "owner@example.com" || op.Subject != "New Contact Message from Ann" {
		t.Errorf("unexpected operator email %+v", op)
	}
	if !strings.Contains(op.Body, "Email: ann@example.com") || !strings.Contains(op.Body, "Message: Hello") {
		t.Errorf("operator body missing fields:\n%s", op.Body)
	}
	if conf.To[0] != "ann@example.com" || conf.Subject != "Thank you for your message!" {
		t.Errorf("unexpected confirmation email %+v", conf)
	}
	if !strings.HasPrefix(conf.Body, "Hi Ann,") || !strings.Contains(conf.Body, "Products Team") {
		t.Errorf("unexpected confirmation body:\n%s", conf.Body)
	}
	for _, m := range sender.sent {
		if m.From != "shop@example.com" {
			t.Errorf("expected From shop@example.com, got %q", m.From)
		}
	}
}

func TestContactService_Submit_OperatorDefaultsToFrom(t *testing.T) {
	sender := &mockSender{}
	svc := NewContactService(&mockContactRepository{}, sender, ContactServiceConfig{From: "shop@example.com"})

	if _, err := svc.Submit(context.Background(), validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.sent[0].To[0] != "shop@example.com" {
		t.Errorf("expected operator email to go to From, got %v", sender.sent[0].To)
	}
}

func TestContactService_Submit_SenderFailuresDoNotFailRequest(t *testing.T) {
	m := metrics.New()
	repo := &mockContactRepository{}
	sender := &mockSender{
		sendFunc: func(ctx context.Context, msg notify.Message) error {
			return errors.New("smtp: connection refused")
		},
	}
	svc := NewContactService(repo, sender, ContactServiceConfig{From: "shop@example.com", Metrics: m})

	got, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("expected success despite email failures, got %v", err)
	}
	if got == nil || len(repo.created) != 1 {
		t.Fatal("expected the contact to be stored")
	}
	if len(sender.sent) != 2 {
		t.Errorf("expected both emails to be attempted, got %d", len(sender.sent))
	}
	if v := testutil.ToFloat64(m.NotificationFailures.WithLabelValues(notifyOperator)); v != 1 {
		t.Errorf("expected 1 operator failure, got %v", v)
	}
	if v := testutil.ToFloat64(m.NotificationFailures.WithLabelValues(notifyConfirmation)); v != 1 {
		t.Errorf("expected 1 confirmation failure, got %v", v)
	}
	if v := testutil.ToFloat64(m.ContactsTotal.WithLabelValues("created")); v != 1 {
		t.Errorf("expected 1 created contact, got %v", v)
	}
}

func TestContactService_Submit_OperatorPanicStillSendsConfirmation(t *testing.T) {
	sender := &mockSender{
		sendFunc: func(ctx context.Context, msg notify.Message) error {
			if msg.Subject != "Thank you for your message!" {
				panic("boom")
			}
			return nil
		},
	}
	svc := NewContactService(&mockContactRepository{}, sender, ContactServiceConfig{From: "shop@example.com"})

	if _, err := svc.Submit(context.Background(), validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Errorf("expected confirmation after operator panic, got %d sends", len(sender.sent))
	}
}

func TestContactService_Submit_NotificationTimeout(t *testing.T) {
	sender := &mockSender{
		sendFunc: func(ctx context.Context, msg notify.Message) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	svc := NewContactService(&mockContactRepository{}, sender, ContactServiceConfig{
		From:          "shop@example.com",
		NotifyTimeout: 20 * time.Millisecond,
	})

	start := time.Now()
	if _, err := svc.Submit(context.Background(), validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("expected notifications to time out quickly, took %v", elapsed)
	}
}

func TestContactService_Submit_CanceledRequestStillNotifies(t *testing.T) {
	m := metrics.New()
	sender := &mockSender{
		sendFunc: func(ctx context.Context, msg notify.Message) error {
			return ctx.Err()
		},
	}
	svc := NewContactService(&mockContactRepository{}, sender, ContactServiceConfig{From: "shop@example.com", Metrics: m})

	// the mock repository ignores cancellation, as a committed insert would
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Submit(ctx, validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := testutil.ToFloat64(m.NotificationFailures.WithLabelValues(notifyOperator)); v != 0 {
		t.Errorf("expected notification context to outlive the request, got %v failures", v)
	}
}

func TestContactService_Submit_PersistenceFailure(t *testing.T) {
	cause := errors.New("disk full")
	repo := &mockContactRepository{
		createFunc: func(ctx context.Context, msg *model.Contact) error { return cause },
	}
	sender := &mockSender{}
	svc := NewContactService(repo, sender, ContactServiceConfig{From: "shop@example.com"})

	_, err := svc.Submit(context.Background(), validInput())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("expected no emails after persistence failure, got %d", len(sender.sent))
	}
}
