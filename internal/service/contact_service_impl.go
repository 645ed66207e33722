package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/showcase/backend/internal/metrics"
	"github.com/showcase/backend/internal/model"
	"github.com/showcase/backend/internal/notify"
	"github.com/showcase/backend/internal/repository"
	"github.com/showcase/backend/internal/view"
)

const (
	notifyOperator     = "operator"
	notifyConfirmation = "confirmation"
)

var validate = newContactValidator()

func newContactValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// contactForm carries the trimmed input through validation.
type contactForm struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,max=254,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactServiceConfig configures the notification step of Submit.
type ContactServiceConfig struct {
	From            string        // sender address of both emails
	OperatorAddress string        // recipient of the operator notification; defaults to From
	Signature       string        // closing line of the confirmation email
	NotifyTimeout   time.Duration // per attempt
	Metrics         *metrics.Metrics
}

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo   repository.ContactRepository
	sender notify.Sender
	cfg    ContactServiceConfig
}

// NewContactService creates a ContactService backed by the given repository
// and email sender.
func NewContactService(repo repository.ContactRepository, sender notify.Sender, cfg ContactServiceConfig) ContactService {
	if cfg.OperatorAddress == "" {
		cfg.OperatorAddress = cfg.From
	}
	if cfg.Signature == "" {
		cfg.Signature = "Products Team"
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 10 * time.Second
	}
	return &contactServiceImpl{repo: repo, sender: sender, cfg: cfg}
}

func (s *contactServiceImpl) Submit(ctx context.Context, in view.ContactInput) (*model.Contact, error) {
	form := contactForm{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: strings.TrimSpace(in.Message),
	}
	if err := validateContact(form); err != nil {
		s.countOutcome("invalid")
		return nil, err
	}

	msg := &model.Contact{Name: form.Name, Email: form.Email, Message: form.Message}
	if err := s.repo.Create(ctx, msg); err != nil {
		s.countOutcome("failed")
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.countOutcome("created")

	// The message is committed; from here on nothing may fail the request,
	// and a client disconnect must not cut the emails short.
	notifyCtx := context.WithoutCancel(ctx)
	s.attempt(notifyCtx, notifyOperator, msg.ID, operatorNotification(msg, s.cfg.From, s.cfg.OperatorAddress))
	s.attempt(notifyCtx, notifyConfirmation, msg.ID, senderConfirmation(msg, s.cfg.From, s.cfg.Signature))

	return msg, nil
}

// attempt sends one best-effort notification. Errors and panics are logged
// and counted, never propagated.
func (s *contactServiceImpl) attempt(ctx context.Context, kind string, contactID int64, msg notify.Message) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "notification panicked", "kind", kind, "contact_id", contactID, "panic", r)
			s.countFailure(kind)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.NotifyTimeout)
	defer cancel()

	if err := s.sender.Send(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "notification failed", "kind", kind, "contact_id", contactID, "error", err)
		s.countFailure(kind)
		return
	}
	slog.InfoContext(ctx, "notification sent", "kind", kind, "contact_id", contactID)
}

func (s *contactServiceImpl) countOutcome(outcome string) {
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.ContactsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *contactServiceImpl) countFailure(kind string) {
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.NotificationFailures.WithLabelValues(kind).Inc()
	}
}

// validateContact turns validator errors into a ValidationError keyed by the
// JSON field name, one message per field.
func validateContact(form contactForm) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}
