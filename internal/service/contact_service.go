package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/showcase/backend/internal/model"
	"github.com/showcase/backend/internal/view"
)

// ErrPersistence is returned when a valid contact message could not be stored.
// The underlying cause is wrapped for logging and must not reach the client.
var ErrPersistence = errors.New("persistence failure")

// ValidationError maps field names to a human-readable problem.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid input: " + strings.Join(names, ", ")
}

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit validates and stores a contact message, then sends the operator
	// notification and the sender confirmation. It returns a *ValidationError
	// for bad input and ErrPersistence when storing fails. Notification
	// failures are logged and never returned.
	Submit(ctx context.Context, in view.ContactInput) (*model.Contact, error)
}
