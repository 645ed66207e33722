// Package notify delivers outbound email. The contact pipeline only depends
// on Sender; the transports here are thin clients over an external service.
package notify

import (
	"context"
	"errors"
	"strings"
)

// ErrNoRecipients is returned when a message has no To addresses.
var ErrNoRecipients = errors.New("notify: no recipients")

// Message is a plain-text email.
type Message struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// Sender delivers a Message and reports whether it succeeded.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// headerValue strips CR and LF so user-supplied text cannot inject headers.
func headerValue(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
