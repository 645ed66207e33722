package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleSender_LogsMessage(t *testing.T) {
	var buf bytes.Buffer
	sender := NewConsoleSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := sender.Send(context.Background(), Message{
		Subject: "Thank you for your message!",
		Body:    "Hi Ann",
		From:    "shop@example.com",
		To:      []string{"ann@example.com"},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Thank you for your message!", "ann@example.com", "Hi Ann"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got %s", want, out)
		}
	}
}

func TestConsoleSender_NoRecipients(t *testing.T) {
	if err := NewConsoleSender(nil).Send(context.Background(), Message{}); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("expected ErrNoRecipients, got %v", err)
	}
}
