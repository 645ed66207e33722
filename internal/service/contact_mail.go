package service

import (
	"fmt"
	"time"

	"github.com/showcase/backend/internal/model"
	"github.com/showcase/backend/internal/notify"
)

func operatorNotification(c *model.Contact, from, to string) notify.Message {
	return notify.Message{
		Subject: "New Contact Message from " + c.Name,
		Body: fmt.Sprintf(`You have received a new contact message from your products website:

Name: %s
Email: %s
Message: %s

Received at: %s
`, c.Name, c.Email, c.Message, c.CreatedAt.UTC().Format(time.RFC1123)),
		From: from,
		To:   []string{to},
	}
}

func senderConfirmation(c *model.Contact, from, signature string) notify.Message {
	return notify.Message{
		Subject: "Thank you for your message!",
		Body: fmt.Sprintf(`Hi %s,

Thank you for reaching out to us!
We'll get back to you as soon as possible.

Best regards,
%s
`, c.Name, signature),
		From: from,
		To:   []string{c.Email},
	}
}
