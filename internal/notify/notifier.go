// Package notify delivers reminder messages to a device token. The scheduler
// treats delivery as best-effort: a failed send is logged and the tick moves
// on.
package notify

import (
	"context"
	"log"
)

// Notifier sends one titled message to one token.
type Notifier interface {
	Send(ctx context.Context, token, title, body string) error
}

// LogNotifier writes notifications to the process log. Used in development
// and as a fallback when no gateway is configured.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, token, title, body string) error {
	log.Printf("notify [%s]: %s: %s", token, title, body)
	return nil
}
