// Package bot holds the platform-independent message handling.
//
// Chat adapters (Telegram, LINE) translate platform updates into calls on
// Handler and implement Conversation to deliver its reports.
package bot

import (
	"context"

	"github.com/garyellow/phoneinfo-bot/internal/report"
)

// Conversation is the chat a message arrived in.
type Conversation interface {
	// Platform names the chat platform for logs and metrics ("telegram", "line").
	Platform() string

	// Reply sends a report as a new message.
	Reply(ctx context.Context, r report.Report) error

	// Acknowledge shows the user that work has started and returns the handle
	// through which the final report is delivered.
	Acknowledge(ctx context.Context, r report.Report) (Placeholder, error)
}

// Placeholder is an in-progress reply that is replaced by the final report.
type Placeholder interface {
	Edit(ctx context.Context, r report.Report) error
}

// TypingNotifier is implemented by conversations that can show a typing
// indicator before anything else is sent.
type TypingNotifier interface {
	Typing(ctx context.Context) error
}
