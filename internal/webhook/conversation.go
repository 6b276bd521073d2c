package webhook

import (
	"context"
	"strings"
	"sync"

	"github.com/garyellow/phoneinfo-bot/internal/bot"
	"github.com/garyellow/phoneinfo-bot/internal/config"
	apperrors "github.com/garyellow/phoneinfo-bot/internal/errors"
	"github.com/garyellow/phoneinfo-bot/internal/logger"
	"github.com/garyellow/phoneinfo-bot/internal/report"
)

// maxTextLength is the LINE limit for a text message.
const maxTextLength = 5000

// conversation answers one LINE event. LINE cannot edit sent messages, so the
// placeholder is the loading animation and the single reply token delivers
// the final report.
type conversation struct {
	client     Client
	logger     *logger.Logger
	chatID     string
	replyToken string

	mu      sync.Mutex
	replied bool
}

var (
	_ bot.Conversation = (*conversation)(nil)
	_ bot.Placeholder  = (*conversation)(nil)
)

func (c *conversation) Platform() string { return Platform }

func (c *conversation) Reply(ctx context.Context, r report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.replied {
		return apperrors.NewWrapper(Platform, "reply").Wrap(errReplyTokenUsed, "the reply was already sent")
	}

	err := c.client.Reply(c.replyToken, report.Truncate(r.Text(report.StylePlain), maxTextLength))
	if err != nil {
		if strings.Contains(err.Error(), "Invalid reply token") {
			c.replied = true
		}
		return apperrors.NewWrapper(Platform, "reply").Wrap(err, "could not send the reply")
	}
	c.replied = true
	return nil
}

// Acknowledge shows the loading animation. The placeholder text itself is
// never sent: it would use up the reply token.
func (c *conversation) Acknowledge(ctx context.Context, _ report.Report) (bot.Placeholder, error) {
	if c.chatID != "" {
		if err := c.client.ShowLoading(c.chatID, config.LineLoadingSeconds); err != nil {
			c.logger.WithError(err).WarnContext(ctx, "Failed to show loading animation")
		}
	}
	return c, nil
}

// Edit delivers the final report with the reply token.
func (c *conversation) Edit(ctx context.Context, r report.Report) error {
	return c.Reply(ctx, r)
}
