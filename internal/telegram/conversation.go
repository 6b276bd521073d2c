package telegram

import (
	"context"
	"strings"

	"github.com/garyellow/phoneinfo-bot/internal/bot"
	apperrors "github.com/garyellow/phoneinfo-bot/internal/errors"
	"github.com/garyellow/phoneinfo-bot/internal/report"
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// maxMessageLength is Telegram's limit for message text.
const maxMessageLength = 4096

// API is the subset of the Bot API used to answer a chat. *tgbot.Bot implements it.
type API interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *tgbot.EditMessageTextParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *tgbot.SendChatActionParams) (bool, error)
}

// conversation answers one Telegram chat.
type conversation struct {
	api    API
	chatID int64
}

var _ bot.Conversation = (*conversation)(nil)

func (c *conversation) Platform() string { return Platform }

func (c *conversation) Typing(ctx context.Context) error {
	_, err := c.api.SendChatAction(ctx, &tgbot.SendChatActionParams{
		ChatID: c.chatID,
		Action: models.ChatActionTyping,
	})
	return err
}

func (c *conversation) Reply(ctx context.Context, r report.Report) error {
	_, err := c.send(ctx, r)
	return apperrors.NewWrapper(Platform, "send_message").Wrap(err, "could not send the message")
}

func (c *conversation) Acknowledge(ctx context.Context, r report.Report) (bot.Placeholder, error) {
	msg, err := c.send(ctx, r)
	if err != nil {
		return nil, apperrors.NewWrapper(Platform, "send_placeholder").Wrap(err, "could not send the message")
	}
	return &placeholder{api: c.api, chatID: c.chatID, messageID: msg.ID}, nil
}

// send posts r as Markdown, falling back to plain text when Telegram rejects
// the markup.
func (c *conversation) send(ctx context.Context, r report.Report) (*models.Message, error) {
	msg, err := c.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    c.chatID,
		Text:      report.Truncate(r.Text(report.StyleMarkdown), maxMessageLength),
		ParseMode: models.ParseModeMarkdownV1,
	})
	if err == nil || !isParseError(err) {
		return msg, err
	}
	return c.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: c.chatID,
		Text:   report.Truncate(r.Text(report.StylePlain), maxMessageLength),
	})
}

// placeholder is a sent message that is edited in place.
type placeholder struct {
	api       API
	chatID    int64
	messageID int
}

func (p *placeholder) Edit(ctx context.Context, r report.Report) error {
	_, err := p.api.EditMessageText(ctx, &tgbot.EditMessageTextParams{
		ChatID:    p.chatID,
		MessageID: p.messageID,
		Text:      report.Truncate(r.Text(report.StyleMarkdown), maxMessageLength),
		ParseMode: models.ParseModeMarkdownV1,
	})
	if err != nil && isParseError(err) {
		_, err = p.api.EditMessageText(ctx, &tgbot.EditMessageTextParams{
			ChatID:    p.chatID,
			MessageID: p.messageID,
			Text:      report.Truncate(r.Text(report.StylePlain), maxMessageLength),
		})
	}
	return apperrors.NewWrapper(Platform, "edit_message").Wrap(err, "could not update the message")
}

// isParseError reports a "Bad Request: can't parse entities" response.
func isParseError(err error) bool {
	return strings.Contains(err.Error(), "can't parse entities")
}
