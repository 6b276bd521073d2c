package webhook

import (
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Client is the subset of the Messaging API used to answer a chat.
type Client interface {
	ShowLoading(chatID string, seconds int32) error
	Reply(replyToken, text string) error
}

// MessagingClient implements Client with the LINE Messaging API.
type MessagingClient struct {
	api *messaging_api.MessagingApiAPI
}

// NewMessagingClient creates a client authenticated with the channel access token.
func NewMessagingClient(channelToken string) (*MessagingClient, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("create messaging API client: %w", err)
	}
	return &MessagingClient{api: api}, nil
}

// ShowLoading shows the loading animation in a chat. LINE accepts 5 to 60
// seconds in steps of 5.
func (c *MessagingClient) ShowLoading(chatID string, seconds int32) error {
	_, err := c.api.ShowLoadingAnimation(&messaging_api.ShowLoadingAnimationRequest{
		ChatId:         chatID,
		LoadingSeconds: seconds,
	})
	return err
}

// Reply sends one text message with a reply token.
func (c *MessagingClient) Reply(replyToken, text string) error {
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			&messaging_api.TextMessage{Text: text},
		},
	})
	return err
}
