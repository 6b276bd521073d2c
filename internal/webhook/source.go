package webhook

import "github.com/line/line-bot-sdk-go/v8/linebot/webhook"

// chatID returns the user, group or room ID a reply goes to.
func chatID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.GroupId
	case webhook.RoomSource:
		return s.RoomId
	}
	return ""
}

// userID returns the sender's user ID regardless of chat type.
func userID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	}
	return ""
}

// isPersonalChat reports a 1-on-1 chat with the bot.
func isPersonalChat(source webhook.SourceInterface) bool {
	_, ok := source.(webhook.UserSource)
	return ok
}
