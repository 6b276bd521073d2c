package webhook

import (
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/stretchr/testify/assert"
)

func TestRemoveBotMentions(t *testing.T) {
	self := func(index, length int32) webhook.MentioneeInterface {
		return webhook.UserMentionee{Index: index, Length: length, IsSelf: true}
	}
	other := webhook.UserMentionee{Index: 0, Length: 5, IsSelf: false}

	tests := []struct {
		name    string
		text    string
		mention *webhook.Mention
		want    string
	}{
		{"no mention", "+14155552671", nil, "+14155552671"},
		{"leading", "@Bot +14155552671", &webhook.Mention{Mentionees: []webhook.MentioneeInterface{self(0, 4)}}, "+14155552671"},
		{"trailing", "0912345678 @Bot", &webhook.Mention{Mentionees: []webhook.MentioneeInterface{self(11, 4)}}, "0912345678"},
		{"twice", "@Bot 123 @Bot 45", &webhook.Mention{Mentionees: []webhook.MentioneeInterface{self(0, 4), self(9, 4)}}, "123 45"},
		{"other user kept", "@Alex 12345", &webhook.Mention{Mentionees: []webhook.MentioneeInterface{other}}, "@Alex 12345"},
		{"multibyte", "@電話 12345", &webhook.Mention{Mentionees: []webhook.MentioneeInterface{self(0, 3)}}, "12345"},
		{"out of range", "@Bot", &webhook.Mention{Mentionees: []webhook.MentioneeInterface{self(2, 40)}}, "@B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, removeBotMentions(tt.text, tt.mention))
		})
	}
}

func TestIsBotMentioned(t *testing.T) {
	assert.False(t, isBotMentioned(webhook.TextMessageContent{Text: "hi"}))
	assert.False(t, isBotMentioned(webhook.TextMessageContent{
		Mention: &webhook.Mention{Mentionees: []webhook.MentioneeInterface{webhook.AllMentionee{Index: 0, Length: 4}}},
	}))
	assert.True(t, isBotMentioned(webhook.TextMessageContent{
		Mention: &webhook.Mention{Mentionees: []webhook.MentioneeInterface{webhook.UserMentionee{IsSelf: true}}},
	}))
}

func TestSource(t *testing.T) {
	tests := []struct {
		name     string
		source   webhook.SourceInterface
		chat     string
		user     string
		personal bool
	}{
		{"user", webhook.UserSource{UserId: "U1"}, "U1", "U1", true},
		{"group", webhook.GroupSource{GroupId: "G1", UserId: "U2"}, "G1", "U2", false},
		{"room", webhook.RoomSource{RoomId: "R1", UserId: "U3"}, "R1", "U3", false},
		{"nil", nil, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.chat, chatID(tt.source))
			assert.Equal(t, tt.user, userID(tt.source))
			assert.Equal(t, tt.personal, isPersonalChat(tt.source))
		})
	}
}
