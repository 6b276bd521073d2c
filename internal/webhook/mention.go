package webhook

import (
	"slices"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// isBotMentioned reports whether a text message mentions the bot itself.
func isBotMentioned(msg webhook.TextMessageContent) bool {
	return len(selfMentions(msg.Mention)) > 0
}

type mentionSpan struct {
	index  int32
	length int32
}

func selfMentions(mention *webhook.Mention) []mentionSpan {
	if mention == nil {
		return nil
	}
	var spans []mentionSpan
	for _, m := range mention.Mentionees {
		if u, ok := m.(webhook.UserMentionee); ok && u.IsSelf {
			spans = append(spans, mentionSpan{index: u.Index, length: u.Length})
		}
	}
	return spans
}

// removeBotMentions cuts every "@bot" mention out of text and collapses the
// remaining whitespace. Indexes are in characters, so the cut works on runes
// and runs from the last mention backwards.
func removeBotMentions(text string, mention *webhook.Mention) string {
	spans := selfMentions(mention)
	if len(spans) == 0 {
		return text
	}
	slices.SortFunc(spans, func(a, b mentionSpan) int {
		return int(b.index - a.index)
	})

	runes := []rune(text)
	for _, m := range spans {
		start := max(int(m.index), 0)
		end := min(int(m.index+m.length), len(runes))
		if start >= end {
			continue
		}
		runes = append(runes[:start], runes[end:]...)
	}
	return strings.Join(strings.Fields(string(runes)), " ")
}
