package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/smartspb/mediabot/internal/bot"
	"github.com/smartspb/mediabot/internal/domain"
)

// AllowedUpdates are the update kinds the bot subscribes to.
var AllowedUpdates = []string{"message", "callback_query"}

// ConvertUpdate maps a Bot API update to the bot's own type. It reports false
// for updates the bot ignores (edits, channel posts, inline queries, service messages).
func ConvertUpdate(u tgbotapi.Update) (bot.Update, bool) {
	switch {
	case u.Message != nil:
		m, ok := convertMessage(u.Message)
		if !ok {
			return bot.Update{}, false
		}
		return bot.Update{ID: u.UpdateID, Message: m}, true

	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		// Buttons on inline-mode messages have no chat to answer in.
		if cq.Message == nil || cq.Message.Chat == nil || cq.From == nil {
			return bot.Update{}, false
		}
		return bot.Update{ID: u.UpdateID, Callback: &bot.Callback{
			ID:        cq.ID,
			ChatID:    cq.Message.Chat.ID,
			MessageID: cq.Message.MessageID,
			UserID:    cq.From.ID,
			Data:      cq.Data,
		}}, true
	}
	return bot.Update{}, false
}

func convertMessage(m *tgbotapi.Message) (*bot.Message, bool) {
	if m.From == nil || m.Chat == nil {
		return nil, false
	}

	msg := &bot.Message{
		ID:      m.MessageID,
		ChatID:  m.Chat.ID,
		UserID:  m.From.ID,
		Private: m.Chat.IsPrivate(),
		Text:    m.Text,
		Caption: m.Caption,
		GroupID: m.MediaGroupID,
	}

	// "/start@mybot" arrives in groups; handlers match on "/start".
	if m.IsCommand() {
		msg.Text = "/" + m.Command()
	}

	switch {
	case len(m.Photo) > 0:
		msg.FileID = largestPhoto(m.Photo).FileID
		msg.Kind = domain.MediaPhoto
	case m.Video != nil:
		msg.FileID = m.Video.FileID
		msg.Kind = domain.MediaVideo
	default:
		msg.Unsupported = unsupportedType(m)
		if msg.Unsupported == "" && msg.Text == "" {
			return nil, false
		}
	}
	return msg, true
}

// largestPhoto picks the biggest rendition. Telegram lists them smallest first,
// but sizes are compared to be safe.
func largestPhoto(sizes []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height >= best.Width*best.Height {
			best = s
		}
	}
	return best
}

func unsupportedType(m *tgbotapi.Message) string {
	switch {
	case m.Animation != nil:
		return "animation"
	case m.Audio != nil:
		return "audio"
	case m.Voice != nil:
		return "voice"
	case m.VideoNote != nil:
		return "video_note"
	case m.Document != nil:
		return "document"
	case m.Sticker != nil:
		return "sticker"
	case m.Contact != nil:
		return "contact"
	case m.Venue != nil:
		return "venue"
	case m.Location != nil:
		return "location"
	case m.Poll != nil:
		return "poll"
	case m.Dice != nil:
		return "dice"
	default:
		return ""
	}
}
