package bot

import (
	"context"

	"github.com/smartspb/mediabot/internal/domain"
)

// Update is one inbound event. Exactly one of Message and Callback is set.
type Update struct {
	ID       int
	Message  *Message
	Callback *Callback
}

// Message is an inbound chat message.
type Message struct {
	ID       int
	ChatID   int64
	UserID   int64
	Private  bool
	Text     string
	Caption  string
	GroupID  string // media group id, set for album items
	FileID   string // set for photos and videos
	Kind     domain.MediaKind
	// Unsupported names a content type the archive does not accept
	// (audio, voice, document, sticker, contact, location).
	Unsupported string
}

// HasMedia reports whether the message carries a photo or video.
func (m *Message) HasMedia() bool {
	return m.FileID != "" && m.Kind.Valid()
}

// Callback is an inline button press.
type Callback struct {
	ID        string
	ChatID    int64
	MessageID int
	UserID    int64
	Data      string
}

// Markup is a keyboard attached to an outgoing message.
type Markup interface {
	isMarkup()
}

// ReplyKeyboard replaces the user's keyboard with text buttons.
type ReplyKeyboard struct {
	Rows [][]string
}

// InlineButton is a button under a message.
type InlineButton struct {
	Text string
	Data string
}

// InlineKeyboard is a grid of buttons under a message.
type InlineKeyboard struct {
	Rows [][]InlineButton
}

func (*ReplyKeyboard) isMarkup()  {}
func (*InlineKeyboard) isMarkup() {}

// Transport sends and edits messages. Text and captions are HTML.
// Send methods return the ID of the new message.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string, markup Markup) (int, error)
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string, markup Markup) (int, error)
	SendVideo(ctx context.Context, chatID int64, fileID, caption string, markup Markup) (int, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string, markup *InlineKeyboard) error
	EditCaption(ctx context.Context, chatID int64, messageID int, caption string, markup *InlineKeyboard) error
	EditMedia(ctx context.Context, chatID int64, messageID int, media domain.Media, caption string, markup *InlineKeyboard) error
	Delete(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}
