package bot

import (
	"context"
	"fmt"

	"github.com/smartspb/mediabot/internal/album"
	"github.com/smartspb/mediabot/internal/callback"
	"github.com/smartspb/mediabot/internal/domain"
	"github.com/smartspb/mediabot/internal/service"
	"github.com/smartspb/mediabot/internal/session"
)

func sessionKey(m *Message) session.Key {
	return session.Key{ChatID: m.ChatID, UserID: m.UserID}
}

func owner(m *Message) album.Owner {
	return album.Owner{ChatID: m.ChatID, UserID: m.UserID}
}

func isCancel(text string) bool {
	return text == LabelCancel || text == LabelToMain || text == CommandCancel
}

func (b *Bot) handleMessage(ctx context.Context, m *Message) {
	switch {
	case m.Unsupported != "":
		b.onUnsupported(ctx, m)
	case m.HasMedia():
		b.onMedia(ctx, m)
	case m.Text != "":
		if !b.onCommand(ctx, m) {
			b.onText(ctx, m)
		}
	}
}

// onCommand handles commands and menu buttons. They take effect in any state.
func (b *Bot) onCommand(ctx context.Context, m *Message) bool {
	key := sessionKey(m)

	switch {
	case isCancel(m.Text):
		b.resetConversation(m)
		b.reply(ctx, m.ChatID, textBackToMenu, mainKeyboard())
	case m.Text == CommandStart || m.Text == CommandHelp:
		b.reply(ctx, m.ChatID, textWelcome, mainKeyboard())
	case m.Text == LabelUpload || m.Text == CommandUpload:
		b.sessions.Set(key, session.StateIdle)
		b.reply(ctx, m.ChatID, textUploadStart, cancelKeyboard())
	case m.Text == LabelGallery:
		b.sessions.Set(key, session.StateIdle)
		b.showGallery(ctx, m.ChatID, m.UserID, 0, 0, 0)
	case m.Text == LabelList:
		b.sessions.Set(key, session.StateIdle)
		b.showList(ctx, m.ChatID, m.UserID, callback.Page{Mode: callback.PageAll}, 0)
	case m.Text == LabelTags:
		b.sessions.Set(key, session.StateIdle)
		b.reply(ctx, m.ChatID, textChooseTagOrigin, originKeyboard())
	case m.Text == LabelSearch:
		b.sessions.Set(key, session.StateIdle)
		b.reply(ctx, m.ChatID, textChooseSearch, searchKeyboard())
	case m.Text == LabelSearchDays:
		b.sessions.Set(key, session.StateAwaitingDays)
		b.reply(ctx, m.ChatID, textAskDays, cancelKeyboard())
	case m.Text == LabelSearchRange:
		b.sessions.Set(key, session.StateAwaitingRange)
		b.reply(ctx, m.ChatID, textAskRange, cancelKeyboard())
	case m.Text == LabelSearchID:
		b.sessions.Set(key, session.StateAwaitingOrdinal)
		b.reply(ctx, m.ChatID, textAskOrdinal, cancelKeyboard())
	case m.Text == LabelSearchText:
		b.sessions.Set(key, session.StateAwaitingTextQuery)
		b.reply(ctx, m.ChatID, textAskQuery, cancelKeyboard())
	default:
		return false
	}

	// Leaving through the menu abandons a pending media replacement.
	if _, ok := b.sessions.FinishMediaEdit(key); ok {
		b.log(ctx).Debug("media edit abandoned", "text", m.Text)
	}
	b.log(ctx).Debug("command", "text", m.Text)
	return true
}

// resetConversation drops the session and any albums still buffering.
func (b *Bot) resetConversation(m *Message) {
	b.sessions.Reset(sessionKey(m))
	b.albums.CancelOwner(owner(m))
}

func (b *Bot) onUnsupported(ctx context.Context, m *Message) {
	if !m.Private {
		return
	}
	b.log(ctx).Info("unsupported content", "type", m.Unsupported)
	b.resetConversation(m)
	b.reply(ctx, m.ChatID, textUnsupported, mainKeyboard())
}

func (b *Bot) onMedia(ctx context.Context, m *Message) {
	key := sessionKey(m)
	sess := b.sessions.Get(key)
	item := album.Item{FileID: m.FileID, Kind: m.Kind, Caption: m.Caption}

	if sess.MediaEdit != nil {
		target := *sess.MediaEdit
		if m.GroupID != "" {
			b.addToAlbum(ctx, m, album.ModeReplace, target.ContentID, item)
			return
		}
		media, err := domain.NewMedia(m.FileID, m.Kind)
		if err != nil {
			b.fail(ctx, m.ChatID, err)
			return
		}
		b.replaceMedia(ctx, m.ChatID, m.UserID, target.ContentID, []domain.Media{media})
		return
	}

	switch sess.State {
	case session.StateIdle:
	case session.StateAwaitingDescription, session.StateAwaitingEditText, session.StateAwaitingTextQuery:
		b.reply(ctx, m.ChatID, textSendText, nil)
		return
	default:
		b.rejectInput(ctx, m.ChatID, sess.State)
		return
	}

	if m.GroupID != "" {
		b.addToAlbum(ctx, m, album.ModeUpload, 0, item)
		return
	}

	media, err := domain.NewMedia(m.FileID, m.Kind)
	if err != nil {
		b.fail(ctx, m.ChatID, err)
		return
	}

	if m.Caption == "" {
		b.sessions.AwaitDescription(key, []domain.Media{media})
		b.reply(ctx, m.ChatID, textAskDescription, cancelKeyboard())
		return
	}

	entry, err := b.archive.Save(ctx, m.UserID, m.Caption, []domain.Media{media})
	if err != nil {
		b.fail(ctx, m.ChatID, err)
		return
	}
	b.reply(ctx, m.ChatID, fmt.Sprintf(textSavedFmt, entry.Ordinal), mainKeyboard())
}

func (b *Bot) addToAlbum(ctx context.Context, m *Message, mode album.Mode, contentID int64, item album.Item) {
	if _, err := b.albums.Add(m.GroupID, owner(m), mode, contentID, item); err != nil {
		b.fail(ctx, m.ChatID, err)
	}
}

// finishAlbum runs on the worker loop once a media group went quiet.
func (b *Bot) finishAlbum(ctx context.Context, batch *album.Batch) {
	chatID, userID := batch.Owner.ChatID, batch.Owner.UserID

	media, err := batch.Media()
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}

	if batch.Mode == album.ModeReplace {
		b.replaceMedia(ctx, chatID, userID, batch.ContentID, media)
		return
	}

	caption := batch.Caption()
	if caption == "" {
		b.sessions.AwaitDescription(session.Key{ChatID: chatID, UserID: userID}, media)
		b.reply(ctx, chatID, textAlbumReceived, cancelKeyboard())
		return
	}

	entry, err := b.archive.Save(ctx, userID, caption, media)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf(textAlbumSavedFmt, entry.Ordinal), mainKeyboard())
}

func (b *Bot) replaceMedia(ctx context.Context, chatID, userID, contentID int64, media []domain.Media) {
	b.sessions.FinishMediaEdit(session.Key{ChatID: chatID, UserID: userID})

	if err := b.archive.ReplaceMedia(ctx, userID, contentID, media); err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	b.reply(ctx, chatID, textMediaUpdated, mainKeyboard())
	b.showEntry(ctx, chatID, userID, contentID)
}

// onText handles free text according to the step the conversation is in.
func (b *Bot) onText(ctx context.Context, m *Message) {
	key := sessionKey(m)
	sess := b.sessions.Get(key)

	switch sess.State {
	case session.StateAwaitingDescription:
		entry, err := b.archive.Save(ctx, m.UserID, m.Text, sess.Pending)
		b.sessions.Set(key, session.StateIdle)
		if err != nil {
			b.fail(ctx, m.ChatID, err)
			return
		}
		b.reply(ctx, m.ChatID, fmt.Sprintf(textDescSavedFmt, entry.Ordinal), mainKeyboard())

	case session.StateAwaitingEditText:
		b.sessions.Set(key, session.StateIdle)
		if err := b.archive.UpdateDescription(ctx, m.UserID, sess.Target.ContentID, m.Text); err != nil {
			b.fail(ctx, m.ChatID, err)
			return
		}
		b.reply(ctx, m.ChatID, textDescUpdated, mainKeyboard())
		b.showEntry(ctx, m.ChatID, m.UserID, sess.Target.ContentID)

	case session.StateAwaitingDays:
		days, err := b.input.days(m.Text)
		if err != nil {
			b.rejectInput(ctx, m.ChatID, sess.State)
			return
		}
		b.sessions.Set(key, session.StateIdle)
		f := b.nav.LastDays(days)
		b.showList(ctx, m.ChatID, m.UserID, callback.Page{Mode: callback.PageRange, From: f.From, To: f.To}, 0)

	case session.StateAwaitingRange:
		from, to, err := b.input.dateRange(m.Text)
		if err != nil {
			b.rejectInput(ctx, m.ChatID, sess.State)
			return
		}
		b.sessions.Set(key, session.StateIdle)
		b.showList(ctx, m.ChatID, m.UserID, callback.Page{Mode: callback.PageRange, From: from, To: to}, 0)

	case session.StateAwaitingOrdinal:
		ordinal, err := b.input.ordinal(m.Text)
		if err != nil {
			b.rejectInput(ctx, m.ChatID, sess.State)
			return
		}
		b.sessions.Set(key, session.StateIdle)
		if ordinal == 0 {
			// Zero means "latest" to the gallery; typed ordinals start at 1.
			b.fail(ctx, m.ChatID, service.ErrEntryNotFound)
			return
		}
		b.showGallery(ctx, m.ChatID, m.UserID, ordinal, 0, 0)

	case session.StateAwaitingTextQuery:
		query, err := b.input.query(m.Text)
		if err != nil {
			b.rejectInput(ctx, m.ChatID, sess.State)
			return
		}
		b.sessions.Set(key, session.StateIdle)
		b.sessions.SetTextQuery(key, query)
		b.showList(ctx, m.ChatID, m.UserID, callback.Page{Mode: callback.PageText}, 0)

	default:
		b.reply(ctx, m.ChatID, textChooseAction, mainKeyboard())
	}
}

// rejectInput repeats the hint of a step after invalid input. The step is kept.
func (b *Bot) rejectInput(ctx context.Context, chatID int64, state session.State) {
	var text string
	switch state {
	case session.StateAwaitingDays:
		text = textBadDays
	case session.StateAwaitingRange:
		text = textBadRange
	case session.StateAwaitingOrdinal:
		text = textBadOrdinal
	default:
		text = textSendText
	}
	b.reply(ctx, chatID, text, nil)
}
