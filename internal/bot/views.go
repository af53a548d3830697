package bot

import (
	"context"

	"github.com/smartspb/mediabot/internal/callback"
	"github.com/smartspb/mediabot/internal/domain"
	"github.com/smartspb/mediabot/internal/session"
	"github.com/smartspb/mediabot/internal/store"
)

// showGallery renders entry ordinal (0 for the latest) at media index photo.
// A non-zero messageID is edited in place; otherwise a new message is sent.
func (b *Bot) showGallery(ctx context.Context, chatID, userID int64, ordinal, photo, messageID int) {
	view, err := b.nav.Gallery(ctx, userID, ordinal, photo)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	if view.Empty() {
		b.reply(ctx, chatID, textArchiveEmpty, mainKeyboard())
		return
	}

	caption := galleryCaption(view)
	kb := galleryKeyboard(view)
	media := view.Current()

	if messageID != 0 {
		err := b.tx.EditMedia(ctx, chatID, messageID, media, caption, kb)
		if err == nil {
			return
		}
		b.log(ctx).Debug("edit media failed, resending", "error", err)
		b.deleteMessage(ctx, chatID, messageID)
	}

	if err := b.sendMedia(ctx, chatID, media, caption, kb); err != nil {
		b.log(ctx).Warn("send gallery failed", "error", err, "content_id", view.Entry.ID)
		b.reply(ctx, chatID, textFailure, mainKeyboard())
	}
}

// showEntry opens the gallery at the current ordinal of contentID.
func (b *Bot) showEntry(ctx context.Context, chatID, userID, contentID int64) {
	ordinal, err := b.nav.Ordinal(ctx, userID, contentID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	b.showGallery(ctx, chatID, userID, ordinal, 0, 0)
}

func (b *Bot) sendMedia(ctx context.Context, chatID int64, media domain.Media, caption string, kb *InlineKeyboard) error {
	var err error
	if media.Kind == domain.MediaVideo {
		_, err = b.tx.SendVideo(ctx, chatID, media.FileID, caption, kb)
	} else {
		_, err = b.tx.SendPhoto(ctx, chatID, media.FileID, caption, kb)
	}
	return err
}

func (b *Bot) deleteMessage(ctx context.Context, chatID int64, messageID int) {
	if err := b.tx.Delete(ctx, chatID, messageID); err != nil {
		b.log(ctx).Debug("delete message failed", "error", err, "message_id", messageID)
	}
}

// showList renders one page of the list selected by req.
func (b *Bot) showList(ctx context.Context, chatID, userID int64, req callback.Page, messageID int) {
	page, err := b.loadPage(ctx, chatID, userID, req)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	if page.Total == 0 {
		b.reply(ctx, chatID, textNothingFound, mainKeyboard())
		return
	}

	text := listText(page)
	kb := listKeyboard(page, func(n int) callback.Page {
		next := req
		next.Page = n
		return next
	})

	if messageID != 0 {
		err := b.tx.EditText(ctx, chatID, messageID, text, kb)
		if err == nil {
			return
		}
		b.log(ctx).Debug("edit list failed, resending", "error", err)
		b.deleteMessage(ctx, chatID, messageID)
	}
	b.reply(ctx, chatID, text, kb)
}

func (b *Bot) loadPage(ctx context.Context, chatID, userID int64, req callback.Page) (*store.ListPage, error) {
	switch req.Mode {
	case callback.PageRange:
		return b.nav.List(ctx, userID, store.ByRange(req.From, req.To), req.Page)
	case callback.PageTag:
		view, err := b.nav.TagList(ctx, userID, req.TagID, req.Page)
		if err != nil {
			return nil, err
		}
		return view.Page, nil
	case callback.PageText:
		query := b.sessions.Get(session.Key{ChatID: chatID, UserID: userID}).TextQuery
		if query == "" {
			return &store.ListPage{}, nil
		}
		return b.nav.SearchText(ctx, userID, query, req.Page)
	default:
		return b.nav.List(ctx, userID, store.AllEntries(), req.Page)
	}
}

// editPrompt replaces the caption of a gallery message with a question and
// buttons, falling back to a new text message.
func (b *Bot) editPrompt(ctx context.Context, chatID int64, messageID int, text string, kb *InlineKeyboard) {
	err := b.tx.EditCaption(ctx, chatID, messageID, text, kb)
	if err == nil {
		return
	}
	b.log(ctx).Debug("edit caption failed, resending", "error", err)
	b.deleteMessage(ctx, chatID, messageID)
	b.reply(ctx, chatID, text, kb)
}
