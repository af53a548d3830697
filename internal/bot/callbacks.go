package bot

import (
	"context"

	"github.com/smartspb/mediabot/internal/callback"
	"github.com/smartspb/mediabot/internal/session"
)

func (b *Bot) handleCallback(ctx context.Context, cb *Callback) {
	action, err := callback.Decode(cb.Data)
	if err != nil {
		b.log(ctx).Warn("bad callback data", "data", cb.Data, "error", err)
		b.answer(ctx, cb, "")
		return
	}

	b.log(ctx).Debug("callback", "data", cb.Data)

	switch a := action.(type) {
	case callback.Noop:
		b.answer(ctx, cb, "")

	case callback.Menu:
		b.answer(ctx, cb, "")
		b.deleteMessage(ctx, cb.ChatID, cb.MessageID)
		b.reply(ctx, cb.ChatID, textChooseAction, mainKeyboard())

	case callback.Gallery:
		b.answer(ctx, cb, "")
		b.showGallery(ctx, cb.ChatID, cb.UserID, a.Ordinal, a.Photo, cb.MessageID)

	case callback.Back:
		b.answer(ctx, cb, "")
		b.showGallery(ctx, cb.ChatID, cb.UserID, a.Ordinal, 0, cb.MessageID)

	case callback.EditMenu:
		b.answer(ctx, cb, "")
		if b.checkOwner(ctx, cb, a.ContentID) {
			b.editPrompt(ctx, cb.ChatID, cb.MessageID, textWhatToEdit, editKeyboard(a.ContentID, a.Ordinal))
		}

	case callback.EditText:
		b.answer(ctx, cb, "")
		if b.checkOwner(ctx, cb, a.ContentID) {
			b.sessions.AwaitEditText(callbackKey(cb), session.Target{ContentID: a.ContentID, Ordinal: a.Ordinal})
			b.reply(ctx, cb.ChatID, textAskNewDesc, cancelKeyboard())
		}

	case callback.EditMedia:
		b.answer(ctx, cb, "")
		if b.checkOwner(ctx, cb, a.ContentID) {
			b.sessions.StartMediaEdit(callbackKey(cb), session.Target{ContentID: a.ContentID, Ordinal: a.Ordinal})
			b.reply(ctx, cb.ChatID, textAskNewMedia, cancelKeyboard())
		}

	case callback.ConfirmDelete:
		b.answer(ctx, cb, "")
		if b.checkOwner(ctx, cb, a.ContentID) {
			b.editPrompt(ctx, cb.ChatID, cb.MessageID, textConfirmDelete, deleteKeyboard(a.ContentID, a.Ordinal))
		}

	case callback.Delete:
		if err := b.archive.Delete(ctx, cb.UserID, a.ContentID); err != nil {
			b.answer(ctx, cb, "")
			b.fail(ctx, cb.ChatID, err)
			return
		}
		b.answer(ctx, cb, textDeleted)
		b.deleteMessage(ctx, cb.ChatID, cb.MessageID)
		b.showGallery(ctx, cb.ChatID, cb.UserID, 0, 0, 0)

	case callback.Page:
		b.answer(ctx, cb, "")
		b.showList(ctx, cb.ChatID, cb.UserID, a, cb.MessageID)

	case callback.Tag:
		b.answer(ctx, cb, "")
		b.showList(ctx, cb.ChatID, cb.UserID, callback.Page{Mode: callback.PageTag, TagID: a.TagID}, 0)

	case callback.Origin:
		b.answer(ctx, cb, "")
		tags, err := b.nav.Tags(ctx, cb.UserID, a.Origin)
		if err != nil {
			b.fail(ctx, cb.ChatID, err)
			return
		}
		if len(tags) == 0 {
			b.reply(ctx, cb.ChatID, textNothingFound, mainKeyboard())
			return
		}
		if err := b.tx.EditText(ctx, cb.ChatID, cb.MessageID, textChooseTag, tagsKeyboard(tags)); err != nil {
			b.log(ctx).Debug("edit tag list failed, resending", "error", err)
			b.reply(ctx, cb.ChatID, textChooseTag, tagsKeyboard(tags))
		}
	}
}

func callbackKey(cb *Callback) session.Key {
	return session.Key{ChatID: cb.ChatID, UserID: cb.UserID}
}

func (b *Bot) answer(ctx context.Context, cb *Callback, text string) {
	if err := b.tx.AnswerCallback(ctx, cb.ID, text); err != nil {
		b.log(ctx).Debug("answer callback failed", "error", err)
	}
}

// checkOwner reports whether the caller owns contentID, replying otherwise.
func (b *Bot) checkOwner(ctx context.Context, cb *Callback, contentID int64) bool {
	if _, err := b.archive.Owned(ctx, cb.UserID, contentID); err != nil {
		b.fail(ctx, cb.ChatID, err)
		return false
	}
	return true
}
