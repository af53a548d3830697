package bot

import (
	"fmt"
	"strconv"

	"github.com/smartspb/mediabot/internal/callback"
	"github.com/smartspb/mediabot/internal/domain"
	"github.com/smartspb/mediabot/internal/service"
	"github.com/smartspb/mediabot/internal/store"
)

// listButtonsPerRow is how many entry buttons share a row under a list.
const listButtonsPerRow = 5

func mainKeyboard() *ReplyKeyboard {
	return &ReplyKeyboard{Rows: [][]string{
		{LabelUpload, LabelGallery},
		{LabelList, LabelTags},
		{LabelSearch},
	}}
}

func cancelKeyboard() *ReplyKeyboard {
	return &ReplyKeyboard{Rows: [][]string{{LabelCancel}}}
}

func searchKeyboard() *ReplyKeyboard {
	return &ReplyKeyboard{Rows: [][]string{
		{LabelSearchDays, LabelSearchRange},
		{LabelSearchID, LabelSearchText},
		{LabelToMain},
	}}
}

func button(text string, a callback.Action) InlineButton {
	return InlineButton{Text: text, Data: a.Encode()}
}

func disabledButton() InlineButton {
	return button(buttonDisabled, callback.Noop{})
}

func menuRow() []InlineButton {
	return []InlineButton{button(buttonMenu, callback.Menu{})}
}

func galleryKeyboard(v *service.GalleryView) *InlineKeyboard {
	e := v.Entry
	kb := &InlineKeyboard{}

	if v.MediaCount() > 1 {
		prev, next := disabledButton(), disabledButton()
		if v.HasPrevPhoto() {
			prev = button(buttonPrevPhoto, callback.Gallery{Ordinal: e.Ordinal, Photo: v.Photo - 1})
		}
		if v.HasNextPhoto() {
			next = button(buttonNextPhoto, callback.Gallery{Ordinal: e.Ordinal, Photo: v.Photo + 1})
		}
		counter := button(fmt.Sprintf("%d/%d", v.Photo+1, v.MediaCount()), callback.Noop{})
		kb.Rows = append(kb.Rows, []InlineButton{prev, counter, next})
	}

	kb.Rows = append(kb.Rows, []InlineButton{
		button(buttonDelete, callback.ConfirmDelete{ContentID: e.ID, Ordinal: e.Ordinal}),
		button(buttonEdit, callback.EditMenu{ContentID: e.ID, Ordinal: e.Ordinal}),
	})

	newer, older := disabledButton(), disabledButton()
	if v.HasNewer() {
		newer = button(buttonNewer, callback.Gallery{Ordinal: e.Ordinal + 1})
	}
	if v.HasOlder() {
		older = button(buttonOlder, callback.Gallery{Ordinal: e.Ordinal - 1})
	}
	kb.Rows = append(kb.Rows, []InlineButton{newer, older}, menuRow())
	return kb
}

func editKeyboard(contentID int64, ordinal int) *InlineKeyboard {
	return &InlineKeyboard{Rows: [][]InlineButton{
		{
			button(buttonEditText, callback.EditText{ContentID: contentID, Ordinal: ordinal}),
			button(buttonEditMedia, callback.EditMedia{ContentID: contentID, Ordinal: ordinal}),
		},
		{button(buttonBack, callback.Back{Ordinal: ordinal})},
	}}
}

func deleteKeyboard(contentID int64, ordinal int) *InlineKeyboard {
	return &InlineKeyboard{Rows: [][]InlineButton{{
		button(buttonConfirmDel, callback.Delete{ContentID: contentID}),
		button(buttonBack, callback.Back{Ordinal: ordinal}),
	}}}
}

// listKeyboard has one button per row of the page, then page controls that
// re-request the same list through pageOf.
func listKeyboard(p *store.ListPage, pageOf func(page int) callback.Page) *InlineKeyboard {
	kb := &InlineKeyboard{}

	var row []InlineButton
	for _, r := range p.Rows {
		row = append(row, button(strconv.Itoa(r.Ordinal), callback.Gallery{Ordinal: r.Ordinal}))
		if len(row) == listButtonsPerRow {
			kb.Rows = append(kb.Rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.Rows = append(kb.Rows, row)
	}

	var nav []InlineButton
	if p.HasPrev() {
		nav = append(nav, button(buttonPrevPage, pageOf(p.Page-1)))
	}
	if p.HasNext() {
		nav = append(nav, button(buttonNextPage, pageOf(p.Page+1)))
	}
	if len(nav) > 0 {
		kb.Rows = append(kb.Rows, nav)
	}

	kb.Rows = append(kb.Rows, menuRow())
	return kb
}

func originKeyboard() *InlineKeyboard {
	return &InlineKeyboard{Rows: [][]InlineButton{{
		button(buttonUserTags, callback.Origin{Origin: domain.TagUser}),
		button(buttonAITags, callback.Origin{Origin: domain.TagInferred}),
	}}}
}

func tagsKeyboard(tags []domain.Tag) *InlineKeyboard {
	kb := &InlineKeyboard{}
	for _, t := range tags {
		kb.Rows = append(kb.Rows, []InlineButton{button(t.Name, callback.Tag{TagID: t.ID})})
	}
	kb.Rows = append(kb.Rows, menuRow())
	return kb
}
