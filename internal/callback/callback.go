// Package callback encodes inline button actions into Telegram callback data and back.
//
// Callback data is limited to 64 bytes, so every action is a short
// colon-separated string led by a fixed prefix.
package callback

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smartspb/mediabot/internal/domain"
	apperrors "github.com/smartspb/mediabot/internal/errors"
)

// MaxDataLen is the Telegram limit for callback data.
const MaxDataLen = 64

const dateLayout = "20060102"

// Action is one decoded button press.
type Action interface {
	// Encode returns the callback data for the action.
	Encode() string
}

// Gallery opens entry Ordinal at media index Photo.
type Gallery struct {
	Ordinal int
	Photo   int
}

// EditMenu shows the edit choices for an entry.
type EditMenu struct {
	ContentID int64
	Ordinal   int
}

// EditText asks for a new description.
type EditText struct {
	ContentID int64
	Ordinal   int
}

// EditMedia asks for replacement media.
type EditMedia struct {
	ContentID int64
	Ordinal   int
}

// ConfirmDelete asks the user to confirm deletion.
type ConfirmDelete struct {
	ContentID int64
	Ordinal   int
}

// Delete removes an entry.
type Delete struct {
	ContentID int64
}

// Back returns to the gallery view of Ordinal, abandoning an edit or delete.
type Back struct {
	Ordinal int
}

// PageMode selects the list a Page action pages through.
type PageMode string

const (
	PageAll   PageMode = "all"
	PageTag   PageMode = "tag"
	PageRange PageMode = "range"
	PageText  PageMode = "text"
)

// Page shows one page of a list. Page is zero-based.
type Page struct {
	Mode  PageMode
	TagID int64     // PageTag
	From  time.Time // PageRange, date only
	To    time.Time // PageRange, date only
	Page  int
}

// Tag opens the list of entries labelled with a tag.
type Tag struct {
	TagID int64
}

// Origin lists the user's tags of one origin.
type Origin struct {
	Origin domain.TagOrigin
}

// Noop is a disabled button or a counter label.
type Noop struct{}

// Menu closes the inline view and shows the main menu.
type Menu struct{}

func (a Gallery) Encode() string { return fmt.Sprintf("gal:%d:%d", a.Ordinal, a.Photo) }

func (a EditMenu) Encode() string { return fmt.Sprintf("pre:%d:%d", a.ContentID, a.Ordinal) }

func (a EditText) Encode() string { return fmt.Sprintf("edd:%d:%d", a.ContentID, a.Ordinal) }

func (a EditMedia) Encode() string { return fmt.Sprintf("edm:%d:%d", a.ContentID, a.Ordinal) }

func (a ConfirmDelete) Encode() string { return fmt.Sprintf("cdel:%d:%d", a.ContentID, a.Ordinal) }

func (a Delete) Encode() string { return fmt.Sprintf("del:%d", a.ContentID) }

func (a Back) Encode() string { return fmt.Sprintf("back:%d", a.Ordinal) }

func (a Page) Encode() string {
	switch a.Mode {
	case PageTag:
		return fmt.Sprintf("pg:tag:%d:%d", a.TagID, a.Page)
	case PageRange:
		return fmt.Sprintf("pg:range:%s:%s:%d", a.From.Format(dateLayout), a.To.Format(dateLayout), a.Page)
	default:
		return fmt.Sprintf("pg:%s:%d", a.Mode, a.Page)
	}
}

func (a Tag) Encode() string { return fmt.Sprintf("tag:%d", a.TagID) }

func (a Origin) Encode() string { return "org:" + string(a.Origin) }

func (Noop) Encode() string { return "none" }

func (Menu) Encode() string { return "menu" }

// Decode parses callback data produced by Encode.
func Decode(data string) (Action, error) {
	if len(data) > MaxDataLen {
		return nil, apperrors.Validationf("callback data too long (%d bytes)", len(data))
	}
	a, err := decode(data)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func decode(data string) (Action, error) {
	parts := strings.Split(data, ":")
	p := parser{parts: parts, data: data}

	switch parts[0] {
	case "gal":
		a := Gallery{Ordinal: p.int(1), Photo: p.int(2)}
		return a, p.done(3)
	case "pre":
		a := EditMenu{ContentID: p.id(1), Ordinal: p.int(2)}
		return a, p.done(3)
	case "edd":
		a := EditText{ContentID: p.id(1), Ordinal: p.int(2)}
		return a, p.done(3)
	case "edm":
		a := EditMedia{ContentID: p.id(1), Ordinal: p.int(2)}
		return a, p.done(3)
	case "cdel":
		a := ConfirmDelete{ContentID: p.id(1), Ordinal: p.int(2)}
		return a, p.done(3)
	case "del":
		a := Delete{ContentID: p.id(1)}
		return a, p.done(2)
	case "back":
		a := Back{Ordinal: p.int(1)}
		return a, p.done(2)
	case "pg":
		return p.page()
	case "tag":
		a := Tag{TagID: p.id(1)}
		return a, p.done(2)
	case "org":
		origin, ok := domain.ParseTagOrigin(p.str(1))
		if !ok {
			p.fail("unknown tag origin")
		}
		return Origin{Origin: origin}, p.done(2)
	case "none":
		return Noop{}, p.done(1)
	case "menu":
		return Menu{}, p.done(1)
	}
	return nil, apperrors.Validationf("unknown callback %q", data)
}

func (p *parser) page() (Action, error) {
	switch PageMode(p.str(1)) {
	case PageAll:
		return Page{Mode: PageAll, Page: p.nonNegative(2)}, p.done(3)
	case PageText:
		return Page{Mode: PageText, Page: p.nonNegative(2)}, p.done(3)
	case PageTag:
		return Page{Mode: PageTag, TagID: p.id(2), Page: p.nonNegative(3)}, p.done(4)
	case PageRange:
		return Page{Mode: PageRange, From: p.date(2), To: p.date(3), Page: p.nonNegative(4)}, p.done(5)
	}
	return nil, apperrors.Validationf("unknown page mode in %q", p.data)
}

// parser reads fields of a split callback and remembers the first error.
type parser struct {
	parts []string
	data  string
	err   error
}

func (p *parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = apperrors.Validationf("callback %q: "+format, append([]any{p.data}, args...)...)
	}
}

func (p *parser) str(i int) string {
	if i >= len(p.parts) {
		p.fail("missing field %d", i)
		return ""
	}
	return p.parts[i]
}

func (p *parser) int(i int) int {
	s := p.str(i)
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.fail("field %d is not a number", i)
	}
	return n
}

func (p *parser) nonNegative(i int) int {
	n := p.int(i)
	if n < 0 {
		p.fail("field %d is negative", i)
	}
	return n
}

func (p *parser) id(i int) int64 {
	s := p.str(i)
	if p.err != nil {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		p.fail("field %d is not an id", i)
	}
	return n
}

func (p *parser) date(i int) time.Time {
	s := p.str(i)
	if p.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		p.fail("field %d is not a date", i)
	}
	return t
}

// done checks that exactly n fields were present.
func (p *parser) done(n int) error {
	if p.err == nil && len(p.parts) != n {
		p.fail("expected %d fields, got %d", n, len(p.parts))
	}
	return p.err
}
