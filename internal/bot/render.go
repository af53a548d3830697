package bot

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf16"

	"github.com/smartspb/mediabot/internal/service"
	"github.com/smartspb/mediabot/internal/store"
)

// listPreviewRunes is how much of a description a list row shows.
const listPreviewRunes = 25

// captionLimit is Telegram's media caption limit in UTF-16 code units.
const captionLimit = 1024

func galleryCaption(v *service.GalleryView) string {
	desc := v.Entry.Description
	if desc == "" {
		desc = "..."
	}
	ts := html.EscapeString(v.Entry.Timestamp)
	head := fmt.Sprintf(textGalleryFmt, v.Entry.Ordinal, ts, "")
	return fmt.Sprintf(textGalleryFmt, v.Entry.Ordinal, ts, clipEscaped(desc, captionLimit-utf16Len(head)))
}

// clipEscaped HTML-escapes s and cuts it, with a trailing ellipsis, to at
// most limit UTF-16 code units. Escape sequences are never split.
func clipEscaped(s string, limit int) string {
	escaped := html.EscapeString(s)
	if utf16Len(escaped) <= limit {
		return escaped
	}

	var sb strings.Builder
	used := 1 // the ellipsis
	for _, r := range s {
		part := html.EscapeString(string(r))
		n := utf16Len(part)
		if used+n > limit {
			break
		}
		sb.WriteString(part)
		used += n
	}
	sb.WriteString("…")
	return sb.String()
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func listText(p *store.ListPage) string {
	lines := make([]string, 0, len(p.Rows)+1)
	lines = append(lines, fmt.Sprintf(textListHeaderFmt, p.Total, p.Page+1, p.Pages()))
	for _, r := range p.Rows {
		lines = append(lines, fmt.Sprintf("<b>%d.</b> %s | %s", r.Ordinal, html.EscapeString(r.Timestamp), preview(r.Description)))
	}
	return strings.Join(lines, "\n")
}

// preview shortens a description to one escaped line.
func preview(desc string) string {
	if desc == "" {
		return "..."
	}
	runes := []rune(desc)
	if len(runes) > listPreviewRunes {
		runes = runes[:listPreviewRunes]
	}
	return html.EscapeString(strings.ReplaceAll(string(runes), "\n", " "))
}
