package store

import (
	"fmt"
	"time"

	"github.com/smartspb/mediabot/internal/domain"
)

// PageSize is the number of rows on one list page.
const PageSize = 10

// FilterKind selects which entries a list shows.
type FilterKind string

// List filter kinds.
const (
	FilterAll   FilterKind = "all"
	FilterTag   FilterKind = "tag"
	FilterRange FilterKind = "range"
	FilterIDs   FilterKind = "ids"
)

// ListFilter narrows a user's entries.
type ListFilter struct {
	Kind FilterKind
	// TagName matches the stored name as-is or with a leading '#'.
	TagName string
	// From and To are calendar days, both inclusive.
	From, To time.Time
	// IDs restricts the list to these entries, used for text search results.
	IDs []int64
}

// AllEntries returns the unfiltered list.
func AllEntries() ListFilter {
	return ListFilter{Kind: FilterAll}
}

// ByTag returns a filter on a tag name. The name is matched with and without
// the "#" prefix, so explicit and inferred tags of the same word list together.
func ByTag(name string) ListFilter {
	return ListFilter{Kind: FilterTag, TagName: domain.BareName(name)}
}

// ByRange returns a filter on creation days between from and to inclusive.
func ByRange(from, to time.Time) ListFilter {
	return ListFilter{Kind: FilterRange, From: from, To: to}
}

// ByIDs returns a filter on explicit entry ids.
func ByIDs(ids []int64) ListFilter {
	return ListFilter{Kind: FilterIDs, IDs: ids}
}

// Bounds returns the inclusive sortable-timestamp bounds of a range filter.
func (f ListFilter) Bounds() (lo, hi string) {
	return f.From.Format(time.DateOnly) + " 00:00:00", f.To.Format(time.DateOnly) + " 23:59:59"
}

// Validate checks the filter is well formed.
func (f ListFilter) Validate() error {
	switch f.Kind {
	case FilterAll:
	case FilterTag:
		if f.TagName == "" {
			return fmt.Errorf("%w: empty tag name", ErrInvalidInput)
		}
	case FilterRange:
		if f.From.IsZero() || f.To.IsZero() {
			return fmt.Errorf("%w: range needs both ends", ErrInvalidInput)
		}
	case FilterIDs:
	default:
		return fmt.Errorf("%w: unknown filter %q", ErrInvalidInput, f.Kind)
	}
	return nil
}

// ListRow is one line of a list page.
type ListRow struct {
	ID          int64
	Ordinal     int
	Timestamp   string
	Description string
}

// ListPage is one page of a filtered list. Page is 0-based.
type ListPage struct {
	Rows  []ListRow
	Page  int
	Total int
}

// Pages returns the number of pages, at least 1.
func (p *ListPage) Pages() int {
	if p.Total == 0 {
		return 1
	}
	return (p.Total + PageSize - 1) / PageSize
}

// HasPrev reports whether an earlier page exists.
func (p *ListPage) HasPrev() bool { return p.Page > 0 }

// HasNext reports whether a later page exists.
func (p *ListPage) HasNext() bool { return (p.Page+1)*PageSize < p.Total }

// ClampPage bounds a requested page to what total rows allow.
func ClampPage(page, total int) int {
	last := 0
	if total > 0 {
		last = (total - 1) / PageSize
	}
	return max(0, min(page, last))
}
