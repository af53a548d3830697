package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smartspb/mediabot/internal/domain"
	"github.com/smartspb/mediabot/internal/store"
)

// GalleryView is one entry opened at one of its media.
type GalleryView struct {
	Entry *domain.Entry
	// Total is the number of entries the owner has. Zero means the archive is empty.
	Total int
	// Photo is the index of the shown media, clamped to the entry's media.
	Photo int
}

// Empty reports whether the owner has no entries at all.
func (v *GalleryView) Empty() bool { return v.Total == 0 }

// Current returns the shown media.
func (v *GalleryView) Current() domain.Media { return v.Entry.Media[v.Photo] }

// MediaCount returns the number of media in the entry.
func (v *GalleryView) MediaCount() int { return len(v.Entry.Media) }

// HasPrevPhoto reports whether an earlier media exists.
func (v *GalleryView) HasPrevPhoto() bool { return v.Photo > 0 }

// HasNextPhoto reports whether a later media exists.
func (v *GalleryView) HasNextPhoto() bool { return v.Photo < len(v.Entry.Media)-1 }

// HasOlder reports whether an entry with a lower ordinal exists.
func (v *GalleryView) HasOlder() bool { return v.Entry.Ordinal > 1 }

// HasNewer reports whether an entry with a higher ordinal exists.
func (v *GalleryView) HasNewer() bool { return v.Entry.Ordinal < v.Total }

// TagListView is a page of entries labelled with one tag.
type TagListView struct {
	Tag  *domain.Tag
	Page *store.ListPage
}

// Navigator answers the read side of the bot: gallery, lists, and tags.
type Navigator struct {
	store    store.Store
	search   *SearchService
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewNavigator creates a navigator. search may be nil, which disables text search.
func NewNavigator(store store.Store, search *SearchService, location *time.Location, logger *slog.Logger) *Navigator {
	if location == nil {
		location = time.Local
	}
	return &Navigator{
		store:    store,
		search:   search,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// SetClock replaces the time source. Used by tests.
func (n *Navigator) SetClock(now func() time.Time) {
	n.now = now
}

// Gallery opens the entry at ordinal, or the latest entry when ordinal is 0.
// An ordinal outside [1, count] yields ErrEntryNotFound. An empty archive
// yields a view with Total == 0 and no entry.
func (n *Navigator) Gallery(ctx context.Context, userID int64, ordinal, photo int) (*GalleryView, error) {
	total, err := n.store.CountContent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	if total == 0 {
		return &GalleryView{}, nil
	}

	if ordinal == 0 {
		ordinal = total
	}

	entry, err := n.store.EntryByOrdinal(ctx, userID, ordinal)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load entry %d: %w", ordinal, err)
	}
	if len(entry.Media) == 0 {
		n.logger.Error("entry has no media", "user_id", userID, "content_id", entry.ID)
		return nil, ErrEntryNotFound
	}

	photo = max(0, min(photo, len(entry.Media)-1))
	return &GalleryView{Entry: entry, Total: total, Photo: photo}, nil
}

// Ordinal returns the current ordinal of an entry the user owns.
func (n *Navigator) Ordinal(ctx context.Context, userID, contentID int64) (int, error) {
	ordinal, err := n.store.Ordinal(ctx, userID, contentID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrEntryNotFound
	}
	return ordinal, err
}

// List returns one page of the user's entries matching filter.
func (n *Navigator) List(ctx context.Context, userID int64, filter store.ListFilter, page int) (*store.ListPage, error) {
	p, err := n.store.ListContent(ctx, userID, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return p, nil
}

// LastDays returns the range filter covering today and the days previous days.
func (n *Navigator) LastDays(days int) store.ListFilter {
	today := n.now().In(n.location)
	return store.ByRange(today.AddDate(0, 0, -days), today)
}

// Tags returns the distinct tags of one origin on the user's entries.
func (n *Navigator) Tags(ctx context.Context, userID int64, origin domain.TagOrigin) ([]domain.Tag, error) {
	tags, err := n.store.UserTags(ctx, userID, origin)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// TagList returns one page of the user's entries labelled with tag tagID.
func (n *Navigator) TagList(ctx context.Context, userID, tagID int64, page int) (*TagListView, error) {
	tag, err := n.store.GetTag(ctx, tagID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load tag: %w", err)
	}

	p, err := n.List(ctx, userID, store.ByTag(tag.Name), page)
	if err != nil {
		return nil, err
	}
	return &TagListView{Tag: tag, Page: p}, nil
}

// SearchText lists the user's entries whose description or tags match query.
func (n *Navigator) SearchText(ctx context.Context, userID int64, query string, page int) (*store.ListPage, error) {
	if n.search == nil {
		return &store.ListPage{}, nil
	}

	ids, err := n.search.Search(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &store.ListPage{}, nil
	}
	return n.List(ctx, userID, store.ByIDs(ids), page)
}
