// Package store defines the persistence contract for the media archive.
package store

import (
	"context"

	"github.com/smartspb/mediabot/internal/domain"
)

// Store persists archive entries, their media, and their tags.
//
// Every method that writes more than one row does so in a single transaction.
// Ordinals are never stored; they are computed from the owner's entries ordered by id.
type Store interface {
	// CreateContent inserts c with its media and tag associations. It sets c.ID and the media IDs.
	CreateContent(ctx context.Context, c *domain.Content, tags []domain.TagRef) error
	// GetContent returns an entry with its media ordered by insertion.
	GetContent(ctx context.Context, id int64) (*domain.Content, error)
	// UpdateDescription sets the description and replaces every tag association.
	UpdateDescription(ctx context.Context, id int64, description string, tags []domain.TagRef) error
	// ReplaceMedia swaps the whole media set of an entry.
	ReplaceMedia(ctx context.Context, id int64, media []domain.Media) error
	// DeleteContent removes an entry; media and tag associations cascade.
	DeleteContent(ctx context.Context, id int64) error

	CountContent(ctx context.Context, userID int64) (int, error)
	// EntryByOrdinal returns the k-th oldest entry of a user. ErrNotFound when k is outside [1, count].
	EntryByOrdinal(ctx context.Context, userID int64, ordinal int) (*domain.Entry, error)
	// Ordinal returns the position of contentID among userID's entries.
	Ordinal(ctx context.Context, userID, contentID int64) (int, error)
	// ListContent returns one page of entries matching filter, newest first.
	ListContent(ctx context.Context, userID int64, filter ListFilter, page int) (*ListPage, error)
	// ForEachContent visits every entry with its tag names, oldest first.
	ForEachContent(ctx context.Context, fn func(c *domain.Content, tags []string) error) error

	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	ContentTags(ctx context.Context, contentID int64) ([]domain.Tag, error)
	// UserTags returns the distinct tags of one origin attached to a user's entries.
	UserTags(ctx context.Context, userID int64, origin domain.TagOrigin) ([]domain.Tag, error)

	UserStats(ctx context.Context) ([]UserStat, error)
	TagUsage(ctx context.Context) ([]TagUsage, error)

	Close() error
}

// SearchIndexer keeps a secondary text index in sync with committed writes.
type SearchIndexer interface {
	IndexContent(ctx context.Context, c *domain.Content, tags []string) error
	DeleteContent(ctx context.Context, id int64) error
}

// NoopSearchIndexer is a no-op implementation for tests and for running without search.
type NoopSearchIndexer struct{}

// IndexContent is a no-op.
func (NoopSearchIndexer) IndexContent(context.Context, *domain.Content, []string) error { return nil }

// DeleteContent is a no-op.
func (NoopSearchIndexer) DeleteContent(context.Context, int64) error { return nil }

// UserStat summarizes one user's archive.
type UserStat struct {
	UserID     int64
	Entries    int
	Media      int
	LastUpload string // SortableLayout, empty when the user has no entries
}

// TagUsage is a tag with the number of entries it is attached to.
type TagUsage struct {
	domain.Tag
	Entries int
}
