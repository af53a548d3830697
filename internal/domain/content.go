// Package domain defines the archive entities shared by storage, services, and the bot.
package domain

import (
	"fmt"
	"time"
)

// Timestamp layouts stored alongside every entry.
const (
	// DisplayLayout is what users see: 02.01.2006 15:04.
	DisplayLayout = "02.01.2006 15:04"
	// SortableLayout orders lexicographically and backs date range queries.
	SortableLayout = "2006-01-02 15:04:05"
	// DateLayout is the day format users type in search queries.
	DateLayout = "02.01.2006"
)

// MediaKind is the kind of an attachment.
type MediaKind string

// Supported media kinds.
const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// Valid reports whether k is a supported kind.
func (k MediaKind) Valid() bool {
	return k == MediaPhoto || k == MediaVideo
}

// Media is an attachment referenced by the chat platform's opaque file id.
// The bytes are never fetched.
type Media struct {
	ID        int64     `json:"id"`
	ContentID int64     `json:"content_id"`
	FileID    string    `json:"file_id"`
	Kind      MediaKind `json:"kind"`
}

// Content is one archived upload: an owner, an optional description, and at least one Media.
type Content struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Description string  `json:"description"`
	Timestamp   string  `json:"timestamp"` // DisplayLayout
	ISODate     string  `json:"iso_date"`  // SortableLayout
	Media       []Media `json:"media,omitempty"`
}

// Stamp sets both timestamp representations from t.
func (c *Content) Stamp(t time.Time) {
	c.Timestamp = t.Format(DisplayLayout)
	c.ISODate = t.Format(SortableLayout)
}

// Entry is a Content together with its 1-based position in the owner's archive.
// Ordinals are derived at read time and shift when earlier entries are deleted.
type Entry struct {
	Content
	Ordinal int `json:"ordinal"`
}

// NewMedia builds a detached Media value, validating the kind.
func NewMedia(fileID string, kind MediaKind) (Media, error) {
	if fileID == "" {
		return Media{}, fmt.Errorf("media file id is empty")
	}
	if !kind.Valid() {
		return Media{}, fmt.Errorf("unsupported media kind %q", kind)
	}
	return Media{FileID: fileID, Kind: kind}, nil
}
