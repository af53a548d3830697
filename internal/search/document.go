package search

import (
	"strconv"
	"strings"

	"github.com/smartspb/mediabot/internal/domain"
)

// SearchDocument is the indexed form of an archive entry.
type SearchDocument struct {
	ID          string
	ContentID   int64
	UserID      int64
	Description string
	Tags        []string // bare names, without '#'
	Date        string   // sortable timestamp
	MediaCount  int
}

// DocumentID returns the index key for a content ID.
func DocumentID(contentID int64) string {
	return strconv.FormatInt(contentID, 10)
}

// NewDocument builds a document from an entry and its tag names.
func NewDocument(c *domain.Content, tags []string) *SearchDocument {
	bare := make([]string, 0, len(tags))
	for _, t := range tags {
		if name := domain.BareName(t); name != "" {
			bare = append(bare, name)
		}
	}
	return &SearchDocument{
		ID:          DocumentID(c.ID),
		ContentID:   c.ID,
		UserID:      c.UserID,
		Description: c.Description,
		Tags:        bare,
		Date:        c.ISODate,
		MediaCount:  len(c.Media),
	}
}

// ToMap converts the document to the field layout the mapping expects.
func (d *SearchDocument) ToMap() map[string]any {
	return map[string]any{
		"content_id":  float64(d.ContentID),
		"user_id":     strconv.FormatInt(d.UserID, 10),
		"description": d.Description,
		"tags":        strings.Join(d.Tags, " "),
		"date":        d.Date,
		"media_count": float64(d.MediaCount),
	}
}
