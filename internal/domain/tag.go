package domain

import "strings"

// TagOrigin says how a tag was derived from a description.
type TagOrigin string

// Tag origins. The stored values are part of the database format.
const (
	// TagUser tags were written explicitly as #word.
	TagUser TagOrigin = "user"
	// TagInferred tags were derived from nouns and numbers in the text.
	TagInferred TagOrigin = "ai"
)

// ParseTagOrigin converts a stored or callback value back to a TagOrigin.
func ParseTagOrigin(s string) (TagOrigin, bool) {
	switch TagOrigin(s) {
	case TagUser, TagInferred:
		return TagOrigin(s), true
	}
	return "", false
}

// Tag is a globally unique label. Explicit tags keep their leading '#'.
// Tags are created lazily and never deleted, even when no entry uses them.
type Tag struct {
	ID     int64     `json:"id"`
	Name   string    `json:"name"`
	Origin TagOrigin `json:"origin"`
}

// TagRef is a tag to attach to an entry before it has an ID.
type TagRef struct {
	Name   string
	Origin TagOrigin
}

// BareName returns the tag name without the explicit-tag prefix.
func BareName(name string) string {
	return strings.TrimPrefix(name, "#")
}
