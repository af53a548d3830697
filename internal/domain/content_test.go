package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent_Stamp(t *testing.T) {
	var c Content
	c.Stamp(time.Date(2024, time.March, 5, 9, 7, 3, 0, time.UTC))

	assert.Equal(t, "05.03.2024 09:07", c.Timestamp)
	assert.Equal(t, "2024-03-05 09:07:03", c.ISODate)
}

func TestNewMedia(t *testing.T) {
	m, err := NewMedia("AgACAgIAAxkBAAI", MediaPhoto)
	require.NoError(t, err)
	assert.Equal(t, MediaPhoto, m.Kind)

	_, err = NewMedia("", MediaVideo)
	assert.Error(t, err)

	_, err = NewMedia("file", MediaKind("audio"))
	assert.Error(t, err)
}

func TestParseTagOrigin(t *testing.T) {
	o, ok := ParseTagOrigin("ai")
	assert.True(t, ok)
	assert.Equal(t, TagInferred, o)

	_, ok = ParseTagOrigin("robot")
	assert.False(t, ok)
}

func TestBareName(t *testing.T) {
	assert.Equal(t, "sea", BareName("#sea"))
	assert.Equal(t, "sea", BareName("sea"))
}
