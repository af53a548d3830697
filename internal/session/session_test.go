package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartspb/mediabot/internal/domain"
)

var key = Key{ChatID: 100, UserID: 1}

func TestGet_MissingIsIdle(t *testing.T) {
	s := NewStore()

	sess := s.Get(key)
	assert.True(t, sess.Idle())
	assert.Equal(t, StateIdle, sess.State)
	assert.Equal(t, 0, s.Len())
}

func TestAwaitDescription(t *testing.T) {
	s := NewStore()
	media := []domain.Media{{FileID: "f1", Kind: domain.MediaPhoto}}

	s.AwaitDescription(key, media)
	media[0].FileID = "mutated"

	sess := s.Get(key)
	assert.Equal(t, StateAwaitingDescription, sess.State)
	require.Len(t, sess.Pending, 1)
	assert.Equal(t, "f1", sess.Pending[0].FileID)

	s.Set(key, StateIdle)
	assert.Empty(t, s.Get(key).Pending)
	assert.Equal(t, 0, s.Len())
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.AwaitDescription(key, []domain.Media{{FileID: "f1"}})
	s.StartMediaEdit(key, Target{ContentID: 5, Ordinal: 2})

	sess := s.Get(key)
	sess.Pending[0].FileID = "changed"
	sess.MediaEdit.ContentID = 99

	again := s.Get(key)
	assert.Equal(t, "f1", again.Pending[0].FileID)
	assert.Equal(t, int64(5), again.MediaEdit.ContentID)
}

func TestMediaEditIsOrthogonal(t *testing.T) {
	s := NewStore()

	s.StartMediaEdit(key, Target{ContentID: 7, Ordinal: 3})
	s.Set(key, StateAwaitingDays)

	sess := s.Get(key)
	assert.Equal(t, StateAwaitingDays, sess.State)
	require.NotNil(t, sess.MediaEdit)
	assert.False(t, sess.Idle())

	target, ok := s.FinishMediaEdit(key)
	assert.True(t, ok)
	assert.Equal(t, Target{ContentID: 7, Ordinal: 3}, target)

	_, ok = s.FinishMediaEdit(key)
	assert.False(t, ok)
	assert.Nil(t, s.Get(key).MediaEdit)
}

func TestAwaitEditText(t *testing.T) {
	s := NewStore()

	s.AwaitEditText(key, Target{ContentID: 4, Ordinal: 1})

	sess := s.Get(key)
	assert.Equal(t, StateAwaitingEditText, sess.State)
	assert.Equal(t, int64(4), sess.Target.ContentID)
}

func TestTextQuerySurvivesIdle(t *testing.T) {
	s := NewStore()

	s.SetTextQuery(key, "море")
	s.Set(key, StateIdle)

	assert.Equal(t, "море", s.Get(key).TextQuery)
	assert.Equal(t, 1, s.Len())
}

func TestReset(t *testing.T) {
	s := NewStore()
	other := Key{ChatID: 100, UserID: 2}

	s.AwaitDescription(key, []domain.Media{{FileID: "f1"}})
	s.StartMediaEdit(key, Target{ContentID: 1})
	s.Set(other, StateAwaitingOrdinal)

	s.Reset(key)

	assert.True(t, s.Get(key).Idle())
	assert.Equal(t, StateAwaitingOrdinal, s.Get(other).State)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting_description", StateAwaitingDescription.String())
	assert.Equal(t, "unknown", State(99).String())
}
