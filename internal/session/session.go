// Package session keeps per-conversation workflow state in memory.
package session

import (
	"slices"
	"sync"

	"github.com/smartspb/mediabot/internal/domain"
)

// State is the step a conversation is waiting on.
type State int

const (
	StateIdle State = iota
	// StateAwaitingDescription holds uploaded media until the user sends a caption.
	StateAwaitingDescription
	StateAwaitingDays
	StateAwaitingRange
	StateAwaitingOrdinal
	StateAwaitingTextQuery
	// StateAwaitingEditText waits for the new description of Session.Target.
	StateAwaitingEditText
)

var stateNames = map[State]string{
	StateIdle:                "idle",
	StateAwaitingDescription: "awaiting_description",
	StateAwaitingDays:        "awaiting_days",
	StateAwaitingRange:       "awaiting_range",
	StateAwaitingOrdinal:     "awaiting_ordinal",
	StateAwaitingTextQuery:   "awaiting_text_query",
	StateAwaitingEditText:    "awaiting_edit_text",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Key identifies a conversation: one user in one chat.
type Key struct {
	ChatID int64
	UserID int64
}

// Target points at an entry being edited together with the ordinal to return to.
type Target struct {
	ContentID int64
	Ordinal   int
}

// Session is the workflow state of one conversation.
type Session struct {
	State State

	// Pending is the media waiting for a description.
	Pending []domain.Media

	// Target is the entry of StateAwaitingEditText.
	Target Target

	// MediaEdit is set while the user is uploading replacement media.
	// It is independent of State and checked first for every media message.
	MediaEdit *Target

	// TextQuery is the last text search, kept for paging through results.
	TextQuery string
}

// Idle reports whether the conversation waits on nothing.
func (s Session) Idle() bool {
	return s.State == StateIdle && s.MediaEdit == nil
}

func (s Session) clone() Session {
	s.Pending = slices.Clone(s.Pending)
	if s.MediaEdit != nil {
		t := *s.MediaEdit
		s.MediaEdit = &t
	}
	return s
}

// Store is a concurrency-safe map of sessions. A missing entry is an idle session.
type Store struct {
	mu       sync.Mutex
	sessions map[Key]Session
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[Key]Session)}
}

// Get returns a copy of the session for key.
func (s *Store) Get(key Key) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[key].clone()
}

// Update applies fn to the session for key and stores the result.
// A session that ends up idle with nothing to keep is removed.
func (s *Store) Update(key Key, fn func(*Session)) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[key].clone()
	fn(&sess)
	if sess.Idle() && len(sess.Pending) == 0 && sess.TextQuery == "" {
		delete(s.sessions, key)
	} else {
		s.sessions[key] = sess
	}
	return sess.clone()
}

// Set moves key to state, clearing the step-specific fields. MediaEdit and
// TextQuery are left alone.
func (s *Store) Set(key Key, state State) {
	s.Update(key, func(sess *Session) {
		sess.State = state
		sess.Pending = nil
		sess.Target = Target{}
	})
}

// AwaitDescription stores media and waits for its description.
func (s *Store) AwaitDescription(key Key, media []domain.Media) {
	s.Update(key, func(sess *Session) {
		sess.State = StateAwaitingDescription
		sess.Pending = slices.Clone(media)
		sess.Target = Target{}
	})
}

// AwaitEditText waits for a new description of target.
func (s *Store) AwaitEditText(key Key, target Target) {
	s.Update(key, func(sess *Session) {
		sess.State = StateAwaitingEditText
		sess.Pending = nil
		sess.Target = target
	})
}

// StartMediaEdit makes the next media upload replace target's media.
func (s *Store) StartMediaEdit(key Key, target Target) {
	s.Update(key, func(sess *Session) {
		sess.MediaEdit = &target
	})
}

// FinishMediaEdit clears the media edit flag and returns the target it had.
func (s *Store) FinishMediaEdit(key Key) (Target, bool) {
	var target Target
	var ok bool
	s.Update(key, func(sess *Session) {
		if sess.MediaEdit != nil {
			target, ok = *sess.MediaEdit, true
		}
		sess.MediaEdit = nil
	})
	return target, ok
}

// SetTextQuery remembers the last text search.
func (s *Store) SetTextQuery(key Key, query string) {
	s.Update(key, func(sess *Session) {
		sess.TextQuery = query
	})
}

// Reset drops everything stored for key.
func (s *Store) Reset(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// Len returns the number of non-idle sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
