// Package album groups media messages that arrive as one Telegram media group.
//
// Telegram delivers an album as separate messages sharing a media group id.
// The Aggregator collects them for a quiet period and hands the complete
// batch to a flush callback exactly once.
package album

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/smartspb/mediabot/internal/domain"
	"github.com/smartspb/mediabot/internal/id"
)

// DefaultDebounce is the quiet period after the first item of a group.
const DefaultDebounce = 800 * time.Millisecond

// Mode says what a finished batch is for.
type Mode int

const (
	// ModeUpload saves the batch as a new entry.
	ModeUpload Mode = iota
	// ModeReplace swaps the media of an existing entry.
	ModeReplace
)

func (m Mode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "upload"
}

// Owner identifies the conversation a group belongs to.
type Owner struct {
	ChatID int64
	UserID int64
}

// Item is one media message of a group.
type Item struct {
	FileID  string
	Kind    domain.MediaKind
	Caption string
}

// Batch is a finished media group.
type Batch struct {
	GroupID   string
	Token     string
	Owner     Owner
	Mode      Mode
	ContentID int64 // entry being edited, ModeReplace only
	Items     []Item
}

// Caption returns the first non-empty caption in arrival order.
func (b *Batch) Caption() string {
	for _, it := range b.Items {
		if it.Caption != "" {
			return it.Caption
		}
	}
	return ""
}

// Media converts the items to unsaved media rows.
func (b *Batch) Media() ([]domain.Media, error) {
	media := make([]domain.Media, 0, len(b.Items))
	for _, it := range b.Items {
		m, err := domain.NewMedia(it.FileID, it.Kind)
		if err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, nil
}

// FlushFunc receives every finished batch. It runs on the timer goroutine
// and should hand the batch off rather than do slow work.
type FlushFunc func(*Batch)

// Timer is the part of *time.Timer the aggregator uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it.
type AfterFunc func(d time.Duration, f func()) Timer

type buffer struct {
	batch *Batch
	timer Timer
}

// Aggregator buffers media groups until they go quiet.
type Aggregator struct {
	logger    *slog.Logger
	debounce  time.Duration
	flush     FlushFunc
	afterFunc AfterFunc

	mu      sync.Mutex
	buffers map[string]*buffer
	stopped bool
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithAfterFunc replaces the timer source. Tests use it to fire timers by hand.
func WithAfterFunc(fn AfterFunc) Option {
	return func(a *Aggregator) { a.afterFunc = fn }
}

// New creates an aggregator. A non-positive debounce uses DefaultDebounce.
func New(logger *slog.Logger, debounce time.Duration, flush FlushFunc, opts ...Option) *Aggregator {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	a := &Aggregator{
		logger:   logger,
		debounce: debounce,
		flush:    flush,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		buffers: make(map[string]*buffer),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Add appends an item to its group. The first item of an unseen group opens
// a buffer and starts the only timer that group gets; mode and contentID are
// taken from that first item. It reports whether a new buffer was opened.
func (a *Aggregator) Add(groupID string, owner Owner, mode Mode, contentID int64, item Item) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return false, fmt.Errorf("album aggregator stopped")
	}

	if buf, ok := a.buffers[groupID]; ok {
		buf.batch.Items = append(buf.batch.Items, item)
		return false, nil
	}

	token, err := id.Generate(id.PrefixAlbum)
	if err != nil {
		return false, err
	}

	buf := &buffer{batch: &Batch{
		GroupID:   groupID,
		Token:     token,
		Owner:     owner,
		Mode:      mode,
		ContentID: contentID,
		Items:     []Item{item},
	}}
	buf.timer = a.afterFunc(a.debounce, func() { a.fire(groupID, token) })
	a.buffers[groupID] = buf

	a.logger.Debug("album opened",
		"group_id", groupID,
		"token", token,
		"user_id", owner.UserID,
		"mode", mode.String(),
	)
	return true, nil
}

// fire finalizes the buffer the timer was started for. A buffer that was
// already flushed, cancelled, or replaced by a newer one is left alone.
func (a *Aggregator) fire(groupID, token string) {
	a.mu.Lock()
	buf, ok := a.buffers[groupID]
	if !ok || buf.batch.Token != token {
		a.mu.Unlock()
		return
	}
	delete(a.buffers, groupID)
	a.mu.Unlock()

	a.logger.Debug("album complete", "group_id", groupID, "items", len(buf.batch.Items))
	a.flush(buf.batch)
}

// Flush finalizes a group now instead of waiting for its timer.
// It returns false if the group has no open buffer.
func (a *Aggregator) Flush(groupID string) bool {
	a.mu.Lock()
	buf, ok := a.buffers[groupID]
	if ok {
		delete(a.buffers, groupID)
		buf.timer.Stop()
	}
	a.mu.Unlock()

	if !ok {
		return false
	}
	a.flush(buf.batch)
	return true
}

// CancelOwner discards every open buffer of owner without flushing it.
// It returns the number of buffers dropped.
func (a *Aggregator) CancelOwner(owner Owner) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for groupID, buf := range a.buffers {
		if buf.batch.Owner != owner {
			continue
		}
		buf.timer.Stop()
		delete(a.buffers, groupID)
		n++
	}
	if n > 0 {
		a.logger.Debug("album buffers cancelled", "user_id", owner.UserID, "count", n)
	}
	return n
}

// Pending returns the number of open buffers.
func (a *Aggregator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buffers)
}

// Stop cancels all timers and drops open buffers. Later calls to Add fail.
func (a *Aggregator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, buf := range a.buffers {
		buf.timer.Stop()
	}
	if n := len(a.buffers); n > 0 {
		a.logger.Info("dropping unfinished albums", "count", n)
	}
	clear(a.buffers)
	a.stopped = true
}
