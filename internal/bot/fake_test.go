package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smartspb/mediabot/internal/album"
	"github.com/smartspb/mediabot/internal/domain"
)

// sent is one recorded transport call.
type sent struct {
	Method    string
	ChatID    int64
	MessageID int
	Text      string
	FileID    string
	Markup    Markup
}

type fakeTransport struct {
	mu      sync.Mutex
	calls   []sent
	nextID  int
	failing map[string]bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{nextID: 1000, failing: make(map[string]bool)}
}

var errFakeEdit = errors.New("message can't be edited")

func (f *fakeTransport) record(s sent) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
	if f.failing[s.Method] {
		return 0, errFakeEdit
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeTransport) SendText(_ context.Context, chatID int64, text string, markup Markup) (int, error) {
	return f.record(sent{Method: "SendText", ChatID: chatID, Text: text, Markup: markup})
}

func (f *fakeTransport) SendPhoto(_ context.Context, chatID int64, fileID, caption string, markup Markup) (int, error) {
	return f.record(sent{Method: "SendPhoto", ChatID: chatID, FileID: fileID, Text: caption, Markup: markup})
}

func (f *fakeTransport) SendVideo(_ context.Context, chatID int64, fileID, caption string, markup Markup) (int, error) {
	return f.record(sent{Method: "SendVideo", ChatID: chatID, FileID: fileID, Text: caption, Markup: markup})
}

func (f *fakeTransport) EditText(_ context.Context, chatID int64, messageID int, text string, markup *InlineKeyboard) error {
	_, err := f.record(sent{Method: "EditText", ChatID: chatID, MessageID: messageID, Text: text, Markup: markup})
	return err
}

func (f *fakeTransport) EditCaption(_ context.Context, chatID int64, messageID int, caption string, markup *InlineKeyboard) error {
	_, err := f.record(sent{Method: "EditCaption", ChatID: chatID, MessageID: messageID, Text: caption, Markup: markup})
	return err
}

func (f *fakeTransport) EditMedia(_ context.Context, chatID int64, messageID int, media domain.Media, caption string, markup *InlineKeyboard) error {
	_, err := f.record(sent{Method: "EditMedia", ChatID: chatID, MessageID: messageID, FileID: media.FileID, Text: caption, Markup: markup})
	return err
}

func (f *fakeTransport) Delete(_ context.Context, chatID int64, messageID int) error {
	_, err := f.record(sent{Method: "Delete", ChatID: chatID, MessageID: messageID})
	return err
}

func (f *fakeTransport) AnswerCallback(_ context.Context, callbackID, text string) error {
	_, err := f.record(sent{Method: "AnswerCallback", Text: text})
	return err
}

func (f *fakeTransport) fail(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[method] = true
}

// take returns and clears the recorded calls.
func (f *fakeTransport) take() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := f.calls
	f.calls = nil
	return calls
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// last returns the most recent call without clearing.
func (f *fakeTransport) last() sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return sent{}
	}
	return f.calls[len(f.calls)-1]
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// manualClock collects album timers so tests can fire them.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) album.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

// fireAll runs every timer created so far, stopped or not.
func (c *manualClock) fireAll() {
	c.mu.Lock()
	timers := append([]*manualTimer(nil), c.timers...)
	c.mu.Unlock()
	for _, t := range timers {
		t.f()
	}
}
