// Package bot implements the chat workflows of the media archive: uploads,
// gallery and list navigation, tag browsing, search, and editing.
//
// All handlers run on the goroutine that calls Run. Album timers post their
// results back to that goroutine, so handlers never run concurrently.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/smartspb/mediabot/internal/album"
	"github.com/smartspb/mediabot/internal/id"
	"github.com/smartspb/mediabot/internal/logger"
	"github.com/smartspb/mediabot/internal/service"
	"github.com/smartspb/mediabot/internal/session"
	"github.com/smartspb/mediabot/internal/validation"
)

// jobQueueSize bounds finished albums waiting for the worker loop.
const jobQueueSize = 64

// Deps holds the collaborators of a Bot.
type Deps struct {
	Transport Transport
	Archive   *service.ArchiveService
	Navigator *service.Navigator
	Sessions  *session.Store
	Validator *validation.Validator
	Logger    *slog.Logger
	Location  *time.Location

	AlbumDebounce time.Duration
	AlbumOptions  []album.Option
}

// Bot routes updates to handlers.
type Bot struct {
	tx       Transport
	archive  *service.ArchiveService
	nav      *service.Navigator
	sessions *session.Store
	albums   *album.Aggregator
	input    inputParser
	logger   *slog.Logger

	jobs chan func(context.Context)
	done chan struct{}
}

// New creates a bot.
func New(deps Deps) *Bot {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Sessions == nil {
		deps.Sessions = session.NewStore()
	}
	if deps.Validator == nil {
		deps.Validator = validation.New()
	}

	b := &Bot{
		tx:       deps.Transport,
		archive:  deps.Archive,
		nav:      deps.Navigator,
		sessions: deps.Sessions,
		input:    inputParser{validator: deps.Validator, location: deps.Location},
		logger:   deps.Logger,
		jobs:     make(chan func(context.Context), jobQueueSize),
		done:     make(chan struct{}),
	}
	b.albums = album.New(deps.Logger, deps.AlbumDebounce, b.albumReady, deps.AlbumOptions...)
	return b
}

// Run handles updates until ctx is done or updates is closed.
func (b *Bot) Run(ctx context.Context, updates <-chan Update) error {
	defer close(b.done)
	defer b.albums.Stop()

	b.logger.Info("bot started")
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopping", "reason", ctx.Err())
			return nil
		case u, ok := <-updates:
			if !ok {
				b.logger.Info("update channel closed")
				return nil
			}
			b.Handle(ctx, u)
		case job := <-b.jobs:
			job(ctx)
		}
	}
}

// Handle processes one update synchronously.
func (b *Bot) Handle(ctx context.Context, u Update) {
	ctx = b.withRequestLogger(ctx, u)

	defer func() {
		if r := recover(); r != nil {
			b.log(ctx).Error("handler panic", "panic", r)
		}
	}()

	switch {
	case u.Message != nil:
		b.handleMessage(ctx, u.Message)
	case u.Callback != nil:
		b.handleCallback(ctx, u.Callback)
	}
}

// albumReady runs on a timer goroutine and hands the batch to the worker loop.
func (b *Bot) albumReady(batch *album.Batch) {
	job := func(ctx context.Context) {
		ctx = logger.NewContext(ctx, b.logger.With("album", batch.Token, "user_id", batch.Owner.UserID))
		b.finishAlbum(ctx, batch)
	}
	select {
	case b.jobs <- job:
	case <-b.done:
		b.logger.Warn("album finished after shutdown", "group_id", batch.GroupID)
	}
}

func (b *Bot) withRequestLogger(ctx context.Context, u Update) context.Context {
	reqID, err := id.Generate(id.PrefixUpdate)
	if err != nil {
		reqID = "upd-unknown"
	}
	l := b.logger.With("req_id", reqID, "update_id", u.ID)
	switch {
	case u.Message != nil:
		l = l.With("user_id", u.Message.UserID, "chat_id", u.Message.ChatID)
	case u.Callback != nil:
		l = l.With("user_id", u.Callback.UserID, "chat_id", u.Callback.ChatID)
	}
	return logger.NewContext(ctx, l)
}

func (b *Bot) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, b.logger)
}

// reply sends a text message and logs delivery failures.
func (b *Bot) reply(ctx context.Context, chatID int64, text string, markup Markup) {
	if _, err := b.tx.SendText(ctx, chatID, text, markup); err != nil {
		b.log(ctx).Warn("send message failed", "error", err)
	}
}

// fail reports an unexpected error to the user. Known lookup failures get
// their own message.
func (b *Bot) fail(ctx context.Context, chatID int64, err error) {
	if errors.Is(err, service.ErrEntryNotFound) || errors.Is(err, service.ErrNotOwner) || errors.Is(err, service.ErrTagNotFound) {
		b.reply(ctx, chatID, textEntryNotFound, mainKeyboard())
		return
	}
	b.log(ctx).Error("request failed", "error", err)
	b.reply(ctx, chatID, textFailure, mainKeyboard())
}
