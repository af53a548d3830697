package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/smartspb/mediabot/internal/bot"
)

const (
	minBackoff = time.Second
	maxBackoff = time.Minute
)

// UpdateSource fetches updates by long polling.
type UpdateSource interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// Poller delivers updates fetched with getUpdates.
type Poller struct {
	api     UpdateSource
	timeout time.Duration
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) bool
}

// NewPoller creates a long-polling update source.
func NewPoller(api UpdateSource, timeout time.Duration, logger *slog.Logger) *Poller {
	return &Poller{api: api, timeout: timeout, logger: logger, sleep: sleepCtx}
}

// Run polls until ctx is done and sends converted updates to out. Fetch
// errors are retried with exponential backoff. A fetch in flight when ctx is
// cancelled finishes within one poll timeout.
func (p *Poller) Run(ctx context.Context, out chan<- bot.Update) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(p.timeout / time.Second)
	cfg.AllowedUpdates = AllowedUpdates

	backoff := minBackoff
	p.logger.Info("long polling started", "timeout", p.timeout)

	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := p.api.GetUpdates(cfg)
		if err != nil {
			p.logger.Warn("get updates failed", "error", err, "retry_in", backoff)
			if !p.sleep(ctx, backoff) {
				return nil
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = minBackoff

		for _, u := range updates {
			cfg.Offset = u.UpdateID + 1

			converted, ok := ConvertUpdate(u)
			if !ok {
				p.logger.Debug("update ignored", "update_id", u.UpdateID)
				continue
			}
			select {
			case out <- converted:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Requester issues Bot API calls without a message result.
type Requester interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SetWebhook points Telegram at url.
func SetWebhook(api Requester, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("parse webhook url: %w", err)
	}
	wh.AllowedUpdates = AllowedUpdates
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook switches the bot back to getUpdates. Pending updates are kept.
func DeleteWebhook(api Requester) error {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}
