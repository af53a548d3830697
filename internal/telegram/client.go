// Package telegram connects the bot to the Telegram Bot API: outbound calls,
// update conversion, long polling, and webhook registration.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/smartspb/mediabot/internal/bot"
	"github.com/smartspb/mediabot/internal/domain"
	"github.com/smartspb/mediabot/internal/ratelimit"
)

// maxRetryAfter caps how long a single call waits after a flood-control reply.
const maxRetryAfter = 30 * time.Second

// API is the subset of *tgbotapi.BotAPI the client uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Client implements bot.Transport. Outbound calls are paced per chat.
type Client struct {
	api     API
	limiter *ratelimit.KeyedRateLimiter[int64]
	logger  *slog.Logger
}

var _ bot.Transport = (*Client)(nil)

// NewClient creates a client. A nil limiter disables pacing.
func NewClient(api API, limiter *ratelimit.KeyedRateLimiter[int64], logger *slog.Logger) *Client {
	return &Client{api: api, limiter: limiter, logger: logger}
}

// SendText sends an HTML message.
func (c *Client) SendText(ctx context.Context, chatID int64, text string, markup bot.Markup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = replyMarkup(markup)
	return c.send(ctx, chatID, "send message", msg)
}

// SendPhoto sends a photo by file id.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, fileID, caption string, markup bot.Markup) (int, error) {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = replyMarkup(markup)
	return c.send(ctx, chatID, "send photo", msg)
}

// SendVideo sends a video by file id.
func (c *Client) SendVideo(ctx context.Context, chatID int64, fileID, caption string, markup bot.Markup) (int, error) {
	msg := tgbotapi.NewVideo(chatID, tgbotapi.FileID(fileID))
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = replyMarkup(markup)
	return c.send(ctx, chatID, "send video", msg)
}

// EditText replaces the text and buttons of a message.
func (c *Client) EditText(ctx context.Context, chatID int64, messageID int, text string, markup *bot.InlineKeyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = inlineMarkup(markup)
	return c.edit(ctx, chatID, "edit text", edit)
}

// EditCaption replaces the caption and buttons of a media message.
func (c *Client) EditCaption(ctx context.Context, chatID int64, messageID int, caption string, markup *bot.InlineKeyboard) error {
	edit := tgbotapi.NewEditMessageCaption(chatID, messageID, caption)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = inlineMarkup(markup)
	return c.edit(ctx, chatID, "edit caption", edit)
}

// EditMedia swaps the photo or video of a message.
func (c *Client) EditMedia(ctx context.Context, chatID int64, messageID int, media domain.Media, caption string, markup *bot.InlineKeyboard) error {
	edit := tgbotapi.EditMessageMediaConfig{
		BaseEdit: tgbotapi.BaseEdit{
			ChatID:      chatID,
			MessageID:   messageID,
			ReplyMarkup: inlineMarkup(markup),
		},
		Media: inputMedia(media, caption),
	}
	return c.edit(ctx, chatID, "edit media", edit)
}

// Delete removes a message.
func (c *Client) Delete(ctx context.Context, chatID int64, messageID int) error {
	return c.edit(ctx, chatID, "delete message", tgbotapi.NewDeleteMessage(chatID, messageID))
}

// AnswerCallback acknowledges a button press, optionally with a toast.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	err := c.do(ctx, func() error {
		_, err := c.api.Request(tgbotapi.NewCallback(callbackID, text))
		return err
	})
	if err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, chatID int64, op string, msg tgbotapi.Chattable) (int, error) {
	if err := c.wait(ctx, chatID); err != nil {
		return 0, err
	}

	var sent tgbotapi.Message
	if err := c.do(ctx, func() error {
		var err error
		sent, err = c.api.Send(msg)
		return err
	}); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sent.MessageID, nil
}

// edit issues a call whose result is a bool or an edited message. An edit
// that changes nothing counts as success.
func (c *Client) edit(ctx context.Context, chatID int64, op string, req tgbotapi.Chattable) error {
	if err := c.wait(ctx, chatID); err != nil {
		return err
	}

	err := c.do(ctx, func() error {
		_, err := c.api.Request(req)
		return err
	})
	if err != nil && !IsNotModified(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) wait(ctx context.Context, chatID int64) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx, chatID); err != nil {
		return fmt.Errorf("wait for send slot: %w", err)
	}
	return nil
}

// do runs call and retries once when Telegram asks to slow down.
func (c *Client) do(ctx context.Context, call func() error) error {
	err := call()
	delay, ok := retryAfter(err)
	if !ok {
		return err
	}

	c.logger.Warn("flood control, retrying", "retry_after", delay)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
	}
	return call()
}

func retryAfter(err error) (time.Duration, bool) {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) || apiErr.RetryAfter <= 0 {
		return 0, false
	}
	return min(time.Duration(apiErr.RetryAfter)*time.Second, maxRetryAfter), true
}

// IsNotModified reports whether err is Telegram refusing an edit that changes nothing.
func IsNotModified(err error) bool {
	var apiErr *tgbotapi.Error
	return errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "message is not modified")
}

func replyMarkup(m bot.Markup) any {
	switch kb := m.(type) {
	case *bot.ReplyKeyboard:
		if kb == nil {
			return nil
		}
		rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Rows))
		for _, r := range kb.Rows {
			row := make([]tgbotapi.KeyboardButton, 0, len(r))
			for _, label := range r {
				row = append(row, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, row)
		}
		return tgbotapi.ReplyKeyboardMarkup{Keyboard: rows, ResizeKeyboard: true}
	case *bot.InlineKeyboard:
		if kb == nil {
			return nil
		}
		return *inlineMarkup(kb)
	default:
		return nil
	}
}

func inlineMarkup(kb *bot.InlineKeyboard) *tgbotapi.InlineKeyboardMarkup {
	if kb == nil {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
	for _, r := range kb.Rows {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, row)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func inputMedia(m domain.Media, caption string) any {
	if m.Kind == domain.MediaVideo {
		v := tgbotapi.NewInputMediaVideo(tgbotapi.FileID(m.FileID))
		v.Caption = caption
		v.ParseMode = tgbotapi.ModeHTML
		return v
	}
	p := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(m.FileID))
	p.Caption = caption
	p.ParseMode = tgbotapi.ModeHTML
	return p
}
