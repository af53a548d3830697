package providers

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/do/v2"

	"github.com/smartspb/mediabot/internal/bot"
	"github.com/smartspb/mediabot/internal/config"
	"github.com/smartspb/mediabot/internal/logger"
	"github.com/smartspb/mediabot/internal/ratelimit"
	"github.com/smartspb/mediabot/internal/service"
	"github.com/smartspb/mediabot/internal/session"
	"github.com/smartspb/mediabot/internal/telegram"
	"github.com/smartspb/mediabot/internal/validation"
)

// updateQueueSize bounds updates waiting for the bot loop.
const updateQueueSize = 100

// ProvideTelegramAPI provides the Bot API client. It calls getMe to verify the token.
func ProvideTelegramAPI(i do.Injector) (*tgbotapi.BotAPI, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	api.Debug = cfg.Logger.Level == "debug"

	log.Info("Telegram bot authorized", "username", api.Self.UserName, "bot_id", api.Self.ID)
	return api, nil
}

// SendLimiterHandle paces outbound calls per chat.
type SendLimiterHandle struct {
	*ratelimit.KeyedRateLimiter[int64]
}

// Shutdown implements do.Shutdowner.
func (h *SendLimiterHandle) Shutdown() {
	h.Stop()
}

// ProvideSendLimiter provides the outbound rate limiter.
func ProvideSendLimiter(i do.Injector) (*SendLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	limiter := ratelimit.New[int64](cfg.Telegram.SendRate, cfg.Telegram.SendBurst, 0)
	return &SendLimiterHandle{KeyedRateLimiter: limiter}, nil
}

// ProvideTransport provides the Telegram transport used by the bot.
func ProvideTransport(i do.Injector) (*telegram.Client, error) {
	api := do.MustInvoke[*tgbotapi.BotAPI](i)
	limiter := do.MustInvoke[*SendLimiterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return telegram.NewClient(api, limiter.KeyedRateLimiter, log.Logger), nil
}

// ProvideBot provides the update handler.
func ProvideBot(i do.Injector) (*bot.Bot, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return bot.New(bot.Deps{
		Transport:     do.MustInvoke[*telegram.Client](i),
		Archive:       do.MustInvoke[*service.ArchiveService](i),
		Navigator:     do.MustInvoke[*service.Navigator](i),
		Sessions:      do.MustInvoke[*session.Store](i),
		Validator:     do.MustInvoke[*validation.Validator](i),
		Logger:        log.Logger,
		Location:      cfg.App.Location,
		AlbumDebounce: cfg.Album.Debounce,
	}), nil
}

// UpdateQueue carries updates from the transport to the bot loop.
type UpdateQueue chan bot.Update

// ProvideUpdateQueue provides the shared update channel.
func ProvideUpdateQueue(i do.Injector) (UpdateQueue, error) {
	return make(UpdateQueue, updateQueueSize), nil
}

// BotRunnerHandle runs the bot loop in the background.
type BotRunnerHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.ShutdownerWithError. Albums still buffering are dropped.
func (h *BotRunnerHandle) Shutdown() error {
	h.cancel()
	select {
	case <-h.done:
		return nil
	case <-time.After(shutdownTimeout):
		return fmt.Errorf("bot loop did not stop within %s", shutdownTimeout)
	}
}

// ProvideBotRunner starts the bot loop.
func ProvideBotRunner(i do.Injector) (*BotRunnerHandle, error) {
	b := do.MustInvoke[*bot.Bot](i)
	updates := do.MustInvoke[UpdateQueue](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := b.Run(ctx, updates); err != nil {
			log.Error("Bot loop error", "error", err)
		}
	}()

	return &BotRunnerHandle{cancel: cancel, done: done}, nil
}
